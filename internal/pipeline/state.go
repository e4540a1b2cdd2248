package pipeline

import (
	"time"

	"subburn/internal/overlay"
)

// State names one step of a run.
type State string

const (
	StateInit              State = "init"
	StatePreflight         State = "preflight_checks"
	StateAudioExtraction   State = "audio_extraction"
	StateTranscription     State = "transcription"
	StateOverlayGeneration State = "overlay_generation"
	StateComposite         State = "composite"
	StateEncode            State = "encode"
	StateCleanup           State = "cleanup"
	StateDone              State = "done"
	StateFailed            State = "failed"
)

// Terminal reports whether a run in state s has finished.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Summary describes a finished run. Err is nil exactly when State is
// StateDone.
type Summary struct {
	RunID string
	State State
	// FailedAt is the step that produced Err.
	FailedAt   State
	Err        error
	VideoPath  string
	OutputPath string
	Model      string
	Device     string
	Target     string
	Segments   int
	Overlays   int
	Workers    int
	Dropped    map[overlay.DropReason]int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Succeeded reports whether the run produced an output video.
func (s Summary) Succeeded() bool {
	return s.State == StateDone && s.Err == nil
}

// Duration returns the wall-clock time of the run.
func (s Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// DroppedCount sums every drop reason.
func (s Summary) DroppedCount() int {
	total := 0
	for _, n := range s.Dropped {
		total += n
	}
	return total
}
