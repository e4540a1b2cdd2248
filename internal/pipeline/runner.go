package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/google/uuid"

	"subburn/internal/assembly"
	"subburn/internal/config"
	"subburn/internal/history"
	"subburn/internal/logging"
	"subburn/internal/media/audio"
	"subburn/internal/media/ffprobe"
	"subburn/internal/overlay"
	"subburn/internal/services"
	"subburn/internal/transcript"
)

// Prober inspects the source video.
type Prober interface {
	Probe(ctx context.Context, path string) (ffprobe.Result, error)
}

// ProbeFunc adapts a function to Prober.
type ProbeFunc func(ctx context.Context, path string) (ffprobe.Result, error)

func (f ProbeFunc) Probe(ctx context.Context, path string) (ffprobe.Result, error) {
	return f(ctx, path)
}

// AudioExtractor writes the recognition audio track of source to dest.
type AudioExtractor interface {
	Extract(ctx context.Context, source, dest string) (audio.Info, error)
}

// ExtractFunc adapts a function to AudioExtractor.
type ExtractFunc func(ctx context.Context, source, dest string) (audio.Info, error)

func (f ExtractFunc) Extract(ctx context.Context, source, dest string) (audio.Info, error) {
	return f(ctx, source, dest)
}

// Transcriber turns an audio file into timed segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) ([]transcript.Segment, error)
}

// Encoder composites the overlays onto the source and writes the output.
type Encoder interface {
	Encode(ctx context.Context, job assembly.Job) error
}

// HistoryRecorder persists finished runs.
type HistoryRecorder interface {
	Record(ctx context.Context, run history.Run) error
}

// Runner executes pipeline runs. Collaborators left unset are built from the
// configuration for every run.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	run      services.CommandRunner
	lookPath func(string) (string, error)

	prober      Prober
	extractor   AudioExtractor
	transcriber Transcriber
	translator  overlay.Translator
	renderer    overlay.Rasterizer
	encoder     Encoder
	history     HistoryRecorder

	now   func() time.Time
	newID func() string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithCommandRunner routes every external tool invocation through run.
func WithCommandRunner(run services.CommandRunner) Option {
	return func(r *Runner) {
		if run != nil {
			r.run = run
		}
	}
}

// WithLookPath overrides the PATH lookup used for GPU detection.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(r *Runner) {
		if fn != nil {
			r.lookPath = fn
		}
	}
}

// WithProber overrides source inspection.
func WithProber(p Prober) Option {
	return func(r *Runner) { r.prober = p }
}

// WithAudioExtractor overrides audio extraction.
func WithAudioExtractor(e AudioExtractor) Option {
	return func(r *Runner) { r.extractor = e }
}

// WithTranscriber overrides speech recognition.
func WithTranscriber(t Transcriber) Option {
	return func(r *Runner) { r.transcriber = t }
}

// WithTranslator overrides the translation client.
func WithTranslator(t overlay.Translator) Option {
	return func(r *Runner) { r.translator = t }
}

// WithRenderer overrides the overlay rasterizer.
func WithRenderer(rr overlay.Rasterizer) Option {
	return func(r *Runner) { r.renderer = rr }
}

// WithEncoder overrides the final encode.
func WithEncoder(e Encoder) Option {
	return func(r *Runner) { r.encoder = e }
}

// WithHistory records runs into h instead of opening history.path.
func WithHistory(h HistoryRecorder) Option {
	return func(r *Runner) { r.history = h }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithIDGenerator overrides run ID generation.
func WithIDGenerator(fn func() string) Option {
	return func(r *Runner) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// NewRunner constructs a runner for cfg.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Runner{
		cfg:      cfg,
		logger:   logger,
		run:      services.RunCommand,
		lookPath: exec.LookPath,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one request to completion. Every failure is logged and
// reported in the returned Summary; Run itself never panics. Temporary files
// are removed whatever the outcome.
func (r *Runner) Run(ctx context.Context, req Request) (summary Summary) {
	summary = Summary{
		RunID:     r.newID(),
		State:     StateInit,
		VideoPath: req.VideoPath,
		Dropped:   make(map[overlay.DropReason]int),
		StartedAt: r.now(),
	}
	ctx = services.WithRunID(ctx, summary.RunID)

	logger := r.logger
	if req.Log != nil {
		logger = logging.TeeLogger(logger, logging.NewCallbackHandler(req.Log, slog.LevelInfo))
	}
	logger = logging.NewComponentLogger(logger, "pipeline")

	e := &execution{Runner: r, logger: logger, summary: &summary}
	defer func() {
		if rec := recover(); rec != nil {
			e.fail(ctx, summary.State, fmt.Errorf("run panicked: %v", rec))
		}
		e.finish(ctx)
	}()

	if r.cfg == nil {
		e.fail(ctx, StateInit, services.Wrap(services.ErrConfiguration, string(StateInit), "run", "config unavailable", nil))
		return summary
	}
	e.execute(ctx, req)
	return summary
}
