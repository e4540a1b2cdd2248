package overlay

import (
	"context"
	"log/slog"
	"sync"

	"subburn/internal/logging"
	"subburn/internal/services"
	"subburn/internal/transcript"
)

// MaxWorkers caps overlay concurrency regardless of configuration.
const MaxWorkers = 8

// Report summarizes a BuildAll pass.
type Report struct {
	Total   int
	Built   int
	Workers int
	Dropped map[DropReason]int
}

// DroppedCount returns the number of segments that produced no clip.
func (r Report) DroppedCount() int {
	total := 0
	for _, n := range r.Dropped {
		total += n
	}
	return total
}

// WorkerCount returns min(segments, maxWorkers) with maxWorkers clamped to
// [1, MaxWorkers].
func WorkerCount(segments, maxWorkers int) int {
	if maxWorkers <= 0 || maxWorkers > MaxWorkers {
		maxWorkers = MaxWorkers
	}
	return min(segments, maxWorkers)
}

// BuildAll builds every segment on a bounded pool of workers. Clips are
// returned in completion order. Dropped segments are logged as warnings. It
// fails with *services.NoOverlaysProducedError when no clip was built, and
// with the context error if ctx ends first.
func BuildAll(ctx context.Context, builder *Builder, segments []transcript.Segment, maxWorkers int) ([]Clip, Report, error) {
	report := Report{
		Total:   len(segments),
		Workers: WorkerCount(len(segments), maxWorkers),
		Dropped: make(map[DropReason]int),
	}
	logger := builder.logger

	jobs := make(chan int)
	results := make(chan Result, report.Workers)

	var wg sync.WaitGroup
	for range report.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results <- builder.Build(ctx, idx, segments[idx])
			}
		}()
	}

	go func() {
		defer close(jobs)
		for idx := range segments {
			select {
			case jobs <- idx:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	clips := make([]Clip, 0, len(segments))
	for result := range results {
		switch {
		case result.Clip != nil:
			clips = append(clips, *result.Clip)
		case result.Drop != nil:
			report.Dropped[result.Drop.Reason]++
			logDrop(logger, segments[result.Index], result)
		}
	}
	report.Built = len(clips)

	if err := ctx.Err(); err != nil {
		return clips, report, err
	}
	if len(clips) == 0 {
		return nil, report, &services.NoOverlaysProducedError{Segments: report.Total, Dropped: report.DroppedCount()}
	}
	return clips, report, nil
}

func logDrop(logger *slog.Logger, seg transcript.Segment, result Result) {
	attrs := []logging.Attr{
		logging.Int("index", result.Index),
		logging.String("reason", string(result.Drop.Reason)),
		logging.Duration("start", seg.Start),
	}
	if result.Drop.Err != nil {
		attrs = append(attrs, logging.Error(result.Drop.Err))
	}
	switch result.Drop.Reason {
	case DropEmptyText:
		logger.Debug("segment has no text", logging.Args(attrs...)...)
		return
	case DropTranslationFailed:
		attrs = append(attrs, logging.String(logging.FieldErrorHint, "check translation API key and quota"))
	case DropRenderFailed:
		attrs = append(attrs, logging.String(logging.FieldErrorHint, "check that the configured font is installed"))
	}
	attrs = append(attrs, logging.String(logging.FieldImpact, "segment shown without subtitle"))
	logging.WarnWithContext(logger, "Subtitle dropped", "segment_dropped", attrs...)
}
