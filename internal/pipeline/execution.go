package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"subburn/internal/assembly"
	"subburn/internal/history"
	"subburn/internal/language"
	"subburn/internal/logging"
	"subburn/internal/media/audio"
	"subburn/internal/media/ffprobe"
	"subburn/internal/overlay"
	"subburn/internal/preflight"
	"subburn/internal/render"
	"subburn/internal/services"
	"subburn/internal/services/llm"
	"subburn/internal/services/whisper"
	"subburn/internal/transcript"
)

const filterScriptName = "filter_graph.txt"

// execution carries the state of a single run between steps.
type execution struct {
	*Runner
	logger  *slog.Logger
	summary *Summary

	plan      plan
	lock      *flock.Flock
	locked    bool
	tempAudio string
	workDir   string

	video     ffprobe.Stream
	frameRate string
	probe     ffprobe.Result
	segments  []transcript.Segment
	clips     []overlay.Clip
	script    string
}

type step struct {
	state State
	fn    func(context.Context) error
}

func (e *execution) execute(ctx context.Context, req Request) {
	steps := []step{
		{StateInit, func(context.Context) error { return e.setup(req) }},
		{StatePreflight, e.preflight},
		{StateAudioExtraction, e.extractAudio},
		{StateTranscription, e.transcribe},
		{StateOverlayGeneration, e.generateOverlays},
		{StateComposite, e.composite},
		{StateEncode, e.encode},
	}
	for _, s := range steps {
		e.summary.State = s.state
		stageCtx := services.WithStage(ctx, string(s.state))
		logging.WithContext(stageCtx, e.logger).Debug("stage started", logging.String(logging.FieldEventType, "stage_start"))
		err := s.fn(stageCtx)
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			e.fail(ctx, s.state, err)
			return
		}
	}
}

func (e *execution) setup(req Request) error {
	p, err := e.resolve(req)
	if err != nil {
		return err
	}
	e.plan = p
	e.summary.VideoPath = p.video
	e.summary.Model = p.model
	e.summary.Target = p.target
	e.tempAudio = e.cfg.TempAudioPath()
	e.workDir = filepath.Join(e.cfg.Paths.WorkDir, "overlays-"+e.summary.RunID)
	return nil
}

// preflight has no side effects: it only checks dependencies and reads the
// source container.
func (e *execution) preflight(ctx context.Context) error {
	if err := preflight.CheckDependencies(e.cfg, e.plan.model); err != nil {
		return err
	}

	prober := e.prober
	if prober == nil {
		prober = ProbeFunc(func(ctx context.Context, path string) (ffprobe.Result, error) {
			return ffprobe.Inspect(ctx, e.cfg.Tools.FFprobe, path)
		})
	}
	var probe ffprobe.Result
	err := e.bounded(ctx, func(ctx context.Context) error {
		var err error
		probe, err = prober.Probe(ctx, e.plan.video)
		return err
	})
	if err != nil {
		return services.Wrap(services.ErrExternalTool, string(StatePreflight), "ffprobe", "inspect source video", err)
	}
	video, ok := probe.PrimaryVideo()
	if !ok || video.Width <= 0 {
		return services.Wrap(services.ErrValidation, string(StatePreflight), "ffprobe", fmt.Sprintf("%s has no video stream", e.plan.video), nil)
	}
	e.probe = probe
	e.video = video
	if rate, _, ok := video.FrameRate(); ok {
		e.frameRate = rate
	} else {
		logging.WarnWithContext(logging.WithContext(ctx, e.logger), "source frame rate unknown", "frame_rate_unknown",
			logging.String(logging.FieldErrorHint, "the encoder default frame rate will be used"),
		)
	}
	logging.WithContext(ctx, e.logger).Info("Source inspected",
		logging.Int("width", video.Width),
		logging.Int("height", video.Height),
		logging.String("frame_rate", e.frameRate),
		logging.Float64("duration_seconds", probe.DurationSeconds()),
	)
	return nil
}

// acquireWorkspace takes the run lock guarding the fixed temp audio path and
// creates the run's overlay directory.
func (e *execution) acquireWorkspace() error {
	if err := e.cfg.EnsureDirectories(); err != nil {
		return services.Wrap(services.ErrConfiguration, string(StateAudioExtraction), "workspace", "create directories", err)
	}
	e.lock = flock.New(e.cfg.LockPath())
	ok, err := e.lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrConfiguration, string(StateAudioExtraction), "workspace", "acquire run lock", err)
	}
	if !ok {
		return services.Wrap(services.ErrValidation, string(StateAudioExtraction), "workspace",
			fmt.Sprintf("another run holds %s", e.cfg.LockPath()), nil)
	}
	e.locked = true
	if err := os.MkdirAll(e.workDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, string(StateAudioExtraction), "workspace", "create overlay directory", err)
	}
	return nil
}

func (e *execution) extractAudio(ctx context.Context) error {
	if err := e.acquireWorkspace(); err != nil {
		return err
	}
	logger := logging.WithContext(ctx, e.logger)
	if !e.probe.HasAudio() {
		return &services.AudioExtractionError{Source: e.plan.video, Err: errors.New("source has no audio stream")}
	}

	extractor := e.extractor
	if extractor == nil {
		extractor = ExtractFunc(func(ctx context.Context, source, dest string) (audio.Info, error) {
			return audio.Extract(ctx, e.run, e.cfg.Tools.FFmpeg, source, dest)
		})
	}
	logger.Info("Extracting audio", logging.String("source", e.plan.video))
	var info audio.Info
	err := e.bounded(ctx, func(ctx context.Context) error {
		var err error
		info, err = extractor.Extract(ctx, e.plan.video, e.tempAudio)
		return err
	})
	if err != nil {
		var extractErr *services.AudioExtractionError
		if errors.As(err, &extractErr) {
			return err
		}
		return &services.AudioExtractionError{Source: e.plan.video, Err: err}
	}
	logger.Info("Audio extracted successfully",
		logging.String("path", e.tempAudio),
		logging.Int("sample_rate", info.SampleRate),
		logging.Int("channels", info.Channels),
	)
	return nil
}

func (e *execution) transcribe(ctx context.Context) error {
	logger := logging.WithContext(ctx, e.logger)
	device := whisper.ResolveDevice(e.plan.useGPU, e.lookPath)
	e.summary.Device = device
	logger.Info("Using device", logging.String("device", device))
	logger.Info("Loading model", logging.String("model", e.plan.model))

	transcriber := e.transcriber
	if transcriber == nil {
		transcriber = whisper.NewService(whisper.Config{
			Binary:    e.cfg.Tools.Whisper,
			Model:     e.plan.model,
			ModelsDir: e.cfg.Paths.ModelsDir,
			Device:    device,
			OutputDir: e.workDir,
		}).WithCommandRunner(e.run)
	}

	logger.Info("Transcribing audio")
	start := time.Now()
	var segments []transcript.Segment
	err := e.bounded(ctx, func(ctx context.Context) error {
		var err error
		segments, err = transcriber.Transcribe(ctx, e.tempAudio, e.plan.source)
		return err
	})
	if err != nil {
		return err
	}
	if len(segments) == 0 {
		return &services.EmptyTranscriptionError{Audio: e.tempAudio}
	}
	e.segments = segments
	e.summary.Segments = len(segments)
	logger.Info("Transcription complete",
		logging.Int("segments", len(segments)),
		logging.Elapsed(start),
	)
	return nil
}

func (e *execution) generateOverlays(ctx context.Context) error {
	logger := logging.WithContext(ctx, e.logger)

	var rasterizer overlay.Rasterizer = e.renderer
	if rasterizer == nil {
		rasterizer = render.NewRenderer(e.cfg.Tools.Magick).WithCommandRunner(e.run)
	}
	if timeout := e.toolTimeout(); timeout > 0 {
		rasterizer = boundedRasterizer{next: rasterizer, timeout: timeout}
	}

	opts := []overlay.Option{overlay.WithLogger(logger)}
	if e.plan.target != "" {
		opts = append(opts, overlay.WithTranslator(e.translatorFor(e.plan.target), e.plan.target))
		logger.Info("Translating subtitles", logging.String("target", language.DisplayName(e.plan.target)))
	}
	builder := overlay.NewBuilder(e.plan.style, e.video.Width, rasterizer, e.workDir, opts...)

	workers := overlay.WorkerCount(len(e.segments), e.cfg.Pipeline.MaxWorkers)
	logger.Info("Generating subtitles", logging.Int("workers", workers), logging.Int("segments", len(e.segments)))
	start := time.Now()
	clips, report, err := overlay.BuildAll(ctx, builder, e.segments, e.cfg.Pipeline.MaxWorkers)
	e.summary.Workers = report.Workers
	e.summary.Overlays = report.Built
	for reason, n := range report.Dropped {
		e.summary.Dropped[reason] = n
	}
	if err != nil {
		return err
	}
	e.clips = clips
	logger.Info("Subtitles generated",
		logging.Int("overlays", report.Built),
		logging.Int("dropped", report.DroppedCount()),
		logging.Elapsed(start),
	)
	return nil
}

func (e *execution) translatorFor(target string) overlay.Translator {
	if e.translator != nil {
		return e.translator
	}
	tr := e.cfg.Translation
	client := llm.NewClient(llm.Config{
		APIKey:         tr.APIKey,
		BaseURL:        tr.BaseURL,
		Model:          tr.Model,
		Referer:        tr.Referer,
		Title:          tr.Title,
		TimeoutSeconds: tr.TimeoutSeconds,
	})
	name := language.DisplayName(target)
	return overlay.TranslatorFunc(func(ctx context.Context, text string) (string, error) {
		return client.Translate(ctx, text, target, name)
	})
}

func (e *execution) composite(ctx context.Context) error {
	e.script = filepath.Join(e.workDir, filterScriptName)
	if err := assembly.WriteFilterScript(e.script, e.clips); err != nil {
		return services.Wrap(services.ErrConfiguration, string(StateComposite), "filter graph", "write filter script", err)
	}
	logging.WithContext(ctx, e.logger).Info("Compositing video", logging.Int("overlays", len(e.clips)))
	return nil
}

func (e *execution) encode(ctx context.Context) error {
	logger := logging.WithContext(ctx, e.logger)
	encoder := e.encoder
	if encoder == nil {
		encoder = assembly.NewEncoder(e.cfg.Tools.FFmpeg, e.cfg.Encode.VideoCodec, e.cfg.Encode.Preset).WithCommandRunner(e.run)
	}
	job := assembly.Job{
		Source:    e.plan.video,
		Clips:     e.clips,
		Script:    e.script,
		Output:    e.plan.output,
		FrameRate: e.frameRate,
	}
	logger.Info("Encoding video", logging.String("output", job.Output))
	start := time.Now()
	if err := e.bounded(ctx, func(ctx context.Context) error { return encoder.Encode(ctx, job) }); err != nil {
		return err
	}
	e.summary.OutputPath = job.Output
	logger.Info("Video saved",
		logging.String("path", job.Output),
		logging.Elapsed(start),
	)
	return nil
}

// fail records err as the run outcome. Only the first failure is kept.
func (e *execution) fail(ctx context.Context, state State, err error) {
	if e.summary.Err != nil || err == nil {
		return
	}
	e.summary.Err = err
	e.summary.FailedAt = state
	logger := logging.WithContext(services.WithStage(ctx, string(state)), e.logger)
	logging.ErrorWithContext(logger, "Run failed", "run_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, errorHint(err)),
	)
}

// finish runs the cleanup step, settles the terminal state and records the
// run. It never fails.
func (e *execution) finish(ctx context.Context) {
	e.summary.State = StateCleanup
	cleanupCtx := services.WithStage(ctx, string(StateCleanup))
	e.cleanup(cleanupCtx)

	e.summary.FinishedAt = e.now()
	if e.summary.Err != nil {
		e.summary.State = StateFailed
	} else {
		e.summary.State = StateDone
	}
	logging.WithContext(ctx, e.logger).Info("Total time",
		logging.String("state", string(e.summary.State)),
		logging.Duration("elapsed", e.summary.Duration().Round(time.Millisecond)),
	)
	e.record(ctx)
}

// cleanup removes the temp audio and the overlay directory. The temp audio
// path is shared by all runs, so it is only touched while holding the lock.
func (e *execution) cleanup(ctx context.Context) {
	logger := logging.WithContext(ctx, e.logger)
	if !e.locked {
		e.claimStaleAudio(logger)
	}
	if !e.locked {
		logger.Debug("cleanup complete", logging.String("lock", "not held"))
		return
	}
	if err := os.Remove(e.tempAudio); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.WarnWithContext(logger, "failed to remove temp audio", "cleanup_failed",
			logging.String("path", e.tempAudio),
			logging.Error(err),
			logging.String(logging.FieldImpact, "stale audio remains in the work directory"),
		)
	}
	if e.workDir != "" {
		if err := os.RemoveAll(e.workDir); err != nil {
			logging.WarnWithContext(logger, "failed to remove overlay directory", "cleanup_failed",
				logging.String("path", e.workDir),
				logging.Error(err),
				logging.String(logging.FieldImpact, "overlay images remain in the work directory"),
			)
		}
	}
	if err := e.lock.Unlock(); err != nil {
		logger.Warn("failed to release run lock", logging.Error(err))
	}
	e.locked = false
	logger.Debug("cleanup complete")
}

// claimStaleAudio takes the run lock when a run failed before acquiring it
// but temp audio from an earlier crashed run is present. A lock held by a
// live run leaves its audio alone.
func (e *execution) claimStaleAudio(logger *slog.Logger) {
	if e.cfg == nil || e.tempAudio == "" {
		return
	}
	if _, err := os.Stat(e.tempAudio); err != nil {
		return
	}
	lock := flock.New(e.cfg.LockPath())
	if ok, err := lock.TryLock(); err != nil || !ok {
		logger.Debug("temp audio belongs to another run", logging.String("path", e.tempAudio))
		return
	}
	e.lock, e.locked = lock, true
}

func (e *execution) record(ctx context.Context) {
	if e.cfg == nil {
		return
	}
	recorder := e.history
	if recorder == nil {
		if !e.cfg.History.Enabled {
			return
		}
		store, err := history.Open(e.cfg.History.Path)
		if err != nil {
			logging.WarnWithContext(e.logger, "history unavailable", "history_open_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "run not recorded"),
			)
			return
		}
		defer store.Close()
		recorder = store
	}

	s := e.summary
	run := history.Run{
		ID:             s.RunID,
		VideoPath:      s.VideoPath,
		OutputPath:     s.OutputPath,
		Status:         history.StatusSucceeded,
		State:          string(s.State),
		TargetLanguage: s.Target,
		Model:          s.Model,
		Segments:       s.Segments,
		Overlays:       s.Overlays,
		Dropped:        s.DroppedCount(),
		StartedAt:      s.StartedAt,
		FinishedAt:     s.FinishedAt,
	}
	if s.Err != nil {
		run.Status = history.StatusFailed
		run.State = string(s.FailedAt)
		run.Error = s.Err.Error()
	}
	// A canceled run context must not prevent the ledger write.
	if err := recorder.Record(context.WithoutCancel(ctx), run); err != nil {
		logging.WarnWithContext(e.logger, "failed to record run", "history_record_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run missing from history"),
		)
	}
}

func (e *execution) toolTimeout() time.Duration {
	if e.cfg.Pipeline.ToolTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(e.cfg.Pipeline.ToolTimeoutSeconds) * time.Second
}

// bounded runs fn under the configured tool timeout, if any.
func (e *execution) bounded(ctx context.Context, fn func(context.Context) error) error {
	timeout := e.toolTimeout()
	if timeout <= 0 {
		return fn(ctx)
	}
	toolCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	err := fn(toolCtx)
	if err != nil && errors.Is(toolCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return services.Wrap(services.ErrTimeout, "", "external tool", fmt.Sprintf("exceeded %s", timeout), err)
	}
	return err
}

type boundedRasterizer struct {
	next    overlay.Rasterizer
	timeout time.Duration
}

func (b boundedRasterizer) Render(ctx context.Context, spec render.Spec, dest string) (render.Overlay, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	return b.next.Render(ctx, spec, dest)
}

func errorHint(err error) string {
	var missing *services.DependencyMissingError
	switch {
	case errors.As(err, &missing):
		return "install the missing dependency or fix its path in the config, then run 'subburn check'"
	case errors.Is(err, services.ErrTimeout):
		return "raise pipeline.tool_timeout_seconds or set it to 0"
	case errors.Is(err, context.Canceled):
		return "run was interrupted"
	case errors.Is(err, services.ErrConfiguration):
		return "review the configuration with 'subburn config show'"
	case errors.Is(err, services.ErrExternalTool):
		return "see the tool output in the error for details"
	default:
		return "check logs for details"
	}
}
