package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"subburn/internal/services"
	"subburn/internal/transcript"
)

const (
	CPUDevice  = "cpu"
	CUDADevice = "cuda"
	// GPUProbeCommand is looked up on PATH to decide whether CUDA is usable.
	GPUProbeCommand = "nvidia-smi"
	outputFormat    = "json"
	transcribeTask  = "transcribe"
)

// Config captures runtime settings for the whisper command line tool.
type Config struct {
	// Binary is the whisper executable.
	Binary string
	// Model names the checkpoint (tiny, base, small, medium, large).
	Model string
	// ModelsDir holds <model>.pt checkpoints.
	ModelsDir string
	// Device is "cuda" or "cpu"; see ResolveDevice.
	Device string
	// OutputDir receives the JSON transcript. Defaults to the audio file's directory.
	OutputDir string
}

// Service runs speech recognition through the whisper CLI.
type Service struct {
	cfg Config
	run services.CommandRunner
}

// NewService creates a whisper service with the given configuration.
func NewService(cfg Config) *Service {
	if cfg.Binary == "" {
		cfg.Binary = "whisper"
	}
	if cfg.Device == "" {
		cfg.Device = CPUDevice
	}
	return &Service{cfg: cfg, run: services.RunCommand}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner services.CommandRunner) *Service {
	if runner != nil {
		s.run = runner
	}
	return s
}

// Model returns the configured model name for logging.
func (s *Service) Model() string { return s.cfg.Model }

// Device returns the compute device passed to whisper.
func (s *Service) Device() string { return s.cfg.Device }

// ResolveDevice returns "cuda" only when a GPU was requested and the GPU probe
// command resolves; otherwise "cpu".
func ResolveDevice(useGPU bool, lookPath func(string) (string, error)) string {
	if !useGPU || lookPath == nil {
		return CPUDevice
	}
	if _, err := lookPath(GPUProbeCommand); err != nil {
		return CPUDevice
	}
	return CUDADevice
}

// Transcribe recognizes speech in audioPath spoken in language and returns
// the timed segments. It always requests same-language transcription.
func (s *Service) Transcribe(ctx context.Context, audioPath, language string) ([]transcript.Segment, error) {
	if strings.TrimSpace(audioPath) == "" {
		return nil, services.Wrap(services.ErrValidation, "transcription", "whisper", "audio path required", nil)
	}
	outputDir := s.cfg.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(audioPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("transcribe: ensure output dir: %w", err)
	}

	if err := s.run(ctx, s.cfg.Binary, s.buildArgs(audioPath, outputDir, language)...); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcription", "whisper", "recognition failed", err)
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	segments, err := LoadSegments(filepath.Join(outputDir, base+"."+outputFormat))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcription", "whisper", "read transcript", err)
	}
	return segments, nil
}

func (s *Service) buildArgs(audioPath, outputDir, language string) []string {
	args := []string{
		audioPath,
		"--model", s.cfg.Model,
		"--task", transcribeTask,
		"--output_format", outputFormat,
		"--output_dir", outputDir,
		"--device", s.cfg.Device,
		"--verbose", "False",
	}
	if s.cfg.ModelsDir != "" {
		args = append(args, "--model_dir", s.cfg.ModelsDir)
	}
	if language != "" {
		args = append(args, "--language", language)
	}
	// Half precision is unsupported on CPU and only produces a warning.
	if s.cfg.Device == CPUDevice {
		args = append(args, "--fp16", "False")
	}
	return args
}

type whisperPayload struct {
	Language string `json:"language"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// LoadSegments loads segments from a whisper JSON transcript. Text is kept as
// emitted apart from surrounding whitespace.
func LoadSegments(jsonPath string) ([]transcript.Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var payload whisperPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisper json: %w", err)
	}
	segments := make([]transcript.Segment, 0, len(payload.Segments))
	for _, seg := range payload.Segments {
		segments = append(segments, transcript.Segment{
			Start: transcript.Seconds(seg.Start),
			End:   transcript.Seconds(seg.End),
			Text:  strings.TrimSpace(seg.Text),
		})
	}
	return segments, nil
}
