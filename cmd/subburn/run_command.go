package main

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subburn/internal/config"
	"subburn/internal/logging"
	"subburn/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var req pipeline.Request

	cmd := &cobra.Command{
		Use:   "run <video>",
		Short: "Transcribe a video and burn the subtitles into a new file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if req.OutputFormat != "" && !slices.Contains(config.OutputFormats, strings.ToLower(req.OutputFormat)) {
				return fmt.Errorf("--format must be one of %s", strings.Join(config.OutputFormats, ", "))
			}

			logger, err := logging.New(logging.Options{
				Level:       cfg.Logging.Level,
				Format:      cfg.Logging.Format,
				OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, logging.LogFileName)},
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			out := cmd.OutOrStdout()
			req.VideoPath = args[0]
			req.Log = func(line string) { fmt.Fprintln(out, line) }

			summary := pipeline.NewRunner(cfg, logger).Run(cmd.Context(), req)
			if !summary.Succeeded() {
				return fmt.Errorf("run %s failed during %s: %w", summary.RunID, summary.FailedAt, summary.Err)
			}
			fmt.Fprintf(out, "Output: %s (%d overlays, %d dropped, %s)\n",
				summary.OutputPath, summary.Overlays, summary.DroppedCount(), summary.Duration().Round(time.Millisecond))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&req.OutputFormat, "format", "f", "", "Output container ("+strings.Join(config.OutputFormats, ", ")+")")
	flags.StringVarP(&req.TargetLanguage, "language", "l", "", "Translate subtitles into this language (code or name)")
	flags.StringVarP(&req.Model, "model", "m", "", "Whisper model ("+strings.Join(config.Models, ", ")+")")
	flags.StringVar(&req.TextColor, "text-color", "", "Subtitle text color")
	flags.StringVar(&req.OutlineColor, "outline-color", "", "Subtitle outline color")
	flags.BoolVar(&req.UseGPU, "gpu", false, "Use the GPU for transcription when available")
	return cmd
}
