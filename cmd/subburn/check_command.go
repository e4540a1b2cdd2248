package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"subburn/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify tools, model files and directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			failed := 0
			for _, result := range results {
				if !result.Passed {
					failed++
				}
				rows = append(rows, []string{result.Name, passFail(result.Passed, colorize), result.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows))
			if failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(results))
			}
			if len(results) == 0 {
				return errors.New("no checks ran")
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}
