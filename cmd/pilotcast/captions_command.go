package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pilotcast/internal/config"
	"pilotcast/internal/workflow"
)

func newCaptionsCommand(ctx *commandContext) *cobra.Command {
	var specPath string
	var outDir string

	cmd := &cobra.Command{
		Use:   "captions",
		Short: "Render WebVTT caption tracks only",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			target := strings.TrimSpace(outDir)
			if target != "" {
				if target, err = config.ExpandPath(target); err != nil {
					return fmt.Errorf("resolve out dir: %w", err)
				}
			}

			paths, err := workflow.NewBuilder(cfg, logger).Captions(cmd.Context(), specPath, target)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, path := range paths {
				fmt.Fprintln(out, path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&specPath, "spec", "s", "", "Path to the show script JSON")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Directory for the .vtt files (default: <show_dir>/captions)")
	_ = cmd.MarkFlagRequired("spec")
	return cmd
}
