package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"pilotcast/internal/config"
	"pilotcast/internal/workflow"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var (
		specPath   string
		showDir    string
		withAudio  bool
		force      bool
		keepBackup bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile a script into script.json, captions, and optionally pilot.mp3",
		Long: `Compile a script into the show directory.

The stage timeline (script.json) and caption tracks are always written.
Pass --audio to synthesize the dialogue track; the published pilot.mp3 is
replaced only when the whole audio build succeeds.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if dir := strings.TrimSpace(showDir); dir != "" {
				expanded, err := config.ExpandPath(dir)
				if err != nil {
					return fmt.Errorf("resolve show dir: %w", err)
				}
				cfg.Paths.ShowDir = expanded
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			builder := workflow.NewBuilder(cfg, logger)
			report, err := builder.Build(cmd.Context(), workflow.Request{
				SpecPath:   specPath,
				Audio:      withAudio,
				Force:      force,
				KeepBackup: keepBackup,
			})
			if err != nil {
				return err
			}
			printBuildReport(cmd, cfg, report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&specPath, "spec", "s", "", "Path to the show script JSON")
	cmd.Flags().StringVar(&showDir, "show-dir", "", "Override paths.show_dir for this build")
	cmd.Flags().BoolVar(&withAudio, "audio", false, "Synthesize and publish the dialogue track")
	cmd.Flags().BoolVar(&force, "force", false, "Regenerate every clip instead of using the segment cache")
	cmd.Flags().BoolVar(&keepBackup, "keep-backup", false, "Keep the previous pilot.mp3 as a timestamped backup")
	_ = cmd.MarkFlagRequired("spec")
	return cmd
}

func printBuildReport(cmd *cobra.Command, cfg *config.Config, report workflow.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Stage script: %s (%d events)\n", report.ScriptPath, report.Events)
	fmt.Fprintf(out, "Captions:     %d tracks in %s\n", len(report.CaptionPaths), cfg.CaptionsDir())
	if report.Audio == nil {
		fmt.Fprintln(out, "Audio:        skipped (pass --audio to render pilot.mp3)")
		return
	}
	audio := report.Audio
	fmt.Fprintf(out, "Audio:        %s (%.2fs, %s)\n",
		audio.Publish.Path, audio.DurationSec, humanize.Bytes(uint64(audio.Publish.SizeBytes)))
	fmt.Fprintf(out, "Segments:     %d generated, %d from cache\n", audio.Generated, audio.Cached)
	if audio.Publish.BackupPath != "" {
		fmt.Fprintf(out, "Backup:       %s\n", audio.Publish.BackupPath)
	}
}
