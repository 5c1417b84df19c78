package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"pilotcast/internal/config"
	"pilotcast/internal/language"
	"pilotcast/internal/preflight"
	"pilotcast/internal/script"
	"pilotcast/internal/staging"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var specPath string
	var checkAPI bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configuration, tool, and credential readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			var speakers []string
			if strings.TrimSpace(specPath) != "" {
				spec, err := script.Load(specPath)
				if err != nil {
					return err
				}
				speakers = spec.Speakers()
			}

			var lines []string
			lines = append(lines, configStatusLines(ctx, colorize)...)
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Directories", colorize)...)
			lines = append(lines, directoryStatusLines(cfg, colorize)...)
			lines = append(lines, scratchStatusLine(cfg, colorize))
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			lines = append(lines, dependencyLines(preflight.CheckSystemDeps(cfg), colorize)...)
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Synthesis", colorize)...)
			lines = append(lines, synthesisStatusLines(cmd, cfg, speakers, checkAPI, colorize)...)
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Captions", colorize)...)
			lines = append(lines, captionStatusLines(cfg, colorize)...)

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&specPath, "spec", "s", "", "Check voices for the speakers in this script")
	cmd.Flags().BoolVar(&checkAPI, "check-api", false, "Verify the synthesis API key with a live request")
	return cmd
}

func configStatusLines(ctx *commandContext, colorize bool) []string {
	lines := renderSectionHeader("Configuration", colorize)
	if ctx.configSeen {
		return append(lines, renderStatusLine("Config file", statusOK, ctx.configPath, colorize))
	}
	return append(lines, renderStatusLine("Config file", statusInfo,
		fmt.Sprintf("%s not found; using defaults", ctx.configPath), colorize))
}

func directoryStatusLines(cfg *config.Config, colorize bool) []string {
	dirs := []struct {
		name string
		path string
	}{
		{"Show directory", cfg.Paths.ShowDir},
		{"Cache directory", cfg.Paths.CacheDir},
		{"Staging directory", cfg.Paths.StagingDir},
		{"Log directory", cfg.Paths.LogDir},
	}
	lines := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		lines = append(lines, checkLine(preflight.CheckDirectoryAccess(dir.name, dir.path), statusWarn, colorize))
	}
	return lines
}

func scratchStatusLine(cfg *config.Config, colorize bool) string {
	runs, err := staging.ListRuns(cfg.Paths.StagingDir)
	if err != nil {
		return renderStatusLine("Scratch runs", statusWarn, err.Error(), colorize)
	}
	if len(runs) == 0 {
		return renderStatusLine("Scratch runs", statusOK, "none", colorize)
	}
	var total int64
	for _, run := range runs {
		total += run.SizeBytes
	}
	// Oldest first: runs[0] is the one most likely abandoned.
	return renderStatusLine("Scratch runs", statusWarn,
		fmt.Sprintf("%d left behind (%s, oldest %s)", len(runs), humanize.Bytes(uint64(total)), humanize.Time(runs[0].ModTime)),
		colorize)
}

func captionStatusLines(cfg *config.Config, colorize bool) []string {
	lines := make([]string, 0, len(cfg.Captions.Languages))
	for _, code := range cfg.Captions.Languages {
		lines = append(lines, renderStatusLine(language.DisplayName(code), statusInfo, code+".vtt", colorize))
	}
	return lines
}

func synthesisStatusLines(cmd *cobra.Command, cfg *config.Config, speakers []string, checkAPI bool, colorize bool) []string {
	var lines []string
	hasKey := strings.TrimSpace(cfg.Synthesis.APIKey) != ""
	if hasKey {
		lines = append(lines, renderStatusLine("API key", statusOK, "set", colorize))
	} else {
		lines = append(lines, renderStatusLine("API key", statusWarn, "not set (captions-only builds still work)", colorize))
	}
	lines = append(lines, renderStatusLine("Model", statusInfo, cfg.Synthesis.ModelID, colorize))
	if checkAPI {
		lines = append(lines, checkLine(preflight.CheckSynthesisAPI(cmd.Context(), cfg.Synthesis.BaseURL, cfg.Synthesis.APIKey), statusError, colorize))
	}

	configured := cfg.VoiceSpeakers()
	if len(configured) == 0 {
		lines = append(lines, renderStatusLine("Voices", statusWarn, "none configured", colorize))
	} else {
		lines = append(lines, renderStatusLine("Voices", statusInfo, strings.Join(configured, ", "), colorize))
	}
	if len(speakers) > 0 {
		result := preflight.CheckVoices(cfg, speakers)
		result.Name = "Script speakers"
		lines = append(lines, checkLine(result, statusError, colorize))
	}
	lines = append(lines, renderStatusLine("Credential via env", statusInfo, yesNo(envKeyPresent()), colorize))
	return lines
}

func envKeyPresent() bool {
	return strings.TrimSpace(os.Getenv("ELEVENLABS_API_KEY")) != ""
}
