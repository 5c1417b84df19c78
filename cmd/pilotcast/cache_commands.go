package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"pilotcast/internal/segcache"
)

const cacheTextPreview = 40

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the synthesized segment cache",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheListCommand(ctx))
	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show segment cache totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(cmd, ctx, func(cache *segcache.Cache) error {
				stats, err := cache.Stats(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Directory:  %s\n", cache.Dir())
				fmt.Fprintf(out, "Segments:   %d\n", stats.Entries)
				fmt.Fprintf(out, "Total size: %s\n", humanize.Bytes(uint64(stats.TotalBytes)))
				if stats.Entries > 0 {
					fmt.Fprintf(out, "Oldest:     %s\n", humanize.Time(stats.Oldest))
					fmt.Fprintf(out, "Newest:     %s\n", humanize.Time(stats.Newest))
				}
				return nil
			})
		},
	}
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached segments, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(cmd, ctx, func(cache *segcache.Cache) error {
				entries, err := cache.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "Segment cache is empty")
					return nil
				}
				fmt.Fprintln(out, renderCacheTable(entries))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum entries to show (0 for all)")
	return cmd
}

func withCache(cmd *cobra.Command, ctx *commandContext, fn func(*segcache.Cache) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cache, err := segcache.Open(cmd.Context(), cfg.Paths.CacheDir)
	if err != nil {
		return err
	}
	defer cache.Close()
	return fn(cache)
}

func renderCacheTable(entries []segcache.Entry) string {
	rows := make([][]string, 0, len(entries))
	var total int64
	for _, e := range entries {
		total += e.SizeBytes
		rows = append(rows, []string{
			e.Fingerprint[:12],
			e.Speaker,
			e.VoiceID,
			humanize.Bytes(uint64(e.SizeBytes)),
			humanize.Time(e.StoredAt),
			preview(e.Text, cacheTextPreview),
		})
	}
	headers := []string{"Fingerprint", "Speaker", "Voice", "Size", "Stored", "Text"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}
	footer := []string{fmt.Sprintf("%d segments", len(entries)), "", "", humanize.Bytes(uint64(total)), "", ""}
	return renderTable(headers, rows, aligns, footer)
}

func preview(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit-1]) + "…"
}
