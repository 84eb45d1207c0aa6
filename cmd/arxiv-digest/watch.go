// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-digest/internal/render"
	"github.com/pdiddy/arxiv-digest/internal/schedule"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Build digests on a cron schedule",
	Long: `Watch stays in the foreground and builds a digest on each scheduled run,
writing it as markdown to the digests directory under the storage root.
The schedule comes from schedule.cron and schedule.timezone in the config
file unless overridden by flags. A run that is still going when the next
one is due is skipped.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	spec := appCfg.Schedule.Cron
	if v, _ := cmd.Flags().GetString("cron"); v != "" {
		spec = v
	}
	tz := appCfg.Schedule.Timezone
	if v, _ := cmd.Flags().GetString("timezone"); v != "" {
		tz = v
	}
	period := appCfg.Schedule.Period
	if v, _ := cmd.Flags().GetString("period"); v != "" {
		period = v
	}
	categories, err := resolveCategories(cmd)
	if err != nil {
		return err
	}
	if err := paths.Ensure(); err != nil {
		return err
	}

	ctx := cmd.Context()
	job := func() {
		if err := runScheduledDigest(ctx, period, categories); err != nil {
			logger.Error().Err(err).Str("period", period).Msg("scheduled digest failed")
		}
	}

	sched := schedule.New(job, logger)
	if err := sched.Update(spec, tz); err != nil {
		return err
	}

	if once, _ := cmd.Flags().GetBool("once"); once {
		return runScheduledDigest(ctx, period, categories)
	}
	return sched.Run(ctx)
}

// runScheduledDigest builds one digest and writes it to the digests
// directory, named after its period.
func runScheduledDigest(ctx context.Context, period string, categories []string) error {
	d, err := buildDigest(ctx, digestRequest{
		Period:     period,
		Categories: categories,
		Store:      true,
	})
	if err != nil {
		return err
	}

	out := filepath.Join(paths.Digests, d.Period+".md")
	if err := writeDigest(d, string(render.Markdown), out, io.Discard); err != nil {
		return err
	}
	logger.Info().
		Str("digest", d.ID).
		Str("file", out).
		Int("top", d.Count(types.TierTopPick)).
		Int("solid", d.Count(types.TierSolidMatch)).
		Int("boundary", d.Count(types.TierBoundaryExpander)).
		Msg("digest written")

	if err := writeMetrics(); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}

func init() {
	watchCmd.Flags().String("cron", "", "five-field cron expression (default: schedule.cron)")
	watchCmd.Flags().String("timezone", "", "IANA timezone for the schedule (default: schedule.timezone)")
	watchCmd.Flags().String("period", "", "period fetched on each run (default: schedule.period)")
	watchCmd.Flags().StringSlice("categories", nil, "arXiv categories (default: from preferences)")
	watchCmd.Flags().Bool("once", false, "validate the schedule, build one digest and exit")

	rootCmd.AddCommand(watchCmd)
}
