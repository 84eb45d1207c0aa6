// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-digest/internal/profile"
	"github.com/pdiddy/arxiv-digest/internal/source"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch arXiv candidates for a period",
	Long: `Fetch reads arXiv announcements for the configured categories and writes
them to a candidate file. "today" reads the daily announcement feed; other
periods query the arXiv API by submission date:

  today, week, 3d, 2026-01-15, 2026-01-01:2026-01-10

Requests are spaced to respect arXiv's rate limit. The candidate file can be
passed to "digest --candidates" to rank it later.`,
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	periodArg, _ := cmd.Flags().GetString("period")
	p, err := source.ParsePeriod(periodArg, time.Now())
	if err != nil {
		return err
	}
	categories, err := resolveCategories(cmd)
	if err != nil {
		return err
	}

	res, err := fetchCandidates(cmd.Context(), p, categories)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		if err := paths.Ensure(); err != nil {
			return err
		}
		out = filepath.Join(paths.Candidates, p.ID+".json")
	}
	if err := source.SaveFile(out, res.Candidates); err != nil {
		return err
	}

	fmt.Printf("%d candidates for %s written to %s\n", len(res.Candidates), p.ID, out)
	if res.Partial {
		fmt.Printf("warning: partial result, failed categories: %v\n", res.Failed)
	}
	return nil
}

// fetchCandidates runs the live fetcher and records its metrics.
func fetchCandidates(ctx context.Context, p source.Period, categories []string) (source.Result, error) {
	fetcher := source.NewFetcher(appCfg.Fetch, logger)
	start := time.Now()
	res, err := fetcher.Fetch(ctx, p, categories)
	if err != nil {
		return source.Result{}, err
	}
	metrics.RecordFetch(len(res.Candidates), time.Since(start), res.Partial)
	logger.Info().
		Str("period", p.ID).
		Strs("categories", categories).
		Int("candidates", len(res.Candidates)).
		Bool("partial", res.Partial).
		Msg("fetch complete")
	return res, nil
}

// resolveCategories picks the categories to fetch: the --categories flag,
// then the preference profile, then the config file.
func resolveCategories(cmd *cobra.Command) ([]string, error) {
	if cats, _ := cmd.Flags().GetStringSlice("categories"); len(cats) > 0 {
		return cats, nil
	}
	pp, err := profile.LoadPreferences(paths.Preferences)
	switch {
	case err == nil && len(pp.ArxivCategories) > 0:
		return pp.ArxivCategories, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}
	if len(appCfg.Fetch.Categories) > 0 {
		return appCfg.Fetch.Categories, nil
	}
	return nil, fmt.Errorf("no categories: pass --categories or run \"arxiv-digest profile init\"")
}

func init() {
	fetchCmd.Flags().String("period", "today", "period: today, week, Nd, YYYY-MM-DD or YYYY-MM-DD:YYYY-MM-DD")
	fetchCmd.Flags().StringSlice("categories", nil, "arXiv categories (default: from preferences)")
	fetchCmd.Flags().String("out", "", "candidate file (default: <storage>/candidates/<period>.json)")

	rootCmd.AddCommand(fetchCmd)
}
