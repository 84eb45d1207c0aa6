// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source collects paper candidates: from the arXiv daily feed, from
// date-range queries against the arXiv API, or from candidate files.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/arxiv-digest/internal/httputil"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// Feed reads the daily announcements.
type Feed interface {
	FetchToday(ctx context.Context, categories []string) ([]types.PaperCandidate, error)
}

// API answers date-range queries per category.
type API interface {
	FetchRange(ctx context.Context, category string, from, to time.Time) ([]types.PaperCandidate, error)
}

// Result is the outcome of a fetch.
type Result struct {
	Candidates []types.PaperCandidate

	// Partial is set when some categories failed and the rest were kept.
	Partial bool

	// Failed lists the categories that could not be read.
	Failed []string
}

// Fetcher routes a period to the feed or the API.
type Fetcher struct {
	Feed   Feed
	API    API
	Logger zerolog.Logger
}

// NewFetcher builds a fetcher against the live arXiv endpoints. Both
// clients share one limiter so the request spacing holds across them.
func NewFetcher(cfg types.FetchConfig, logger zerolog.Logger) *Fetcher {
	client := &http.Client{Timeout: cfg.Timeout}
	limiter := httputil.NewRateLimiter(cfg.RequestInterval)
	return &Fetcher{
		Feed: &FeedClient{
			Client:     client,
			BaseURL:    cfg.FeedURL,
			UserAgent:  cfg.UserAgent,
			MaxRetries: cfg.MaxRetries,
			Limiter:    limiter,
			Logger:     logger,
		},
		API: &APIClient{
			Client:     client,
			BaseURL:    cfg.APIURL,
			UserAgent:  cfg.UserAgent,
			MaxResults: cfg.MaxResults,
			MaxRetries: cfg.MaxRetries,
			Limiter:    limiter,
			Logger:     logger,
		},
		Logger: logger,
	}
}

// Fetch collects candidates for period p across categories. "today" reads
// the announcement feed and falls back to an API query for the day when
// the feed fails or is empty. Ranges query the API once per category; a
// category that fails is skipped and the result marked partial. Fetch
// fails only when nothing could be read.
func (f *Fetcher) Fetch(ctx context.Context, p Period, categories []string) (Result, error) {
	if len(categories) == 0 {
		return Result{}, fmt.Errorf("no categories to fetch")
	}

	if p.Mode == ModeToday && f.Feed != nil {
		cands, err := f.Feed.FetchToday(ctx, categories)
		switch {
		case err == nil && len(cands) > 0:
			return Result{Candidates: cands}, nil
		case err != nil:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return Result{}, err
			}
			f.Logger.Warn().Err(err).Msg("announcement feed failed, falling back to API")
		default:
			f.Logger.Info().Msg("announcement feed empty, falling back to API")
		}
	}

	if f.API == nil {
		return Result{}, fmt.Errorf("no API client configured")
	}

	var res Result
	var lastErr error
	for _, cat := range categories {
		cands, err := f.API.FetchRange(ctx, cat, p.From, p.To)
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			f.Logger.Warn().Err(err).Str("category", cat).Msg("category fetch failed")
			res.Failed = append(res.Failed, cat)
			lastErr = err
			// keep what a partially read category returned
			res.Candidates = append(res.Candidates, cands...)
			continue
		}
		res.Candidates = append(res.Candidates, cands...)
	}

	if len(res.Failed) == len(categories) && len(res.Candidates) == 0 {
		return Result{}, fmt.Errorf("fetching %s: %w", p.ID, lastErr)
	}
	res.Partial = len(res.Failed) > 0
	return res, nil
}
