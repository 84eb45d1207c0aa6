// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/pdiddy/arxiv-digest/internal/filter"
	"github.com/pdiddy/arxiv-digest/internal/httputil"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// DefaultFeedURL is the base of the arXiv daily announcement feeds.
const DefaultFeedURL = "https://rss.arxiv.org/atom"

// FeedClient reads the daily announcement feed for a set of categories.
type FeedClient struct {
	Client     *http.Client
	BaseURL    string
	UserAgent  string
	MaxRetries int
	Limiter    *httputil.RateLimiter
	Logger     zerolog.Logger
}

// FetchToday returns today's announcements for categories, with each
// entry's announce type mapped to a candidate status.
func (c *FeedClient) FetchToday(ctx context.Context, categories []string) ([]types.PaperCandidate, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories to fetch")
	}
	base := c.BaseURL
	if base == "" {
		base = DefaultFeedURL
	}
	feedURL := strings.TrimRight(base, "/") + "/" + strings.Join(categories, "+")

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("arXiv feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv feed returned HTTP %d", resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing arXiv feed: %w", err)
	}

	var out []types.PaperCandidate
	for _, item := range feed.Items {
		if cand, ok := feedCandidate(item); ok {
			out = append(out, cand)
		}
	}
	c.Logger.Debug().Str("url", feedURL).Int("entries", len(out)).Msg("arXiv feed read")
	return out, nil
}

func feedCandidate(item *gofeed.Item) (types.PaperCandidate, bool) {
	raw := item.GUID
	if raw == "" {
		raw = item.Link
	}
	id := filter.CanonicalID(raw)
	if id == "" {
		return types.PaperCandidate{}, false
	}

	announce := extension(item, "announce_type")
	c := types.PaperCandidate{
		ID:         id,
		Title:      collapse(item.Title),
		Abstract:   feedAbstract(item.Description),
		Categories: append([]string(nil), item.Categories...),
		Status:     AnnounceStatus(announce),
	}
	if len(c.Categories) > 0 {
		c.PrimaryCategory = c.Categories[0]
	}
	c.Authors = feedAuthors(item)
	if item.PublishedParsed != nil {
		c.PublishedAt = item.PublishedParsed.UTC()
	}
	if item.UpdatedParsed != nil {
		c.UpdatedAt = item.UpdatedParsed.UTC()
	}
	return c, true
}

// AnnounceStatus maps an arXiv announce type to a candidate status.
// Unknown or missing types are treated as new submissions.
func AnnounceStatus(announce string) types.CandidateStatus {
	switch strings.ToLower(strings.TrimSpace(announce)) {
	case "cross", "cross-list":
		return types.StatusCrossListed
	case "replace", "replace-cross":
		return types.StatusReplacement
	}
	return types.StatusNew
}

func extension(item *gofeed.Item, name string) string {
	for _, ns := range []string{"arxiv", "arXiv"} {
		exts, ok := item.Extensions[ns][name]
		if ok && len(exts) > 0 {
			return exts[0].Value
		}
	}
	return ""
}

// feedAuthors reads authors from the item, splitting the single
// comma-separated creator the feed uses.
func feedAuthors(item *gofeed.Item) []string {
	var raw []string
	for _, p := range item.Authors {
		if p != nil {
			raw = append(raw, p.Name)
		}
	}
	if len(raw) == 0 && item.DublinCoreExt != nil {
		raw = item.DublinCoreExt.Creator
	}
	if len(raw) == 0 {
		for _, e := range item.Extensions["dc"]["creator"] {
			raw = append(raw, e.Value)
		}
	}
	var out []string
	for _, r := range raw {
		for _, name := range strings.Split(r, ",") {
			name = collapse(name)
			if name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

// feedAbstract strips the "arXiv:ID Announce Type: x Abstract:" preamble
// the feed puts in front of the abstract.
func feedAbstract(desc string) string {
	if i := strings.Index(desc, "Abstract:"); i >= 0 {
		desc = desc[i+len("Abstract:"):]
	}
	return collapse(desc)
}
