// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/arxiv-digest/internal/filter"
	"github.com/pdiddy/arxiv-digest/internal/httputil"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// DefaultAPIURL is the arXiv query endpoint.
const DefaultAPIURL = "https://export.arxiv.org/api/query"

// pageSize is the largest page the API serves per request.
const pageSize = 200

// APIClient queries the arXiv Atom API by category and submission date.
type APIClient struct {
	Client     *http.Client
	BaseURL    string
	UserAgent  string
	MaxResults int
	MaxRetries int
	Limiter    *httputil.RateLimiter
	Logger     zerolog.Logger
}

// FetchRange returns the papers submitted to category between from and to,
// inclusive, newest first. Results are paged until the reported total or
// MaxResults is reached.
func (c *APIClient) FetchRange(ctx context.Context, category string, from, to time.Time) ([]types.PaperCandidate, error) {
	query := fmt.Sprintf("cat:%s AND submittedDate:[%s0000 TO %s2359]",
		category, from.Format("20060102"), to.Format("20060102"))

	limit := c.MaxResults
	if limit <= 0 {
		limit = 500
	}

	var out []types.PaperCandidate
	for start := 0; start < limit; {
		n := pageSize
		if limit-start < n {
			n = limit - start
		}
		feed, err := c.page(ctx, query, start, n)
		if err != nil {
			return out, err
		}
		if start == 0 {
			c.Logger.Debug().Str("category", category).Int("total", feed.TotalResults).Msg("arXiv API query")
		}
		if len(feed.Entries) == 0 {
			break
		}
		for _, e := range feed.Entries {
			if cand, ok := e.candidate(); ok {
				out = append(out, cand)
			}
		}
		start += len(feed.Entries)
		if start >= feed.TotalResults {
			break
		}
	}
	return out, nil
}

func (c *APIClient) page(ctx context.Context, query string, start, n int) (atomFeed, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultAPIURL
	}
	params := url.Values{}
	params.Set("search_query", query)
	params.Set("start", fmt.Sprint(start))
	params.Set("max_results", fmt.Sprint(n))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return atomFeed{}, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return atomFeed{}, fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.client(), req, c.MaxRetries, c.Logger)
	if err != nil {
		return atomFeed{}, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return atomFeed{}, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return atomFeed{}, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return feed, nil
}

func (c *APIClient) client() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return http.DefaultClient
}

// arXiv Atom API XML structures.
type atomFeed struct {
	TotalResults int         `xml:"http://a9.com/-/spec/opensearch/1.1/ totalResults"`
	Entries      []atomEntry `xml:"http://www.w3.org/2005/Atom entry"`
}

type atomEntry struct {
	ID         string         `xml:"http://www.w3.org/2005/Atom id"`
	Title      string         `xml:"http://www.w3.org/2005/Atom title"`
	Summary    string         `xml:"http://www.w3.org/2005/Atom summary"`
	Published  string         `xml:"http://www.w3.org/2005/Atom published"`
	Updated    string         `xml:"http://www.w3.org/2005/Atom updated"`
	Authors    []atomAuthor   `xml:"http://www.w3.org/2005/Atom author"`
	Categories []atomCategory `xml:"http://www.w3.org/2005/Atom category"`
	Primary    atomCategory   `xml:"http://arxiv.org/schemas/atom primary_category"`
	Comment    string         `xml:"http://arxiv.org/schemas/atom comment"`
	JournalRef string         `xml:"http://arxiv.org/schemas/atom journal_ref"`
	DOI        string         `xml:"http://arxiv.org/schemas/atom doi"`
}

type atomAuthor struct {
	Name string `xml:"http://www.w3.org/2005/Atom name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

func (e atomEntry) candidate() (types.PaperCandidate, bool) {
	id := filter.CanonicalID(e.ID)
	if id == "" || !strings.Contains(e.ID, "/abs/") {
		return types.PaperCandidate{}, false
	}
	c := types.PaperCandidate{
		ID:              id,
		Title:           collapse(e.Title),
		Abstract:        collapse(e.Summary),
		PrimaryCategory: e.Primary.Term,
		Status:          types.StatusNew,
		Comment:         collapse(e.Comment),
		JournalRef:      collapse(e.JournalRef),
		DOI:             strings.TrimSpace(e.DOI),
	}
	for _, a := range e.Authors {
		if name := collapse(a.Name); name != "" {
			c.Authors = append(c.Authors, name)
		}
	}
	for _, cat := range e.Categories {
		if cat.Term != "" {
			c.Categories = append(c.Categories, cat.Term)
		}
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Published)); err == nil {
		c.PublishedAt = t
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Updated)); err == nil {
		c.UpdatedAt = t
	}
	return c, true
}

// collapse trims s and folds internal whitespace runs to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
