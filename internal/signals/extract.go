// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package signals derives named, weighted relevance signals for a candidate
// paper from the researcher and preference profiles.
package signals

import (
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/pdiddy/arxiv-digest/internal/names"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

type networkLevel int

const (
	levelActive networkLevel = iota
	levelCoauthor
	levelSecondDegree
)

// Extraction is the signal set of one candidate plus any author names that
// could not be resolved.
type Extraction struct {
	Signals   []types.Signal
	Ambiguous []*types.AmbiguousMatchError
}

// Extractor holds the profile-derived lookup tables. Build one per digest
// run; it is read-only after construction.
type Extractor struct {
	weights     types.Weights
	prefs       types.PreferenceProfile
	network     *names.Index
	levels      map[string]networkLevel
	favorites   *names.Index
	fingerprint []string
	logger      zerolog.Logger
}

// NewExtractor prepares lookup tables from the two profiles.
func NewExtractor(rp types.ResearcherProfile, pp types.PreferenceProfile, w types.Weights, logger zerolog.Logger) *Extractor {
	levels := make(map[string]networkLevel)
	seen := make(map[string]bool)
	var ordered []string
	add := func(name string, lvl networkLevel) {
		key := names.Normalize(name)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		levels[name] = lvl
		ordered = append(ordered, name)
	}

	for _, n := range rp.Network.ActiveCoauthors {
		add(n, levelActive)
	}
	for _, n := range sortedKeys(rp.Network.Coauthors) {
		add(n, levelCoauthor)
	}
	for _, n := range sortedKeys(rp.Network.SecondDegree) {
		add(n, levelSecondDegree)
	}

	return &Extractor{
		weights:     w,
		prefs:       pp,
		network:     names.NewIndex(ordered),
		levels:      levels,
		favorites:   names.NewIndex(pp.FavoriteAuthors),
		fingerprint: TopQuartile(rp.ResearchFingerprint.TopicKeywords),
		logger:      logger,
	}
}

// Extract computes the signal set for c. Each family appears at most once.
func (x *Extractor) Extract(c types.PaperCandidate) Extraction {
	var out Extraction
	w := x.weights

	text := NewText(c.Title, c.Abstract)
	coreParts := []string{c.Title, c.Abstract}
	for _, cat := range c.Categories {
		if n := CategoryName(cat); n != "" {
			coreParts = append(coreParts, n)
		}
	}
	coreText := NewText(coreParts...)

	if m := coreText.Matches(x.prefs.CoreInterests); len(m) > 0 {
		n := len(m)
		if w.CoreMatchCap > 0 && n > w.CoreMatchCap {
			n = w.CoreMatchCap
		}
		out.add(types.SignalCoreInterest, w.Strong*float64(n), m)
	}
	if m := text.Matches(x.prefs.MethodsInterests); len(m) > 0 {
		out.add(types.SignalMethodsMatch, w.Moderate, m)
	}
	if m := text.Matches(x.prefs.PositiveSignals); len(m) > 0 {
		out.add(types.SignalPositive, w.Moderate, m)
	}

	if favs := x.lookupAuthors(c, x.favorites, &out); len(favs) > 0 {
		out.add(types.SignalFavoriteAuthor, w.Strong, favs)
	}

	if m := text.Matches(x.prefs.NegativeSignals); len(m) > 0 {
		out.add(types.SignalNegative, w.Negative, m)
	}

	var active, coauthors, second []string
	for _, name := range x.lookupAuthors(c, x.network, &out) {
		switch x.levels[name] {
		case levelActive:
			active = append(active, name)
		case levelCoauthor:
			coauthors = append(coauthors, name)
		case levelSecondDegree:
			second = append(second, name)
		}
	}
	if len(active) > 0 {
		out.add(types.SignalActiveCoauthor, w.VeryStrong, active)
	}
	if len(coauthors) > 0 {
		out.add(types.SignalCoauthor, w.Strong, coauthors)
	}
	if len(second) > 0 {
		out.add(types.SignalSecondDegree, w.Mild, second)
	}

	if m := text.Matches(x.fingerprint); len(m) > 0 {
		out.add(types.SignalFingerprint, w.Moderate, m)
	}

	primary := c.Primary()
	if InCategories(primary, x.prefs.ArxivCategories) {
		out.add(types.SignalCategoryFit, w.Mild, []string{primary})
		for _, cat := range c.Categories {
			if cat != primary && InCategories(cat, x.prefs.ArxivCategories) {
				out.add(types.SignalCrossList, w.Moderate, []string{primary, cat})
				break
			}
		}
	}

	return out
}

// lookupAuthors resolves every author of c against idx and returns the
// distinct matched profile names in author order. Ambiguous authors are
// recorded and contribute nothing.
func (x *Extractor) lookupAuthors(c types.PaperCandidate, idx *names.Index, out *Extraction) []string {
	if idx.Len() == 0 {
		return nil
	}
	var matched []string
	seen := make(map[string]bool)
	for _, author := range c.Authors {
		name, res, cands := idx.Lookup(author)
		switch res {
		case names.Match:
			if !seen[name] {
				seen[name] = true
				matched = append(matched, name)
			}
		case names.Ambiguous:
			x.logger.Debug().
				Str("paper_id", c.ID).
				Str("author", author).
				Strs("candidates", cands).
				Msg("ambiguous author match, no boost")
			out.Ambiguous = append(out.Ambiguous, &types.AmbiguousMatchError{Author: author, Candidates: cands})
		}
	}
	return matched
}

func (e *Extraction) add(family string, weight float64, terms []string) {
	e.Signals = append(e.Signals, types.Signal{Family: family, Weight: weight, Terms: terms})
}

// TopQuartile returns the keywords whose weight falls in the top quarter of
// the distribution. Keywords tied with the cut-off weight are included.
func TopQuartile(keywords map[string]float64) []string {
	if len(keywords) == 0 {
		return nil
	}
	keys := sortedKeys(keywords)
	sort.SliceStable(keys, func(i, j int) bool {
		return keywords[keys[i]] > keywords[keys[j]]
	})
	k := int(math.Ceil(float64(len(keys)) / 4))
	cut := keywords[keys[k-1]]
	var out []string
	for _, kw := range keys {
		if keywords[kw] >= cut {
			out = append(out, kw)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
