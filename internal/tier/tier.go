// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tier partitions a globally sorted ranking into top picks, solid
// matches and boundary expanders under period-scaled capacity bounds, and
// checks that nothing near the top of the ranking is dropped silently.
package tier

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/arxiv-digest/internal/signals"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// Options controls one allocation.
type Options struct {
	Anchors       []types.TierBounds
	WindowDays    int
	TopMinScore   float64
	SolidMinScore float64

	// Categories are the user's arXiv categories, used by the boundary test.
	Categories []string

	Logger zerolog.Logger
}

// Allocation is the result of Allocate. Entries keep the input order.
type Allocation struct {
	Entries []types.RankedEntry
	Bounds  types.TierBounds
	Guard   int
	Forced  int
}

// Count returns the number of entries placed in t.
func (a Allocation) Count(t types.Tier) int {
	n := 0
	for _, e := range a.Entries {
		if e.Tier == t {
			n++
		}
	}
	return n
}

// Allocate assigns tiers by walking the sorted entries once. Top picks are
// the leading entries scoring at least TopMinScore (topped up to the
// minimum with entries scoring at least SolidMinScore), solid matches the
// next entries scoring at least SolidMinScore, and boundary expanders the
// following entries that pass the boundary test. Everything else is
// excluded with a reason. Active co-author entries that end up excluded are
// appended to the boundary tier. The omission guard runs last; on violation
// no allocation is returned.
func Allocate(entries []types.RankedEntry, opts Options) (Allocation, error) {
	bounds := BoundsFor(opts.Anchors, opts.WindowDays)
	out := make([]types.RankedEntry, len(entries))
	copy(out, entries)
	for i := range out {
		out[i].Tier = types.TierExcluded
		out[i].ExclusionReason = ""
		out[i].Forced = false
	}

	i := 0
	nTop := 0
	for i < len(out) && nTop < bounds.Top.Max && out[i].Score >= opts.TopMinScore {
		out[i].Tier = types.TierTopPick
		nTop++
		i++
	}
	for i < len(out) && nTop < bounds.Top.Min && out[i].Score >= opts.SolidMinScore {
		out[i].Tier = types.TierTopPick
		nTop++
		i++
	}

	nSolid := 0
	for i < len(out) && nSolid < bounds.Solid.Max && out[i].Score >= opts.SolidMinScore {
		out[i].Tier = types.TierSolidMatch
		nSolid++
		i++
	}

	placedTopics := make(map[string]bool)
	for _, e := range out[:i] {
		if key := topicKey(e); key != "" {
			placedTopics[key] = true
		}
	}

	nBoundary := 0
	for ; i < len(out); i++ {
		e := &out[i]
		passes := Boundary(*e, opts.Categories)
		if passes && nBoundary < bounds.Boundary.Max && e.Candidate.EffectiveStatus() != types.StatusReplacement {
			e.Tier = types.TierBoundaryExpander
			if e.Score >= opts.SolidMinScore {
				e.ExclusionReason = types.ReasonOther
			} else {
				e.ExclusionReason = types.ReasonOutsideUserScope
			}
			nBoundary++
			continue
		}
		e.ExclusionReason = exclusionReason(*e, passes, placedTopics)
	}

	var forced int
	for i := range out {
		e := &out[i]
		if e.Tier == types.TierExcluded && e.HasSignal(types.SignalActiveCoauthor) {
			e.Tier = types.TierBoundaryExpander
			e.Forced = true
			forced++
			opts.Logger.Info().
				Str("paper_id", e.Candidate.ID).
				Float64("score", e.Score).
				Msg("active co-author paper appended to boundary tier")
		}
	}

	guard := GuardSize(nTop, nSolid, opts.WindowDays)
	if err := CheckGuard(out, guard); err != nil {
		return Allocation{}, err
	}

	return Allocation{Entries: out, Bounds: bounds, Guard: guard, Forced: forced}, nil
}

// Boundary reports whether an entry shows adjacent-but-not-core relevance:
// a related category, a liked method without a core match, a positive or
// fingerprint signal, a network hit, or an explicit high-impact flag.
func Boundary(e types.RankedEntry, categories []string) bool {
	switch {
	case signals.RelatedCategory(e.Candidate.Categories, categories):
		return true
	case e.HasSignal(types.SignalMethodsMatch) && !e.HasSignal(types.SignalCoreInterest):
		return true
	case e.HasSignal(types.SignalPositive), e.HasSignal(types.SignalFingerprint):
		return true
	case e.HasSignal(types.SignalSecondDegree), e.HasSignal(types.SignalCoauthor),
		e.HasSignal(types.SignalActiveCoauthor):
		return true
	case e.Candidate.HighImpact:
		return true
	}
	return false
}

func exclusionReason(e types.RankedEntry, passesBoundary bool, placedTopics map[string]bool) types.ExclusionReason {
	switch {
	case e.Candidate.EffectiveStatus() == types.StatusReplacement:
		return types.ReasonSuperseded
	case placedTopics[topicKey(e)]:
		return types.ReasonDuplicateTopic
	case !passesBoundary:
		return types.ReasonOutsideUserScope
	}
	return types.ReasonOther
}

// topicKey is the sorted, lowercased set of matched topic terms, or "" when
// the entry matched no topic.
func topicKey(e types.RankedEntry) string {
	var terms []string
	seen := make(map[string]bool)
	for _, fam := range []string{types.SignalCoreInterest, types.SignalMethodsMatch, types.SignalPositive} {
		for _, t := range e.SignalTerms(fam) {
			t = strings.ToLower(t)
			if !seen[t] {
				seen[t] = true
				terms = append(terms, t)
			}
		}
	}
	sort.Strings(terms)
	return strings.Join(terms, "|")
}

// CheckGuard verifies that every entry ranked 1..guard is a top pick or
// solid match, or carries an enumerated exclusion reason.
func CheckGuard(entries []types.RankedEntry, guard int) error {
	var violations []string
	for i, e := range entries {
		if i >= guard {
			break
		}
		if e.Tier == types.TierTopPick || e.Tier == types.TierSolidMatch {
			continue
		}
		if !e.ExclusionReason.Valid() {
			violations = append(violations, e.Candidate.ID)
		}
	}
	if len(violations) > 0 {
		return &types.OmissionGuardError{Guard: guard, Violations: violations}
	}
	return nil
}
