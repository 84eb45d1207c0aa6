// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score reduces signal sets to scores and sorts candidates into a
// deterministic total order.
package score

import (
	"sort"
	"strings"

	"github.com/pdiddy/arxiv-digest/internal/signals"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// Extractor produces the signal set of a candidate.
type Extractor interface {
	Extract(c types.PaperCandidate) signals.Extraction
}

// Result is the globally sorted ranking.
type Result struct {
	Entries   []types.RankedEntry
	Ambiguous int
}

// Rank scores every candidate and sorts by score descending, then active
// co-author first, then number of positive families descending, then
// publication time descending, then ID ascending. No ties remain.
func Rank(cands []types.PaperCandidate, x Extractor, w types.Weights) Result {
	var res Result
	res.Entries = make([]types.RankedEntry, 0, len(cands))

	for _, c := range cands {
		ex := x.Extract(c)
		res.Ambiguous += len(ex.Ambiguous)
		res.Entries = append(res.Entries, Score(c, ex.Signals, w))
	}

	sort.SliceStable(res.Entries, func(i, j int) bool {
		return Less(res.Entries[i], res.Entries[j])
	})
	for i := range res.Entries {
		res.Entries[i].Rank = i + 1
	}
	return res
}

// Score builds the ranked entry for one candidate. Signals and reasons are
// ordered by weight descending, so penalties come last. Active co-author
// entries never score below the co-author floor.
func Score(c types.PaperCandidate, sigs []types.Signal, w types.Weights) types.RankedEntry {
	ordered := make([]types.Signal, len(sigs))
	copy(ordered, sigs)

	var total float64
	for _, s := range ordered {
		total += s.Weight
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Weight != ordered[j].Weight {
			return ordered[i].Weight > ordered[j].Weight
		}
		return ordered[i].Family < ordered[j].Family
	})

	e := types.RankedEntry{Candidate: c, Signals: ordered}
	if e.HasSignal(types.SignalActiveCoauthor) && total < w.CoauthorFloor {
		total = w.CoauthorFloor
	}
	e.Score = total

	e.Reasons = make([]string, 0, len(ordered))
	for _, s := range ordered {
		e.Reasons = append(e.Reasons, Label(s))
	}
	return e
}

// Label renders a signal as a human-readable reason.
func Label(s types.Signal) string {
	if len(s.Terms) == 0 {
		return s.Family
	}
	return s.Family + ": " + strings.Join(s.Terms, ", ")
}

// PositiveFamilies counts the signals with positive weight.
func PositiveFamilies(e types.RankedEntry) int {
	n := 0
	for _, s := range e.Signals {
		if s.Weight > 0 {
			n++
		}
	}
	return n
}

// Less reports whether a sorts before b in the global order.
func Less(a, b types.RankedEntry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	aa, ba := a.HasSignal(types.SignalActiveCoauthor), b.HasSignal(types.SignalActiveCoauthor)
	if aa != ba {
		return aa
	}
	if pa, pb := PositiveFamilies(a), PositiveFamilies(b); pa != pb {
		return pa > pb
	}
	if !a.Candidate.PublishedAt.Equal(b.Candidate.PublishedAt) {
		return a.Candidate.PublishedAt.After(b.Candidate.PublishedAt)
	}
	return a.Candidate.ID < b.Candidate.ID
}
