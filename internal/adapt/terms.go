// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapt

import (
	"sort"
	"strings"

	"github.com/pdiddy/arxiv-digest/internal/signals"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// bigrams returns adjacent content-word pairs of texts ordered by frequency
// descending, then by first occurrence. Pairs never span two texts.
func bigrams(texts ...string) []string {
	count := make(map[string]int)
	first := make(map[string]int)
	pos := 0
	for _, text := range texts {
		words := signals.Words(text)
		for i := 0; i+1 < len(words); i++ {
			a, b := words[i], words[i+1]
			if !contentWord(a) || !contentWord(b) {
				continue
			}
			bg := a + " " + b
			if _, ok := first[bg]; !ok {
				first[bg] = pos + i
			}
			count[bg]++
		}
		pos += len(words)
	}

	out := make([]string, 0, len(count))
	for bg := range count {
		out = append(out, bg)
	}
	sort.Slice(out, func(i, j int) bool {
		if count[out[i]] != count[out[j]] {
			return count[out[i]] > count[out[j]]
		}
		return first[out[i]] < first[out[j]]
	})
	return out
}

func contentWord(w string) bool {
	if len(w) < 3 || signals.IsStopWord(w) || reportingVerbs[w] {
		return false
	}
	for _, r := range w {
		if r < '0' || r > '9' {
			return true
		}
	}
	return false
}

// reportingVerbs holds the verbs abstracts use to introduce a result
// ("we calibrate photometric redshifts"), in their common inflections.
var reportingVerbs = inflect(
	"analyze", "apply", "calibrate", "characterize", "compare", "compute",
	"confirm", "consider", "constrain", "demonstrate", "derive", "describe",
	"detect", "determine", "develop", "discuss", "estimate", "examine",
	"explore", "extend", "improve", "infer", "introduce", "investigate",
	"measure", "obtain", "perform", "predict", "propose", "provide",
	"quantify", "reconstruct", "report", "reveal", "simulate", "test",
)

func inflect(verbs ...string) map[string]bool {
	m := make(map[string]bool, len(verbs)*4)
	for _, v := range verbs {
		m[v] = true
		switch {
		case strings.HasSuffix(v, "e"):
			m[v+"s"] = true
			m[v+"d"] = true
			m[v[:len(v)-1]+"ing"] = true
		case strings.HasSuffix(v, "y"):
			m[v[:len(v)-1]+"ies"] = true
			m[v[:len(v)-1]+"ied"] = true
			m[v+"ing"] = true
		default:
			m[v+"s"] = true
			m[v+"ed"] = true
			m[v+"ing"] = true
		}
	}
	return m
}

// salientTerms picks up to max terms that characterize an entry: its matched
// positive signals, then (when withMethods) its matched methods, then the
// most frequent abstract bigrams. A bigram sharing a word with a term the
// entry matched or a term already picked is passed over, as are terms in
// skip.
func salientTerms(e types.RankedEntry, max int, withMethods bool, skip *termSet) []string {
	var pool []string
	pool = append(pool, e.SignalTerms(types.SignalPositive)...)
	if withMethods {
		pool = append(pool, e.SignalTerms(types.SignalMethodsMatch)...)
	}
	matched := len(pool)
	pool = append(pool, bigrams(e.Candidate.Abstract)...)

	covered := make(map[string]bool)
	cover := func(t string) {
		for _, w := range signals.Words(t) {
			covered[w] = true
		}
	}
	for _, f := range []string{types.SignalCoreInterest, types.SignalPositive, types.SignalMethodsMatch} {
		for _, t := range e.SignalTerms(f) {
			cover(t)
		}
	}

	var out []string
	seen := newTermSet(nil)
	for i, t := range pool {
		if len(out) >= max {
			break
		}
		if skip.has(t) || seen.has(t) {
			continue
		}
		if i >= matched && overlaps(t, covered) {
			continue
		}
		seen.add(t)
		cover(t)
		out = append(out, t)
	}
	return out
}

func overlaps(t string, covered map[string]bool) bool {
	for _, w := range signals.Words(t) {
		if covered[w] {
			return true
		}
	}
	return false
}

// termSet is a case-insensitive string set.
type termSet struct {
	m map[string]bool
}

func newTermSet(terms []string) *termSet {
	s := &termSet{m: make(map[string]bool, len(terms))}
	for _, t := range terms {
		s.add(t)
	}
	return s
}

func key(t string) string { return strings.ToLower(strings.TrimSpace(t)) }

func (s *termSet) add(t string)      { s.m[key(t)] = true }
func (s *termSet) has(t string) bool { return s.m[key(t)] }

// containsTerm reports whether list holds t, ignoring case.
func containsTerm(list []string, t string) bool {
	for _, v := range list {
		if key(v) == key(t) {
			return true
		}
	}
	return false
}

// removeTerm returns list without t and whether anything was removed.
func removeTerm(list []string, t string) ([]string, bool) {
	out := make([]string, 0, len(list))
	removed := false
	for _, v := range list {
		if key(v) == key(t) {
			removed = true
			continue
		}
		out = append(out, v)
	}
	return out, removed
}
