// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter removes duplicate and ineligible candidates before scoring.
package filter

import (
	"strconv"
	"strings"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// Options controls which announcement types survive.
type Options struct {
	// IncludeReplacements keeps revision notices.
	IncludeReplacements bool
}

// Result is the eligible subset plus the drop counts for provenance.
type Result struct {
	Candidates         []types.PaperCandidate
	Duplicates         int
	CrossListDropped   int
	ReplacementDropped int

	// InvalidDropped counts candidates without a usable identifier.
	InvalidDropped int
}

// Apply deduplicates candidates by canonical identifier (first seen wins,
// no merge) and drops cross-listings, replacements and candidates whose
// identifier is blank. Every input is either kept or counted once. An empty input yields
// an empty result; deciding whether that is a problem is up to the caller.
func Apply(candidates []types.PaperCandidate, opts Options) Result {
	var res Result
	seen := make(map[string]bool, len(candidates))

	for _, c := range candidates {
		key := CanonicalID(c.ID)
		if key == "" {
			res.InvalidDropped++
			continue
		}
		if seen[key] {
			res.Duplicates++
			continue
		}
		seen[key] = true

		switch c.EffectiveStatus() {
		case types.StatusCrossListed:
			res.CrossListDropped++
			continue
		case types.StatusReplacement:
			if !opts.IncludeReplacements {
				res.ReplacementDropped++
				continue
			}
		}
		c.ID = key
		res.Candidates = append(res.Candidates, c)
	}
	return res
}

// CanonicalID trims an identifier, strips an "arXiv:" or OAI prefix or abs URL, and
// removes a trailing version suffix (e.g. "2401.01234v2" becomes "2401.01234").
func CanonicalID(id string) string {
	id = strings.TrimSpace(id)
	if i := strings.Index(id, "/abs/"); i >= 0 {
		id = id[i+len("/abs/"):]
	}
	if i := strings.LastIndex(strings.ToLower(id), "arxiv.org:"); i >= 0 {
		id = id[i+len("arxiv.org:"):]
	}
	if len(id) > 6 && strings.EqualFold(id[:6], "arxiv:") {
		id = id[6:]
	}
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
