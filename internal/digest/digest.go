// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package digest runs the ranking pipeline: filter, score, allocate tiers,
// then assemble the digest record with its reference index and provenance.
// Identical inputs always produce an identical digest.
package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/arxiv-digest/internal/filter"
	"github.com/pdiddy/arxiv-digest/internal/score"
	"github.com/pdiddy/arxiv-digest/internal/signals"
	"github.com/pdiddy/arxiv-digest/internal/tier"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// idNamespace scopes digest IDs derived with uuid.NewSHA1.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/pdiddy/arxiv-digest/digest"))

// Options describes one digest request.
type Options struct {
	Config types.DigestConfig

	// Period is the period identifier, e.g. "2026-03-02" or
	// "2026-02-23..2026-03-01".
	Period     string
	WindowDays int

	// Categories are the categories the candidates were fetched from.
	Categories []string

	// Partial marks a candidate set known to be incomplete.
	Partial bool

	// GeneratedAt is stamped into the provenance. Callers pass it in so
	// that reruns on the same inputs stay identical.
	GeneratedAt time.Time

	Logger zerolog.Logger
}

// CheckVersions fails fast on profile versions this build cannot read.
func CheckVersions(rp types.ResearcherProfile, pp types.PreferenceProfile) error {
	if rp.Version != types.ResearcherProfileVersion {
		return &types.VersionError{Kind: "researcher", Got: rp.Version, Expected: types.ResearcherProfileVersion}
	}
	if pp.Version != types.PreferenceProfileVersion {
		return &types.VersionError{Kind: "preference", Got: pp.Version, Expected: types.PreferenceProfileVersion}
	}
	return nil
}

// Build ranks candidates against the two profiles. When no candidate
// survives filtering, the returned digest carries only provenance and the
// error wraps types.ErrEmptyCandidateSet so the caller can widen the scope.
func Build(cands []types.PaperCandidate, rp types.ResearcherProfile, pp types.PreferenceProfile, opts Options) (types.Digest, error) {
	if err := CheckVersions(rp, pp); err != nil {
		return types.Digest{}, err
	}
	cfg := opts.Config
	if err := cfg.Weights.Validate(); err != nil {
		return types.Digest{}, err
	}
	log := opts.Logger.With().Str("period", opts.Period).Logger()

	filtered := filter.Apply(cands, filter.Options{IncludeReplacements: cfg.IncludeReplacements})
	prov := types.Provenance{
		PeriodID:           opts.Period,
		WindowDays:         opts.WindowDays,
		Categories:         append([]string{}, opts.Categories...),
		CandidatesIn:       len(cands),
		Duplicates:         filtered.Duplicates,
		CrossListDropped:   filtered.CrossListDropped,
		ReplacementDropped: filtered.ReplacementDropped,
		InvalidDropped:     filtered.InvalidDropped,
		Partial:            opts.Partial,
	}
	if !opts.GeneratedAt.IsZero() {
		prov.GeneratedAt = opts.GeneratedAt.UTC().Format(time.RFC3339)
	}
	log.Debug().
		Int("candidates_in", len(cands)).
		Int("eligible", len(filtered.Candidates)).
		Int("duplicates", filtered.Duplicates).
		Int("cross_list_dropped", filtered.CrossListDropped).
		Int("replacement_dropped", filtered.ReplacementDropped).
		Int("invalid_dropped", filtered.InvalidDropped).
		Msg("candidates filtered")

	if len(filtered.Candidates) == 0 {
		return types.Digest{Period: opts.Period, Provenance: prov}, fmt.Errorf("period %s: %w", opts.Period, types.ErrEmptyCandidateSet)
	}

	x := signals.NewExtractor(rp, pp, cfg.Weights, log)
	ranked := score.Rank(filtered.Candidates, x, cfg.Weights)
	prov.AmbiguousMatches = ranked.Ambiguous

	alloc, err := tier.Allocate(ranked.Entries, tier.Options{
		Anchors:       cfg.Bounds,
		WindowDays:    opts.WindowDays,
		TopMinScore:   cfg.TopMinScore,
		SolidMinScore: cfg.SolidMinScore,
		Categories:    pp.ArxivCategories,
		Logger:        log,
	})
	if err != nil {
		return types.Digest{}, fmt.Errorf("allocating tiers: %w", err)
	}

	d := assemble(alloc.Entries, opts.Period, prov)
	log.Info().
		Str("digest_id", d.ID).
		Int("top_pick", d.Count(types.TierTopPick)).
		Int("solid_match", d.Count(types.TierSolidMatch)).
		Int("boundary_expander", d.Count(types.TierBoundaryExpander)).
		Int("excluded", d.Provenance.Excluded).
		Int("forced", alloc.Forced).
		Msg("digest built")
	return d, nil
}

// assemble groups entries into presented tiers, assigns the reference index
// 1..K in presentation order and derives the digest ID from it.
func assemble(entries []types.RankedEntry, period string, prov types.Provenance) types.Digest {
	d := types.Digest{Period: period, Entries: entries}

	ref := 0
	var order []string
	for _, t := range types.Presented {
		block := types.TierBlock{Tier: t, Items: []types.DigestItem{}}
		for i := range d.Entries {
			e := &d.Entries[i]
			if e.Tier != t {
				continue
			}
			ref++
			e.RefIndex = ref
			item := types.DigestItem{
				RankIndex: ref,
				PaperID:   e.Candidate.ID,
				Title:     e.Candidate.Title,
				Authors:   e.Candidate.Authors,
				Score:     e.Score,
				Reasons:   e.Reasons,
				Tier:      t,
			}
			if e.Forced {
				item.Note = "active co-author"
			}
			block.Items = append(block.Items, item)
			order = append(order, e.Candidate.ID)
		}
		d.Tiers = append(d.Tiers, block)
	}

	for _, e := range d.Entries {
		if e.Tier == types.TierExcluded {
			prov.Excluded++
		}
	}
	d.Provenance = prov
	d.ID = uuid.NewSHA1(idNamespace, []byte(period+"|"+strings.Join(order, ","))).String()
	return d
}
