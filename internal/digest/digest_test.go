// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-digest/internal/tier"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func researcher() types.ResearcherProfile {
	return types.ResearcherProfile{
		Version:    types.ResearcherProfileVersion,
		Researcher: types.Researcher{Name: "Jane Doe"},
		Network: types.Network{
			Coauthors: map[string]types.Coauthor{
				"Alice Smith": {Count: 4, LastYear: 2025},
				"Carol White": {Count: 2, LastYear: 2016},
			},
			ActiveCoauthors: []string{"Alice Smith"},
			SecondDegree:    map[string]float64{"Dan Brown": 3},
		},
		ResearchFingerprint: types.ResearchFingerprint{
			TopicKeywords: map[string]float64{"lensing": 5, "emulator": 4, "halo": 1, "bias": 1},
		},
	}
}

func preferences() types.PreferenceProfile {
	p := types.NewPreferenceProfile([]string{"astro-ph.CO"}, []string{"cosmology"}, "2026-01-01")
	p.MethodsInterests = []string{"simulation-based inference"}
	p.NegativeSignals = []string{"warm inflation"}
	return p
}

func options(days int) Options {
	return Options{
		Config:      types.DefaultDigestConfig(),
		Period:      "2026-03-02",
		WindowDays:  days,
		Categories:  []string{"astro-ph.CO"},
		GeneratedAt: day,
		Logger:      zerolog.Nop(),
	}
}

var vocabulary = []string{
	"dark energy", "weak lensing", "galaxy clusters", "warm inflation", "emulator",
	"reionization", "neutrino mass", "simulation-based inference", "halo bias", "exoplanets",
}

var authorPool = []string{"Alice Smith", "Bob Jones", "Carol White", "Dan Brown", "Eve Green", "Frank Black"}

var categoryPool = []string{"astro-ph.CO", "astro-ph.GA", "astro-ph.EP", "hep-th", "gr-qc"}

// randomCandidates builds a reproducible candidate set.
func randomCandidates(seed int64, n int) []types.PaperCandidate {
	r := rand.New(rand.NewSource(seed))
	out := make([]types.PaperCandidate, 0, n)
	for i := 0; i < n; i++ {
		primary := categoryPool[r.Intn(len(categoryPool))]
		c := types.PaperCandidate{
			ID:              fmt.Sprintf("2603.%05d", i),
			Title:           vocabulary[r.Intn(len(vocabulary))] + " study",
			Abstract:        vocabulary[r.Intn(len(vocabulary))] + " and " + vocabulary[r.Intn(len(vocabulary))],
			Authors:         []string{authorPool[r.Intn(len(authorPool))]},
			Categories:      []string{primary},
			PrimaryCategory: primary,
			PublishedAt:     day.Add(-time.Duration(r.Intn(72)) * time.Hour),
			Status:          types.StatusNew,
		}
		if r.Intn(10) == 0 {
			c.Status = types.StatusCrossListed
		}
		out = append(out, c)
	}
	return out
}

func TestBuildScenarioA1(t *testing.T) {
	cands := []types.PaperCandidate{{
		ID:              "A1",
		Title:           "Simulation-based inference for galaxy clusters",
		Authors:         []string{"Alice Smith"},
		Categories:      []string{"astro-ph.CO"},
		PrimaryCategory: "astro-ph.CO",
	}}
	d, err := Build(cands, researcher(), preferences(), options(1))
	require.NoError(t, err)

	e, ok := d.Entry("A1")
	require.True(t, ok)
	assert.Equal(t, types.TierTopPick, e.Tier)
	for _, fam := range []string{types.SignalCoreInterest, types.SignalMethodsMatch, types.SignalActiveCoauthor} {
		assert.True(t, e.HasSignal(fam), "missing %s", fam)
	}

	id, err := d.Resolve(1)
	require.NoError(t, err)
	assert.Equal(t, "A1", id)
	_, err = d.Resolve(2)
	assert.ErrorIs(t, err, types.ErrUnknownReference)
}

func TestBuildNegativeOnlyIsNeverTopPick(t *testing.T) {
	cands := []types.PaperCandidate{
		{ID: "N1", Title: "Warm inflation and the curvaton", Categories: []string{"hep-th"}, PrimaryCategory: "hep-th"},
		{ID: "N2", Title: "Warm inflation in the early universe", Categories: []string{"astro-ph.GA"}, PrimaryCategory: "astro-ph.GA"},
	}
	d, err := Build(cands, researcher(), preferences(), options(1))
	require.NoError(t, err)

	for _, e := range d.Entries {
		assert.NotEqual(t, types.TierTopPick, e.Tier, e.Candidate.ID)
		assert.NotEqual(t, types.TierSolidMatch, e.Tier, e.Candidate.ID)
	}
	n1, _ := d.Entry("N1")
	assert.Equal(t, types.TierExcluded, n1.Tier)
	n2, _ := d.Entry("N2")
	assert.Equal(t, types.TierBoundaryExpander, n2.Tier, "related category keeps it as a low boundary expander")
}

func TestBuildTieBreakPrefersCoauthor(t *testing.T) {
	// Both score 4: one core match plus category fit, or the active
	// co-author weight alone.
	cands := []types.PaperCandidate{
		{ID: "T1", Title: "cosmology notes", Categories: []string{"astro-ph.CO"}, PrimaryCategory: "astro-ph.CO", PublishedAt: day},
		{ID: "T2", Title: "stellar notes", Authors: []string{"Alice Smith"}, Categories: []string{"astro-ph.SR"}, PrimaryCategory: "astro-ph.SR", PublishedAt: day.Add(-time.Hour)},
	}
	d, err := Build(cands, researcher(), preferences(), options(1))
	require.NoError(t, err)

	t1, _ := d.Entry("T1")
	t2, _ := d.Entry("T2")
	require.Equal(t, t1.Score, t2.Score)
	assert.Equal(t, "T2", d.Entries[0].Candidate.ID)
	assert.Equal(t, 1, t2.Rank)
}

func TestBuildEmptyCandidateSet(t *testing.T) {
	cands := []types.PaperCandidate{{ID: "X", Status: types.StatusCrossListed}}
	d, err := Build(cands, researcher(), preferences(), options(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrEmptyCandidateSet)
	assert.Equal(t, 1, d.Provenance.CandidatesIn)
	assert.Equal(t, 1, d.Provenance.CrossListDropped)
}

func TestBuildRejectsUnknownVersions(t *testing.T) {
	rp := researcher()
	rp.Version = 2
	_, err := Build(randomCandidates(1, 5), rp, preferences(), options(1))
	assert.ErrorIs(t, err, types.ErrProfileVersionUnsupported)

	pp := preferences()
	pp.Version = 1
	_, err = Build(randomCandidates(1, 5), researcher(), pp, options(1))
	var verr *types.VersionError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "preference", verr.Kind)
}

func TestBuildIsDeterministic(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		cands := randomCandidates(seed, 120)
		a, err := Build(cands, researcher(), preferences(), options(7))
		require.NoError(t, err)
		b, err := Build(cands, researcher(), preferences(), options(7))
		require.NoError(t, err)

		ja, err := json.Marshal(a)
		require.NoError(t, err)
		jb, err := json.Marshal(b)
		require.NoError(t, err)
		assert.Equal(t, string(ja), string(jb), "seed %d", seed)
		assert.Equal(t, a.ID, b.ID)
	}
}

func TestBuildProperties(t *testing.T) {
	for _, days := range []int{1, 3, 7, 14, 30} {
		for seed := int64(1); seed <= 8; seed++ {
			name := fmt.Sprintf("days=%d/seed=%d", days, seed)
			d, err := Build(randomCandidates(seed, 150), researcher(), preferences(), options(days))
			require.NoError(t, err, name)

			// Monotonicity across presented tiers.
			minOf := map[types.Tier]float64{}
			maxOf := map[types.Tier]float64{}
			for _, block := range d.Tiers {
				for i, item := range block.Items {
					if i == 0 || item.Score < minOf[block.Tier] {
						minOf[block.Tier] = item.Score
					}
					if i == 0 || item.Score > maxOf[block.Tier] {
						maxOf[block.Tier] = item.Score
					}
				}
			}
			if d.Count(types.TierTopPick) > 0 && d.Count(types.TierSolidMatch) > 0 {
				assert.GreaterOrEqual(t, minOf[types.TierTopPick], maxOf[types.TierSolidMatch], name)
			}
			if d.Count(types.TierSolidMatch) > 0 {
				for _, e := range d.Entries {
					if e.Tier == types.TierBoundaryExpander && !e.Forced {
						assert.GreaterOrEqual(t, minOf[types.TierSolidMatch], e.Score, name)
					}
				}
			}

			// Omission-guard completeness.
			guard := tier.GuardSize(d.Count(types.TierTopPick), d.Count(types.TierSolidMatch), days)
			for i, e := range d.Entries {
				if i >= guard {
					break
				}
				if e.Tier != types.TierTopPick && e.Tier != types.TierSolidMatch {
					assert.True(t, e.ExclusionReason.Valid(), "%s: rank %d has no reason", name, e.Rank)
				}
			}

			// Active co-author papers always surface.
			for _, e := range d.Entries {
				if e.HasSignal(types.SignalActiveCoauthor) {
					assert.NotEqual(t, types.TierExcluded, e.Tier, "%s: %s dropped", name, e.Candidate.ID)
					assert.NotZero(t, e.RefIndex, name)
				}
			}

			// Reference index is 1..K in presentation order.
			want := 1
			for _, block := range d.Tiers {
				for _, item := range block.Items {
					assert.Equal(t, want, item.RankIndex, name)
					want++
				}
			}
		}
	}
}

func TestBuildProvenance(t *testing.T) {
	cands := randomCandidates(3, 60)
	cands = append(cands, cands[0], types.PaperCandidate{Title: "no identifier"})
	d, err := Build(cands, researcher(), preferences(), options(1))
	require.NoError(t, err)

	p := d.Provenance
	assert.Equal(t, 62, p.CandidatesIn)
	assert.Equal(t, 1, p.Duplicates)
	assert.Equal(t, 1, p.InvalidDropped)
	assert.Equal(t, "2026-03-02T00:00:00Z", p.GeneratedAt)
	assert.Equal(t, "2026-03-02", p.PeriodID)
	assert.Equal(t, 62-p.Duplicates-p.CrossListDropped-p.ReplacementDropped-p.InvalidDropped, len(d.Entries))

	excluded := 0
	for _, e := range d.Entries {
		if e.Tier == types.TierExcluded {
			excluded++
		}
	}
	assert.Equal(t, excluded, p.Excluded)
}
