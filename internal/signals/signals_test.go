// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package signals

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

func families(ex Extraction) map[string]float64 {
	out := make(map[string]float64)
	for _, s := range ex.Signals {
		out[s.Family] = s.Weight
	}
	return out
}

func testResearcher() types.ResearcherProfile {
	return types.ResearcherProfile{
		Version: types.ResearcherProfileVersion,
		Network: types.Network{
			Coauthors: map[string]types.Coauthor{
				"Alice Smith": {Count: 5, LastYear: 2026},
				"Carol White": {Count: 1, LastYear: 2015},
			},
			ActiveCoauthors: []string{"Alice Smith"},
			SecondDegree:    map[string]float64{"Dan Brown": 2},
		},
	}
}

func TestTextContains(t *testing.T) {
	text := NewText("Photometric Redshifts of Galaxy Clusters", "We study weak lensing.")
	tests := []struct {
		term string
		want bool
	}{
		{"galaxy clusters", true},
		{"galaxy cluster", true},
		{"photometric redshift", true},
		{"LENSING", true},
		{"weak lens", true},
		{"strong lensing", false},
		{"", false},
	}
	for _, tc := range tests {
		t.Run(tc.term, func(t *testing.T) {
			assert.Equal(t, tc.want, text.Contains(tc.term))
		})
	}
}

func TestStem(t *testing.T) {
	assert.Equal(t, "galaxy", Stem("galaxies"))
	assert.Equal(t, "cluster", Stem("clusters"))
	assert.Equal(t, "lens", Stem("lensing"))
	assert.Equal(t, "analysis", Stem("analysis"))
	assert.Equal(t, "class", Stem("class"))
}

func TestMatchesCountsDistinctTerms(t *testing.T) {
	text := NewText("dark energy and dark matter")
	got := text.Matches([]string{"dark energy", "Dark Energy", "dark matter", "inflation"})
	assert.Equal(t, []string{"dark energy", "dark matter"}, got)
}

func TestRelatedCategory(t *testing.T) {
	user := []string{"astro-ph.CO"}
	assert.True(t, RelatedCategory([]string{"astro-ph.GA"}, user))
	assert.False(t, RelatedCategory([]string{"astro-ph.CO"}, user))
	assert.False(t, RelatedCategory([]string{"cs.LG"}, user))
	assert.Equal(t, "astro-ph", Archive("astro-ph.CO"))
	assert.Equal(t, "gr-qc", Archive("gr-qc"))
}

func TestExtractScenarioA1(t *testing.T) {
	prefs := types.PreferenceProfile{
		Version:          types.PreferenceProfileVersion,
		CoreInterests:    []string{"cosmology"},
		MethodsInterests: []string{"simulation-based inference"},
	}
	x := NewExtractor(testResearcher(), prefs, types.DefaultWeights(), zerolog.Nop())

	ex := x.Extract(types.PaperCandidate{
		ID:         "A1",
		Title:      "Simulation-based inference for galaxy clusters",
		Authors:    []string{"Alice Smith"},
		Categories: []string{"astro-ph.CO"},
	})

	got := families(ex)
	assert.Equal(t, map[string]float64{
		types.SignalCoreInterest:   3,
		types.SignalMethodsMatch:   2,
		types.SignalActiveCoauthor: 4,
	}, got)
	assert.Empty(t, ex.Ambiguous)
}

func TestExtractCoreInterestCap(t *testing.T) {
	prefs := types.PreferenceProfile{CoreInterests: []string{"dark energy", "dark matter", "inflation", "neutrinos"}}
	x := NewExtractor(types.ResearcherProfile{}, prefs, types.DefaultWeights(), zerolog.Nop())

	ex := x.Extract(types.PaperCandidate{ID: "1", Abstract: "dark energy, dark matter, inflation and neutrinos"})
	require.Len(t, ex.Signals, 1)
	assert.Equal(t, 9.0, ex.Signals[0].Weight)
	assert.Len(t, ex.Signals[0].Terms, 4)
}

func TestExtractNetworkLevels(t *testing.T) {
	x := NewExtractor(testResearcher(), types.PreferenceProfile{}, types.DefaultWeights(), zerolog.Nop())

	ex := x.Extract(types.PaperCandidate{ID: "1", Authors: []string{"White, C.", "D. Brown", "Eve Green"}})
	got := families(ex)
	assert.Equal(t, 3.0, got[types.SignalCoauthor])
	assert.Equal(t, 1.0, got[types.SignalSecondDegree])
	assert.NotContains(t, got, types.SignalActiveCoauthor)
}

func TestExtractAmbiguousAuthorGetsNoBoost(t *testing.T) {
	rp := testResearcher()
	rp.Network.Coauthors["Adam Smith"] = types.Coauthor{Count: 1, LastYear: 2010}
	x := NewExtractor(rp, types.PreferenceProfile{}, types.DefaultWeights(), zerolog.Nop())

	ex := x.Extract(types.PaperCandidate{ID: "1", Authors: []string{"A. Smith"}})
	assert.Empty(t, ex.Signals)
	require.Len(t, ex.Ambiguous, 1)
	assert.ErrorIs(t, ex.Ambiguous[0], types.ErrAmbiguousAuthorMatch)
}

func TestExtractFavoriteNegativeAndCategories(t *testing.T) {
	prefs := types.PreferenceProfile{
		FavoriteAuthors: []string{"Grace Hopper"},
		NegativeSignals: []string{"warm inflation"},
		ArxivCategories: []string{"astro-ph.CO", "gr-qc"},
	}
	x := NewExtractor(types.ResearcherProfile{}, prefs, types.DefaultWeights(), zerolog.Nop())

	ex := x.Extract(types.PaperCandidate{
		ID:              "1",
		Title:           "Warm inflation revisited",
		Authors:         []string{"G. Hopper"},
		Categories:      []string{"astro-ph.CO", "gr-qc"},
		PrimaryCategory: "astro-ph.CO",
	})
	got := families(ex)
	assert.Equal(t, 3.0, got[types.SignalFavoriteAuthor])
	assert.Equal(t, -2.0, got[types.SignalNegative])
	assert.Equal(t, 1.0, got[types.SignalCategoryFit])
	assert.Equal(t, 2.0, got[types.SignalCrossList])
}

func TestExtractFingerprintTopQuartile(t *testing.T) {
	rp := types.ResearcherProfile{ResearchFingerprint: types.ResearchFingerprint{
		TopicKeywords: map[string]float64{
			"lensing": 10, "clusters": 9, "baryons": 2, "halo": 1,
			"mass": 1, "redshift": 1, "survey": 1, "simulation": 1,
		},
	}}
	assert.Equal(t, []string{"lensing", "clusters"}, TopQuartile(rp.ResearchFingerprint.TopicKeywords))

	x := NewExtractor(rp, types.PreferenceProfile{}, types.DefaultWeights(), zerolog.Nop())
	assert.Contains(t, families(x.Extract(types.PaperCandidate{ID: "1", Abstract: "weak lensing maps"})), types.SignalFingerprint)
	assert.Empty(t, x.Extract(types.PaperCandidate{ID: "2", Abstract: "baryons in a halo"}).Signals)
}

func TestExtractIsDeterministic(t *testing.T) {
	x := NewExtractor(testResearcher(), types.PreferenceProfile{CoreInterests: []string{"clusters"}}, types.DefaultWeights(), zerolog.Nop())
	c := types.PaperCandidate{ID: "1", Title: "clusters", Authors: []string{"Alice Smith", "Dan Brown"}}
	assert.Equal(t, x.Extract(c), x.Extract(c))
}
