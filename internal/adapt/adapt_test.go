// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapt

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

func testDigest(entries ...types.RankedEntry) types.Digest {
	d := types.Digest{ID: "digest-1", Entries: entries}
	block := types.TierBlock{Tier: types.TierTopPick}
	for i, e := range entries {
		block.Items = append(block.Items, types.DigestItem{RankIndex: i + 1, PaperID: e.Candidate.ID, Tier: types.TierTopPick})
	}
	d.Tiers = []types.TierBlock{block}
	return d
}

func paper(id, title, abstract string, sigs ...types.Signal) types.RankedEntry {
	return types.RankedEntry{
		Candidate: types.PaperCandidate{ID: id, Title: title, Abstract: abstract},
		Signals:   sigs,
	}
}

func testOpts() Options {
	return OptionsFrom(types.DefaultDigestConfig(), zerolog.Nop())
}

func baseProfile() types.PreferenceProfile {
	p := types.NewPreferenceProfile([]string{"astro-ph.CO"}, []string{"cosmology"}, "2026-01-01")
	p.PositiveSignals = []string{"dark energy", "weak lensing"}
	p.NegativeSignals = []string{"warm inflation"}
	p.FavoriteAuthors = []string{"Alice Smith"}
	return p
}

func TestApplyEmptyFeedbackIsNoOp(t *testing.T) {
	prev := baseProfile()
	res, err := Apply(prev, types.Feedback{Date: "2026-02-01", Note: "nothing today"}, testDigest(), testOpts())
	require.NoError(t, err)
	assert.Nil(t, res.Entry)
	assert.Equal(t, prev, res.Profile)
}

func TestApplyRoundTripIdempotent(t *testing.T) {
	d := testDigest(paper("A1", "Photometric redshifts for clusters", "photometric redshifts again"))
	first, err := Apply(baseProfile(), types.Feedback{Date: "2026-02-01", LikedIndices: []int{1}}, d, testOpts())
	require.NoError(t, err)

	second, err := Apply(first.Profile, types.Feedback{}, d, testOpts())
	require.NoError(t, err)
	assert.Equal(t, first.Profile, second.Profile)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	prev := baseProfile()
	snapshot := prev.Clone()
	d := testDigest(paper("A1", "Galaxy clusters", "photometric redshifts"))
	_, err := Apply(prev, types.Feedback{
		Date:             "2026-02-01",
		LikedIndices:     []int{1},
		DislikedTopics:   []string{"dark energy"},
		MentionedAuthors: []string{"Bob Jones"},
	}, d, testOpts())
	require.NoError(t, err)
	assert.Equal(t, snapshot, prev)
}

func TestApplyDislikeKeepsDisjoint(t *testing.T) {
	prev := baseProfile()
	prev.CoreInterests = append(prev.CoreInterests, "Modified Gravity")
	res, err := Apply(prev, types.Feedback{
		Date:           "2026-02-01",
		DislikedTopics: []string{"Dark Energy", "modified gravity"},
	}, testDigest(), testOpts())
	require.NoError(t, err)

	p := res.Profile
	assert.Equal(t, []string{"weak lensing"}, p.PositiveSignals)
	assert.Equal(t, []string{"cosmology"}, p.CoreInterests)
	assert.Equal(t, []string{"warm inflation", "Dark Energy", "modified gravity"}, p.NegativeSignals)
	assert.NoError(t, p.CheckDisjoint())
	require.Len(t, p.History, 1)
	assert.Equal(t, []string{"Dark Energy", "modified gravity"}, p.History[0].DislikedTopics)
	assert.Equal(t, "2026-02-01", p.LastUpdated)
}

func TestApplyDislikedPaperDerivesTopic(t *testing.T) {
	d := testDigest(paper("X1", "Axion dark matter", "axion dark matter halos"))
	res, err := Apply(baseProfile(), types.Feedback{Date: "2026-02-01", DislikedIndices: []int{1}}, d, testOpts())
	require.NoError(t, err)
	assert.Contains(t, res.Profile.NegativeSignals, "axion dark")
	assert.Equal(t, []string{"X1"}, res.Entry.DislikedPapers)
}

func TestApplyLikeConflictingWithNegativeIsRejected(t *testing.T) {
	d := testDigest(paper("A1", "Warm inflation models", "warm inflation warm inflation",
		types.Signal{Family: types.SignalPositive, Weight: 2, Terms: []string{"warm inflation"}}))

	res, err := Apply(baseProfile(), types.Feedback{Date: "2026-02-01", LikedIDs: []string{"A1"}}, d, testOpts())
	require.NoError(t, err)
	require.NotEmpty(t, res.Rejected)
	assert.ErrorIs(t, res.Rejected[0], types.ErrInvariantViolation)
	assert.NotContains(t, res.Profile.PositiveSignals, "warm inflation")
	assert.Len(t, res.Entry.Rejected, len(res.Rejected))
	assert.NoError(t, res.Profile.CheckDisjoint())
}

func TestApplyLikeAndDislikeSameSession(t *testing.T) {
	d := testDigest(paper("A1", "Cluster lensing", "cluster lensing profiles"))
	res, err := Apply(baseProfile(), types.Feedback{
		Date:           "2026-02-01",
		LikedIndices:   []int{1},
		DislikedTopics: []string{"cluster lensing"},
	}, d, testOpts())
	require.NoError(t, err)
	assert.Contains(t, res.Profile.NegativeSignals, "cluster lensing")
	assert.NotContains(t, res.Profile.PositiveSignals, "cluster lensing")
	assert.NotEmpty(t, res.Rejected)
}

func TestApplyLikesAddAtMostTwoTerms(t *testing.T) {
	d := testDigest(paper("A1", "Galaxy bias", "galaxy bias from halo occupation. halo occupation models and galaxy bias and baryon acoustic oscillations"))
	res, err := Apply(baseProfile(), types.Feedback{Date: "2026-02-01", LikedIndices: []int{1}}, d, testOpts())
	require.NoError(t, err)

	assert.Equal(t, []string{"galaxy bias", "halo occupation"}, res.Entry.SignalsAdded)
	assert.Equal(t, []string{"dark energy", "weak lensing", "galaxy bias", "halo occupation"}, res.Profile.PositiveSignals)
}

func TestApplyLikeExistingTermIsNotDuplicated(t *testing.T) {
	d := testDigest(paper("A1", "Weak lensing", "weak lensing peaks",
		types.Signal{Family: types.SignalPositive, Weight: 2, Terms: []string{"weak lensing"}}))
	res, err := Apply(baseProfile(), types.Feedback{Date: "2026-02-01", LikedIndices: []int{1}}, d, testOpts())
	require.NoError(t, err)

	n := 0
	for _, s := range res.Profile.PositiveSignals {
		if s == "weak lensing" {
			n++
		}
	}
	assert.Equal(t, 1, n)
	assert.Contains(t, res.Entry.LikedSignals, "weak lensing")
}

func TestApplyAuthorsAreNormalizedAndDeduplicated(t *testing.T) {
	res, err := Apply(baseProfile(), types.Feedback{
		Date:             "2026-02-01",
		MentionedAuthors: []string{"Smith, A.", "Jones,  Bob", "B. Jones"},
	}, testDigest(), testOpts())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice Smith", "Bob Jones"}, res.Profile.FavoriteAuthors)
}

func TestApplyExplicitPromotion(t *testing.T) {
	res, err := Apply(baseProfile(), types.Feedback{
		Date:    "2026-02-01",
		Promote: []string{"weak lensing", "warm inflation"},
	}, testDigest(), testOpts())
	require.NoError(t, err)

	assert.Equal(t, []string{"cosmology", "weak lensing"}, res.Profile.CoreInterests)
	assert.Equal(t, []string{"dark energy"}, res.Profile.PositiveSignals)
	assert.Equal(t, []string{"weak lensing"}, res.Promoted)
	require.Len(t, res.Rejected, 1)
	assert.ErrorIs(t, res.Rejected[0], types.ErrInvariantViolation)
}

func TestApplyPromotesAfterThreeSessions(t *testing.T) {
	const abstract = "Photometric redshifts are calibrated here. We show photometric redshifts for galaxy clusters and photometric redshifts errors."
	d := testDigest(paper("A1", "Simulation-based inference for galaxy clusters", abstract))

	p := baseProfile()
	for session := 1; session <= 3; session++ {
		fb := types.Feedback{Date: fmt.Sprintf("2026-02-0%d", session), LikedIDs: []string{"A1"}}
		res, err := Apply(p, fb, d, testOpts())
		require.NoError(t, err)
		p = res.Profile

		if session < 3 {
			assert.Contains(t, p.PositiveSignals, "photometric redshifts", "session %d", session)
			assert.NotContains(t, p.CoreInterests, "photometric redshifts", "session %d", session)
			continue
		}
		assert.Contains(t, p.CoreInterests, "photometric redshifts")
		assert.NotContains(t, p.PositiveSignals, "photometric redshifts")
		assert.Contains(t, res.Promoted, "photometric redshifts")
		assert.Contains(t, res.Entry.Promoted, "photometric redshifts")
	}
	assert.Len(t, p.History, 3)
	assert.Contains(t, p.History[2].Promoted, "photometric redshifts")
}

func TestApplyLearnsSingleAbstractTerm(t *testing.T) {
	d := testDigest(paper("A1", "Weak lensing mass maps of galaxy clusters", "We calibrate photometric redshifts for the survey."))

	p := baseProfile()
	for session := 1; session <= 3; session++ {
		fb := types.Feedback{Date: fmt.Sprintf("2026-03-0%d", session), LikedIndices: []int{1}}
		res, err := Apply(p, fb, d, testOpts())
		require.NoError(t, err)
		assert.Equal(t, []string{"photometric redshifts"}, res.Entry.LikedSignals, "session %d", session)
		p = res.Profile
	}
	assert.Equal(t, []string{"cosmology", "photometric redshifts"}, p.CoreInterests)
	assert.NotContains(t, p.PositiveSignals, "lensing mass")
}

func TestSalientTermsSkipOverlappingPairs(t *testing.T) {
	e := paper("A1", "", "weak lensing mass maps and weak lensing peaks",
		types.Signal{Family: types.SignalCoreInterest, Weight: 3, Terms: []string{"weak lensing"}})
	got := salientTerms(e, 2, true, newTermSet([]string{"weak lensing"}))
	assert.Equal(t, []string{"mass maps"}, got)
}

func TestSalientTermsIgnoreTitle(t *testing.T) {
	e := paper("A1", "Galaxy bias everywhere", "")
	assert.Empty(t, salientTerms(e, 2, true, newTermSet(nil)))
}

func TestApplyUnknownReference(t *testing.T) {
	prev := baseProfile()
	_, err := Apply(prev, types.Feedback{Date: "2026-02-01", LikedIndices: []int{7}}, testDigest(), testOpts())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrUnknownReference)
}

func TestApplyCanonicalizesPaperIDs(t *testing.T) {
	d := testDigest(paper("2401.01234", "Galaxy bias", "halo occupation models"))
	res, err := Apply(baseProfile(), types.Feedback{
		Date:     "2026-02-01",
		LikedIDs: []string{"2401.01234v2", "arXiv:2401.01234"},
	}, d, testOpts())
	require.NoError(t, err)
	assert.Equal(t, []string{"2401.01234"}, res.Entry.LikedPapers)
	assert.Equal(t, []string{"halo occupation"}, res.Entry.SignalsAdded)
}

func TestApplyUnknownPaperID(t *testing.T) {
	prev := baseProfile()
	d := testDigest(paper("2401.01234", "Galaxy bias", "halo occupation models"))
	_, err := Apply(prev, types.Feedback{Date: "2026-02-01", DislikedIDs: []string{"2401.09999v1"}}, d, testOpts())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrUnknownReference)

	var refErr *types.ReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "2401.09999v1", refErr.PaperID)
}

func TestApplyStalenessReview(t *testing.T) {
	prev := baseProfile()
	for i := 0; i < 9; i++ {
		prev.History = append(prev.History, types.HistoryEntry{
			Date:         fmt.Sprintf("2025-12-%02d", i+1),
			LikedSignals: []string{"weak lensing"},
		})
	}
	opts := testOpts()
	opts.StalenessWindow = 10

	res, err := Apply(prev, types.Feedback{Date: "2026-02-01", MentionedAuthors: []string{"Bob Jones"}}, testDigest(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"dark energy"}, res.Stale)
	assert.Contains(t, res.Profile.PositiveSignals, "dark energy", "stale signals are reported, not removed")
}

func TestBigrams(t *testing.T) {
	got := bigrams("The galaxy bias of galaxy bias", "galaxy bias and 21cm maps 2026 survey")
	require.NotEmpty(t, got)
	assert.Equal(t, "galaxy bias", got[0])
	assert.NotContains(t, got, "bias and")
	assert.NotContains(t, got, "bias galaxy")
}
