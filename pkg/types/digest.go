// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Tier is one of the three presented relevance bands or excluded.
type Tier string

const (
	TierTopPick          Tier = "top_pick"
	TierSolidMatch       Tier = "solid_match"
	TierBoundaryExpander Tier = "boundary_expander"
	TierExcluded         Tier = "excluded"
)

// Presented lists the tiers shown to the user, in presentation order.
var Presented = []Tier{TierTopPick, TierSolidMatch, TierBoundaryExpander}

// ExclusionReason explains why an entry was held out of the core tiers.
type ExclusionReason string

const (
	ReasonDuplicateTopic   ExclusionReason = "duplicate_topic"
	ReasonSuperseded       ExclusionReason = "superseded"
	ReasonOutsideUserScope ExclusionReason = "outside_user_scope"
	ReasonOther            ExclusionReason = "other"
)

// Valid reports whether r is one of the enumerated exclusion reasons.
func (r ExclusionReason) Valid() bool {
	switch r {
	case ReasonDuplicateTopic, ReasonSuperseded, ReasonOutsideUserScope, ReasonOther:
		return true
	}
	return false
}

// Signal families recognized by the extractor.
const (
	SignalCoreInterest   = "core_interest"
	SignalMethodsMatch   = "methods_match"
	SignalPositive       = "positive_signal"
	SignalFavoriteAuthor = "favorite_author"
	SignalNegative       = "negative_signal"
	SignalActiveCoauthor = "active_coauthor"
	SignalCoauthor       = "coauthor"
	SignalSecondDegree   = "second_degree"
	SignalFingerprint    = "fingerprint"
	SignalCategoryFit    = "category_fit"
	SignalCrossList      = "cross_list"
)

// Signal is one weighted piece of evidence for a candidate. Terms holds the
// profile terms or names that triggered it.
type Signal struct {
	Family string   `json:"family" yaml:"family"`
	Weight float64  `json:"weight" yaml:"weight"`
	Terms  []string `json:"terms,omitempty" yaml:"terms,omitempty"`
}

// RankedEntry is a scored candidate with its tier placement.
type RankedEntry struct {
	Candidate       PaperCandidate  `json:"candidate" yaml:"candidate"`
	Score           float64         `json:"score" yaml:"score"`
	Signals         []Signal        `json:"signals" yaml:"signals"`
	Reasons         []string        `json:"reasons" yaml:"reasons"`
	Tier            Tier            `json:"tier" yaml:"tier"`
	ExclusionReason ExclusionReason `json:"exclusion_reason,omitempty" yaml:"exclusion_reason,omitempty"`

	// Rank is the 1-based position in the global scored order.
	Rank int `json:"rank" yaml:"rank"`

	// RefIndex is the 1-based reference index in presentation order, zero
	// for excluded entries.
	RefIndex int `json:"ref_index,omitempty" yaml:"ref_index,omitempty"`

	// Forced marks active co-author entries appended to the boundary tier
	// after capacity ran out.
	Forced bool `json:"forced,omitempty" yaml:"forced,omitempty"`
}

// HasSignal reports whether the entry carries the given family.
func (e RankedEntry) HasSignal(family string) bool {
	for _, s := range e.Signals {
		if s.Family == family {
			return true
		}
	}
	return false
}

// SignalTerms returns the trigger terms of the given family.
func (e RankedEntry) SignalTerms(family string) []string {
	for _, s := range e.Signals {
		if s.Family == family {
			return s.Terms
		}
	}
	return nil
}

// DigestItem is one presented row of a tier.
type DigestItem struct {
	RankIndex int      `json:"rank_index" yaml:"rank_index"`
	PaperID   string   `json:"paper_id" yaml:"paper_id"`
	Title     string   `json:"title,omitempty" yaml:"title,omitempty"`
	Authors   []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Score     float64  `json:"score" yaml:"score"`
	Reasons   []string `json:"reasons" yaml:"reasons"`
	Tier      Tier     `json:"tier" yaml:"tier"`
	Note      string   `json:"note,omitempty" yaml:"note,omitempty"`
}

// TierBlock is one ordered tier of a digest.
type TierBlock struct {
	Tier  Tier         `json:"tier" yaml:"tier"`
	Items []DigestItem `json:"items" yaml:"items"`
}

// Provenance records where a digest came from and what was dropped on the way.
type Provenance struct {
	PeriodID           string   `json:"period_id" yaml:"period_id"`
	WindowDays         int      `json:"window_days" yaml:"window_days"`
	Categories         []string `json:"categories" yaml:"categories"`
	CandidatesIn       int      `json:"candidates_in" yaml:"candidates_in"`
	Duplicates         int      `json:"duplicates" yaml:"duplicates"`
	CrossListDropped   int      `json:"cross_list_dropped" yaml:"cross_list_dropped"`
	ReplacementDropped int      `json:"replacement_dropped" yaml:"replacement_dropped"`
	InvalidDropped     int      `json:"invalid_dropped" yaml:"invalid_dropped"`
	Excluded           int      `json:"excluded" yaml:"excluded"`
	AmbiguousMatches   int      `json:"ambiguous_matches" yaml:"ambiguous_matches"`
	Partial            bool     `json:"partial" yaml:"partial"`
	GeneratedAt        string   `json:"generated_at" yaml:"generated_at"`
}

// Digest is the ranked, tiered output of one run.
type Digest struct {
	ID         string        `json:"id" yaml:"id"`
	Period     string        `json:"period" yaml:"period"`
	Tiers      []TierBlock   `json:"tiers" yaml:"tiers"`
	Entries    []RankedEntry `json:"entries" yaml:"entries"`
	Provenance Provenance    `json:"provenance" yaml:"provenance"`
}

// Resolve maps a 1-based reference index back to its paper ID.
func (d Digest) Resolve(ref int) (string, error) {
	for _, block := range d.Tiers {
		for _, item := range block.Items {
			if item.RankIndex == ref {
				return item.PaperID, nil
			}
		}
	}
	return "", &ReferenceError{Ref: ref, DigestID: d.ID}
}

// Entry returns the ranked entry for a paper ID.
func (d Digest) Entry(id string) (RankedEntry, bool) {
	for _, e := range d.Entries {
		if e.Candidate.ID == id {
			return e, true
		}
	}
	return RankedEntry{}, false
}

// Count returns the number of presented items in tier t.
func (d Digest) Count(t Tier) int {
	for _, block := range d.Tiers {
		if block.Tier == t {
			return len(block.Items)
		}
	}
	return 0
}
