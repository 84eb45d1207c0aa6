// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// PreferenceProfileVersion is the preference profile major version this
// build understands.
const PreferenceProfileVersion = 2

// PreferenceProfile holds declared interests and the signals learned from
// feedback. PositiveSignals and NegativeSignals never share a term, and
// History is append-only.
type PreferenceProfile struct {
	Version          int            `json:"version" yaml:"version" validate:"required"`
	CoreInterests    []string       `json:"core_interests" yaml:"core_interests" validate:"dive,required"`
	MethodsInterests []string       `json:"methods_interests" yaml:"methods_interests" validate:"dive,required"`
	PositiveSignals  []string       `json:"positive_signals" yaml:"positive_signals" validate:"dive,required"`
	NegativeSignals  []string       `json:"negative_signals" yaml:"negative_signals" validate:"dive,required"`
	FavoriteAuthors  []string       `json:"favorite_authors" yaml:"favorite_authors" validate:"dive,required"`
	ArxivCategories  []string       `json:"arxiv_categories" yaml:"arxiv_categories" validate:"dive,required"`
	LastUpdated      string         `json:"last_updated" yaml:"last_updated"`
	History          []HistoryEntry `json:"history" yaml:"history"`
}

// HistoryEntry records one feedback session: the raw inputs and the deltas
// derived from them.
type HistoryEntry struct {
	Date             string   `json:"date" yaml:"date"`
	DigestID         string   `json:"digest_id,omitempty" yaml:"digest_id,omitempty"`
	LikedPapers      []string `json:"liked_papers" yaml:"liked_papers"`
	DislikedPapers   []string `json:"disliked_papers,omitempty" yaml:"disliked_papers,omitempty"`
	DislikedTopics   []string `json:"disliked_topics" yaml:"disliked_topics"`
	MentionedAuthors []string `json:"mentioned_authors,omitempty" yaml:"mentioned_authors,omitempty"`

	// LikedSignals are the salient terms extracted from liked papers in
	// this session, whether or not they were new.
	LikedSignals []string `json:"liked_signals,omitempty" yaml:"liked_signals,omitempty"`

	SignalsAdded []string `json:"signals_added" yaml:"signals_added"`
	Promoted     []string `json:"promoted,omitempty" yaml:"promoted,omitempty"`
	Rejected     []string `json:"rejected,omitempty" yaml:"rejected,omitempty"`
	Note         string   `json:"note,omitempty" yaml:"note,omitempty"`
}

// NewPreferenceProfile returns an empty profile at the current version.
func NewPreferenceProfile(categories, interests []string, date string) PreferenceProfile {
	if len(categories) == 0 {
		categories = []string{"astro-ph.CO"}
	}
	return PreferenceProfile{
		Version:          PreferenceProfileVersion,
		CoreInterests:    append([]string{}, interests...),
		MethodsInterests: []string{},
		PositiveSignals:  []string{},
		NegativeSignals:  []string{},
		FavoriteAuthors:  []string{},
		ArxivCategories:  append([]string{}, categories...),
		LastUpdated:      date,
		History:          []HistoryEntry{},
	}
}

// Clone returns a deep copy so callers can derive a new profile without
// touching the original.
func (p PreferenceProfile) Clone() PreferenceProfile {
	c := p
	c.CoreInterests = cloneStrings(p.CoreInterests)
	c.MethodsInterests = cloneStrings(p.MethodsInterests)
	c.PositiveSignals = cloneStrings(p.PositiveSignals)
	c.NegativeSignals = cloneStrings(p.NegativeSignals)
	c.FavoriteAuthors = cloneStrings(p.FavoriteAuthors)
	c.ArxivCategories = cloneStrings(p.ArxivCategories)
	if p.History == nil {
		return c
	}
	c.History = make([]HistoryEntry, len(p.History))
	for i, h := range p.History {
		h.LikedPapers = cloneStrings(h.LikedPapers)
		h.DislikedPapers = cloneStrings(h.DislikedPapers)
		h.DislikedTopics = cloneStrings(h.DislikedTopics)
		h.MentionedAuthors = cloneStrings(h.MentionedAuthors)
		h.LikedSignals = cloneStrings(h.LikedSignals)
		h.SignalsAdded = cloneStrings(h.SignalsAdded)
		h.Promoted = cloneStrings(h.Promoted)
		h.Rejected = cloneStrings(h.Rejected)
		c.History[i] = h
	}
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// CheckDisjoint verifies that no term is both a positive and a negative
// signal, comparing case-insensitively.
func (p PreferenceProfile) CheckDisjoint() error {
	neg := make(map[string]bool, len(p.NegativeSignals))
	for _, t := range p.NegativeSignals {
		neg[strings.ToLower(strings.TrimSpace(t))] = true
	}
	for _, t := range p.PositiveSignals {
		if neg[strings.ToLower(strings.TrimSpace(t))] {
			return &InvariantError{Field: "positive_signals", Term: t, Reason: "also a negative signal"}
		}
	}
	return nil
}
