// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the records shared by the arxiv-digest packages:
// paper candidates, the researcher and preference profiles, ranked digests,
// feedback, configuration and the error kinds the engine surfaces.
package types

import "time"

// CandidateStatus is the announcement type of a candidate paper.
type CandidateStatus string

const (
	StatusNew         CandidateStatus = "new"
	StatusCrossListed CandidateStatus = "cross_listed"
	StatusReplacement CandidateStatus = "replacement"
)

// PaperCandidate is one discovered paper. Candidates are immutable once
// fetched and live only for the digest request that produced them.
type PaperCandidate struct {
	// ID is the canonical arXiv identifier without version suffix (e.g. "2511.10616").
	ID string `json:"id" yaml:"id" validate:"required"`

	// Title is the paper title with whitespace collapsed.
	Title string `json:"title" yaml:"title"`

	// Authors lists display names in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract with whitespace collapsed.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Categories lists every topic tag the paper is filed under.
	Categories []string `json:"categories" yaml:"categories"`

	// PrimaryCategory is the category the paper was submitted to.
	PrimaryCategory string `json:"primary_category" yaml:"primary_category"`

	PublishedAt time.Time `json:"published_at" yaml:"published_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`

	// Status is new, cross_listed or replacement. Empty is treated as new.
	Status CandidateStatus `json:"status" yaml:"status"`

	Comment    string `json:"comment,omitempty" yaml:"comment,omitempty"`
	JournalRef string `json:"journal_ref,omitempty" yaml:"journal_ref,omitempty"`
	DOI        string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// HighImpact marks a paper explicitly flagged as high impact by the
	// caller. It makes the paper eligible as a boundary expander.
	HighImpact bool `json:"high_impact,omitempty" yaml:"high_impact,omitempty"`
}

// EffectiveStatus returns Status, defaulting to StatusNew when unset.
func (c PaperCandidate) EffectiveStatus() CandidateStatus {
	if c.Status == "" {
		return StatusNew
	}
	return c.Status
}

// Primary returns PrimaryCategory, falling back to the first category.
func (c PaperCandidate) Primary() string {
	if c.PrimaryCategory != "" {
		return c.PrimaryCategory
	}
	if len(c.Categories) > 0 {
		return c.Categories[0]
	}
	return ""
}
