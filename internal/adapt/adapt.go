// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package adapt turns user feedback on a digest into an updated preference
// profile. Apply is a pure state transition: the input profile is never
// modified and the result is validated before it is returned.
package adapt

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/arxiv-digest/internal/filter"
	"github.com/pdiddy/arxiv-digest/internal/names"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// Options tunes the adaptation rules.
type Options struct {
	// PromotionThreshold is the number of distinct sessions in which a
	// liked term must recur before it becomes a core interest.
	PromotionThreshold int

	// StalenessWindow is the number of trailing sessions a positive signal
	// may go unreferenced before it is surfaced for review.
	StalenessWindow int

	// MaxTermsPerLike caps the salient terms taken from one liked paper.
	MaxTermsPerLike int

	Logger zerolog.Logger
}

// OptionsFrom builds Options from the digest configuration.
func OptionsFrom(cfg types.DigestConfig, logger zerolog.Logger) Options {
	return Options{
		PromotionThreshold: cfg.PromotionThreshold,
		StalenessWindow:    cfg.StalenessWindow,
		MaxTermsPerLike:    cfg.MaxTermsPerLike,
		Logger:             logger,
	}
}

func (o *Options) applyDefaults() {
	if o.PromotionThreshold <= 0 {
		o.PromotionThreshold = 3
	}
	if o.StalenessWindow <= 0 {
		o.StalenessWindow = 10
	}
	if o.MaxTermsPerLike <= 0 {
		o.MaxTermsPerLike = 2
	}
}

// Result is the outcome of one feedback session.
type Result struct {
	Profile types.PreferenceProfile

	// Entry is the appended history record, nil for empty feedback.
	Entry *types.HistoryEntry

	// Rejected lists the deltas refused because they would break an
	// invariant. Each wraps types.ErrInvariantViolation.
	Rejected []error

	// Promoted lists terms moved into core interests this session.
	Promoted []string

	// Stale lists positive signals unreferenced across the staleness
	// window. They are reported, never removed.
	Stale []string
}

// session accumulates one feedback application.
type session struct {
	opts    Options
	p       *types.PreferenceProfile
	entry   *types.HistoryEntry
	result  *Result
	liked   *termSet
	applied *termSet
}

// Apply derives the next preference profile from prev, the feedback and the
// digest the feedback refers to. Deltas are applied in a fixed order:
// dislikes, likes, mentioned authors, explicit promotions, automatic
// promotions, then the staleness review. Empty feedback returns prev
// unchanged with no history entry.
func Apply(prev types.PreferenceProfile, fb types.Feedback, d types.Digest, opts Options) (Result, error) {
	opts.applyDefaults()
	if fb.IsEmpty() {
		return Result{Profile: prev.Clone()}, nil
	}

	liked, err := resolve(d, fb.LikedIndices, fb.LikedIDs)
	if err != nil {
		return Result{}, fmt.Errorf("resolving liked papers: %w", err)
	}
	disliked, err := resolve(d, fb.DislikedIndices, fb.DislikedIDs)
	if err != nil {
		return Result{}, fmt.Errorf("resolving disliked papers: %w", err)
	}

	p := prev.Clone()
	digestID := fb.DigestID
	if digestID == "" {
		digestID = d.ID
	}
	res := Result{}
	s := &session{
		opts: opts,
		p:    &p,
		entry: &types.HistoryEntry{
			Date:             fb.Date,
			DigestID:         digestID,
			LikedPapers:      liked,
			DislikedPapers:   disliked,
			DislikedTopics:   []string{},
			MentionedAuthors: append([]string{}, fb.MentionedAuthors...),
			SignalsAdded:     []string{},
			Note:             fb.Note,
		},
		result:  &res,
		liked:   newTermSet(nil),
		applied: newTermSet(nil),
	}

	s.applyDislikes(d, disliked, fb.DislikedTopics)
	s.applyLikes(d, liked)
	s.applyAuthors(fb.MentionedAuthors)
	s.applyPromotions(fb.Promote)
	s.p.History = append(s.p.History, *s.entry)
	s.autoPromote()
	s.reviewStaleness()

	// Refresh the appended record with the automatic promotions.
	s.p.History[len(s.p.History)-1] = *s.entry
	if fb.Date != "" {
		s.p.LastUpdated = fb.Date
	}

	if err := s.p.CheckDisjoint(); err != nil {
		return Result{}, err
	}

	res.Profile = p
	entry := *s.entry
	res.Entry = &entry
	return res, nil
}

// resolve maps reference indices and explicit IDs to the canonical paper
// IDs of digest entries, keeping the first occurrence of each. An ID the
// digest does not hold is a ReferenceError.
func resolve(d types.Digest, indices []int, ids []string) ([]string, error) {
	out := []string{}
	seen := make(map[string]bool)
	for _, k := range indices {
		id, err := d.Resolve(k)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, raw := range ids {
		id := filter.CanonicalID(raw)
		if id == "" {
			continue
		}
		if _, ok := d.Entry(id); !ok {
			return nil, &types.ReferenceError{PaperID: strings.TrimSpace(raw), DigestID: d.ID}
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}

func (s *session) reject(field, term, reason string) {
	err := &types.InvariantError{Field: field, Term: term, Reason: reason}
	s.opts.Logger.Warn().Err(err).Msg("preference delta rejected")
	s.result.Rejected = append(s.result.Rejected, err)
	s.entry.Rejected = append(s.entry.Rejected, err.Error())
}

// applyDislikes adds each named topic and one characteristic term per
// disliked paper to the negative signals, removing it from positive signals
// and core interests.
func (s *session) applyDislikes(d types.Digest, disliked []string, topics []string) {
	terms := append([]string{}, topics...)
	skip := newTermSet(s.p.CoreInterests)
	for _, t := range s.p.MethodsInterests {
		skip.add(t)
	}
	for _, id := range disliked {
		e, ok := d.Entry(id)
		if !ok {
			s.opts.Logger.Warn().Str("paper_id", id).Msg("disliked paper not in digest, no topic derived")
			continue
		}
		terms = append(terms, salientTerms(e, 1, false, skip)...)
	}

	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" || s.applied.has(t) {
			continue
		}
		s.applied.add(t)
		s.p.PositiveSignals, _ = removeTerm(s.p.PositiveSignals, t)
		s.p.CoreInterests, _ = removeTerm(s.p.CoreInterests, t)
		if !containsTerm(s.p.NegativeSignals, t) {
			s.p.NegativeSignals = append(s.p.NegativeSignals, t)
		}
		s.entry.DislikedTopics = append(s.entry.DislikedTopics, t)
	}
}

// applyLikes extracts salient terms from each liked paper and adds the new
// ones to the positive signals. Every extracted term is recorded in
// LikedSignals so promotions can count recurrences.
func (s *session) applyLikes(d types.Digest, liked []string) {
	skip := newTermSet(s.p.CoreInterests)
	for _, id := range liked {
		e, ok := d.Entry(id)
		if !ok {
			s.opts.Logger.Warn().Str("paper_id", id).Msg("liked paper not in digest, no terms derived")
			continue
		}
		for _, t := range salientTerms(e, s.opts.MaxTermsPerLike, true, skip) {
			if !s.liked.has(t) {
				s.liked.add(t)
				s.entry.LikedSignals = append(s.entry.LikedSignals, t)
			}
			switch {
			case containsTerm(s.p.NegativeSignals, t):
				s.reject("positive_signals", t, "term is a negative signal")
			case containsTerm(s.p.PositiveSignals, t), containsTerm(s.p.MethodsInterests, t):
			default:
				s.p.PositiveSignals = append(s.p.PositiveSignals, t)
				s.entry.SignalsAdded = append(s.entry.SignalsAdded, t)
			}
		}
	}
}

// applyAuthors adds mentioned authors to the favorites unless an equivalent
// name is already present.
func (s *session) applyAuthors(authors []string) {
	for _, a := range authors {
		display := displayName(a)
		if display == "" {
			continue
		}
		if names.Contains(s.p.FavoriteAuthors, display) {
			continue
		}
		s.p.FavoriteAuthors = append(s.p.FavoriteAuthors, display)
	}
}

// displayName reorders "Last, First" into "First Last" and collapses
// whitespace, keeping the original capitalization.
func displayName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if i := strings.Index(name, ","); i >= 0 {
		last := strings.TrimSpace(name[:i])
		first := strings.TrimSpace(name[i+1:])
		if first != "" {
			name = first + " " + last
		} else {
			name = last
		}
	}
	return name
}

// applyPromotions moves explicitly promoted terms into the core interests.
func (s *session) applyPromotions(terms []string) {
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if containsTerm(s.p.NegativeSignals, t) {
			s.reject("core_interests", t, "term is a negative signal")
			continue
		}
		s.promote(t)
	}
}

func (s *session) promote(t string) {
	s.p.PositiveSignals, _ = removeTerm(s.p.PositiveSignals, t)
	if containsTerm(s.p.CoreInterests, t) {
		return
	}
	s.p.CoreInterests = append(s.p.CoreInterests, t)
	s.result.Promoted = append(s.result.Promoted, t)
	s.entry.Promoted = append(s.entry.Promoted, t)
	s.opts.Logger.Info().Str("term", t).Msg("promoted to core interest")
}

// autoPromote promotes positive signals that recur among the liked-paper
// signals of at least PromotionThreshold distinct history entries.
func (s *session) autoPromote() {
	var due []string
	for _, t := range s.p.PositiveSignals {
		n := 0
		for _, h := range s.p.History {
			if containsTerm(h.LikedSignals, t) {
				n++
			}
		}
		if n >= s.opts.PromotionThreshold {
			due = append(due, t)
		}
	}
	for _, t := range due {
		s.promote(t)
	}
}

// reviewStaleness reports positive signals not referenced by any of the
// last StalenessWindow history entries. Signals are never removed here.
func (s *session) reviewStaleness() {
	h := s.p.History
	if len(h) < s.opts.StalenessWindow {
		return
	}
	recent := h[len(h)-s.opts.StalenessWindow:]
	for _, t := range s.p.PositiveSignals {
		referenced := false
		for _, rec := range recent {
			if containsTerm(rec.LikedSignals, t) || containsTerm(rec.SignalsAdded, t) {
				referenced = true
				break
			}
		}
		if !referenced {
			s.result.Stale = append(s.result.Stale, t)
		}
	}
}
