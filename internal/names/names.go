// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package names compares author names in two stages: normalize, then require
// last-name equality plus first-initial equality. Comparisons are tri-state so
// callers can withhold a boost when a name cannot be resolved.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Result is the outcome of comparing two names.
type Result int

const (
	NoMatch Result = iota
	Match
	Ambiguous
)

func (r Result) String() string {
	switch r {
	case Match:
		return "match"
	case Ambiguous:
		return "ambiguous"
	}
	return "no-match"
}

// Normalize lowercases a name, folds diacritics, reorders "Last, First" to
// "First Last", drops everything but letters and spaces, and collapses spaces.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = strings.ToLower(foldDiacritics(name))

	if idx := strings.Index(name, ","); idx >= 0 {
		last := strings.TrimSpace(name[:idx])
		first := strings.TrimSpace(name[idx+1:])
		if first != "" {
			name = first + " " + last
		} else {
			name = last
		}
	}

	var sb strings.Builder
	sb.Grow(len(name))
	prevSpace := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r):
			sb.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '.' || r == '-':
			// Initials written "J.K." and hyphenated given names split into tokens.
			if !prevSpace && sb.Len() > 0 {
				sb.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// split returns the first given-name token and the last name of a
// normalized name.
func split(normalized string) (first, last string) {
	parts := strings.Fields(normalized)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", parts[0]
	}
	return parts[0], parts[len(parts)-1]
}

// Compare reports whether two names denote the same person. Last names must
// be equal. Two full given names must be equal; an initial matches any given
// name with the same first letter. A name without a given name cannot be
// resolved and yields Ambiguous.
func Compare(a, b string) Result {
	return compareNormalized(Normalize(a), Normalize(b))
}

func compareNormalized(na, nb string) Result {
	if na == "" || nb == "" {
		return NoMatch
	}
	if na == nb {
		return Match
	}
	firstA, lastA := split(na)
	firstB, lastB := split(nb)
	if lastA != lastB {
		return NoMatch
	}
	if firstA == "" || firstB == "" {
		return Ambiguous
	}
	if len(firstA) > 1 && len(firstB) > 1 && firstA != firstB {
		return NoMatch
	}
	if []rune(firstA)[0] == []rune(firstB)[0] {
		return Match
	}
	return NoMatch
}

// Index resolves author names against a fixed set of profile names.
type Index struct {
	names []string
	norms []string
}

// NewIndex builds an index over names, skipping blanks.
func NewIndex(names []string) *Index {
	idx := &Index{}
	for _, n := range names {
		nn := Normalize(n)
		if nn == "" {
			continue
		}
		idx.names = append(idx.names, n)
		idx.norms = append(idx.norms, nn)
	}
	return idx
}

// Len returns the number of indexed names.
func (idx *Index) Len() int { return len(idx.names) }

// Lookup resolves author to a single indexed name. An exact normalized match
// wins outright. Otherwise exactly one Match is required; several matches,
// or only ambiguous comparisons, yield Ambiguous with the competing names.
func (idx *Index) Lookup(author string) (string, Result, []string) {
	na := Normalize(author)
	if na == "" {
		return "", NoMatch, nil
	}

	var exact, matched, unsure []string
	for i, nn := range idx.norms {
		if nn == na {
			exact = append(exact, idx.names[i])
			continue
		}
		switch compareNormalized(na, nn) {
		case Match:
			matched = append(matched, idx.names[i])
		case Ambiguous:
			unsure = append(unsure, idx.names[i])
		}
	}

	switch {
	case len(exact) == 1:
		return exact[0], Match, nil
	case len(exact) > 1:
		return "", Ambiguous, exact
	case len(matched) == 1:
		return matched[0], Match, nil
	case len(matched) > 1:
		return "", Ambiguous, matched
	case len(unsure) > 0:
		return "", Ambiguous, unsure
	}
	return "", NoMatch, nil
}

// Contains reports whether list already holds a name matching name.
func Contains(list []string, name string) bool {
	nn := Normalize(name)
	for _, existing := range list {
		if compareNormalized(nn, Normalize(existing)) == Match {
			return true
		}
	}
	return false
}
