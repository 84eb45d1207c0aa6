// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package signals

import (
	"regexp"
	"strings"
)

var reWord = regexp.MustCompile(`[a-z0-9]+`)

// stopWords are dropped when extracting salient terms.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "and": true, "or": true, "is": true,
	"are": true, "was": true, "were": true, "be": true, "been": true,
	"being": true, "with": true, "from": true, "by": true, "as": true,
	"it": true, "its": true, "this": true, "that": true, "these": true,
	"those": true, "we": true, "our": true, "us": true, "their": true,
	"they": true, "them": true, "which": true, "what": true, "how": true,
	"when": true, "where": true, "who": true, "will": true, "can": true,
	"may": true, "using": true, "via": true, "between": true, "into": true,
	"through": true, "during": true, "before": true, "after": true,
	"above": true, "below": true, "up": true, "down": true, "new": true,
	"first": true, "two": true, "three": true, "one": true, "based": true,
	"study": true, "analysis": true, "results": true, "data": true,
	"model": true, "method": true, "approach": true, "paper": true,
	"show": true, "find": true, "also": true, "than": true, "more": true,
	"most": true, "not": true, "no": true, "but": true, "if": true,
	"about": true, "each": true, "all": true, "both": true, "do": true,
	"does": true, "did": true, "has": true, "have": true, "had": true,
	"such": true, "only": true, "very": true, "just": true, "over": true,
	"under": true, "then": true, "so": true, "well": true, "here": true,
	"there": true, "some": true, "any": true, "other": true, "present": true,
	"use": true, "used": true, "work": true, "high": true, "low": true,
	"large": true, "small": true, "different": true,
}

// IsStopWord reports whether w carries no topical meaning.
func IsStopWord(w string) bool { return stopWords[w] }

// Words lowercases s and splits it into alphanumeric words.
func Words(s string) []string {
	return reWord.FindAllString(strings.ToLower(s), -1)
}

// Stem reduces a lowercase word to a crude stem so that singular and plural
// or inflected forms compare equal ("clusters" and "cluster").
func Stem(w string) string {
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return w[:len(w)-3] + "y"
	case len(w) > 4 && strings.HasSuffix(w, "sses"):
		return w[:len(w)-2]
	case len(w) > 5 && strings.HasSuffix(w, "ing"):
		return w[:len(w)-3]
	case len(w) > 4 && strings.HasSuffix(w, "ed") && !strings.HasSuffix(w, "eed"):
		return w[:len(w)-2]
	case len(w) > 3 && strings.HasSuffix(w, "s") &&
		!strings.HasSuffix(w, "ss") && !strings.HasSuffix(w, "us") && !strings.HasSuffix(w, "is"):
		return w[:len(w)-1]
	}
	return w
}

// Text is a prepared haystack for term matching.
type Text struct {
	lower string
	stems []string
}

// NewText joins parts into one searchable text.
func NewText(parts ...string) Text {
	joined := strings.ToLower(strings.Join(parts, " \n "))
	words := reWord.FindAllString(joined, -1)
	stems := make([]string, len(words))
	for i, w := range words {
		stems[i] = Stem(w)
	}
	return Text{lower: joined, stems: stems}
}

// Contains reports whether term occurs in the text, either as a
// case-insensitive substring or as a contiguous run of stemmed words.
func (t Text) Contains(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return false
	}
	if strings.Contains(t.lower, term) {
		return true
	}
	words := reWord.FindAllString(term, -1)
	if len(words) == 0 || len(words) > len(t.stems) {
		return false
	}
	want := make([]string, len(words))
	for i, w := range words {
		want[i] = Stem(w)
	}
outer:
	for i := 0; i+len(want) <= len(t.stems); i++ {
		for j, s := range want {
			if t.stems[i+j] != s {
				continue outer
			}
		}
		return true
	}
	return false
}

// Matches returns the terms, in input order, that occur in the text.
// Terms are compared case-insensitively and each distinct term counts once.
func (t Text) Matches(terms []string) []string {
	var out []string
	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		key := strings.ToLower(strings.TrimSpace(term))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if t.Contains(term) {
			out = append(out, term)
		}
	}
	return out
}
