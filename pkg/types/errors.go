// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Typed errors below wrap them so callers can use errors.Is.
var (
	ErrEmptyCandidateSet         = errors.New("no eligible candidates")
	ErrProfileVersionUnsupported = errors.New("unsupported profile version")
	ErrOmissionGuardViolation    = errors.New("omission guard violation")
	ErrInvariantViolation        = errors.New("invariant violation")
	ErrAmbiguousAuthorMatch      = errors.New("ambiguous author match")
	ErrUnknownReference          = errors.New("unknown reference index")
)

// VersionError reports a profile whose major version is not recognized.
type VersionError struct {
	Kind     string
	Got      int
	Expected int
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("%s profile version %d (expected %d)", e.Kind, e.Got, e.Expected)
}

func (e *VersionError) Unwrap() error { return ErrProfileVersionUnsupported }

// OmissionGuardError lists entries inside the guard window that have neither
// a core tier nor an exclusion reason.
type OmissionGuardError struct {
	Guard      int
	Violations []string
}

func (e *OmissionGuardError) Error() string {
	return fmt.Sprintf("%d entries in top %d without placement or reason: %s",
		len(e.Violations), e.Guard, strings.Join(e.Violations, ", "))
}

func (e *OmissionGuardError) Unwrap() error { return ErrOmissionGuardViolation }

// InvariantError describes a rejected preference delta.
type InvariantError struct {
	Field  string
	Term   string
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Field, e.Term, e.Reason)
}

func (e *InvariantError) Unwrap() error { return ErrInvariantViolation }

// AmbiguousMatchError records an author name that could not be resolved to a
// single profile name.
type AmbiguousMatchError struct {
	Author     string
	Candidates []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("author %q matches %s", e.Author, strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousMatchError) Unwrap() error { return ErrAmbiguousAuthorMatch }

// ReferenceError reports a reference index, or a paper ID when PaperID is
// set, that the digest does not contain.
type ReferenceError struct {
	Ref      int
	PaperID  string
	DigestID string
}

func (e *ReferenceError) Error() string {
	if e.PaperID != "" {
		return fmt.Sprintf("paper %s not in digest %s", e.PaperID, e.DigestID)
	}
	return fmt.Sprintf("reference %d not in digest %s", e.Ref, e.DigestID)
}

func (e *ReferenceError) Unwrap() error { return ErrUnknownReference }
