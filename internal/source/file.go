// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/pdiddy/arxiv-digest/internal/record"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadFile reads a JSON or YAML array of candidates. Every candidate needs
// an identifier; the first one without is reported by position.
func LoadFile(path string) ([]types.PaperCandidate, error) {
	var cands []types.PaperCandidate
	if err := record.ReadFile(path, &cands); err != nil {
		return nil, err
	}
	for i, c := range cands {
		if err := validate.Struct(c); err != nil {
			return nil, fmt.Errorf("%s: candidate %d: %w", path, i+1, err)
		}
	}
	return cands, nil
}

// SaveFile writes candidates to path, choosing the encoding from the
// extension.
func SaveFile(path string, cands []types.PaperCandidate) error {
	if cands == nil {
		cands = []types.PaperCandidate{}
	}
	return record.WriteFile(path, cands)
}
