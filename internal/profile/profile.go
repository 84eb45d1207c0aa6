// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package profile loads, validates, saves and patches the researcher and
// preference profiles. Saves are atomic: the previous file stays valid until
// the new version is fully written.
package profile

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pdiddy/arxiv-digest/internal/record"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// versionHeader reads only the version field of a record.
type versionHeader struct {
	Version int `json:"version" yaml:"version"`
}

func checkVersion(data []byte, kind string, want int) error {
	var header versionHeader
	if err := record.Decode(data, &header); err != nil {
		return err
	}
	if header.Version != want {
		return &types.VersionError{Kind: kind, Got: header.Version, Expected: want}
	}
	return nil
}

// DecodeResearcher parses and validates a researcher profile. The version is
// checked before the rest of the record is read.
func DecodeResearcher(data []byte) (types.ResearcherProfile, error) {
	if err := checkVersion(data, "researcher", types.ResearcherProfileVersion); err != nil {
		return types.ResearcherProfile{}, err
	}
	var rp types.ResearcherProfile
	if err := record.Decode(data, &rp); err != nil {
		return types.ResearcherProfile{}, err
	}
	if err := ValidateResearcher(rp); err != nil {
		return types.ResearcherProfile{}, err
	}
	return rp, nil
}

// DecodePreferences parses and validates a preference profile.
func DecodePreferences(data []byte) (types.PreferenceProfile, error) {
	if err := checkVersion(data, "preference", types.PreferenceProfileVersion); err != nil {
		return types.PreferenceProfile{}, err
	}
	var pp types.PreferenceProfile
	if err := record.Decode(data, &pp); err != nil {
		return types.PreferenceProfile{}, err
	}
	if err := ValidatePreferences(pp); err != nil {
		return types.PreferenceProfile{}, err
	}
	return pp, nil
}

// ValidateResearcher checks field constraints and the network invariants:
// every active co-author is a co-author, and no second-degree contact is
// also a direct co-author.
func ValidateResearcher(rp types.ResearcherProfile) error {
	if err := validate.Struct(rp); err != nil {
		return fmt.Errorf("researcher profile: %w", err)
	}
	if rp.Version != types.ResearcherProfileVersion {
		return &types.VersionError{Kind: "researcher", Got: rp.Version, Expected: types.ResearcherProfileVersion}
	}
	for _, name := range rp.Network.ActiveCoauthors {
		if _, ok := rp.Network.Coauthors[name]; !ok {
			return &types.InvariantError{Field: "network.active_coauthors", Term: name, Reason: "not a co-author"}
		}
	}
	for name := range rp.Network.SecondDegree {
		if _, ok := rp.Network.Coauthors[name]; ok {
			return &types.InvariantError{Field: "network.second_degree", Term: name, Reason: "already a direct co-author"}
		}
	}
	return nil
}

// ValidatePreferences checks field constraints and positive/negative
// disjointness.
func ValidatePreferences(pp types.PreferenceProfile) error {
	if err := validate.Struct(pp); err != nil {
		return fmt.Errorf("preference profile: %w", err)
	}
	if pp.Version != types.PreferenceProfileVersion {
		return &types.VersionError{Kind: "preference", Got: pp.Version, Expected: types.PreferenceProfileVersion}
	}
	return pp.CheckDisjoint()
}

// LoadResearcher reads the researcher profile at path.
func LoadResearcher(path string) (types.ResearcherProfile, error) {
	data, err := readFile(path)
	if err != nil {
		return types.ResearcherProfile{}, err
	}
	rp, err := DecodeResearcher(data)
	if err != nil {
		return types.ResearcherProfile{}, fmt.Errorf("%s: %w", path, err)
	}
	return rp, nil
}

// LoadPreferences reads the preference profile at path.
func LoadPreferences(path string) (types.PreferenceProfile, error) {
	data, err := readFile(path)
	if err != nil {
		return types.PreferenceProfile{}, err
	}
	pp, err := DecodePreferences(data)
	if err != nil {
		return types.PreferenceProfile{}, fmt.Errorf("%s: %w", path, err)
	}
	return pp, nil
}

// SaveResearcher validates rp and installs it at path.
func SaveResearcher(path string, rp types.ResearcherProfile) error {
	if err := ValidateResearcher(rp); err != nil {
		return err
	}
	return record.WriteFile(path, rp)
}

// SavePreferences validates pp and installs it at path.
func SavePreferences(path string, pp types.PreferenceProfile) error {
	if err := ValidatePreferences(pp); err != nil {
		return err
	}
	return record.WriteFile(path, pp)
}

// IsInvalid reports whether err came from validation rather than I/O.
func IsInvalid(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs) ||
		errors.Is(err, types.ErrInvariantViolation) ||
		errors.Is(err, types.ErrProfileVersionUnsupported)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	return data, nil
}
