// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads settings through viper and resolves where profiles,
// digests and the database live.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// Name is the application name used for the config file, the environment
// prefix and the storage directory.
const Name = "arxiv-digest"

// EnvPrefix prefixes every environment override (ARXIV_DIGEST_FETCH_TIMEOUT).
const EnvPrefix = "ARXIV_DIGEST"

// SetDefaults registers the default value of every setting on v.
func SetDefaults(v *viper.Viper) {
	d := types.DefaultDigestConfig()
	v.SetDefault("digest.weights.very_strong", d.Weights.VeryStrong)
	v.SetDefault("digest.weights.strong", d.Weights.Strong)
	v.SetDefault("digest.weights.moderate", d.Weights.Moderate)
	v.SetDefault("digest.weights.mild", d.Weights.Mild)
	v.SetDefault("digest.weights.negative", d.Weights.Negative)
	v.SetDefault("digest.weights.core_match_cap", d.Weights.CoreMatchCap)
	v.SetDefault("digest.weights.coauthor_floor", d.Weights.CoauthorFloor)
	v.SetDefault("digest.bounds", d.Bounds)
	v.SetDefault("digest.top_min_score", d.TopMinScore)
	v.SetDefault("digest.solid_min_score", d.SolidMinScore)
	v.SetDefault("digest.include_replacements", false)
	v.SetDefault("digest.promotion_threshold", d.PromotionThreshold)
	v.SetDefault("digest.staleness_window", d.StalenessWindow)
	v.SetDefault("digest.max_terms_per_like", d.MaxTermsPerLike)

	v.SetDefault("fetch.timeout", "30s")
	v.SetDefault("fetch.user_agent", Name+"/0.1")
	v.SetDefault("fetch.categories", []string{})
	v.SetDefault("fetch.max_results", 500)
	v.SetDefault("fetch.request_interval", "3100ms")
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.api_url", "")
	v.SetDefault("fetch.feed_url", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("metrics.textfile", "")

	v.SetDefault("schedule.cron", "0 7 * * 1-5")
	v.SetDefault("schedule.timezone", "UTC")
	v.SetDefault("schedule.period", "today")

	v.SetDefault("storage.dir", "")
}

// Load applies defaults to v and unmarshals it into a validated Config.
func Load(v *viper.Viper) (types.Config, error) {
	SetDefaults(v)

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return types.Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail late.
func Validate(cfg types.Config) error {
	if err := cfg.Digest.Weights.Validate(); err != nil {
		return err
	}
	if len(cfg.Digest.Bounds) == 0 {
		return fmt.Errorf("digest.bounds: at least one anchor is required")
	}
	for _, b := range cfg.Digest.Bounds {
		if b.Days < 1 {
			return fmt.Errorf("digest.bounds: days must be positive, got %d", b.Days)
		}
		for _, r := range []types.Range{b.Top, b.Solid, b.Boundary} {
			if r.Min < 0 || r.Max < r.Min {
				return fmt.Errorf("digest.bounds[%d days]: invalid range %d-%d", b.Days, r.Min, r.Max)
			}
		}
	}
	if cfg.Digest.SolidMinScore > cfg.Digest.TopMinScore {
		return fmt.Errorf("digest.solid_min_score (%g) exceeds top_min_score (%g)",
			cfg.Digest.SolidMinScore, cfg.Digest.TopMinScore)
	}
	if cfg.Digest.PromotionThreshold < 1 {
		return fmt.Errorf("digest.promotion_threshold must be at least 1")
	}
	if cfg.Digest.StalenessWindow < 1 {
		return fmt.Errorf("digest.staleness_window must be at least 1")
	}
	if cfg.Fetch.RequestInterval < 0 || cfg.Fetch.Timeout < 0 {
		return fmt.Errorf("fetch: durations must not be negative")
	}
	if cfg.Schedule.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Schedule.Timezone); err != nil {
			return fmt.Errorf("schedule.timezone: %w", err)
		}
	}
	return nil
}

// Paths locates the files under the storage root.
type Paths struct {
	Root        string
	Researcher  string
	Preferences string
	Digests     string
	Candidates  string
}

// ResolvePaths picks the storage root: dir (flag or config) first, then
// ARXIV_DIGEST_HOME, then $XDG_DATA_HOME/arxiv-digest, then
// ~/.local/share/arxiv-digest.
func ResolvePaths(dir string, getenv func(string) string) (Paths, error) {
	root, err := resolveRoot(dir, getenv)
	if err != nil {
		return Paths{}, err
	}
	return Paths{
		Root:        root,
		Researcher:  filepath.Join(root, "researcher_profile.json"),
		Preferences: filepath.Join(root, "arxiv_preferences.json"),
		Digests:     filepath.Join(root, "digests"),
		Candidates:  filepath.Join(root, "candidates"),
	}, nil
}

func resolveRoot(dir string, getenv func(string) string) (string, error) {
	if dir != "" {
		return expandHome(dir)
	}
	if v := getenv(EnvPrefix + "_HOME"); v != "" {
		return expandHome(v)
	}
	if v := getenv("XDG_DATA_HOME"); v != "" {
		return filepath.Join(v, Name), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", Name), nil
}

func expandHome(p string) (string, error) {
	if p == "~" || len(p) > 1 && p[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locating home directory: %w", err)
		}
		return filepath.Join(home, p[1:]), nil
	}
	return filepath.Abs(p)
}

// Ensure creates the storage root and its subdirectories.
func (p Paths) Ensure() error {
	for _, dir := range []string{p.Root, p.Digests, p.Candidates} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}
