// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arxiv-digest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// Weights is the signal weight table. The relative ordering
// VeryStrong > Strong > Moderate >= Mild > 0 > Negative is checked by Validate.
type Weights struct {
	VeryStrong float64 `json:"very_strong" yaml:"very_strong" mapstructure:"very_strong"`
	Strong     float64 `json:"strong" yaml:"strong" mapstructure:"strong"`
	Moderate   float64 `json:"moderate" yaml:"moderate" mapstructure:"moderate"`
	Mild       float64 `json:"mild" yaml:"mild" mapstructure:"mild"`
	Negative   float64 `json:"negative" yaml:"negative" mapstructure:"negative"`

	// CoreMatchCap caps the number of distinct core-interest matches that
	// multiply the strong weight (default 3).
	CoreMatchCap int `json:"core_match_cap" yaml:"core_match_cap" mapstructure:"core_match_cap"`

	// CoauthorFloor is the minimum score of an entry with an active
	// co-author signal (default VeryStrong).
	CoauthorFloor float64 `json:"coauthor_floor" yaml:"coauthor_floor" mapstructure:"coauthor_floor"`
}

// DefaultWeights returns the four-level scale.
func DefaultWeights() Weights {
	return Weights{
		VeryStrong:    4,
		Strong:        3,
		Moderate:      2,
		Mild:          1,
		Negative:      -2,
		CoreMatchCap:  3,
		CoauthorFloor: 4,
	}
}

// Validate checks the relative ordering of the weight levels.
func (w Weights) Validate() error {
	switch {
	case !(w.VeryStrong > w.Strong):
		return fmt.Errorf("weights: very_strong (%g) must exceed strong (%g)", w.VeryStrong, w.Strong)
	case !(w.Strong > w.Moderate):
		return fmt.Errorf("weights: strong (%g) must exceed moderate (%g)", w.Strong, w.Moderate)
	case !(w.Moderate >= w.Mild):
		return fmt.Errorf("weights: moderate (%g) must be at least mild (%g)", w.Moderate, w.Mild)
	case !(w.Mild > 0):
		return fmt.Errorf("weights: mild (%g) must be positive", w.Mild)
	case !(w.Negative < 0):
		return fmt.Errorf("weights: negative (%g) must be below zero", w.Negative)
	case w.CoreMatchCap < 1:
		return fmt.Errorf("weights: core_match_cap must be at least 1")
	}
	return nil
}

// Range is an inclusive capacity range.
type Range struct {
	Min int `json:"min" yaml:"min" mapstructure:"min"`
	Max int `json:"max" yaml:"max" mapstructure:"max"`
}

// TierBounds holds the capacity ranges for one window length.
type TierBounds struct {
	Days     int   `json:"days" yaml:"days" mapstructure:"days"`
	Top      Range `json:"top" yaml:"top" mapstructure:"top"`
	Solid    Range `json:"solid" yaml:"solid" mapstructure:"solid"`
	Boundary Range `json:"boundary" yaml:"boundary" mapstructure:"boundary"`
}

// DefaultTierBounds returns the 1, 7 and 30 day anchors.
func DefaultTierBounds() []TierBounds {
	return []TierBounds{
		{Days: 1, Top: Range{3, 8}, Solid: Range{6, 12}, Boundary: Range{3, 5}},
		{Days: 7, Top: Range{8, 14}, Solid: Range{10, 16}, Boundary: Range{5, 8}},
		{Days: 30, Top: Range{24, 36}, Solid: Range{14, 24}, Boundary: Range{8, 12}},
	}
}

// DigestConfig holds settings for ranking, tier allocation and adaptation.
type DigestConfig struct {
	Weights Weights      `json:"weights" yaml:"weights" mapstructure:"weights"`
	Bounds  []TierBounds `json:"bounds" yaml:"bounds" mapstructure:"bounds"`

	// TopMinScore is the score a leading entry needs to be a top pick.
	TopMinScore float64 `json:"top_min_score" yaml:"top_min_score" mapstructure:"top_min_score"`

	// SolidMinScore is the score an entry needs for either core tier.
	SolidMinScore float64 `json:"solid_min_score" yaml:"solid_min_score" mapstructure:"solid_min_score"`

	// IncludeReplacements keeps revision notices in the candidate set.
	IncludeReplacements bool `json:"include_replacements" yaml:"include_replacements" mapstructure:"include_replacements"`

	// PromotionThreshold is the number of distinct feedback sessions in which
	// a liked term must recur before it becomes a core interest (default 3).
	PromotionThreshold int `json:"promotion_threshold" yaml:"promotion_threshold" mapstructure:"promotion_threshold"`

	// StalenessWindow is the number of trailing sessions a positive signal
	// may go unreferenced before it is surfaced for review (default 10).
	StalenessWindow int `json:"staleness_window" yaml:"staleness_window" mapstructure:"staleness_window"`

	// MaxTermsPerLike limits the salient terms taken from one liked paper.
	MaxTermsPerLike int `json:"max_terms_per_like" yaml:"max_terms_per_like" mapstructure:"max_terms_per_like"`
}

// DefaultDigestConfig returns the ranking defaults.
func DefaultDigestConfig() DigestConfig {
	return DigestConfig{
		Weights:            DefaultWeights(),
		Bounds:             DefaultTierBounds(),
		TopMinScore:        5,
		SolidMinScore:      3,
		PromotionThreshold: 3,
		StalenessWindow:    10,
		MaxTermsPerLike:    2,
	}
}

// FetchConfig holds settings for the arXiv fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Categories are the arXiv categories to query when the preference
	// profile does not name any.
	Categories []string `json:"categories" yaml:"categories" mapstructure:"categories"`

	// MaxResults caps the number of API results per category (default 500).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// RequestInterval is the minimum spacing between arXiv API calls
	// (default 3.1s).
	RequestInterval time.Duration `json:"request_interval" yaml:"request_interval" mapstructure:"request_interval"`

	// MaxRetries is the number of retry attempts on 429 and 5xx responses.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// APIURL and FeedURL override the arXiv endpoints.
	APIURL  string `json:"api_url" yaml:"api_url" mapstructure:"api_url"`
	FeedURL string `json:"feed_url" yaml:"feed_url" mapstructure:"feed_url"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is json or console (default console).
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// MetricsConfig configures the metrics textfile.
type MetricsConfig struct {
	// Textfile is the path written after each run in the Prometheus text
	// format. Empty disables the export.
	Textfile string `json:"textfile" yaml:"textfile" mapstructure:"textfile"`
}

// ScheduleConfig configures recurring digest runs.
type ScheduleConfig struct {
	// Cron is a five-field cron expression (default "0 7 * * 1-5").
	Cron string `json:"cron" yaml:"cron" mapstructure:"cron"`

	// Timezone is an IANA location name (default UTC).
	Timezone string `json:"timezone" yaml:"timezone" mapstructure:"timezone"`

	// Period is the fetch period for each run (default "today").
	Period string `json:"period" yaml:"period" mapstructure:"period"`
}

// StorageConfig locates profiles, digests and the database.
type StorageConfig struct {
	// Dir overrides the storage root.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// Config groups all settings.
type Config struct {
	Digest   DigestConfig   `json:"digest" yaml:"digest" mapstructure:"digest"`
	Fetch    FetchConfig    `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging" mapstructure:"logging"`
	Metrics  MetricsConfig  `json:"metrics" yaml:"metrics" mapstructure:"metrics"`
	Schedule ScheduleConfig `json:"schedule" yaml:"schedule" mapstructure:"schedule"`
	Storage  StorageConfig  `json:"storage" yaml:"storage" mapstructure:"storage"`
}
