// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package observability

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

const namespace = "arxiv_digest"

// Metrics holds the counters for one process. They live on a private
// registry so they can be written to a node-exporter textfile after a run.
type Metrics struct {
	registry *prometheus.Registry

	// CandidatesFetched counts candidates returned by the fetch stage.
	CandidatesFetched prometheus.Counter

	// FetchDuration observes fetch duration in seconds.
	FetchDuration prometheus.Histogram

	// FetchPartial counts fetches where some categories failed.
	FetchPartial prometheus.Counter

	// CandidatesDropped counts filtered candidates by reason
	// (duplicate, cross_list, replacement).
	CandidatesDropped *prometheus.CounterVec

	// DigestsBuilt counts digests built successfully.
	DigestsBuilt prometheus.Counter

	// DigestsFailed counts failed digest builds by error kind.
	DigestsFailed *prometheus.CounterVec

	// EntriesPlaced counts ranked entries by tier.
	EntriesPlaced *prometheus.CounterVec

	// AmbiguousMatches counts author matches skipped as ambiguous.
	AmbiguousMatches prometheus.Counter

	// FeedbackSessions counts applied feedback sessions.
	FeedbackSessions prometheus.Counter

	// PreferenceDeltas counts profile changes by kind
	// (signal_added, promoted, rejected).
	PreferenceDeltas *prometheus.CounterVec

	// LastRun is the Unix time of the last completed run.
	LastRun prometheus.Gauge
}

// NewMetrics creates the metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		CandidatesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "fetch", Name: "candidates_total",
			Help: "Candidates returned by the fetch stage.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "fetch", Name: "duration_seconds",
			Help:    "Duration of fetches.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		}),
		FetchPartial: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "fetch", Name: "partial_total",
			Help: "Fetches where some categories could not be read.",
		}),
		CandidatesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "filter", Name: "dropped_total",
			Help: "Candidates dropped before scoring, by reason.",
		}, []string{"reason"}),
		DigestsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "digest", Name: "built_total",
			Help: "Digests built.",
		}),
		DigestsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "digest", Name: "failed_total",
			Help: "Digest builds that failed, by error kind.",
		}, []string{"kind"}),
		EntriesPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "digest", Name: "entries_total",
			Help: "Ranked entries by tier.",
		}, []string{"tier"}),
		AmbiguousMatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "digest", Name: "ambiguous_matches_total",
			Help: "Author matches ignored as ambiguous.",
		}),
		FeedbackSessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "feedback", Name: "sessions_total",
			Help: "Feedback sessions applied.",
		}),
		PreferenceDeltas: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "feedback", Name: "deltas_total",
			Help: "Preference profile changes, by kind.",
		}, []string{"kind"}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "last_run_timestamp_seconds",
			Help: "Unix time of the last completed run.",
		}),
	}
	reg.MustRegister(
		m.CandidatesFetched, m.FetchDuration, m.FetchPartial, m.CandidatesDropped,
		m.DigestsBuilt, m.DigestsFailed, m.EntriesPlaced, m.AmbiguousMatches,
		m.FeedbackSessions, m.PreferenceDeltas, m.LastRun,
	)
	return m
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordFetch records one fetch.
func (m *Metrics) RecordFetch(candidates int, d time.Duration, partial bool) {
	m.CandidatesFetched.Add(float64(candidates))
	m.FetchDuration.Observe(d.Seconds())
	if partial {
		m.FetchPartial.Inc()
	}
}

// RecordDigest records the provenance and tier counts of a built digest.
func (m *Metrics) RecordDigest(d types.Digest) {
	p := d.Provenance
	m.CandidatesDropped.WithLabelValues("duplicate").Add(float64(p.Duplicates))
	m.CandidatesDropped.WithLabelValues("cross_list").Add(float64(p.CrossListDropped))
	m.CandidatesDropped.WithLabelValues("replacement").Add(float64(p.ReplacementDropped))
	m.CandidatesDropped.WithLabelValues("invalid").Add(float64(p.InvalidDropped))
	m.AmbiguousMatches.Add(float64(p.AmbiguousMatches))
	for _, e := range d.Entries {
		m.EntriesPlaced.WithLabelValues(string(e.Tier)).Inc()
	}
	m.DigestsBuilt.Inc()
}

// RecordDigestFailure counts a failed build by the kind of err.
func (m *Metrics) RecordDigestFailure(err error) {
	m.DigestsFailed.WithLabelValues(ErrorKind(err)).Inc()
}

// RecordFeedback records an applied feedback session. entry is nil when
// the feedback was empty.
func (m *Metrics) RecordFeedback(entry *types.HistoryEntry) {
	if entry == nil {
		return
	}
	m.FeedbackSessions.Inc()
	m.PreferenceDeltas.WithLabelValues("signal_added").Add(float64(len(entry.SignalsAdded)))
	m.PreferenceDeltas.WithLabelValues("promoted").Add(float64(len(entry.Promoted)))
	m.PreferenceDeltas.WithLabelValues("rejected").Add(float64(len(entry.Rejected)))
}

// MarkRun sets the last-run gauge.
func (m *Metrics) MarkRun(t time.Time) {
	m.LastRun.Set(float64(t.Unix()))
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}

// ErrorKind maps an engine error to a short metric label.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, types.ErrEmptyCandidateSet):
		return "empty_candidate_set"
	case errors.Is(err, types.ErrProfileVersionUnsupported):
		return "profile_version"
	case errors.Is(err, types.ErrOmissionGuardViolation):
		return "omission_guard"
	case errors.Is(err, types.ErrInvariantViolation):
		return "invariant"
	case errors.Is(err, types.ErrUnknownReference):
		return "unknown_reference"
	default:
		return "other"
	}
}
