// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"WARN":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(types.LoggingConfig{Level: "info", Format: "json"}, &buf)

	logger.Debug().Msg("hidden")
	logger.Info().Str("period", "2026-01-15").Msg("digest built")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "digest built", entry["message"])
	assert.Equal(t, "2026-01-15", entry["period"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewLoggerConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(types.LoggingConfig{Level: "debug", Format: "console"}, &buf)
	logger.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestRecordDigest(t *testing.T) {
	m := NewMetrics()
	d := types.Digest{
		Entries: []types.RankedEntry{
			{Tier: types.TierTopPick}, {Tier: types.TierTopPick}, {Tier: types.TierExcluded},
		},
		Provenance: types.Provenance{Duplicates: 2, CrossListDropped: 1, InvalidDropped: 1, AmbiguousMatches: 3},
	}
	m.RecordDigest(d)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DigestsBuilt))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.EntriesPlaced.WithLabelValues("top_pick")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EntriesPlaced.WithLabelValues("excluded")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CandidatesDropped.WithLabelValues("duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CandidatesDropped.WithLabelValues("invalid")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.AmbiguousMatches))
}

func TestRecordFeedback(t *testing.T) {
	m := NewMetrics()
	m.RecordFeedback(nil)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FeedbackSessions))

	m.RecordFeedback(&types.HistoryEntry{SignalsAdded: []string{"a", "b"}, Rejected: []string{"c"}})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FeedbackSessions))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PreferenceDeltas.WithLabelValues("signal_added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PreferenceDeltas.WithLabelValues("rejected")))
}

func TestRecordFetch(t *testing.T) {
	m := NewMetrics()
	m.RecordFetch(40, 2*time.Second, true)
	assert.Equal(t, 40.0, testutil.ToFloat64(m.CandidatesFetched))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchPartial))
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "empty_candidate_set", ErrorKind(fmt.Errorf("p: %w", types.ErrEmptyCandidateSet)))
	assert.Equal(t, "omission_guard", ErrorKind(&types.OmissionGuardError{Guard: 12}))
	assert.Equal(t, "profile_version", ErrorKind(&types.VersionError{Kind: "researcher", Got: 2, Expected: 1}))
	assert.Equal(t, "other", ErrorKind(errors.New("x")))
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.DigestsFailed.WithLabelValues("omission_guard").Inc()
	m.MarkRun(time.Unix(1700000000, 0))

	path := filepath.Join(t.TempDir(), "textfile", "arxiv_digest.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `arxiv_digest_digest_failed_total{kind="omission_guard"} 1`)
	assert.Contains(t, string(data), "arxiv_digest_last_run_timestamp_seconds 1.7e+09")
}
