// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

func sampleDigest() types.Digest {
	return types.Digest{
		ID:     "d-1",
		Period: "2026-01-15",
		Tiers: []types.TierBlock{{
			Tier: types.TierTopPick,
			Items: []types.DigestItem{{
				RankIndex: 1,
				PaperID:   "2601.00001",
				Title:     "Lensing of the CMB",
				Score:     7,
				Reasons:   []string{"core interest: cmb lensing"},
				Tier:      types.TierTopPick,
			}},
		}},
	}
}

func TestWriteDigestStdoutDefaultsToMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeDigest(sampleDigest(), "", "", &buf))
	assert.Contains(t, buf.String(), "# arXiv digest 2026-01-15")
	assert.Contains(t, buf.String(), "[1] Lensing of the CMB")
}

func TestWriteDigestFormatFromExtension(t *testing.T) {
	out := filepath.Join(t.TempDir(), "digest.json")
	var buf bytes.Buffer
	require.NoError(t, writeDigest(sampleDigest(), "", out, &buf))
	assert.Contains(t, buf.String(), "written to "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var got types.Digest
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "d-1", got.ID)
}

func TestWriteDigestFormatFlagWins(t *testing.T) {
	out := filepath.Join(t.TempDir(), "digest.json")
	require.NoError(t, writeDigest(sampleDigest(), "html", out, &bytes.Buffer{}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<!DOCTYPE html>")
}

func TestWriteDigestUnknownFormat(t *testing.T) {
	err := writeDigest(sampleDigest(), "pdf", "", &bytes.Buffer{})
	assert.Error(t, err)
}
