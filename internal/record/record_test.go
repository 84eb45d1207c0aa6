// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `json:"name" yaml:"name"`
	Terms []string `json:"terms" yaml:"terms"`
}

func TestDecodeJSONAndYAML(t *testing.T) {
	var fromJSON, fromYAML sample
	require.NoError(t, Decode([]byte(` {"name": "a", "terms": ["x", "y"]}`), &fromJSON))
	require.NoError(t, Decode([]byte("name: a\nterms:\n  - x\n  - y\n"), &fromYAML))
	assert.Equal(t, fromJSON, fromYAML)
}

func TestDecodeEmpty(t *testing.T) {
	var s sample
	assert.Error(t, Decode([]byte("  \n"), &s))
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, YAML, FormatFor("prefs.yaml"))
	assert.Equal(t, YAML, FormatFor("prefs.YML"))
	assert.Equal(t, JSON, FormatFor("prefs.json"))
	assert.Equal(t, JSON, FormatFor("prefs"))
}

func TestWriteFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"rec.json", "rec.yaml"} {
		path := filepath.Join(dir, "nested", name)
		want := sample{Name: "b", Terms: []string{"z"}}
		require.NoError(t, WriteFile(path, want))

		var got sample
		require.NoError(t, ReadFile(path, &got))
		assert.Equal(t, want, got)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files left behind")
}

func TestWriteAtomicReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.json")
	require.NoError(t, WriteAtomic(path, []byte("old")))
	require.NoError(t, WriteAtomic(path, []byte("new")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}
