package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	settings, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "dichos.db", settings.Database.Path)
	assert.Equal(t, "csv", settings.Export.Format)
	assert.Equal(t, 256, settings.Embedder.MaxSeqLen)
	assert.Equal(t, 3, settings.Assignment.MaxCategories)
	assert.InDelta(t, 0.1, settings.Assignment.SecondaryGap, 1e-6)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"debug": true,
		"database": {"path": "catalog.db"},
		"assignment": {"maxCategories": 2, "kMax": 10},
		"export": {"format": "tsv"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	settings, err := Load(path)
	require.NoError(t, err)

	assert.True(t, settings.Debug)
	assert.Equal(t, "catalog.db", settings.Database.Path)
	assert.Equal(t, 2, settings.Assignment.MaxCategories)
	assert.Equal(t, 10, settings.Assignment.KMax)
	assert.Equal(t, "tsv", settings.Export.Format)
	// Unset assignment fields still pick up their defaults.
	assert.InDelta(t, 0.35, settings.Assignment.SecondaryAbs, 1e-6)
}

func TestLoadRejectsInvalidAssignmentConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"assignment": {"kMin": 9, "kMax": 3}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
