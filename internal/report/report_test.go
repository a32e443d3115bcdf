package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yashubustudio/dichos/dichos"
)

func sampleInput() Input {
	cats := []dichos.Category{
		{ID: 0, Name: "silence / wisdom", MemberCount: 2},
		{ID: 1, Name: "happiness", MemberCount: 1},
	}
	assignments := []dichos.Assignment{
		{EntryID: 1, CategoryID: 0, Rank: 1, Tier: dichos.TierPrimary, Score: 0.9},
		{EntryID: 2, CategoryID: 0, Rank: 1, Tier: dichos.TierPrimary, Score: 0.8},
		{EntryID: 2, CategoryID: 1, Rank: 2, Tier: dichos.TierSecondary, Score: 0.5},
		{EntryID: 3, CategoryID: 1, Rank: 1, Tier: dichos.TierPrimary, Score: 0.7},
	}
	return Input{
		Taxonomy: dichos.NewTaxonomy(2, cats, assignments, nil),
		Coordinates: map[int64][]float32{
			1: {0.1, 0.2},
			2: {0.3, 0.1},
			3: {5.0, 5.2},
		},
		Texts: map[int64]string{
			1: "En boca cerrada no entran moscas",
			2: "El que canta su mal espanta",
			3: "Feliz como una lombriz",
		},
	}
}

func TestWriteRendersAllCharts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleInput()))

	html := buf.String()
	assert.Contains(t, html, "Semantic landscape")
	assert.Contains(t, html, "Category sizes")
	assert.Contains(t, html, "Assignment tiers")
	assert.Contains(t, html, "silence / wisdom")
	assert.Contains(t, html, "Feliz como una lombriz")
}

func TestWriteRejectsMissingTaxonomy(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, Input{}))
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "report")
	path, err := WriteFile(dir, sampleInput())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "categories.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Dicho Categories")
}
