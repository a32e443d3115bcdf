package export

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yashubustudio/dichos/internal/datastore"
)

func sampleData() ([]datastore.Assignment, map[uint]datastore.Dicho, map[int]datastore.Category) {
	assignments := []datastore.Assignment{
		{DichoID: 1, ClusterID: 0, Rank: 1, Tier: "Primary", Score: 0.9, MatchedKeywords: "silence, wisdom"},
		{DichoID: 1, ClusterID: 1, Rank: 2, Tier: "Secondary", Score: 0.45},
	}
	dichos := map[uint]datastore.Dicho{
		1: {ID: 1, Text: "En boca cerrada no entran moscas"},
	}
	categories := map[int]datastore.Category{
		0: {ClusterID: 0, Name: "silence / wisdom"},
		1: {ClusterID: 1, Name: "happiness"},
	}
	return assignments, dichos, categories
}

func TestWriteAssignmentsCSV(t *testing.T) {
	assignments, dichos, categories := sampleData()

	var buf bytes.Buffer
	require.NoError(t, WriteAssignments(&buf, FormatCSV, assignments, dichos, categories))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "dicho_id,dicho,cluster_id,category,rank,tier,score,matched_keywords", lines[0])
	assert.Contains(t, lines[1], "En boca cerrada no entran moscas")
	assert.Contains(t, lines[1], "silence / wisdom")
	assert.Contains(t, lines[1], "0.9000")
	assert.Contains(t, lines[2], "Secondary")
}

func TestWriteAssignmentsTSV(t *testing.T) {
	assignments, dichos, categories := sampleData()

	var buf bytes.Buffer
	require.NoError(t, WriteAssignments(&buf, FormatTSV, assignments, dichos, categories))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "dicho_id\tdicho"))
}

func TestWriteCategories(t *testing.T) {
	cats := []datastore.Category{
		{ClusterID: 0, Name: "silence / wisdom", MemberCount: 12, Keywords: "silence, wisdom, caution"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCategories(&buf, FormatCSV, cats))

	out := buf.String()
	assert.Contains(t, out, "cluster_id,name,member_count,keywords")
	assert.Contains(t, out, "silence / wisdom")
	assert.Contains(t, out, "12")
}

func TestWriteCatalog(t *testing.T) {
	records := []datastore.Dicho{
		{
			ID:          1,
			Text:        "Feliz como una lombriz",
			Translation: "Happy as a worm",
			Contributor: "Carlos",
			RecordedAt:  time.Date(2024, 7, 16, 11, 30, 0, 0, time.UTC),
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCatalog(&buf, FormatCSV, records))

	out := buf.String()
	assert.Contains(t, out, "Feliz como una lombriz")
	assert.Contains(t, out, "Happy as a worm")
	assert.Contains(t, out, "2024-07-16 11:30")
}

func TestUnknownFormatRejected(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCategories(&buf, Format("xlsx"), nil)
	assert.Error(t, err)
}

func TestToFileWritesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "dichos.csv")

	require.NoError(t, ToFile(path, func(w io.Writer) error {
		_, err := w.Write([]byte("hello\n"))
		return err
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestToFileFailureLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dichos.csv")

	err := ToFile(path, func(io.Writer) error {
		return assert.AnError
	})
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
