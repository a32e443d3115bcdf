// Package export writes the catalog and its taxonomy to delimited files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"yashubustudio/dichos/internal/datastore"
)

// Format selects the output delimiter.
type Format string

const (
	FormatCSV Format = "csv"
	FormatTSV Format = "tsv"
)

func delimiter(f Format) (rune, error) {
	switch f {
	case FormatCSV, "":
		return ',', nil
	case FormatTSV:
		return '\t', nil
	default:
		return 0, fmt.Errorf("unknown export format %q", f)
	}
}

// WriteAssignments writes one row per assignment, joined with its dicho
// and category, ordered as given.
func WriteAssignments(w io.Writer, format Format, assignments []datastore.Assignment, dichos map[uint]datastore.Dicho, categories map[int]datastore.Category) error {
	d, err := delimiter(format)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.Comma = d
	header := []string{"dicho_id", "dicho", "cluster_id", "category", "rank", "tier", "score", "matched_keywords"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, a := range assignments {
		row := []string{
			strconv.FormatUint(uint64(a.DichoID), 10),
			dichos[a.DichoID].Text,
			strconv.Itoa(a.ClusterID),
			categories[a.ClusterID].Name,
			strconv.Itoa(a.Rank),
			a.Tier,
			strconv.FormatFloat(float64(a.Score), 'f', 4, 32),
			a.MatchedKeywords,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing assignment row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCategories writes one row per category.
func WriteCategories(w io.Writer, format Format, categories []datastore.Category) error {
	d, err := delimiter(format)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.Comma = d
	if err := cw.Write([]string{"cluster_id", "name", "member_count", "keywords"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, c := range categories {
		row := []string{
			strconv.Itoa(c.ClusterID),
			c.Name,
			strconv.Itoa(c.MemberCount),
			c.Keywords,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing category row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCatalog writes the enriched catalog itself.
func WriteCatalog(w io.Writer, format Format, records []datastore.Dicho) error {
	d, err := delimiter(format)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.Comma = d
	header := []string{"id", "dicho", "translation", "keywords", "cultural_context", "emotion_tone", "contributor", "recorded_at"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.Text,
			r.Translation,
			r.Keywords,
			r.CulturalContext,
			r.EmotionTone,
			r.Contributor,
			r.RecordedAt.Format("2006-01-02 15:04"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing catalog row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToFile writes with fn to path via a temporary file and rename, so a
// failed export never leaves a truncated file behind.
func ToFile(path string, fn func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := fn(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
