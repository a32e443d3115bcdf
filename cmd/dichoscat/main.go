// dichoscat ingests a WhatsApp chat export of Spanish proverbs, discovers
// semantic categories over them and assigns every dicho to up to three
// categories.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"yashubustudio/dichos/dichos"
	"yashubustudio/dichos/internal/conf"
	"yashubustudio/dichos/internal/datastore"
	"yashubustudio/dichos/internal/enrich"
	"yashubustudio/dichos/internal/export"
	"yashubustudio/dichos/internal/ingest"
	"yashubustudio/dichos/internal/report"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "dichoscat",
		Short:         "Semantic category assignment for a catalog of dichos",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")

	load := func() (*conf.Settings, error) {
		settings, err := conf.Load(configPath)
		if err != nil {
			return nil, err
		}
		level := slog.LevelInfo
		if settings.Debug {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return settings, nil
	}

	root.AddCommand(
		ingestCommand(load),
		reclusterCommand(load),
		exportCommand(load),
		reportCommand(load),
	)
	return root
}

type settingsFunc func() (*conf.Settings, error)

func openStore(settings *conf.Settings) (datastore.Interface, error) {
	store := datastore.New(settings.Database.Path)
	if err := store.Open(); err != nil {
		return nil, err
	}
	return store, nil
}

func ingestCommand(load settingsFunc) *cobra.Command {
	var chatPath string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Parse a WhatsApp chat export and add new dichos to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := load()
			if err != nil {
				return err
			}
			if chatPath == "" {
				chatPath = settings.Ingest.ChatPath
			}
			if chatPath == "" {
				return fmt.Errorf("no chat file given, use --chat or ingest.chatPath")
			}

			store, err := openStore(settings)
			if err != nil {
				return err
			}
			defer store.Close()

			f, err := os.Open(chatPath)
			if err != nil {
				return fmt.Errorf("opening chat file: %w", err)
			}
			defer f.Close()

			messages, err := ingest.ParseChat(f)
			if err != nil {
				return err
			}
			slog.Info("parsed chat", "messages", len(messages))

			cutoff, err := resolveCutoff(settings, store)
			if err != nil {
				return err
			}
			if !cutoff.IsZero() {
				messages = ingest.FilterAfter(messages, cutoff)
				slog.Info("applied cutoff", "cutoff", cutoff, "remaining", len(messages))
			}

			var candidates []ingest.Message
			for _, m := range messages {
				if ingest.IsLikelyDicho(m.Text) {
					candidates = append(candidates, m)
				}
			}

			existing, err := store.GetAllDichos()
			if err != nil {
				return err
			}
			texts := make([]string, len(existing))
			for i, d := range existing {
				texts[i] = d.Text
			}
			unique, duplicates := ingest.Dedupe(candidates, texts)
			slog.Info("deduplicated", "unique", len(unique), "duplicates", len(duplicates))

			records := make([]datastore.Dicho, 0, len(unique))
			for _, m := range unique {
				rec := enrich.Enrich(m.Text)
				records = append(records, datastore.Dicho{
					Text:            rec.Dicho,
					Translation:     rec.Translation,
					Keywords:        strings.Join(rec.Keywords, ", "),
					CulturalContext: rec.CulturalContext,
					EmotionTone:     rec.EmotionTone,
					Contributor:     m.Contributor,
					RecordedAt:      m.Timestamp,
				})
			}
			inserted, err := store.SaveDichos(records)
			if err != nil {
				return err
			}
			slog.Info("ingest complete", "inserted", inserted)
			return nil
		},
	}
	cmd.Flags().StringVar(&chatPath, "chat", "", "WhatsApp chat export file")
	return cmd
}

func resolveCutoff(settings *conf.Settings, store datastore.Interface) (time.Time, error) {
	cutoff, err := store.LatestDichoTime()
	if err != nil {
		return time.Time{}, err
	}
	if settings.Ingest.CutoffDate != "" {
		configured, err := time.Parse("2006-01-02", settings.Ingest.CutoffDate)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing ingest.cutoffDate: %w", err)
		}
		if configured.After(cutoff) {
			cutoff = configured
		}
	}
	return cutoff, nil
}

func reclusterCommand(load settingsFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recluster",
		Short: "Recompute categories and assignments over the whole catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := load()
			if err != nil {
				return err
			}
			store, err := openStore(settings)
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := store.GetAllDichos()
			if err != nil {
				return err
			}
			entries := entriesFromRows(rows)
			if len(entries) == 0 {
				return fmt.Errorf("no dichos with keywords in the catalog, run ingest first")
			}

			embedder, err := dichos.NewOrtEmbedder(settings.Embedder)
			if err != nil {
				return err
			}
			svc, err := dichos.NewService(embedder, store, settings.Assignment, slog.Default())
			if err != nil {
				embedder.Close()
				return err
			}
			defer svc.Close()

			res, err := svc.Recompute(context.Background(), entries)
			if err != nil {
				return err
			}

			coords := make(map[uint][2]float32, len(entries))
			for i, e := range entries {
				c := res.Coordinates[i]
				if len(c) >= 2 {
					coords[uint(e.ID)] = [2]float32{c[0], c[1]}
				}
			}
			if err := store.SaveCoordinates(coords); err != nil {
				return err
			}

			in := report.Input{
				Taxonomy:    res.Taxonomy,
				Coordinates: make(map[int64][]float32, len(entries)),
				Texts:       make(map[int64]string, len(rows)),
			}
			for i, e := range entries {
				in.Coordinates[e.ID] = res.Coordinates[i]
			}
			for _, r := range rows {
				in.Texts[int64(r.ID)] = r.Text
			}
			path, err := report.WriteFile(settings.Report.Dir, in)
			if err != nil {
				return err
			}
			slog.Info("recluster complete",
				"k", res.Taxonomy.K,
				"assignments", len(res.Taxonomy.Assignments),
				"landscape", res.Discovery.Landscape,
				"report", path)
			return nil
		},
	}
	return cmd
}

func entriesFromRows(rows []datastore.Dicho) []dichos.Entry {
	var entries []dichos.Entry
	for _, r := range rows {
		if strings.TrimSpace(r.Keywords) == "" {
			continue
		}
		var kw []string
		for _, p := range strings.Split(r.Keywords, ",") {
			if p = strings.TrimSpace(p); p != "" {
				kw = append(kw, p)
			}
		}
		entries = append(entries, dichos.Entry{ID: int64(r.ID), Keywords: kw})
	}
	return entries
}

func exportCommand(load settingsFunc) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write catalog, categories and assignments to delimited files",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := load()
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = settings.Export.Dir
			}
			format := export.Format(settings.Export.Format)

			store, err := openStore(settings)
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := store.GetAllDichos()
			if err != nil {
				return err
			}
			cats, err := store.GetCategories()
			if err != nil {
				return err
			}
			assignments, err := store.GetAssignments()
			if err != nil {
				return err
			}

			byID := make(map[uint]datastore.Dicho, len(rows))
			for _, r := range rows {
				byID[r.ID] = r
			}
			byCluster := make(map[int]datastore.Category, len(cats))
			for _, c := range cats {
				byCluster[c.ClusterID] = c
			}

			ext := "csv"
			if format == export.FormatTSV {
				ext = "tsv"
			}

			catalogPath := filepath.Join(outDir, "dichos."+ext)
			if err := export.ToFile(catalogPath, func(w io.Writer) error {
				return export.WriteCatalog(w, format, rows)
			}); err != nil {
				return err
			}
			categoriesPath := filepath.Join(outDir, "categories."+ext)
			if err := export.ToFile(categoriesPath, func(w io.Writer) error {
				return export.WriteCategories(w, format, cats)
			}); err != nil {
				return err
			}
			assignmentsPath := filepath.Join(outDir, "assignments."+ext)
			if err := export.ToFile(assignmentsPath, func(w io.Writer) error {
				return export.WriteAssignments(w, format, assignments, byID, byCluster)
			}); err != nil {
				return err
			}
			slog.Info("export complete", "dir", outDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "output directory")
	return cmd
}

func reportCommand(load settingsFunc) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Regenerate the HTML report from the stored taxonomy",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := load()
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = settings.Report.Dir
			}

			store, err := openStore(settings)
			if err != nil {
				return err
			}
			defer store.Close()

			tax, rows, err := loadTaxonomy(store)
			if err != nil {
				return err
			}

			in := report.Input{
				Taxonomy:    tax,
				Coordinates: make(map[int64][]float32, len(rows)),
				Texts:       make(map[int64]string, len(rows)),
			}
			for _, r := range rows {
				in.Coordinates[int64(r.ID)] = []float32{r.CoordX, r.CoordY}
				in.Texts[int64(r.ID)] = r.Text
			}
			path, err := report.WriteFile(outDir, in)
			if err != nil {
				return err
			}
			slog.Info("report written", "path", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "output directory")
	return cmd
}

// loadTaxonomy reconstructs the committed taxonomy from its persisted rows.
func loadTaxonomy(store datastore.Interface) (*dichos.Taxonomy, []datastore.Dicho, error) {
	cats, err := store.GetCategories()
	if err != nil {
		return nil, nil, err
	}
	if len(cats) == 0 {
		return nil, nil, fmt.Errorf("no taxonomy in the database, run recluster first")
	}
	assignments, err := store.GetAssignments()
	if err != nil {
		return nil, nil, err
	}
	rows, err := store.GetAllDichos()
	if err != nil {
		return nil, nil, err
	}

	tax := &dichos.Taxonomy{
		K:         len(cats),
		CreatedAt: cats[0].CreatedAt,
	}
	if id, err := uuid.Parse(cats[0].RunID); err == nil {
		tax.RunID = id
	}
	for _, c := range cats {
		var kw []string
		for _, p := range strings.Split(c.Keywords, ",") {
			if p = strings.TrimSpace(p); p != "" {
				kw = append(kw, p)
			}
		}
		tax.Categories = append(tax.Categories, dichos.Category{
			ID:          c.ClusterID,
			Name:        c.Name,
			Keywords:    kw,
			MemberCount: c.MemberCount,
		})
	}
	for _, a := range assignments {
		var matched []string
		for _, p := range strings.Split(a.MatchedKeywords, ",") {
			if p = strings.TrimSpace(p); p != "" {
				matched = append(matched, p)
			}
		}
		tax.Assignments = append(tax.Assignments, dichos.Assignment{
			EntryID:    int64(a.DichoID),
			CategoryID: a.ClusterID,
			Rank:       a.Rank,
			Tier:       dichos.Tier(a.Tier),
			Score:      a.Score,
			Matched:    matched,
		})
	}
	return tax, rows, nil
}
