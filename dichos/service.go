package dichos

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Committer persists a complete taxonomy snapshot atomically: either every
// category and assignment row is replaced, or none are.
type Committer interface {
	ReplaceTaxonomy(ctx context.Context, t *Taxonomy) error
}

// ScorerMode selects the similarity supplier used during recomputation.
type ScorerMode string

const (
	// ScorerKeywords uses the keyword-overlap ratio between an entry and the
	// category keyword union.
	ScorerKeywords ScorerMode = "keywords"
	// ScorerCosine uses cosine similarity between the entry coordinate and
	// the category centroid.
	ScorerCosine ScorerMode = "cosine"
)

// RunResult bundles the committed snapshot with the intermediate discovery
// artifacts reports need (coordinates and the partition).
type RunResult struct {
	Taxonomy    *Taxonomy
	Discovery   *Discovery
	Coordinates [][]float32
}

// Service orchestrates one full batch recomputation: embed, reduce, discover,
// score, assign, commit, swap. The whole run is all-or-nothing; a failure at
// any stage leaves the previously committed state untouched.
type Service struct {
	embedder    Embedder
	reducer     Reducer
	partitioner Partitioner
	committer   Committer
	registry    *Registry
	scorerMode  ScorerMode

	cfgMu sync.RWMutex
	cfg   Config

	logger *slog.Logger
}

// NewService constructs a service with the given collaborators. The embedder
// may be nil when every entry carries a precomputed coordinate; the committer
// may be nil for dry runs. A nil logger disables logging.
func NewService(embedder Embedder, committer Committer, cfg Config, logger *slog.Logger) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		embedder:    embedder,
		reducer:     NewPCAReducer(),
		partitioner: NewKMeansPartitioner(),
		committer:   committer,
		registry:    NewRegistry(),
		scorerMode:  ScorerKeywords,
		cfg:         cfg,
		logger:      logger,
	}, nil
}

// Close releases embedder resources.
func (s *Service) Close() error {
	if s.embedder != nil {
		return s.embedder.Close()
	}
	return nil
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg.Clone()
}

// UpdateConfig replaces the configuration after validation.
func (s *Service) UpdateConfig(cfg Config) error {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()
	return nil
}

// SetReducer swaps the dimensionality reducer.
func (s *Service) SetReducer(r Reducer) {
	if r != nil {
		s.reducer = r
	}
}

// SetPartitioner swaps the partitioning capability.
func (s *Service) SetPartitioner(p Partitioner) {
	if p != nil {
		s.partitioner = p
	}
}

// SetScorerMode selects the similarity supplier.
func (s *Service) SetScorerMode(m ScorerMode) {
	if m == ScorerKeywords || m == ScorerCosine {
		s.scorerMode = m
	}
}

// Registry exposes the active snapshot holder.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Recompute runs the full pipeline over the catalog. The new taxonomy is
// committed to persistence first and only then swapped into the registry, so
// readers never observe a partially replaced state.
func (s *Service) Recompute(ctx context.Context, entries []Entry) (*RunResult, error) {
	cfg := s.Config()
	if len(entries) == 0 {
		return nil, newError(ErrInsufficientData, "", "empty catalog")
	}

	coords, err := s.resolveCoordinates(ctx, entries)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	discovery, err := DiscoverCategories(entries, coords, s.partitioner, cfg)
	if err != nil {
		return nil, err
	}
	s.logf("discovered categories", slog.Int("k", discovery.K), slog.Int("entries", len(entries)))

	scorer, err := s.buildScorer(discovery)
	if err != nil {
		return nil, err
	}
	// Scoring sees the resolved coordinates, not whatever the caller set.
	scoredEntries := make([]Entry, len(entries))
	copy(scoredEntries, entries)
	for i := range scoredEntries {
		scoredEntries[i].Coordinate = coords[i]
	}
	batch := make([]EntryScores, len(entries))
	for i, e := range scoredEntries {
		scores := make([]CategoryScore, len(discovery.Categories))
		for j, c := range discovery.Categories {
			sim, err := scorer.Score(e, c)
			if err != nil {
				return nil, fmt.Errorf("score entry %d against category %d: %w", e.ID, c.ID, err)
			}
			scores[j] = CategoryScore{CategoryID: c.ID, Score: sim.Score, Matched: sim.Matched}
		}
		batch[i] = EntryScores{EntryID: e.ID, Scores: scores}
	}

	assignments, err := AssignAll(batch, cfg)
	if err != nil {
		return nil, err
	}

	tax := NewTaxonomy(discovery.K, discovery.Categories, assignments, discovery.Landscape)
	if err := tax.Validate(); err != nil {
		return nil, fmt.Errorf("validate taxonomy: %w", err)
	}
	if s.committer != nil {
		if err := s.committer.ReplaceTaxonomy(ctx, tax); err != nil {
			return nil, fmt.Errorf("commit taxonomy: %w", err)
		}
	}
	if err := s.registry.Swap(tax); err != nil {
		return nil, err
	}
	s.logf("taxonomy replaced",
		slog.String("run", tax.RunID.String()),
		slog.Int("categories", len(tax.Categories)),
		slog.Int("assignments", len(tax.Assignments)))

	return &RunResult{Taxonomy: tax, Discovery: discovery, Coordinates: coords}, nil
}

// resolveCoordinates trusts precomputed coordinates only when the whole
// catalog carries them; otherwise every entry is re-embedded and re-reduced
// so all coordinates come from the same projection.
func (s *Service) resolveCoordinates(ctx context.Context, entries []Entry) ([][]float32, error) {
	precomputed := true
	for _, e := range entries {
		if len(e.Coordinate) == 0 {
			precomputed = false
			break
		}
	}
	if precomputed {
		coords := make([][]float32, len(entries))
		for i, e := range entries {
			coords[i] = cloneVector(e.Coordinate)
		}
		return coords, nil
	}

	if s.embedder == nil {
		return nil, fmt.Errorf("entries lack coordinates and no embedder is configured")
	}
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = EntryText(e)
	}
	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed entries: %w", err)
	}
	coords, err := s.reducer.Reduce(vectors)
	if err != nil {
		return nil, fmt.Errorf("reduce vectors: %w", err)
	}
	return coords, nil
}

func (s *Service) buildScorer(d *Discovery) (Scorer, error) {
	switch s.scorerMode {
	case ScorerCosine:
		centroids := make(map[int][]float32, len(d.Centroids))
		for id, c := range d.Centroids {
			centroids[id] = c
		}
		return CosineScorer{Centroids: centroids}, nil
	case ScorerKeywords, "":
		return KeywordOverlapScorer{}, nil
	default:
		return nil, newError(ErrConfiguration, "scorer", "unknown scorer mode %q", s.scorerMode)
	}
}

func (s *Service) logf(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}
