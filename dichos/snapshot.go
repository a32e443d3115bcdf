package dichos

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// NewTaxonomy stamps a freshly computed snapshot with a run id and creation
// time. The snapshot is immutable once built.
func NewTaxonomy(k int, categories []Category, assignments []Assignment, landscape []KScore) *Taxonomy {
	return &Taxonomy{
		RunID:       uuid.New(),
		CreatedAt:   time.Now().UTC(),
		K:           k,
		Categories:  categories,
		Assignments: assignments,
		Landscape:   landscape,
	}
}

// Validate checks the snapshot invariants: unique (entry, category) pairs and
// contiguous 1..m ranks per entry.
func (t *Taxonomy) Validate() error {
	known := make(map[int]struct{}, len(t.Categories))
	for _, c := range t.Categories {
		known[c.ID] = struct{}{}
	}
	type pair struct {
		entry    int64
		category int
	}
	pairs := make(map[pair]struct{}, len(t.Assignments))
	ranks := make(map[int64][]int)
	for _, a := range t.Assignments {
		if _, ok := known[a.CategoryID]; !ok {
			return fmt.Errorf("assignment references unknown category %d", a.CategoryID)
		}
		p := pair{a.EntryID, a.CategoryID}
		if _, dup := pairs[p]; dup {
			return fmt.Errorf("entry %d assigned twice to category %d", a.EntryID, a.CategoryID)
		}
		pairs[p] = struct{}{}
		ranks[a.EntryID] = append(ranks[a.EntryID], a.Rank)
	}
	for entryID, rs := range ranks {
		seen := make(map[int]struct{}, len(rs))
		for _, r := range rs {
			if r < 1 || r > len(rs) {
				return fmt.Errorf("entry %d has rank %d outside 1..%d", entryID, r, len(rs))
			}
			if _, dup := seen[r]; dup {
				return fmt.Errorf("entry %d has duplicate rank %d", entryID, r)
			}
			seen[r] = struct{}{}
		}
	}
	return nil
}

// Registry holds the active taxonomy snapshot. Recomputation builds a full
// replacement off to the side and commits it with a single swap; readers
// never observe a partial replacement.
type Registry struct {
	mu      sync.RWMutex
	current *Taxonomy
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Current returns the active snapshot, or nil before the first swap.
func (r *Registry) Current() *Taxonomy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Swap validates the snapshot and atomically replaces the active one. On
// validation failure the previous snapshot stays in place.
func (r *Registry) Swap(t *Taxonomy) error {
	if t == nil {
		return fmt.Errorf("nil taxonomy")
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("reject taxonomy %s: %w", t.RunID, err)
	}
	r.mu.Lock()
	r.current = t
	r.mu.Unlock()
	return nil
}
