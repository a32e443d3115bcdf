package dichos

import (
	"time"

	"github.com/google/uuid"
)

// Tier is the positional label applied to an entry's assignments in rank order.
type Tier string

const (
	TierPrimary   Tier = "Primary"
	TierSecondary Tier = "Secondary"
	TierTertiary  Tier = "Tertiary"
)

// tierForRank maps a 1-based rank to its display tier. Ranks past the fixed
// sequence reuse the tertiary label; ranks stay authoritative.
func tierForRank(rank int) Tier {
	switch rank {
	case 1:
		return TierPrimary
	case 2:
		return TierSecondary
	default:
		return TierTertiary
	}
}

// Entry is one catalog item subject to categorization. Entries are created by
// ingestion and never mutated by this package.
type Entry struct {
	ID         int64     `json:"id"`
	Keywords   []string  `json:"keywords"`
	Coordinate []float32 `json:"coordinate,omitempty"`
}

// Category is a discovered thematic cluster. Ids are assigned at discovery
// time and are not stable across reruns.
type Category struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Keywords    []string `json:"keywords"`
	MemberCount int      `json:"memberCount"`
}

// CategoryScore pairs one category with a similarity score for a single entry.
type CategoryScore struct {
	CategoryID int
	Score      float32
	Matched    []string
}

// Assignment records one entry-category membership decision.
type Assignment struct {
	EntryID    int64    `json:"entryId"`
	CategoryID int      `json:"categoryId"`
	Rank       int      `json:"rank"`
	Tier       Tier     `json:"tier"`
	Score      float32  `json:"score"`
	Matched    []string `json:"matchedKeywords,omitempty"`
}

// KScore reports the landscape score for one candidate category count.
type KScore struct {
	K          int     `json:"k"`
	Score      float32 `json:"score"`
	Degenerate bool    `json:"degenerate"`
}

// Taxonomy is one immutable snapshot of categories and assignments produced
// by a single recomputation run.
type Taxonomy struct {
	RunID       uuid.UUID    `json:"runId"`
	CreatedAt   time.Time    `json:"createdAt"`
	K           int          `json:"k"`
	Categories  []Category   `json:"categories"`
	Assignments []Assignment `json:"assignments"`
	Landscape   []KScore     `json:"landscape,omitempty"`
}
