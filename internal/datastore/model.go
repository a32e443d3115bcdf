// model.go defines the persisted data model for dichos and their taxonomy.
package datastore

import "time"

// Dicho is a single catalog entry with its enrichment columns.
type Dicho struct {
	ID              uint   `gorm:"primaryKey"`
	Text            string `gorm:"uniqueIndex:idx_dichos_text"`
	Translation     string
	Keywords        string
	CulturalContext string
	EmotionTone     string
	Contributor     string
	RecordedAt      time.Time `gorm:"index:idx_dichos_recorded"`
	CreatedAt       time.Time

	// Reduced 2D coordinate from the last discovery run, used by reports.
	CoordX float32
	CoordY float32
}

// Category is one discovered cluster of the current taxonomy. ClusterID is
// the cluster index from the discovery run, stable within a taxonomy but
// replaced wholesale on every recluster.
type Category struct {
	ID          uint   `gorm:"primaryKey"`
	RunID       string `gorm:"index:idx_categories_run"`
	ClusterID   int    `gorm:"uniqueIndex:idx_categories_cluster"`
	Name        string
	Keywords    string
	MemberCount int
	CreatedAt   time.Time
}

// Assignment links a dicho to a category with its rank, tier and score.
// A dicho may appear at most once per category.
type Assignment struct {
	ID              uint `gorm:"primaryKey"`
	DichoID         uint `gorm:"uniqueIndex:idx_assignments_pair;index:idx_assignments_dicho"`
	ClusterID       int  `gorm:"uniqueIndex:idx_assignments_pair"`
	Rank            int
	Tier            string
	Score           float32
	MatchedKeywords string
	CreatedAt       time.Time
}
