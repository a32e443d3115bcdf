// interfaces.go defines the interface for the dicho catalog database.
package datastore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"yashubustudio/dichos/dichos"
)

// Interface abstracts the underlying database implementation.
type Interface interface {
	Open() error
	Close() error
	SaveDichos(records []Dicho) (int, error)
	GetAllDichos() ([]Dicho, error)
	GetDicho(id uint) (Dicho, error)
	LatestDichoTime() (time.Time, error)
	SaveCoordinates(coords map[uint][2]float32) error
	ReplaceTaxonomy(ctx context.Context, tax *dichos.Taxonomy) error
	GetCategories() ([]Category, error)
	GetAssignments() ([]Assignment, error)
	AssignmentsForDicho(dichoID uint) ([]Assignment, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB
}

// New creates a store for the given SQLite database path.
func New(path string) Interface {
	return &SQLiteStore{Path: path}
}

// SaveDichos inserts records that are not yet in the catalog, keyed by the
// unique text column. Returns the number of rows actually inserted.
func (ds *DataStore) SaveDichos(records []Dicho) (int, error) {
	if ds.DB == nil {
		return 0, fmt.Errorf("database connection is not initialized")
	}
	inserted := 0
	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		for i := range records {
			res := tx.Where("text = ?", records[i].Text).FirstOrCreate(&records[i])
			if res.Error != nil {
				return fmt.Errorf("saving dicho %q: %w", records[i].Text, res.Error)
			}
			if res.RowsAffected > 0 {
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// GetAllDichos returns the full catalog ordered by id.
func (ds *DataStore) GetAllDichos() ([]Dicho, error) {
	var out []Dicho
	if err := ds.DB.Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("getting dichos: %w", err)
	}
	return out, nil
}

// GetDicho returns a single catalog entry by id.
func (ds *DataStore) GetDicho(id uint) (Dicho, error) {
	var d Dicho
	if err := ds.DB.First(&d, id).Error; err != nil {
		return Dicho{}, fmt.Errorf("getting dicho %d: %w", id, err)
	}
	return d, nil
}

// LatestDichoTime returns the most recent RecordedAt in the catalog, or the
// zero time when the catalog is empty.
func (ds *DataStore) LatestDichoTime() (time.Time, error) {
	var d Dicho
	err := ds.DB.Order("recorded_at DESC").First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("getting latest dicho time: %w", err)
	}
	return d.RecordedAt, nil
}

// SaveCoordinates stores the reduced 2D coordinate of each dicho.
func (ds *DataStore) SaveCoordinates(coords map[uint][2]float32) error {
	return ds.DB.Transaction(func(tx *gorm.DB) error {
		for id, c := range coords {
			err := tx.Model(&Dicho{}).Where("id = ?", id).
				Updates(map[string]interface{}{"coord_x": c[0], "coord_y": c[1]}).Error
			if err != nil {
				return fmt.Errorf("saving coordinates for dicho %d: %w", id, err)
			}
		}
		return nil
	})
}

// ReplaceTaxonomy swaps in a new taxonomy in a single transaction. All
// previous categories and assignments are removed first, so readers never
// see a mix of two runs.
func (ds *DataStore) ReplaceTaxonomy(ctx context.Context, tax *dichos.Taxonomy) error {
	if ds.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	return ds.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&Assignment{}).Error; err != nil {
			return fmt.Errorf("clearing assignments: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&Category{}).Error; err != nil {
			return fmt.Errorf("clearing categories: %w", err)
		}
		run := tax.RunID.String()
		for _, c := range tax.Categories {
			row := Category{
				RunID:       run,
				ClusterID:   c.ID,
				Name:        c.Name,
				Keywords:    strings.Join(c.Keywords, ", "),
				MemberCount: c.MemberCount,
				CreatedAt:   tax.CreatedAt,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("saving category %d: %w", c.ID, err)
			}
		}
		for _, a := range tax.Assignments {
			row := Assignment{
				DichoID:         uint(a.EntryID),
				ClusterID:       a.CategoryID,
				Rank:            a.Rank,
				Tier:            string(a.Tier),
				Score:           a.Score,
				MatchedKeywords: strings.Join(a.Matched, ", "),
				CreatedAt:       tax.CreatedAt,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("saving assignment %d/%d: %w", a.EntryID, a.CategoryID, err)
			}
		}
		return nil
	})
}

// GetCategories returns the current taxonomy's categories ordered by cluster.
func (ds *DataStore) GetCategories() ([]Category, error) {
	var out []Category
	if err := ds.DB.Order("cluster_id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("getting categories: %w", err)
	}
	return out, nil
}

// GetAssignments returns all assignments ordered by dicho then rank.
func (ds *DataStore) GetAssignments() ([]Assignment, error) {
	var out []Assignment
	if err := ds.DB.Order("dicho_id, rank").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("getting assignments: %w", err)
	}
	return out, nil
}

// AssignmentsForDicho returns one dicho's assignments ordered by rank.
func (ds *DataStore) AssignmentsForDicho(dichoID uint) ([]Assignment, error) {
	var out []Assignment
	if err := ds.DB.Where("dicho_id = ?", dichoID).Order("rank").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("getting assignments for dicho %d: %w", dichoID, err)
	}
	return out, nil
}
