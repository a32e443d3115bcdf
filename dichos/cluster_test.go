package dichos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoBlobs builds two tight, well-separated point groups with keyworded
// entries so discovery has something to name the categories with.
func twoBlobs() ([]Entry, [][]float32) {
	coords := [][]float32{
		{0, 0}, {0.1, 0}, {0, 0.1}, {0.1, 0.1},
		{10, 10}, {10.1, 10}, {10, 10.1}, {10.1, 10.1},
	}
	entries := make([]Entry, len(coords))
	for i := range entries {
		kw := "hypocrisy"
		if i >= 4 {
			kw = "happiness"
		}
		entries[i] = Entry{ID: int64(i + 1), Keywords: []string{kw, "wisdom"}}
	}
	return entries, coords
}

func TestKMeansPartitionSeparatesBlobs(t *testing.T) {
	_, coords := twoBlobs()
	labels, centroids, err := NewKMeansPartitioner().Partition(coords, 2)
	require.NoError(t, err)
	require.Len(t, labels, len(coords))
	require.Len(t, centroids, 2)

	assert.NotEqual(t, labels[0], labels[4])
	for i := 1; i < 4; i++ {
		assert.Equal(t, labels[0], labels[i])
		assert.Equal(t, labels[4], labels[4+i])
	}
}

func TestKMeansPartitionDeterministic(t *testing.T) {
	_, coords := twoBlobs()
	p := NewKMeansPartitioner()
	l1, c1, err := p.Partition(coords, 3)
	require.NoError(t, err)
	l2, c2, err := p.Partition(coords, 3)
	require.NoError(t, err)
	assert.Equal(t, l1, l2)
	assert.Equal(t, c1, c2)
}

func TestKMeansPartitionRejectsBadK(t *testing.T) {
	_, coords := twoBlobs()
	_, _, err := NewKMeansPartitioner().Partition(coords, 0)
	assert.Error(t, err)
	_, _, err = NewKMeansPartitioner().Partition(coords, len(coords)+1)
	assert.Error(t, err)
}

func TestDiscoverCategoriesPicksTwoBlobs(t *testing.T) {
	entries, coords := twoBlobs()
	cfg := defaultConfig()
	cfg.KMax = 4

	d, err := DiscoverCategories(entries, coords, nil, cfg)
	require.NoError(t, err)

	assert.Equal(t, 2, d.K)
	require.Len(t, d.Categories, 2)
	assert.Equal(t, 4, d.Categories[0].MemberCount)
	assert.Equal(t, 4, d.Categories[1].MemberCount)

	// Landscape covers the full sweep in ascending order.
	require.Len(t, d.Landscape, 3)
	for i, ks := range d.Landscape {
		assert.Equal(t, cfg.KMin+i, ks.K)
	}
}

func TestDiscoverCategoriesKeywordUnionAndName(t *testing.T) {
	entries, coords := twoBlobs()
	cfg := defaultConfig()
	cfg.KMax = 2

	d, err := DiscoverCategories(entries, coords, nil, cfg)
	require.NoError(t, err)

	for _, c := range d.Categories {
		require.Len(t, c.Keywords, 2)
		assert.Contains(t, c.Keywords, "wisdom")
		assert.NotEmpty(t, c.Name)
	}
}

func TestDiscoverCategoriesInsufficientData(t *testing.T) {
	entries, coords := twoBlobs()
	cfg := defaultConfig()

	_, err := DiscoverCategories(nil, nil, nil, cfg)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = DiscoverCategories(entries[:3], coords[:3], nil, cfg)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestDiscoverCategoriesClampsKMaxToCatalog(t *testing.T) {
	entries, coords := twoBlobs()
	cfg := defaultConfig()
	cfg.KMax = 50

	d, err := DiscoverCategories(entries, coords, nil, cfg)
	require.NoError(t, err)

	last := d.Landscape[len(d.Landscape)-1]
	assert.LessOrEqual(t, last.K, len(coords))
}

func TestDiscoverCategoriesAllDegenerate(t *testing.T) {
	coords := make([][]float32, 6)
	entries := make([]Entry, 6)
	for i := range coords {
		coords[i] = []float32{1, 1}
		entries[i] = Entry{ID: int64(i + 1), Keywords: []string{"same"}}
	}
	cfg := defaultConfig()
	cfg.KMax = 3

	_, err := DiscoverCategories(entries, coords, nil, cfg)
	assert.ErrorIs(t, err, ErrDegenerateClustering)
}

func TestDiscoverCategoriesTieBreaksToSmallerK(t *testing.T) {
	entries, coords := twoBlobs()
	cfg := defaultConfig()
	cfg.KMax = 3

	// A partitioner whose every candidate scores identically.
	d, err := DiscoverCategories(entries, coords, constantPartitioner{}, cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.KMin, d.K)
}

// constantPartitioner splits entries in half regardless of k, so every
// candidate count produces the same landscape score.
type constantPartitioner struct{}

func (constantPartitioner) Partition(coords [][]float32, k int) ([]int, [][]float32, error) {
	labels := make([]int, len(coords))
	for i := range labels {
		if i >= len(coords)/2 {
			labels[i] = 1
		}
	}
	centroids := [][]float32{{0.05, 0.05}, {10.05, 10.05}}
	return labels, centroids, nil
}
