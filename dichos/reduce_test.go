package dichos

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPCAReduceShapeAndDeterminism(t *testing.T) {
	vectors := [][]float32{
		{1, 2, 3, 4},
		{2, 3, 4, 5},
		{9, 1, 0, 2},
		{8, 2, 1, 3},
		{0, 7, 7, 0},
	}
	r := NewPCAReducer()

	first, err := r.Reduce(vectors)
	require.NoError(t, err)
	require.Len(t, first, len(vectors))
	for _, c := range first {
		assert.Len(t, c, 2)
	}

	second, err := r.Reduce(vectors)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPCAReducePreservesSeparation(t *testing.T) {
	// Two groups far apart in 5D must stay far apart in 2D.
	var vectors [][]float32
	for i := 0; i < 4; i++ {
		vectors = append(vectors, []float32{float32(i) * 0.1, 0, 0, 0, 0})
	}
	for i := 0; i < 4; i++ {
		vectors = append(vectors, []float32{100 + float32(i)*0.1, 50, 50, 0, 0})
	}

	coords, err := NewPCAReducer().Reduce(vectors)
	require.NoError(t, err)

	intra := dist2(coords[0], coords[3])
	inter := dist2(coords[0], coords[4])
	assert.Greater(t, inter, 10*intra)
}

func TestPCAReduceZeroVariance(t *testing.T) {
	vectors := [][]float32{
		{1, 1, 1},
		{1, 1, 1},
		{1, 1, 1},
	}
	coords, err := NewPCAReducer().Reduce(vectors)
	require.NoError(t, err)
	for _, c := range coords {
		require.Len(t, c, 2)
		assert.Zero(t, c[0])
		assert.Zero(t, c[1])
	}
}

func TestPCAReduceRejectsEmptyAndRagged(t *testing.T) {
	_, err := NewPCAReducer().Reduce(nil)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = NewPCAReducer().Reduce([][]float32{{1, 2}, {1}})
	assert.Error(t, err)
}

func TestPCAReduceClampsComponentsToDim(t *testing.T) {
	r := &PCAReducer{Components: 5, Iterations: 50}
	coords, err := r.Reduce([][]float32{{1}, {2}, {3}})
	require.NoError(t, err)
	for _, c := range coords {
		assert.Len(t, c, 1)
	}
}

func dist2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i] - b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
