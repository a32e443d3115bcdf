package dichos

import (
	"fmt"
	"math"
)

// Reducer projects high-dimensional vectors into a low-dimensional
// coordinate space suitable for partitioning.
type Reducer interface {
	Reduce(vectors [][]float32) ([][]float32, error)
}

// PCAReducer projects onto the top principal components of the centered
// input, extracted by power iteration with deflation. The fixed starting
// vector keeps the projection deterministic across runs.
type PCAReducer struct {
	Components int
	Iterations int
}

// NewPCAReducer constructs a reducer targeting the default 2D space.
func NewPCAReducer() *PCAReducer {
	return &PCAReducer{Components: 2, Iterations: 100}
}

// Reduce implements Reducer.
func (p *PCAReducer) Reduce(vectors [][]float32) ([][]float32, error) {
	n := len(vectors)
	if n == 0 {
		return nil, newError(ErrInsufficientData, "", "no vectors to reduce")
	}
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), dim)
		}
	}
	components := p.Components
	if components <= 0 {
		components = 2
	}
	if components > dim {
		components = dim
	}
	iterations := p.Iterations
	if iterations <= 0 {
		iterations = 100
	}

	mean := columnMean(vectors, dim)
	centered := make([][]float64, n)
	working := make([][]float64, n)
	for i, v := range vectors {
		centered[i] = rowToFloat64(v, mean)
		working[i] = append([]float64(nil), centered[i]...)
	}

	// Deflation mutates the working copy; projections use the pristine rows.
	axes := make([][]float64, 0, components)
	for c := 0; c < components; c++ {
		axis := powerIterate(working, iterations)
		if axis == nil {
			break
		}
		axes = append(axes, axis)
		deflate(working, axis)
	}

	out := make([][]float32, n)
	for i, row := range centered {
		// Zero-variance directions leave trailing zero columns so every
		// coordinate keeps the requested width.
		coord := make([]float32, components)
		for c, axis := range axes {
			coord[c] = float32(dot64(row, axis))
		}
		out[i] = coord
	}
	return out, nil
}

func columnMean(vectors [][]float32, dim int) []float64 {
	mean := make([]float64, dim)
	for _, v := range vectors {
		for d := 0; d < dim; d++ {
			mean[d] += float64(v[d])
		}
	}
	for d := range mean {
		mean[d] /= float64(len(vectors))
	}
	return mean
}

func rowToFloat64(v []float32, mean []float64) []float64 {
	out := make([]float64, len(v))
	for d := range v {
		out[d] = float64(v[d]) - mean[d]
	}
	return out
}

// powerIterate extracts the dominant right singular vector of the centered
// data matrix. Returns nil when the remaining variance is effectively zero.
func powerIterate(rows [][]float64, iterations int) []float64 {
	dim := len(rows[0])
	axis := make([]float64, dim)
	for d := range axis {
		// Fixed deterministic start, slightly anisotropic so the iteration
		// does not stall on symmetric inputs.
		axis[d] = 1 / float64(d+1)
	}
	normalize64(axis)
	for it := 0; it < iterations; it++ {
		next := make([]float64, dim)
		for _, row := range rows {
			proj := dot64(row, axis)
			for d := range next {
				next[d] += proj * row[d]
			}
		}
		norm := norm64(next)
		if norm < 1e-12 {
			return nil
		}
		for d := range next {
			next[d] /= norm
		}
		if math.Abs(1-math.Abs(dot64(next, axis))) < 1e-10 {
			axis = next
			break
		}
		axis = next
	}
	return axis
}

// deflate removes the axis component from every row so the next power
// iteration finds an orthogonal direction.
func deflate(rows [][]float64, axis []float64) {
	for _, row := range rows {
		proj := dot64(row, axis)
		for d := range row {
			row[d] -= proj * axis[d]
		}
	}
}

func dot64(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func norm64(v []float64) float64 {
	return math.Sqrt(dot64(v, v))
}

func normalize64(v []float64) {
	n := norm64(v)
	if n == 0 {
		return
	}
	for i := range v {
		v[i] /= n
	}
}
