package dichos

import (
	"fmt"
	"sort"
	"strings"
)

// Partitioner produces a hard assignment of every coordinate to one of k
// groups. Implementations must be deterministic for a fixed input.
type Partitioner interface {
	Partition(coords [][]float32, k int) (labels []int, centroids [][]float32, err error)
}

// KMeansPartitioner is a deterministic Lloyd's k-means: centroids are seeded
// by farthest-first traversal from the lowest-index coordinate, so repeated
// runs over the same input yield the same partition.
type KMeansPartitioner struct {
	MaxIterations int
	Tolerance     float32
}

// NewKMeansPartitioner constructs a partitioner with the default iteration
// budget and convergence tolerance.
func NewKMeansPartitioner() *KMeansPartitioner {
	return &KMeansPartitioner{MaxIterations: 100, Tolerance: 1e-4}
}

// Partition implements Partitioner.
func (p *KMeansPartitioner) Partition(coords [][]float32, k int) ([]int, [][]float32, error) {
	n := len(coords)
	if n == 0 {
		return nil, nil, newError(ErrInsufficientData, "", "no coordinates to partition")
	}
	if k < 1 || k > n {
		return nil, nil, fmt.Errorf("k=%d out of range for %d coordinates", k, n)
	}
	maxIter := p.MaxIterations
	if maxIter <= 0 {
		maxIter = 100
	}

	centroids := seedFarthestFirst(coords, k)
	labels := make([]int, n)
	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, c := range coords {
			best := nearestCentroid(c, centroids)
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		shift := recomputeCentroids(coords, labels, centroids)
		if !changed || shift <= p.Tolerance {
			break
		}
	}
	return labels, centroids, nil
}

func seedFarthestFirst(coords [][]float32, k int) [][]float32 {
	centroids := make([][]float32, 0, k)
	centroids = append(centroids, cloneVector(coords[0]))
	for len(centroids) < k {
		bestIdx, bestDist := 0, float32(-1)
		for i, c := range coords {
			d := euclideanDistance(c, centroids[nearestCentroid(c, centroids)])
			if d > bestDist {
				bestIdx, bestDist = i, d
			}
		}
		centroids = append(centroids, cloneVector(coords[bestIdx]))
	}
	return centroids
}

func nearestCentroid(c []float32, centroids [][]float32) int {
	best, bestDist := 0, float32(0)
	for j, cent := range centroids {
		d := euclideanDistance(c, cent)
		if j == 0 || d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}

// recomputeCentroids moves each centroid to the mean of its members and
// returns the largest centroid shift. Empty groups keep their old position.
func recomputeCentroids(coords [][]float32, labels []int, centroids [][]float32) float32 {
	dim := len(coords[0])
	sums := make([][]float32, len(centroids))
	counts := make([]int, len(centroids))
	for j := range sums {
		sums[j] = make([]float32, dim)
	}
	for i, c := range coords {
		j := labels[i]
		counts[j]++
		for d := 0; d < dim; d++ {
			sums[j][d] += c[d]
		}
	}
	var maxShift float32
	for j := range centroids {
		if counts[j] == 0 {
			continue
		}
		next := make([]float32, dim)
		for d := 0; d < dim; d++ {
			next[d] = sums[j][d] / float32(counts[j])
		}
		if shift := euclideanDistance(centroids[j], next); shift > maxShift {
			maxShift = shift
		}
		centroids[j] = next
	}
	return maxShift
}

// Discovery is the full result of a cluster-discovery run: the selected
// partition plus the score landscape it was chosen from.
type Discovery struct {
	K          int
	Labels     []int
	Centroids  [][]float32
	Categories []Category
	Landscape  []KScore
}

// DiscoverCategories determines the best number of categories within
// [cfg.KMin, cfg.KMax] and partitions all entries into exactly that many
// disjoint groups. Candidate counts are scored by mean per-entry fitness
// (how much better an entry fits its own centroid than the nearest other
// one); a candidate that collapses to fewer than two effective groups scores
// zero and is never selected unless every candidate collapses, which is an
// error. Ties break toward the smaller count.
func DiscoverCategories(entries []Entry, coords [][]float32, partitioner Partitioner, cfg Config) (*Discovery, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := len(coords)
	if n == 0 {
		return nil, newError(ErrInsufficientData, "", "empty catalog")
	}
	if n != len(entries) {
		return nil, fmt.Errorf("coordinate count %d does not match entry count %d", n, len(entries))
	}
	if n < 2*cfg.KMin {
		return nil, newError(ErrInsufficientData, fmt.Sprintf("n=%d", n),
			"need at least %d entries for kMin=%d", 2*cfg.KMin, cfg.KMin)
	}
	if partitioner == nil {
		partitioner = NewKMeansPartitioner()
	}

	kMax := cfg.KMax
	if kMax > n {
		kMax = n
	}

	type trial struct {
		labels    []int
		centroids [][]float32
	}
	var (
		landscape []KScore
		best      *trial
		bestK     int
		bestScore float32
		anyValid  bool
	)
	for k := cfg.KMin; k <= kMax; k++ {
		labels, centroids, err := partitioner.Partition(coords, k)
		if err != nil {
			return nil, fmt.Errorf("partition k=%d: %w", k, err)
		}
		score, degenerate := landscapeScore(coords, labels, centroids)
		landscape = append(landscape, KScore{K: k, Score: score, Degenerate: degenerate})
		if degenerate {
			// Scored zero and never selectable; only an error when every
			// candidate collapses.
			continue
		}
		anyValid = true
		if best == nil || score > bestScore {
			best = &trial{labels: labels, centroids: centroids}
			bestK, bestScore = k, score
		}
	}
	if !anyValid {
		return nil, newError(ErrDegenerateClustering, fmt.Sprintf("kMin=%d kMax=%d", cfg.KMin, kMax),
			"every candidate collapsed to fewer than 2 effective groups")
	}

	return &Discovery{
		K:          bestK,
		Labels:     best.labels,
		Centroids:  best.centroids,
		Categories: buildCategories(entries, best.labels, bestK),
		Landscape:  landscape,
	}, nil
}

// landscapeScore computes the mean fitness over all entries for one
// partition. Fitness is (b-a)/max(a,b) with a the distance to the own
// centroid and b the distance to the nearest other non-empty centroid,
// bounded in [-1,1].
func landscapeScore(coords [][]float32, labels []int, centroids [][]float32) (score float32, degenerate bool) {
	counts := make([]int, len(centroids))
	for _, l := range labels {
		counts[l]++
	}
	effective := 0
	for _, c := range counts {
		if c > 0 {
			effective++
		}
	}
	if effective < 2 {
		return 0, true
	}

	var sum float64
	for i, c := range coords {
		own := labels[i]
		a := euclideanDistance(c, centroids[own])
		var b float32
		first := true
		for j := range centroids {
			if j == own || counts[j] == 0 {
				continue
			}
			d := euclideanDistance(c, centroids[j])
			if first || d < b {
				b, first = d, false
			}
		}
		maxAB := a
		if b > maxAB {
			maxAB = b
		}
		if maxAB > 0 {
			sum += float64((b - a) / maxAB)
		}
	}
	return float32(sum / float64(len(coords))), false
}

// buildCategories derives the category definitions for the selected
// partition: a first-seen-ordered keyword union, the member count, and a
// display name from the most frequent member keywords.
func buildCategories(entries []Entry, labels []int, k int) []Category {
	unions := make([][]string, k)
	seen := make([]map[string]struct{}, k)
	freq := make([]map[string]int, k)
	counts := make([]int, k)
	for j := 0; j < k; j++ {
		seen[j] = make(map[string]struct{})
		freq[j] = make(map[string]int)
	}
	for i, e := range entries {
		j := labels[i]
		counts[j]++
		for _, kw := range NormalizeKeywords(e.Keywords) {
			freq[j][kw]++
			if _, ok := seen[j][kw]; ok {
				continue
			}
			seen[j][kw] = struct{}{}
			unions[j] = append(unions[j], kw)
		}
	}
	out := make([]Category, k)
	for j := 0; j < k; j++ {
		out[j] = Category{
			ID:          j,
			Name:        categoryName(j, unions[j], freq[j]),
			Keywords:    unions[j],
			MemberCount: counts[j],
		}
	}
	return out
}

func categoryName(id int, union []string, freq map[string]int) string {
	if len(union) == 0 {
		return fmt.Sprintf("Cluster %d", id)
	}
	top := make([]string, len(union))
	copy(top, union)
	sort.SliceStable(top, func(i, j int) bool {
		return freq[top[i]] > freq[top[j]]
	})
	if len(top) > 3 {
		top = top[:3]
	}
	return strings.Join(top, " / ")
}

func cloneVector(vec []float32) []float32 {
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}
