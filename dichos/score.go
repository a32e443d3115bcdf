package dichos

import (
	"fmt"

	"github.com/viant/vec/search"
)

// Similarity is the result of scoring one entry against one category. It is
// consumed immediately by the assignment engine and never persisted alone.
type Similarity struct {
	Score   float32
	Matched []string
}

// Scorer supplies a similarity score in [0,1] between an entry and a
// category. The assignment engine is agnostic to the implementation.
type Scorer interface {
	Score(entry Entry, category Category) (Similarity, error)
}

// KeywordOverlapScorer scores by the share of an entry's keywords that
// appear in the category's keyword union.
type KeywordOverlapScorer struct{}

// Score returns |entry ∩ category| / |entry| along with the matched subset.
func (KeywordOverlapScorer) Score(entry Entry, category Category) (Similarity, error) {
	entryKw := NormalizeKeywords(entry.Keywords)
	if len(entryKw) == 0 {
		return Similarity{}, nil
	}
	catSet := make(map[string]struct{}, len(category.Keywords))
	for _, kw := range category.Keywords {
		catSet[NormalizeKeyword(kw)] = struct{}{}
	}
	matched := make([]string, 0, len(entryKw))
	for _, kw := range entryKw {
		if _, ok := catSet[kw]; ok {
			matched = append(matched, kw)
		}
	}
	return Similarity{
		Score:   float32(len(matched)) / float32(len(entryKw)),
		Matched: matched,
	}, nil
}

// CosineScorer scores by cosine similarity between an entry's coordinate and
// the category centroid obtained at discovery time. Negative similarities
// clamp to zero so the score stays in [0,1].
type CosineScorer struct {
	Centroids map[int][]float32
}

func (s CosineScorer) Score(entry Entry, category Category) (Similarity, error) {
	centroid, ok := s.Centroids[category.ID]
	if !ok {
		return Similarity{}, fmt.Errorf("no centroid for category %d", category.ID)
	}
	if len(entry.Coordinate) == 0 {
		return Similarity{}, fmt.Errorf("entry %d has no coordinate", entry.ID)
	}
	return Similarity{Score: clamp01(cosineSimilarity(entry.Coordinate, centroid))}, nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	va := search.Float32s(a)
	if va.Magnitude() == 0 || search.Float32s(b).Magnitude() == 0 {
		return 0
	}
	return 1 - va.CosineDistance(b)
}

func euclideanDistance(a, b []float32) float32 {
	return search.Float32s(a).EuclideanDistance(b)
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
