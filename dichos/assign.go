package dichos

import (
	"fmt"
	"math"
	"sort"
)

// EntryScores carries one entry's full list of category similarity scores.
type EntryScores struct {
	EntryID int64
	Scores  []CategoryScore
}

// AssignEntry decides which categories a single entry belongs to using the
// hybrid ranked-threshold rule:
//
//  1. the best-scoring category is always selected,
//  2. remaining categories within SecondaryGap of the best score, or at or
//     above SecondaryAbs, form the secondary pool,
//  3. categories left over at or above TertiaryThreshold form the tertiary
//     pool,
//  4. pools are appended in descending-score order until MaxCategories.
//
// Tier labels are positional: the first appended category is Secondary no
// matter which pool it came from. The caller must pass a validated Config.
func AssignEntry(entryID int64, scores []CategoryScore, cfg Config) ([]Assignment, error) {
	if len(scores) == 0 {
		return nil, newError(ErrInsufficientData, fmt.Sprintf("entry %d", entryID), "no category scores")
	}
	for _, s := range scores {
		if err := validateScore(entryID, s); err != nil {
			return nil, err
		}
	}

	ranked := make([]CategoryScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	primary := ranked[0]
	selected := make([]CategoryScore, 0, cfg.MaxCategories)
	selected = append(selected, primary)

	if cfg.MaxCategories > 1 && len(ranked) > 1 {
		rest := ranked[1:]
		secondary := make([]CategoryScore, 0, len(rest))
		inSecondary := make(map[int]struct{}, len(rest))
		for _, cand := range rest {
			gapQualified := primary.Score-cand.Score <= cfg.SecondaryGap
			absQualified := cand.Score >= cfg.SecondaryAbs
			if gapQualified || absQualified {
				secondary = append(secondary, cand)
				inSecondary[cand.CategoryID] = struct{}{}
			}
		}
		tertiary := make([]CategoryScore, 0, len(rest))
		for _, cand := range rest {
			if _, ok := inSecondary[cand.CategoryID]; ok {
				continue
			}
			if cand.Score >= cfg.TertiaryThreshold {
				tertiary = append(tertiary, cand)
			}
		}

		budget := cfg.MaxCategories - 1
		for _, cand := range secondary {
			if budget == 0 {
				break
			}
			selected = append(selected, cand)
			budget--
		}
		for _, cand := range tertiary {
			if budget == 0 {
				break
			}
			selected = append(selected, cand)
			budget--
		}
	}

	out := make([]Assignment, len(selected))
	for i, cand := range selected {
		rank := i + 1
		out[i] = Assignment{
			EntryID:    entryID,
			CategoryID: cand.CategoryID,
			Rank:       rank,
			Tier:       tierForRank(rank),
			Score:      cand.Score,
			Matched:    cand.Matched,
		}
	}
	return out, nil
}

// AssignAll runs the assignment engine over a full batch. Entries are
// independent, so processing order carries no meaning; the result is
// reassembled sorted by (entry id, rank) to stay deterministic. Any invalid
// score rejects the whole batch.
func AssignAll(batch []EntryScores, cfg Config) ([]Assignment, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	out := make([]Assignment, 0, len(batch))
	for _, es := range batch {
		assigned, err := AssignEntry(es.EntryID, es.Scores, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, assigned...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EntryID == out[j].EntryID {
			return out[i].Rank < out[j].Rank
		}
		return out[i].EntryID < out[j].EntryID
	})
	return out, nil
}

func validateScore(entryID int64, s CategoryScore) error {
	f := float64(s.Score)
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > 1 {
		return newError(ErrInvalidScore, fmt.Sprintf("entry %d", entryID),
			"score %g for category %d is outside [0,1]", s.Score, s.CategoryID)
	}
	return nil
}
