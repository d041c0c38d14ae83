package analytics

import (
	"fmt"
	"math"
)

// EstimateOneRepMax estimates the one-rep-max using the Epley formula:
// weight * (1 + reps/30). A single rep is the weight itself.
func EstimateOneRepMax(weight float64, reps int) (float64, error) {
	if reps < 1 {
		return 0, fmt.Errorf("%w: reps must be at least 1, got %d", ErrInvalidSet, reps)
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return 0, fmt.Errorf("%w: weight must be a non-negative number, got %g", ErrInvalidSet, weight)
	}
	if reps == 1 {
		return weight, nil
	}
	return weight * (1 + float64(reps)/30), nil
}

type BestSet struct {
	// Index is the position of the set in the input sequence
	Index     int      `json:"index"`
	Set       SetEntry `json:"set"`
	OneRepMax float64  `json:"oneRepMax"`
}

// FindBestSet returns the non-warmup set with the highest estimated 1RM.
// Ties go to the earliest set. Returns nil (and no error) when there is
// no eligible set.
func FindBestSet(sets []SetEntry) (*BestSet, error) {
	var best *BestSet
	for i, s := range sets {
		if s.Type == SetTypeWarmup {
			continue
		}
		oneRepMax, err := EstimateOneRepMax(s.Weight, s.Reps)
		if err != nil {
			return nil, fmt.Errorf("set %d: %w", i, err)
		}
		if best == nil || oneRepMax > best.OneRepMax {
			best = &BestSet{
				Index:     i,
				Set:       s,
				OneRepMax: oneRepMax,
			}
		}
	}
	return best, nil
}

// BestSetForExercise looks for the best set of the given exercise within a single record.
// Sets are considered in the order they were logged.
func BestSetForExercise(record WorkoutRecord, exerciseID string) (*BestSet, error) {
	var sets []SetEntry
	for _, ex := range record.Exercises {
		if ex.ExerciseID != exerciseID {
			continue
		}
		sets = append(sets, ex.Sets...)
	}
	if len(sets) == 0 {
		return nil, nil
	}
	return FindBestSet(sets)
}
