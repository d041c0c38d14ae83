package workouts

import (
	"errors"
	"fmt"

	"github.com/2beens/fittrack/internal/fitness/analytics"
)

var ErrInvalidWorkout = errors.New("invalid workout")

// Normalize fills defaults (set type) and checks the record before it is stored.
// Stored records are trusted by the analytics core.
func Normalize(record *analytics.WorkoutRecord) error {
	if record.Date.IsZero() {
		return fmt.Errorf("%w: date missing", ErrInvalidWorkout)
	}
	if record.DurationMinutes < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidWorkout)
	}
	record.Date = analytics.Day(record.Date)

	for i := range record.Exercises {
		ex := &record.Exercises[i]
		if ex.ExerciseID == "" {
			return fmt.Errorf("%w: exercise %d has no id", ErrInvalidWorkout, i)
		}
		for j := range ex.Sets {
			set := &ex.Sets[j]
			if set.Type == "" {
				set.Type = analytics.SetTypeNormal
			}
			if !set.Type.IsValid() {
				return fmt.Errorf("%w: %s set %d: unknown set type [%s]", ErrInvalidWorkout, ex.ExerciseID, j, set.Type)
			}
			if _, err := analytics.EstimateOneRepMax(set.Weight, set.Reps); err != nil {
				return fmt.Errorf("%w: %s set %d: %w", ErrInvalidWorkout, ex.ExerciseID, j, err)
			}
		}
	}

	return nil
}
