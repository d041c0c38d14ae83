package goals

import (
	"errors"
	"fmt"

	"github.com/2beens/fittrack/internal/fitness/analytics"
)

var ErrInvalidGoal = errors.New("invalid goal")

// Validate checks the goal definition. A goal whose target equals its
// baseline is rejected here so the progress engine never sees one. An unset
// baseline counts as 0, the same as in progress evaluation.
func Validate(goal analytics.Goal) error {
	if err := validateDefinition(goal); err != nil {
		return err
	}
	if goal.Target == nil {
		return nil
	}
	baseline := 0.0
	if goal.Baseline != nil {
		baseline = *goal.Baseline
	}
	if *goal.Target == baseline {
		return fmt.Errorf("%w: target equals baseline (%g)", ErrInvalidGoal, baseline)
	}
	return nil
}

// validateDefinition runs every check that does not depend on the baseline.
func validateDefinition(goal analytics.Goal) error {
	if !goal.Type.IsValid() {
		return fmt.Errorf("%w: unknown type [%s]", ErrInvalidGoal, goal.Type)
	}
	if !goal.Period.IsValid() {
		return fmt.Errorf("%w: unknown period [%s]", ErrInvalidGoal, goal.Period)
	}
	if goal.Type == analytics.GoalTypeStrength && goal.ExerciseID == "" {
		return fmt.Errorf("%w: strength goal needs an exercise id", ErrInvalidGoal)
	}
	if goal.Target != nil && *goal.Target < 0 {
		return fmt.Errorf("%w: negative target", ErrInvalidGoal)
	}
	if goal.Deadline != nil && !goal.CreatedAt.IsZero() && analytics.DaysBetween(goal.CreatedAt, *goal.Deadline) < 0 {
		return fmt.Errorf("%w: deadline before creation", ErrInvalidGoal)
	}
	return nil
}
