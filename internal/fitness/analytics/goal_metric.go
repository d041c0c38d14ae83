package analytics

import (
	"fmt"
	"time"
)

// goalMetric is implemented once per goal type; metricFor is the only
// place that maps a GoalType onto its implementation.
type goalMetric interface {
	// current returns the metric value as of now, nil when there is no data
	current(goal Goal, records []WorkoutRecord, now time.Time) (*float64, error)
	// upliftPercent is the recommended increase over the current value
	upliftPercent() (float64, bool)
}

var (
	_ goalMetric = strengthMetric{}
	_ goalMetric = volumeMetric{}
	_ goalMetric = frequencyMetric{}
)

func metricFor(goalType GoalType) (goalMetric, error) {
	switch goalType {
	case GoalTypeStrength:
		return strengthMetric{}, nil
	case GoalTypeVolume:
		return volumeMetric{}, nil
	case GoalTypeFrequency:
		return frequencyMetric{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGoalType, goalType)
	}
}

// CurrentValue derives the value a goal is measured against from the workout history.
func CurrentValue(goal Goal, records []WorkoutRecord, now time.Time) (*float64, error) {
	m, err := metricFor(goal.Type)
	if err != nil {
		return nil, err
	}
	return m.current(goal, records, now)
}

type strengthMetric struct{}

// current is the best estimated 1RM of the goal's exercise logged up to now.
func (strengthMetric) current(goal Goal, records []WorkoutRecord, now time.Time) (*float64, error) {
	if goal.ExerciseID == "" {
		return nil, fmt.Errorf("%w: strength goal %s has no exercise", ErrInvalidGoalConfig, goal.ID)
	}

	var best *float64
	for _, r := range records {
		if DaysBetween(r.Date, now) < 0 {
			continue
		}
		bestSet, err := BestSetForExercise(r, goal.ExerciseID)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", r.ID, err)
		}
		if bestSet == nil {
			continue
		}
		if best == nil || bestSet.OneRepMax > *best {
			v := bestSet.OneRepMax
			best = &v
		}
	}
	return best, nil
}

func (strengthMetric) upliftPercent() (float64, bool) {
	return 7.5, true
}

type volumeMetric struct{}

func (volumeMetric) current(goal Goal, records []WorkoutRecord, now time.Time) (*float64, error) {
	var volume float64
	for _, r := range inPeriod(records, goal.Period, now) {
		for _, ex := range r.Exercises {
			if goal.MuscleGroup != "" && ex.MuscleGroup != goal.MuscleGroup {
				continue
			}
			if goal.ExerciseID != "" && ex.ExerciseID != goal.ExerciseID {
				continue
			}
			volume += ex.Volume()
		}
	}
	return &volume, nil
}

func (volumeMetric) upliftPercent() (float64, bool) {
	return 12.5, true
}

type frequencyMetric struct{}

func (frequencyMetric) current(goal Goal, records []WorkoutRecord, now time.Time) (*float64, error) {
	count := float64(len(inPeriod(records, goal.Period, now)))
	return &count, nil
}

func (frequencyMetric) upliftPercent() (float64, bool) {
	return 0, false
}

// inPeriod keeps the records within the rolling window of the period ending at now (inclusive).
func inPeriod(records []WorkoutRecord, period Period, now time.Time) []WorkoutRecord {
	var res []WorkoutRecord
	for _, r := range records {
		age := DaysBetween(r.Date, now)
		if age >= 0 && age < period.Days() {
			res = append(res, r)
		}
	}
	return res
}
