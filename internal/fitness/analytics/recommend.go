package analytics

import "math"

// Recommend proposes a target as an uplift over the current value, keyed by goal type.
// There is no recommendation for a missing or zero current value, or for goal
// types without an uplift.
func Recommend(goalType GoalType, current *float64) (float64, bool) {
	if current == nil || *current == 0 {
		return 0, false
	}

	m, err := metricFor(goalType)
	if err != nil {
		return 0, false
	}
	uplift, ok := m.upliftPercent()
	if !ok {
		return 0, false
	}

	return math.Round(*current * (100 + uplift) / 100), true
}
