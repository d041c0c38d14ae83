package analytics

import "time"

// GoalType can be one of:
//   - strength: estimated one-rep-max of a single exercise
//   - volume: lifted volume within a period
//   - frequency: number of sessions within a period
type GoalType string

const (
	GoalTypeStrength  GoalType = "strength"
	GoalTypeVolume    GoalType = "volume"
	GoalTypeFrequency GoalType = "frequency"
)

func (gt GoalType) String() string {
	return string(gt)
}

func (gt GoalType) IsValid() bool {
	_, err := metricFor(gt)
	return err == nil
}

type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Days returns the length of the rolling window, week being the default.
func (p Period) Days() int {
	if p == PeriodMonth {
		return 30
	}
	return 7
}

func (p Period) IsValid() bool {
	return p == "" || p == PeriodWeek || p == PeriodMonth
}

type Goal struct {
	ID          string   `json:"id"`
	Type        GoalType `json:"type"`
	ExerciseID  string   `json:"exerciseId,omitempty"`
	MuscleGroup string   `json:"muscleGroup,omitempty"`
	Period      Period   `json:"period,omitempty"`
	// Target is nil while the user has not picked one yet
	Target *float64 `json:"target,omitempty"`
	// Baseline is the metric value captured when the goal was created
	Baseline  *float64   `json:"baseline,omitempty"`
	Deadline  *time.Time `json:"deadline,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Status can be one of:
//   - not-started
//   - on-track
//   - ahead
//   - behind
//   - at-risk
//   - achieved
//   - expired
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusOnTrack    Status = "on-track"
	StatusAhead      Status = "ahead"
	StatusBehind     Status = "behind"
	StatusAtRisk     Status = "at-risk"
	StatusAchieved   Status = "achieved"
	StatusExpired    Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

// GoalProgress is recomputed on every read.
type GoalProgress struct {
	GoalID          string   `json:"goalId"`
	Type            GoalType `json:"type"`
	Current         float64  `json:"current"`
	Target          *float64 `json:"target,omitempty"`
	Baseline        float64  `json:"baseline"`
	ProgressPercent float64  `json:"progressPercent"`
	Status          Status   `json:"status"`
	// DaysRemaining is negative once the deadline has passed, nil without a deadline
	DaysRemaining     *int     `json:"daysRemaining,omitempty"`
	ElapsedPercent    *float64 `json:"elapsedPercent,omitempty"`
	RecommendedTarget *float64 `json:"recommendedTarget,omitempty"`
}
