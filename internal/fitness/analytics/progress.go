package analytics

import (
	"fmt"
	"time"
)

// Thresholds drive the status classification. Deltas are percentage points of
// progress minus the elapsed share of the goal's duration.
type Thresholds struct {
	AheadDelta  float64 `toml:"ahead_delta"`
	BehindDelta float64 `toml:"behind_delta"`
	AtRiskDelta float64 `toml:"at_risk_delta"`

	ProgressFloor   float64 `toml:"progress_floor"`
	ProgressCeiling float64 `toml:"progress_ceiling"`

	// NotStartedElapsedPercent is how much of the goal's duration may pass
	// without any progress before the goal stops counting as not started.
	NotStartedElapsedPercent float64 `toml:"not_started_elapsed_percent"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		AheadDelta:               10,
		BehindDelta:              -10,
		AtRiskDelta:              -30,
		ProgressFloor:            0,
		ProgressCeiling:          150,
		NotStartedElapsedPercent: 10,
	}
}

func (t Thresholds) Validate() error {
	if t.AtRiskDelta > t.BehindDelta || t.BehindDelta > t.AheadDelta {
		return fmt.Errorf("%w: deltas must satisfy at_risk <= behind <= ahead", ErrInvalidGoalConfig)
	}
	if t.ProgressFloor > 0 || t.ProgressCeiling < 100 {
		return fmt.Errorf("%w: progress bounds must include [0, 100]", ErrInvalidGoalConfig)
	}
	return nil
}

type Engine struct {
	thresholds Thresholds
}

func NewEngine(thresholds Thresholds) *Engine {
	return &Engine{
		thresholds: thresholds,
	}
}

func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

type ProgressInput struct {
	Goal Goal
	// Current is nil when no data for the goal's metric exists yet
	Current *float64
	// Baseline defaults to 0 when not captured
	Baseline *float64
	Now      time.Time
}

// Progress computes the live state of a goal.
func (e *Engine) Progress(in ProgressInput) (*GoalProgress, error) {
	if _, err := metricFor(in.Goal.Type); err != nil {
		return nil, err
	}

	baseline := 0.0
	if in.Baseline != nil {
		baseline = *in.Baseline
	}
	current := baseline
	if in.Current != nil {
		current = *in.Current
	}

	progress := &GoalProgress{
		GoalID:   in.Goal.ID,
		Type:     in.Goal.Type,
		Current:  current,
		Target:   in.Goal.Target,
		Baseline: baseline,
	}

	if in.Goal.Deadline != nil {
		daysRemaining := DaysBetween(in.Now, *in.Goal.Deadline)
		progress.DaysRemaining = &daysRemaining
		elapsed := elapsedPercent(in.Goal.CreatedAt, *in.Goal.Deadline, in.Now)
		progress.ElapsedPercent = &elapsed
	}

	if in.Goal.Target == nil {
		progress.Status = StatusNotStarted
		if recommended, ok := Recommend(in.Goal.Type, in.Current); ok {
			progress.RecommendedTarget = &recommended
		}
		return progress, nil
	}

	target := *in.Goal.Target
	if target == baseline {
		return nil, fmt.Errorf("%w: goal %s target equals baseline (%g)", ErrInvalidGoalConfig, in.Goal.ID, target)
	}

	rawPercent := (current - baseline) * 100 / (target - baseline)
	progress.ProgressPercent = clamp(rawPercent, e.thresholds.ProgressFloor, e.thresholds.ProgressCeiling)
	progress.Status = e.status(progress, target)

	return progress, nil
}

func (e *Engine) status(p *GoalProgress, target float64) Status {
	// increasing-is-better unless the target sits below the baseline
	achieved := p.Current >= target
	if target < p.Baseline {
		achieved = p.Current <= target
	}
	if achieved {
		return StatusAchieved
	}

	noMovement := p.Current == p.Baseline
	if p.DaysRemaining == nil {
		if noMovement {
			return StatusNotStarted
		}
		return StatusOnTrack
	}

	if *p.DaysRemaining < 0 {
		return StatusExpired
	}

	elapsed := *p.ElapsedPercent
	if noMovement && elapsed <= e.thresholds.NotStartedElapsedPercent {
		return StatusNotStarted
	}

	delta := p.ProgressPercent - elapsed
	switch {
	case delta >= e.thresholds.AheadDelta:
		return StatusAhead
	case delta > e.thresholds.BehindDelta:
		return StatusOnTrack
	case delta >= e.thresholds.AtRiskDelta:
		return StatusBehind
	default:
		return StatusAtRisk
	}
}

// elapsedPercent is the share of the creation->deadline span that passed by now, in [0, 100].
func elapsedPercent(createdAt, deadline, now time.Time) float64 {
	total := float64(DaysBetween(createdAt, deadline))
	passed := float64(DaysBetween(createdAt, now))
	return clamp(passed*100/nonZero(total), 0, 100)
}
