package dashboard

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fittrack/internal/fitness/analytics"
)

var (
	ErrUnknownMetric   = errors.New("unknown metric")
	ErrMissingExercise = errors.New("exercise id is required for the 1rm metric")
)

// Metric can be one of:
//   - duration: session length in minutes
//   - volume: lifted volume per session
//   - frequency: sessions per calendar week
//   - 1rm: best estimated one-rep-max per session of a single exercise
type Metric string

const (
	MetricDuration  Metric = "duration"
	MetricVolume    Metric = "volume"
	MetricFrequency Metric = "frequency"
	MetricOneRepMax Metric = "1rm"
)

// Snapshot is the consistent view of both collections a dashboard is computed from.
type Snapshot struct {
	Workouts []analytics.WorkoutRecord `json:"workouts"`
	Goals    []analytics.Goal          `json:"goals"`
}

// Hash identifies the snapshot contents.
func (s *Snapshot) Hash() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

func (s *Snapshot) goal(id string) (analytics.Goal, bool) {
	for _, g := range s.Goals {
		if g.ID == id {
			return g, true
		}
	}
	return analytics.Goal{}, false
}

type GoalError struct {
	GoalID string `json:"goalId"`
	Error  string `json:"error"`
}

type Dashboard struct {
	GeneratedFor time.Time                  `json:"generatedFor"`
	Sessions     []analytics.SessionSummary `json:"sessions"`
	Duration     analytics.TrendStats       `json:"duration"`
	Volume       analytics.TrendStats       `json:"volume"`
	Goals        []analytics.GoalProgress   `json:"goals"`
	// GoalErrors lists goals that could not be evaluated; they do not fail the dashboard.
	GoalErrors []GoalError `json:"goalErrors,omitempty"`
}

// Build computes the dashboard for the given snapshot as seen on now.
// Records dated after now are ignored.
func Build(snapshot Snapshot, now time.Time, engine *analytics.Engine, trendCfg analytics.TrendConfig) *Dashboard {
	records := upTo(snapshot.Workouts, now)
	sessions := analytics.Summarize(records)

	d := &Dashboard{
		GeneratedFor: analytics.Day(now),
		Sessions:     sessions,
		Duration:     analytics.Analyze(analytics.DurationSeries(sessions), trendCfg),
		Volume:       analytics.Analyze(analytics.VolumeSeries(sessions), trendCfg),
		Goals:        []analytics.GoalProgress{},
	}

	for _, goal := range snapshot.Goals {
		progress, err := goalProgress(engine, goal, records, now)
		if err != nil {
			d.GoalErrors = append(d.GoalErrors, GoalError{GoalID: goal.ID, Error: err.Error()})
			continue
		}
		d.Goals = append(d.Goals, *progress)
	}

	return d
}

func goalProgress(engine *analytics.Engine, goal analytics.Goal, records []analytics.WorkoutRecord, now time.Time) (*analytics.GoalProgress, error) {
	current, err := analytics.CurrentValue(goal, records, now)
	if err != nil {
		return nil, err
	}
	return engine.Progress(analytics.ProgressInput{
		Goal:     goal,
		Current:  current,
		Baseline: goal.Baseline,
		Now:      now,
	})
}

// Series builds the dated series of the given metric from records up to now.
func Series(metric Metric, records []analytics.WorkoutRecord, exerciseID string, now time.Time) ([]analytics.Point, error) {
	records = upTo(records, now)
	switch metric {
	case MetricDuration:
		return analytics.DurationSeries(analytics.Summarize(records)), nil
	case MetricVolume:
		return analytics.VolumeSeries(analytics.Summarize(records)), nil
	case MetricFrequency:
		return analytics.FrequencySeries(records), nil
	case MetricOneRepMax:
		if exerciseID == "" {
			return nil, ErrMissingExercise
		}
		return analytics.OneRepMaxSeries(records, exerciseID)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, metric)
	}
}

func upTo(records []analytics.WorkoutRecord, now time.Time) []analytics.WorkoutRecord {
	filtered := make([]analytics.WorkoutRecord, 0, len(records))
	for _, r := range records {
		if analytics.DaysBetween(r.Date, now) >= 0 {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
