// Package fitimport turns device activity files (Garmin FIT) into workout records.
package fitimport

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/tormoder/fit"

	"github.com/2beens/fittrack/internal/fitness/analytics"
)

var ErrNoSessions = errors.New("activity file has no session message")

// MuscleGroup is assigned to every imported session; FIT sessions carry no set data.
const MuscleGroup = "cardio"

// DecodeSessions decodes a FIT activity and returns one record per session.
func DecodeSessions(r io.Reader) ([]analytics.WorkoutRecord, error) {
	decoded, err := fit.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode FIT file: %w", err)
	}

	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("activity FIT expected: %w", err)
	}
	if len(activity.Sessions) == 0 {
		return nil, ErrNoSessions
	}

	records := make([]analytics.WorkoutRecord, 0, len(activity.Sessions))
	for i, session := range activity.Sessions {
		if session == nil {
			continue
		}
		record, err := recordFromSession(session)
		if err != nil {
			return nil, fmt.Errorf("session %d: %w", i, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func recordFromSession(session *fit.SessionMsg) (analytics.WorkoutRecord, error) {
	start := validTimeOrZero(session.StartTime)
	if start.IsZero() {
		start = validTimeOrZero(session.Timestamp)
	}
	if start.IsZero() {
		return analytics.WorkoutRecord{}, errors.New("session has no valid start time")
	}

	seconds := safePositive(session.GetTotalTimerTimeScaled())
	if seconds == 0 {
		seconds = safePositive(session.GetTotalElapsedTimeScaled())
	}

	return analytics.WorkoutRecord{
		Date:            analytics.Day(start.UTC()),
		DurationMinutes: int(math.Round(seconds / 60)),
		Exercises: []analytics.ExerciseEntry{
			{
				ExerciseID:  strings.ToLower(session.Sport.String()),
				MuscleGroup: MuscleGroup,
				Sets:        []analytics.SetEntry{},
			},
		},
	}, nil
}

// FIT timestamps count from 1989-12-31; anything at or before that is unset.
var fitEpoch = time.Date(1989, 12, 31, 0, 0, 0, 0, time.UTC)

func validTimeOrZero(t time.Time) time.Time {
	if t.IsZero() || !t.After(fitEpoch) {
		return time.Time{}
	}
	return t
}

func safePositive(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
