//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fittrack/internal/fitness/analytics"
	"github.com/2beens/fittrack/internal/fitness/dashboard"
	"github.com/2beens/fittrack/internal/fitness/workouts"
)

func (s *IntegrationTestSuite) doRequest(
	ctx context.Context,
	method, path string,
	body any,
) (int, []byte) {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.T(), err)
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) addWorkout(ctx context.Context, day, duration int, weight float64) workouts.AddWorkoutResponse {
	status, body := s.doRequest(ctx, http.MethodPost, "/workouts", analytics.WorkoutRecord{
		Date:            time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
		DurationMinutes: duration,
		Exercises: []analytics.ExerciseEntry{
			{
				ExerciseID:  "bench",
				MuscleGroup: "chest",
				Sets: []analytics.SetEntry{
					{Weight: weight, Reps: 5},
				},
			},
		},
	})
	require.Equal(s.T(), http.StatusCreated, status, string(body))

	var added workouts.AddWorkoutResponse
	require.NoError(s.T(), json.Unmarshal(body, &added))
	return added
}

func (s *IntegrationTestSuite) TestFittrack_GoalProgressAndDashboard() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	target := 5.0
	status, body := s.doRequest(ctx, http.MethodPost, "/goals", analytics.Goal{
		Type:      analytics.GoalTypeFrequency,
		Period:    analytics.PeriodWeek,
		Target:    &target,
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	})
	require.Equal(s.T(), http.StatusCreated, status, string(body))
	var goal analytics.Goal
	require.NoError(s.T(), json.Unmarshal(body, &goal))
	require.NotEmpty(s.T(), goal.ID)
	// nothing logged before the goal was created
	assert.Nil(s.T(), goal.Baseline)

	first := s.addWorkout(ctx, 2, 30, 80)
	s.addWorkout(ctx, 3, 45, 85)
	s.addWorkout(ctx, 4, 60, 90)
	assert.Equal(s.T(), 400.0, first.Summary.Volume)

	var count int
	require.NoError(s.T(), s.DB.QueryRowContext(ctx, `SELECT count(*) FROM workout`).Scan(&count))
	assert.Equal(s.T(), 3, count)

	// the watcher picks the change notifications up asynchronously
	s.waitForDashboard(ctx, func(d dashboard.Dashboard) bool {
		return len(d.Sessions) == 3 && len(d.Goals) == 1
	})

	s.T().Run("goal progress", func(t *testing.T) {
		status, body := s.doRequest(ctx, http.MethodGet, fmt.Sprintf("/goals/%s/progress?now=2026-03-04", goal.ID), nil)
		require.Equal(t, http.StatusOK, status, string(body))

		var progress analytics.GoalProgress
		require.NoError(t, json.Unmarshal(body, &progress))
		assert.Equal(t, goal.ID, progress.GoalID)
		assert.Equal(t, 3.0, progress.Current)
		assert.Equal(t, 60.0, progress.ProgressPercent)
	})

	s.T().Run("trend", func(t *testing.T) {
		status, body := s.doRequest(ctx, http.MethodGet, "/stats/trend/1rm?exercise_id=bench&now=2026-03-04", nil)
		require.Equal(t, http.StatusOK, status, string(body))

		var stats analytics.TrendStats
		require.NoError(t, json.Unmarshal(body, &stats))
		assert.Equal(t, analytics.DirectionIncreasing, stats.Trend.Direction)
	})

	s.T().Run("dashboard follows deletes", func(t *testing.T) {
		status, body := s.doRequest(ctx, http.MethodDelete, "/workouts/"+first.ID, nil)
		require.Equal(t, http.StatusOK, status, string(body))

		s.waitForDashboard(ctx, func(d dashboard.Dashboard) bool {
			return len(d.Sessions) == 2
		})
	})

	s.T().Run("unknown goal", func(t *testing.T) {
		status, _ := s.doRequest(ctx, http.MethodGet, "/goals/c0ffee00-0000-4000-8000-000000000000/progress", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func (s *IntegrationTestSuite) waitForDashboard(ctx context.Context, ready func(d dashboard.Dashboard) bool) {
	require.Eventually(s.T(), func() bool {
		status, body := s.doRequest(ctx, http.MethodGet, "/stats/dashboard?now=2026-03-04", nil)
		if status != http.StatusOK {
			return false
		}
		var d dashboard.Dashboard
		if err := json.Unmarshal(body, &d); err != nil {
			return false
		}
		return ready(d)
	}, 10*time.Second, 100*time.Millisecond)
}
