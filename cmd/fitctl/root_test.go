package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/2beens/fittrack/internal/fitness/analytics"
	"github.com/2beens/fittrack/internal/fitness/dashboard"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func session(id string, day, duration int) analytics.WorkoutRecord {
	return analytics.WorkoutRecord{
		ID:              id,
		Date:            time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
		DurationMinutes: duration,
		Exercises: []analytics.ExerciseEntry{
			{
				ExerciseID:  "bench",
				MuscleGroup: "chest",
				Sets: []analytics.SetEntry{
					{Weight: 100, Reps: 5, Type: analytics.SetTypeNormal},
				},
			},
		},
	}
}

func writeTestSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	target := 5.0
	require.NoError(t, writeSnapshot(path, &dashboard.Snapshot{
		Workouts: []analytics.WorkoutRecord{
			session("w-1", 2, 30),
			session("w-2", 3, 45),
			session("w-3", 4, 60),
		},
		Goals: []analytics.Goal{
			{
				ID:        "g-freq",
				Type:      analytics.GoalTypeFrequency,
				Period:    analytics.PeriodWeek,
				Target:    &target,
				CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			},
		},
	}))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyze(t *testing.T) {
	path := writeTestSnapshot(t)

	out, err := run(t, "analyze", "--snapshot", path, "--now", "2026-03-04")
	require.NoError(t, err)

	var d dashboard.Dashboard
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Len(t, d.Sessions, 3)
	assert.Equal(t, analytics.DirectionIncreasing, d.Duration.Trend.Direction)
	require.Len(t, d.Goals, 1)
	assert.Equal(t, "g-freq", d.Goals[0].GoalID)
}

func TestAnalyze_MissingSnapshot(t *testing.T) {
	_, err := run(t, "analyze", "--snapshot", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAnalyze_InvalidNow(t *testing.T) {
	path := writeTestSnapshot(t)
	_, err := run(t, "analyze", "--snapshot", path, "--now", "04.03.2026")
	require.Error(t, err)
}

func TestTrend(t *testing.T) {
	path := writeTestSnapshot(t)

	out, err := run(t, "trend", "1rm", "--snapshot", path, "--now", "2026-03-04", "--exercise", "bench")
	require.NoError(t, err)

	var stats analytics.TrendStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	require.NotNil(t, stats.Average)
	assert.InDelta(t, 116.67, *stats.Average, 0.01)
	assert.Equal(t, analytics.DirectionStable, stats.Trend.Direction)

	_, err = run(t, "trend", "1rm", "--snapshot", path)
	assert.ErrorIs(t, err, dashboard.ErrMissingExercise)

	_, err = run(t, "trend", "calories", "--snapshot", path)
	assert.ErrorIs(t, err, dashboard.ErrUnknownMetric)
}

func TestExport(t *testing.T) {
	path := writeTestSnapshot(t)
	outPath := filepath.Join(t.TempDir(), "sessions.parquet")

	out, err := run(t, "export", "--snapshot", path, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "exported 3 sessions")

	b, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Greater(t, len(b), 8)
	assert.Equal(t, "PAR1", string(b[:4]))
}

func TestImportFit_BadFile(t *testing.T) {
	dir := t.TempDir()
	snapshotPath := filepath.Join(dir, "snapshot.json")
	fitPath := filepath.Join(dir, "broken.fit")
	require.NoError(t, os.WriteFile(fitPath, []byte("definitely not a FIT file"), 0o644))

	_, err := run(t, "import-fit", "--snapshot", snapshotPath, fitPath)
	require.Error(t, err)

	_, statErr := os.Stat(snapshotPath)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestEstimate(t *testing.T) {
	out, err := run(t, "estimate", "--weight", "100", "--reps", "5")
	require.NoError(t, err)

	var resp dashboard.OneRepMaxResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.InDelta(t, 116.67, resp.OneRepMax, 0.01)

	_, err = run(t, "estimate", "--weight", "100", "--reps", "0")
	require.Error(t, err)

	_, err = run(t, "estimate", "--weight", "100")
	require.Error(t, err)
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantTarget *float64
		wantErr    bool
	}{
		{
			name:       "strength",
			args:       []string{"--type", "strength", "--current", "80"},
			wantTarget: ptr(86.0),
		},
		{
			name:       "volume",
			args:       []string{"--type", "volume", "--current", "1000"},
			wantTarget: ptr(1125.0),
		},
		{
			name: "frequency has no uplift",
			args: []string{"--type", "frequency", "--current", "3"},
		},
		{
			name: "no current value",
			args: []string{"--type", "strength"},
		},
		{
			name:    "unknown type",
			args:    []string{"--type", "cardio", "--current", "3"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"recommend"}, tt.args...)...)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			var resp dashboard.RecommendResponse
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			assert.Equal(t, tt.wantTarget, resp.RecommendedTarget)
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
