package dashboard_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fittrack/internal/fitness/analytics"
	"github.com/2beens/fittrack/internal/fitness/dashboard"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
)

type budgetLimiter struct {
	remaining int
}

func (l *budgetLimiter) Allow(_ context.Context, _ string, _ redis_rate.Limit) (*redis_rate.Result, error) {
	if l.remaining <= 0 {
		return &redis_rate.Result{RetryAfter: 30 * time.Second}, nil
	}
	l.remaining--
	return &redis_rate.Result{Allowed: 1, Remaining: l.remaining}, nil
}

func newTestRouter(t *testing.T, budget int) (*mux.Router, *metrics.Manager) {
	t.Helper()
	service, metricsManager := newTestService(&fakeLoader{snapshot: testSnapshot()})

	r := mux.NewRouter()
	dashboard.NewHandler(service).SetupRoutes(r, &budgetLimiter{remaining: budget}, metricsManager, 60)
	return r, metricsManager
}

func get(r *mux.Router, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestHandler_HandleDashboard(t *testing.T) {
	r, _ := newTestRouter(t, 10)

	rr := get(r, "/stats/dashboard?now=2026-03-04")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var d dashboard.Dashboard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &d))
	assert.Len(t, d.Sessions, 3)
	assert.Len(t, d.Goals, 2)
	assert.Len(t, d.GoalErrors, 1)

	rr = get(r, "/stats/dashboard?now=04.03.2026")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "YYYY-MM-DD")
}

func TestHandler_HandleGoalProgress(t *testing.T) {
	r, _ := newTestRouter(t, 0)

	rr := get(r, "/goals/g-freq/progress?now=2026-03-04")
	require.Equal(t, http.StatusOK, rr.Code)

	var progress analytics.GoalProgress
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &progress))
	assert.Equal(t, "g-freq", progress.GoalID)
	assert.Equal(t, analytics.StatusOnTrack, progress.Status)

	assert.Equal(t, http.StatusNotFound, get(r, "/goals/nope/progress").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, get(r, "/goals/g-broken/progress?now=2026-03-04").Code)
}

func TestHandler_HandleTrend(t *testing.T) {
	r, _ := newTestRouter(t, 10)

	rr := get(r, "/stats/trend/duration?now=2026-03-04")
	require.Equal(t, http.StatusOK, rr.Code)

	var stats analytics.TrendStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, analytics.DirectionIncreasing, stats.Trend.Direction)
	assert.Len(t, stats.Trend.Line, 3)

	assert.Equal(t, http.StatusOK, get(r, "/stats/trend/1rm?exercise_id=bench&now=2026-03-04").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/stats/trend/1rm").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/stats/trend/heartrate").Code)
}

func TestHandler_HandleOneRepMax(t *testing.T) {
	r, _ := newTestRouter(t, 10)

	rr := get(r, "/stats/onerepmax?weight=100&reps=1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"weight":100,"reps":1,"oneRepMax":100}`, rr.Body.String())

	rr = get(r, "/stats/onerepmax?weight=90&reps=6")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp dashboard.OneRepMaxResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.InDelta(t, 108.0, resp.OneRepMax, 1e-9)

	assert.Equal(t, http.StatusBadRequest, get(r, "/stats/onerepmax?weight=100&reps=0").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/stats/onerepmax?weight=-5&reps=3").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/stats/onerepmax?weight=heavy&reps=3").Code)
}

func TestHandler_HandleRecommend(t *testing.T) {
	r, _ := newTestRouter(t, 10)

	rr := get(r, "/stats/recommend?type=volume&current=8000")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"type":"volume","current":8000,"recommendedTarget":9000}`, rr.Body.String())

	rr = get(r, "/stats/recommend?type=frequency&current=3")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"type":"frequency","current":3,"recommendedTarget":null}`, rr.Body.String())

	rr = get(r, "/stats/recommend?type=strength")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"type":"strength","recommendedTarget":null}`, rr.Body.String())

	assert.Equal(t, http.StatusBadRequest, get(r, "/stats/recommend?type=yoga&current=3").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/stats/recommend?type=volume&current=lots").Code)
}

func TestHandler_StatsRateLimited(t *testing.T) {
	r, metricsManager := newTestRouter(t, 1)

	assert.Equal(t, http.StatusOK, get(r, "/stats/onerepmax?weight=100&reps=1").Code)

	rr := get(r, "/stats/onerepmax?weight=100&reps=1")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "30", rr.Header().Get("Retry-After"))
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterRateLimitedRequests))

	// goal progress is outside the stats budget
	assert.Equal(t, http.StatusOK, get(r, "/goals/g-freq/progress?now=2026-03-04").Code)
}
