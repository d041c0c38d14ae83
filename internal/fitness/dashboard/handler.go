package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fittrack/internal/fitness/analytics"
	"github.com/2beens/fittrack/internal/middleware"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"
)

type dashboardService interface {
	Dashboard(ctx context.Context, now time.Time) (*Dashboard, error)
	GoalProgress(ctx context.Context, goalID string, now time.Time) (*analytics.GoalProgress, error)
	Trend(ctx context.Context, metric Metric, exerciseID string, now time.Time) (*analytics.TrendStats, error)
}

type OneRepMaxResponse struct {
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	OneRepMax float64 `json:"oneRepMax"`
}

type RecommendResponse struct {
	Type              analytics.GoalType `json:"type"`
	Current           *float64           `json:"current,omitempty"`
	RecommendedTarget *float64           `json:"recommendedTarget"`
}

type Handler struct {
	service dashboardService
}

func NewHandler(service dashboardService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	allowedPerMin int,
) {
	mainRouter.HandleFunc("/goals/{id}/progress", handler.HandleGoalProgress).Methods("GET", "OPTIONS").Name("goal-progress")

	statsRouter := mainRouter.PathPrefix("/stats").Subrouter()
	statsRouter.HandleFunc("/dashboard", handler.HandleDashboard).Methods("GET", "OPTIONS").Name("stats-dashboard")
	statsRouter.HandleFunc("/trend/{metric}", handler.HandleTrend).Methods("GET", "OPTIONS").Name("stats-trend")
	statsRouter.HandleFunc("/onerepmax", handler.HandleOneRepMax).Methods("GET", "OPTIONS").Name("stats-onerepmax")
	statsRouter.HandleFunc("/recommend", handler.HandleRecommend).Methods("GET", "OPTIONS").Name("stats-recommend")

	// dashboards are recomputed from the whole history, keep the budget per minute bounded
	statsRouter.Use(middleware.RateLimit(rateLimiter, "stats", allowedPerMin, metricsManager))
}

func (handler *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.dashboard")
	defer span.End()

	now, err := pkg.ParseOptionalDate(r.URL.Query().Get("now"), time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	d, err := handler.service.Dashboard(ctx, now)
	if err != nil {
		log.Errorf("get dashboard: %s", err)
		http.Error(w, "error, failed to compute dashboard", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, d)
}

func (handler *Handler) HandleGoalProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.progress")
	defer span.End()

	id := mux.Vars(r)["id"]
	now, err := pkg.ParseOptionalDate(r.URL.Query().Get("now"), time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	progress, err := handler.service.GoalProgress(ctx, id, now)
	if err != nil {
		switch {
		case errors.Is(err, ErrGoalNotFound):
			http.Error(w, "error, goal not found", http.StatusNotFound)
		case errors.Is(err, analytics.ErrInvalidGoalConfig), errors.Is(err, analytics.ErrUnknownGoalType):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, analytics.ErrInvalidSet):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			log.Errorf("get goal %s progress: %s", id, err)
			http.Error(w, "error, failed to compute goal progress", http.StatusInternalServerError)
		}
		return
	}

	handler.writeJSON(w, progress)
}

func (handler *Handler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.trend")
	defer span.End()

	metric := Metric(mux.Vars(r)["metric"])
	exerciseID := r.URL.Query().Get("exercise_id")
	now, err := pkg.ParseOptionalDate(r.URL.Query().Get("now"), time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stats, err := handler.service.Trend(ctx, metric, exerciseID, now)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownMetric):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrMissingExercise):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, analytics.ErrInvalidSet):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			log.Errorf("get %s trend: %s", metric, err)
			http.Error(w, "error, failed to compute trend", http.StatusInternalServerError)
		}
		return
	}

	handler.writeJSON(w, stats)
}

func (handler *Handler) HandleOneRepMax(w http.ResponseWriter, r *http.Request) {
	weight, err := strconv.ParseFloat(r.URL.Query().Get("weight"), 64)
	if err != nil {
		http.Error(w, "error, invalid weight", http.StatusBadRequest)
		return
	}
	reps, err := strconv.Atoi(r.URL.Query().Get("reps"))
	if err != nil {
		http.Error(w, "error, invalid reps", http.StatusBadRequest)
		return
	}

	oneRepMax, err := analytics.EstimateOneRepMax(weight, reps)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	handler.writeJSON(w, OneRepMaxResponse{
		Weight:    weight,
		Reps:      reps,
		OneRepMax: oneRepMax,
	})
}

func (handler *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	goalType := analytics.GoalType(r.URL.Query().Get("type"))
	if !goalType.IsValid() {
		http.Error(w, "error, unknown goal type", http.StatusBadRequest)
		return
	}

	var current *float64
	if currentParam := r.URL.Query().Get("current"); currentParam != "" {
		c, err := strconv.ParseFloat(currentParam, 64)
		if err != nil {
			http.Error(w, "error, invalid current value", http.StatusBadRequest)
			return
		}
		current = &c
	}

	resp := RecommendResponse{
		Type:    goalType,
		Current: current,
	}
	if recommended, ok := analytics.Recommend(goalType, current); ok {
		resp.RecommendedTarget = &recommended
	}

	handler.writeJSON(w, resp)
}

func (handler *Handler) writeJSON(w http.ResponseWriter, v any) {
	resp, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal %T: %s", v, err)
		http.Error(w, "error, failed to marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}
