package goals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fittrack/internal/fitness/analytics"
	"github.com/2beens/fittrack/internal/fitness/workouts"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=goals_mocks_test.go -package=goals_test

const collectionName = "goals"

type goalsRepo interface {
	Add(ctx context.Context, goal analytics.Goal) (*analytics.Goal, error)
	Get(ctx context.Context, id string) (*analytics.Goal, error)
	List(ctx context.Context) ([]analytics.Goal, error)
	SetTarget(ctx context.Context, id string, target float64) error
	Delete(ctx context.Context, id string) error
}

type workoutsLister interface {
	ListAll(ctx context.Context, params workouts.ListParams) ([]analytics.WorkoutRecord, error)
}

type changeNotifier interface {
	NotifyChanged(ctx context.Context, collection string) error
}

type SetTargetRequest struct {
	Target float64 `json:"target"`
}

type Handler struct {
	repo     goalsRepo
	workouts workoutsLister
	notifier changeNotifier
}

func NewHandler(repo goalsRepo, workouts workoutsLister, notifier changeNotifier) *Handler {
	return &Handler{
		repo:     repo,
		workouts: workouts,
		notifier: notifier,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/goals", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-goal")
	r.HandleFunc("/goals", handler.HandleList).Methods("GET", "OPTIONS").Name("list-goals")
	r.HandleFunc("/goals/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-goal")
	r.HandleFunc("/goals/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-goal")
	r.HandleFunc("/goals/{id}/target", handler.HandleSetTarget).Methods("PUT", "OPTIONS").Name("set-goal-target")
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.new")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var goal analytics.Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		log.Tracef("new goal, unmarshal json: %s", err)
		http.Error(w, "add goal failed", http.StatusBadRequest)
		return
	}
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now()
	}

	if err := validateDefinition(goal); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// a baseline sent by the client is checked as a bad request,
	// a captured one (or none at all) as an unprocessable goal
	invalidStatus := http.StatusBadRequest
	if goal.Baseline == nil {
		baseline, err := handler.captureBaseline(ctx, goal)
		if err != nil {
			log.Errorf("capture baseline for new %s goal: %s", goal.Type, err)
			http.Error(w, "error, failed to capture goal baseline", http.StatusInternalServerError)
			return
		}
		goal.Baseline = baseline
		invalidStatus = http.StatusUnprocessableEntity
	}
	if err := Validate(goal); err != nil {
		http.Error(w, err.Error(), invalidStatus)
		return
	}

	added, err := handler.repo.Add(ctx, goal)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidGoal):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrGoalExists):
			http.Error(w, "error, goal already exists", http.StatusConflict)
		default:
			log.Errorf("failed to add %s goal: %s", goal.Type, err)
			http.Error(w, "error, failed to add goal", http.StatusInternalServerError)
		}
		return
	}

	handler.notifyChanged(ctx)

	resp, err := json.Marshal(added)
	if err != nil {
		log.Errorf("failed to marshal added goal: %s", err)
		http.Error(w, "error, failed to add goal", http.StatusInternalServerError)
		return
	}

	log.Debugf("new %s goal added: %s", added.Type, added.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, http.StatusCreated)
}

// captureBaseline evaluates the goal's metric over the history as of the goal's creation.
func (handler *Handler) captureBaseline(ctx context.Context, goal analytics.Goal) (*float64, error) {
	to := analytics.Day(goal.CreatedAt)
	records, err := handler.workouts.ListAll(ctx, workouts.ListParams{To: &to})
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	return analytics.CurrentValue(goal, records, goal.CreatedAt)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.list")
	defer span.End()

	goals, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("list goals: %s", err)
		http.Error(w, "error, failed to list goals", http.StatusInternalServerError)
		return
	}

	resp, err := json.Marshal(goals)
	if err != nil {
		log.Errorf("marshal goals: %s", err)
		http.Error(w, "error, failed to list goals", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.get")
	defer span.End()

	id := mux.Vars(r)["id"]
	goal, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			http.Error(w, "error, goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("get goal %s: %s", id, err)
		http.Error(w, "error, failed to get goal", http.StatusInternalServerError)
		return
	}

	resp, err := json.Marshal(goal)
	if err != nil {
		log.Errorf("marshal goal %s: %s", id, err)
		http.Error(w, "error, failed to get goal", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

func (handler *Handler) HandleSetTarget(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.settarget")
	defer span.End()

	id := mux.Vars(r)["id"]

	var req SetTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "error, invalid target request", http.StatusBadRequest)
		return
	}

	goal, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			http.Error(w, "error, goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("get goal %s: %s", id, err)
		http.Error(w, "error, failed to set goal target", http.StatusInternalServerError)
		return
	}

	goal.Target = &req.Target
	if err := Validate(*goal); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if err := handler.repo.SetTarget(ctx, id, req.Target); err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			http.Error(w, "error, goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("set goal %s target: %s", id, err)
		http.Error(w, "error, failed to set goal target", http.StatusInternalServerError)
		return
	}

	handler.notifyChanged(ctx)

	resp, err := json.Marshal(goal)
	if err != nil {
		log.Errorf("marshal goal %s: %s", id, err)
		http.Error(w, "error, failed to set goal target", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			http.Error(w, "error, goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete goal %s: %s", id, err)
		http.Error(w, "error, failed to delete goal", http.StatusInternalServerError)
		return
	}

	handler.notifyChanged(ctx)
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"deletedId":%q}`, id))
}

func (handler *Handler) notifyChanged(ctx context.Context) {
	if handler.notifier == nil {
		return
	}
	if err := handler.notifier.NotifyChanged(ctx, collectionName); err != nil {
		log.Errorf("notify goals changed: %s", err)
	}
}
