package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fittrack/internal/fitness/analytics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=workouts_mocks_test.go -package=workouts_test

const collectionName = "workouts"

type workoutsRepo interface {
	Add(ctx context.Context, record analytics.WorkoutRecord) (*analytics.WorkoutRecord, error)
	Get(ctx context.Context, id string) (*analytics.WorkoutRecord, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context, params ListParams) ([]analytics.WorkoutRecord, error)
}

type changeNotifier interface {
	NotifyChanged(ctx context.Context, collection string) error
}

type DeleteWorkoutResponse struct {
	DeletedID string `json:"deletedId"`
}

type AddWorkoutResponse struct {
	analytics.WorkoutRecord
	Summary analytics.SessionSummary `json:"summary"`
}

type Handler struct {
	repo     workoutsRepo
	notifier changeNotifier
}

func NewHandler(repo workoutsRepo, notifier changeNotifier) *Handler {
	return &Handler{
		repo:     repo,
		notifier: notifier,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/workouts", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-workout")
	r.HandleFunc("/workouts", handler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/workouts/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/workouts/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.new")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var record analytics.WorkoutRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		log.Tracef("new workout, unmarshal json: %s", err)
		http.Error(w, "add workout failed", http.StatusBadRequest)
		return
	}

	if err := Normalize(&record); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	added, err := handler.repo.Add(ctx, record)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidWorkout):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrWorkoutExists):
			http.Error(w, "error, workout already exists", http.StatusConflict)
		default:
			log.Errorf("failed to add workout [%s]: %s", record.Date.Format(pkg.DateLayout), err)
			http.Error(w, "error, failed to add workout", http.StatusInternalServerError)
		}
		return
	}

	handler.notifyChanged(ctx)

	resp, err := json.Marshal(AddWorkoutResponse{
		WorkoutRecord: *added,
		Summary:       analytics.SummarizeRecord(*added),
	})
	if err != nil {
		log.Errorf("failed to marshal added workout: %s", err)
		http.Error(w, "error, failed to add workout", http.StatusInternalServerError)
		return
	}

	log.Debugf("new workout added: %s", added.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	record, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "error, workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("get workout %s: %s", id, err)
		http.Error(w, "error, failed to get workout", http.StatusInternalServerError)
		return
	}

	resp, err := json.Marshal(record)
	if err != nil {
		log.Errorf("marshal workout %s: %s", id, err)
		http.Error(w, "error, failed to get workout", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "error, workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete workout %s: %s", id, err)
		http.Error(w, "error, failed to delete workout", http.StatusInternalServerError)
		return
	}

	handler.notifyChanged(ctx)

	resp, err := json.Marshal(DeleteWorkoutResponse{DeletedID: id})
	if err != nil {
		log.Errorf("marshal delete workout response: %s", err)
		http.Error(w, "error, failed to delete workout", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

// HandleList returns workouts in chronological order; optional from/to (YYYY-MM-DD) are inclusive.
func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	var params ListParams
	if from := r.URL.Query().Get("from"); from != "" {
		d, err := pkg.ParseDate(from)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		params.From = &d
	}
	if to := r.URL.Query().Get("to"); to != "" {
		d, err := pkg.ParseDate(to)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		params.To = &d
	}

	records, err := handler.repo.ListAll(ctx, params)
	if err != nil {
		log.Errorf("list workouts: %s", err)
		http.Error(w, "error, failed to list workouts", http.StatusInternalServerError)
		return
	}

	resp, err := json.Marshal(records)
	if err != nil {
		log.Errorf("marshal workouts: %s", err)
		http.Error(w, "error, failed to list workouts", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

// notifyChanged is best effort, the write already succeeded.
func (handler *Handler) notifyChanged(ctx context.Context) {
	if handler.notifier == nil {
		return
	}
	if err := handler.notifier.NotifyChanged(ctx, collectionName); err != nil {
		log.Errorf("notify workouts changed: %s", err)
	}
}
