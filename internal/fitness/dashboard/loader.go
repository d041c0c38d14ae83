package dashboard

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fittrack/internal/fitness/analytics"
	"github.com/2beens/fittrack/internal/fitness/workouts"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
)

type workoutsLister interface {
	ListAll(ctx context.Context, params workouts.ListParams) ([]analytics.WorkoutRecord, error)
}

type goalsLister interface {
	List(ctx context.Context) ([]analytics.Goal, error)
}

// RepoLoader builds snapshots from the workout and goal stores.
type RepoLoader struct {
	workouts workoutsLister
	goals    goalsLister
}

func NewRepoLoader(workouts workoutsLister, goals goalsLister) *RepoLoader {
	return &RepoLoader{
		workouts: workouts,
		goals:    goals,
	}
}

func (l *RepoLoader) Load(ctx context.Context) (_ *Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "loader.snapshot.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	records, err := l.workouts.ListAll(ctx, workouts.ListParams{})
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	goals, err := l.goals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	span.SetAttributes(
		attribute.Int("snapshot.workouts", len(records)),
		attribute.Int("snapshot.goals", len(goals)),
	)

	return &Snapshot{
		Workouts: records,
		Goals:    goals,
	}, nil
}
