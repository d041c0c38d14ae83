package goals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fittrack/internal/fitness/analytics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
	ErrGoalExists   = errors.New("goal already exists")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

const goalColumns = `id::text, type, exercise_id, muscle_group, period, target, baseline, deadline, created_at`

func (r *Repo) Add(ctx context.Context, goal analytics.Goal) (_ *analytics.Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if goal.ID == "" {
		goal.ID = uuid.NewString()
	} else if _, err := uuid.Parse(goal.ID); err != nil {
		return nil, fmt.Errorf("%w: id must be a uuid", ErrInvalidGoal)
	}
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now()
	}
	span.SetAttributes(
		attribute.String("goal.id", goal.ID),
		attribute.String("goal.type", goal.Type.String()),
	)

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO fitness_goal
				(id, type, exercise_id, muscle_group, period, target, baseline, deadline, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
		goal.ID, goal.Type, nullable(goal.ExerciseID), nullable(goal.MuscleGroup), nullable(string(goal.Period)),
		goal.Target, goal.Baseline, dayOrNil(goal.Deadline), goal.CreatedAt,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrGoalExists
		}
		return nil, err
	}

	return &goal, nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *analytics.Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrGoalNotFound
	}

	rows, err := r.db.Query(ctx, `SELECT `+goalColumns+` FROM fitness_goal WHERE id = $1;`, id)
	if err != nil {
		return nil, err
	}

	goals, err := rows2goals(rows)
	if err != nil {
		return nil, err
	}
	if len(goals) != 1 {
		return nil, ErrGoalNotFound
	}

	return &goals[0], nil
}

func (r *Repo) List(ctx context.Context) (_ []analytics.Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT `+goalColumns+` FROM fitness_goal ORDER BY created_at ASC;`)
	if err != nil {
		return nil, err
	}

	goals, err := rows2goals(rows)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("goals.count", len(goals)))

	return goals, nil
}

// SetTarget sets the target of a goal created without one (e.g. after a recommendation was accepted).
func (r *Repo) SetTarget(ctx context.Context, id string, target float64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.settarget")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	if _, err := uuid.Parse(id); err != nil {
		return ErrGoalNotFound
	}

	tag, err := r.db.Exec(ctx, `UPDATE fitness_goal SET target = $1 WHERE id = $2;`, target, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	if _, err := uuid.Parse(id); err != nil {
		return ErrGoalNotFound
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM fitness_goal WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func rows2goals(rows pgx.Rows) ([]analytics.Goal, error) {
	defer rows.Close()

	goals := make([]analytics.Goal, 0)
	for rows.Next() {
		var (
			goal                            analytics.Goal
			exerciseID, muscleGroup, period *string
		)
		if err := rows.Scan(
			&goal.ID, &goal.Type, &exerciseID, &muscleGroup, &period,
			&goal.Target, &goal.Baseline, &goal.Deadline, &goal.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if exerciseID != nil {
			goal.ExerciseID = *exerciseID
		}
		if muscleGroup != nil {
			goal.MuscleGroup = *muscleGroup
		}
		if period != nil {
			goal.Period = analytics.Period(*period)
		}
		goals = append(goals, goal)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return goals, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func dayOrNil(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := analytics.Day(*t)
	return &d
}
