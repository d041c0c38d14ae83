package workouts

import (
	"context"
	"encoding/json"
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
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrWorkoutExists   = errors.New("workout already exists")
)

type ListParams struct {
	From *time.Time
	To   *time.Time
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, record analytics.WorkoutRecord) (_ *analytics.WorkoutRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if record.ID == "" {
		record.ID = uuid.NewString()
	} else if _, err := uuid.Parse(record.ID); err != nil {
		return nil, fmt.Errorf("%w: id must be a uuid", ErrInvalidWorkout)
	}
	span.SetAttributes(attribute.String("workout.id", record.ID))

	exercisesJson, err := json.Marshal(record.Exercises)
	if err != nil {
		return nil, fmt.Errorf("marshal exercises: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO workout (id, date, duration_minutes, exercises, created_at)
			VALUES ($1, $2, $3, $4, $5);`,
		record.ID, analytics.Day(record.Date), record.DurationMinutes, exercisesJson, time.Now(),
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrWorkoutExists
		}
		return nil, err
	}

	return &record, nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *analytics.WorkoutRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrWorkoutNotFound
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id::text, date, duration_minutes, exercises FROM workout WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}

	records, err := rows2records(rows)
	if err != nil {
		return nil, err
	}
	if len(records) != 1 {
		return nil, ErrWorkoutNotFound
	}

	return &records[0], nil
}

func (r *Repo) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	if _, err := uuid.Parse(id); err != nil {
		return ErrWorkoutNotFound
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM workout WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

// ListAll returns the workout history in chronological order, which is the
// order the analytics expect.
func (r *Repo) ListAll(ctx context.Context, params ListParams) (_ []analytics.WorkoutRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id::text, date, duration_minutes, exercises
			FROM workout
			WHERE ($1::date IS NULL OR date >= $1)
			AND ($2::date IS NULL OR date <= $2)
			ORDER BY date ASC, created_at ASC;`,
		params.From, params.To,
	)
	if err != nil {
		return nil, err
	}

	records, err := rows2records(rows)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("workouts.count", len(records)))

	return records, nil
}

func rows2records(rows pgx.Rows) ([]analytics.WorkoutRecord, error) {
	defer rows.Close()

	records := make([]analytics.WorkoutRecord, 0)
	for rows.Next() {
		var (
			record        analytics.WorkoutRecord
			exercisesJson []byte
		)
		if err := rows.Scan(&record.ID, &record.Date, &record.DurationMinutes, &exercisesJson); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if err := json.Unmarshal(exercisesJson, &record.Exercises); err != nil {
			return nil, fmt.Errorf("unmarshal exercises of %s: %w", record.ID, err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
