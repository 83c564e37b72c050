package routinestorage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/leporo/sqlf"

	"github.com/gymops/go_gym_backend/internal/adapter/storage"
	"github.com/gymops/go_gym_backend/internal/adapter/storage/pgutil"
	"github.com/gymops/go_gym_backend/internal/domain"
	"github.com/gymops/go_gym_backend/internal/domain/client"
	"github.com/gymops/go_gym_backend/internal/domain/exercise"
	"github.com/gymops/go_gym_backend/internal/domain/routine"
)

type PostgresStorage struct {
	db     storage.DBContext
	events pgutil.EventRecorder
}

func NewPostgresStorage(db storage.DBContext) *PostgresStorage {
	return &PostgresStorage{db: db}
}

// AddRoutine inserts the routine header and binds the generated id, the
// intermediate step the nested day/detail inserts depend on. The transaction
// boundary belongs to the surrounding unit of work.
func (s *PostgresStorage) AddRoutine(ctx context.Context, r *routine.Routine) error {
	q := sqlf.InsertInto("routines").
		Set("name", r.Name).
		Set("description", r.Description).
		Set("objective", r.Objective).
		Set("level", r.Level).
		Set("duration_weeks", r.DurationWeeks).
		Set("client_id", r.ClientID).
		Set("trainer_id", r.TrainerID).
		Set("active", r.Active).
		Set("start_date", r.StartDate).
		Set("end_date", r.EndDate).
		Returning("routine_id").To(&r.ID)

	if err := q.QueryRowAndClose(ctx, s.db); err != nil {
		if pgutil.ViolatesConstraint(err, "routines_client_id_fkey") {
			return client.ErrClientNotFound
		}
		return storage.InternalError(err)
	}

	s.events.Record(r.PopEvents()...)

	return nil
}

func (s *PostgresStorage) AddDay(ctx context.Context, d *routine.Day) error {
	q := sqlf.InsertInto("routine_days").
		Set("routine_id", d.RoutineID).
		Set("name", d.Name).
		Set("day_order", d.Order).
		Returning("day_id").To(&d.ID)

	if err := q.QueryRowAndClose(ctx, s.db); err != nil {
		return storage.InternalError(err)
	}

	return nil
}

func (s *PostgresStorage) AddDetail(ctx context.Context, d *routine.Detail) error {
	q := sqlf.InsertInto("routine_details").
		Set("day_id", d.DayID).
		Set("exercise_id", d.ExerciseID).
		Set("detail_order", d.Order).
		Set("sets", d.Sets).
		Set("reps", d.Reps).
		Set("suggested_load", d.SuggestedLoad).
		Set("rest_seconds", d.RestSeconds).
		Set("notes", d.Notes).
		Returning("detail_id").To(&d.ID)

	if err := q.QueryRowAndClose(ctx, s.db); err != nil {
		if pgutil.ViolatesConstraint(err, "routine_details_exercise_id_fkey") {
			return exercise.ErrExerciseNotFound
		}
		return storage.InternalError(err)
	}

	return nil
}

func (s *PostgresStorage) getRoutines(
	ctx context.Context,
	modify func(stmt *sqlf.Stmt) *sqlf.Stmt,
) ([]*routine.Routine, error) {
	var tmp struct {
		ID            int64
		Name          string
		Description   *string
		Objective     *string
		Level         string
		DurationWeeks int
		ClientID      int64
		TrainerID     int64
		Active        bool
		StartDate     sql.NullTime
		EndDate       sql.NullTime
	}

	q := sqlf.From("routines r").
		Select("r.routine_id").To(&tmp.ID).
		Select("r.name").To(&tmp.Name).
		Select("r.description").To(&tmp.Description).
		Select("r.objective").To(&tmp.Objective).
		Select("r.level").To(&tmp.Level).
		Select("r.duration_weeks").To(&tmp.DurationWeeks).
		Select("r.client_id").To(&tmp.ClientID).
		Select("r.trainer_id").To(&tmp.TrainerID).
		Select("r.active").To(&tmp.Active).
		Select("r.start_date").To(&tmp.StartDate).
		Select("r.end_date").To(&tmp.EndDate)

	q = modify(q)

	var result []*routine.Routine

	err := q.QueryAndClose(ctx, s.db, func(rows *sql.Rows) {
		r := &routine.Routine{
			ID:            tmp.ID,
			Name:          tmp.Name,
			Description:   tmp.Description,
			Objective:     tmp.Objective,
			Level:         tmp.Level,
			DurationWeeks: tmp.DurationWeeks,
			ClientID:      tmp.ClientID,
			TrainerID:     tmp.TrainerID,
			Active:        tmp.Active,
			StartDate:     tmp.StartDate.Time,
		}
		if tmp.EndDate.Valid {
			end := tmp.EndDate.Time
			r.EndDate = &end
		}
		result = append(result, r)
	})

	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return result, nil
	}

	return nil, storage.InternalError(err)
}

func (s *PostgresStorage) GetByID(ctx context.Context, routineID int64) (*routine.Routine, error) {
	result, err := s.getRoutines(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.Where("r.routine_id = ?", routineID)
	})
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, routine.ErrRoutineNotFound
	}
	return result[0], nil
}

// ListByClient returns the routine headers of a client, most recent first.
func (s *PostgresStorage) ListByClient(ctx context.Context, clientID int64) ([]*routine.Routine, error) {
	return s.getRoutines(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.Where("r.client_id = ?", clientID).OrderBy("r.start_date DESC")
	})
}

// ListDays returns the days of a routine ordered by the caller-supplied
// order field.
func (s *PostgresStorage) ListDays(ctx context.Context, routineID int64) ([]*routine.Day, error) {
	var tmp routine.Day

	q := sqlf.From("routine_days d").
		Select("d.day_id").To(&tmp.ID).
		Select("d.routine_id").To(&tmp.RoutineID).
		Select("d.name").To(&tmp.Name).
		Select("d.day_order").To(&tmp.Order).
		Where("d.routine_id = ?", routineID).
		OrderBy("d.day_order ASC")

	var result []*routine.Day

	err := q.QueryAndClose(ctx, s.db, func(rows *sql.Rows) {
		row := tmp
		result = append(result, &row)
	})

	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return result, nil
	}

	return nil, storage.InternalError(err)
}

// ListDetails returns the exercise assignments of a day ordered by the
// stored sequential order, with the exercise name resolved from the catalog.
func (s *PostgresStorage) ListDetails(ctx context.Context, dayID int64) ([]*routine.Detail, error) {
	var tmp routine.Detail

	q := sqlf.From("routine_details t").
		Join("exercises e", "t.exercise_id = e.exercise_id").
		Select("t.detail_id").To(&tmp.ID).
		Select("t.day_id").To(&tmp.DayID).
		Select("t.exercise_id").To(&tmp.ExerciseID).
		Select("t.detail_order").To(&tmp.Order).
		Select("t.sets").To(&tmp.Sets).
		Select("t.reps").To(&tmp.Reps).
		Select("t.suggested_load").To(&tmp.SuggestedLoad).
		Select("t.rest_seconds").To(&tmp.RestSeconds).
		Select("t.notes").To(&tmp.Notes).
		Select("e.name AS exercise_name").To(&tmp.ExerciseName).
		Where("t.day_id = ?", dayID).
		OrderBy("t.detail_order ASC")

	var result []*routine.Detail

	err := q.QueryAndClose(ctx, s.db, func(rows *sql.Rows) {
		row := tmp
		result = append(result, &row)
	})

	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return result, nil
	}

	return nil, storage.InternalError(err)
}

// Delete removes the routine row; days and details go with it through the
// schema's ON DELETE CASCADE. Catalog exercises are never touched.
func (s *PostgresStorage) Delete(ctx context.Context, routineID int64) error {
	q := sqlf.DeleteFrom("routines").Where("routine_id = ?", routineID)
	res, err := q.ExecAndClose(ctx, s.db)
	return pgutil.AssertUpdated(res, err, routine.ErrRoutineNotFound)
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.events.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	return nil
}
