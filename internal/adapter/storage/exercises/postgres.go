package exercisestorage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/leporo/sqlf"

	"github.com/gymops/go_gym_backend/internal/adapter/storage"
	"github.com/gymops/go_gym_backend/internal/domain"
	"github.com/gymops/go_gym_backend/internal/domain/exercise"
)

type PostgresStorage struct {
	db storage.DBContext
}

func NewPostgresStorage(db storage.DBContext) *PostgresStorage {
	return &PostgresStorage{db: db}
}

// Add inserts a catalog entry. Duplicate names are allowed: the catalog has
// no uniqueness constraint on the write path.
func (s *PostgresStorage) Add(ctx context.Context, e *exercise.Exercise) error {
	q := sqlf.InsertInto("exercises").
		Set("name", e.Name).
		Set("muscle_group", e.MuscleGroup).
		Set("description", e.Description).
		Set("equipment", e.Equipment).
		Set("video_url", e.VideoURL).
		Set("created_at", e.CreatedAt).
		Returning("exercise_id").To(&e.ID)

	if err := q.QueryRowAndClose(ctx, s.db); err != nil {
		return storage.InternalError(err)
	}

	return nil
}

func (s *PostgresStorage) List(ctx context.Context, filter exercise.Filter) ([]*exercise.Exercise, error) {
	var tmp exercise.Exercise

	q := sqlf.From("exercises e").
		Select("e.exercise_id").To(&tmp.ID).
		Select("e.name").To(&tmp.Name).
		Select("e.muscle_group").To(&tmp.MuscleGroup).
		Select("e.description").To(&tmp.Description).
		Select("e.equipment").To(&tmp.Equipment).
		Select("e.video_url").To(&tmp.VideoURL).
		Select("e.created_at").To(&tmp.CreatedAt).
		OrderBy("e.exercise_id")

	if filter.MuscleGroup != "" {
		q = q.Where("e.muscle_group = ?", filter.MuscleGroup)
	}
	if filter.Search != "" {
		// LIKE, not ILIKE: containment is case-sensitive.
		q = q.Where("e.name LIKE ?", "%"+filter.Search+"%")
	}

	var result []*exercise.Exercise

	err := q.QueryAndClose(ctx, s.db, func(rows *sql.Rows) {
		row := tmp
		result = append(result, &row)
	})

	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return result, nil
	}

	return nil, storage.InternalError(err)
}

func (s *PostgresStorage) Exists(ctx context.Context, exerciseID int64) (bool, error) {
	var id int64
	q := sqlf.From("exercises").
		Select("exercise_id").To(&id).
		Where("exercise_id = ?", exerciseID)

	if err := q.QueryRowAndClose(ctx, s.db); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, storage.InternalError(err)
	}
	return true, nil
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return nil
}

func (s *PostgresStorage) Close() error {
	return nil
}
