package catalogapp

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymops/go_gym_backend/internal/adapter/storage"
	"github.com/gymops/go_gym_backend/internal/app/messagebus"
	"github.com/gymops/go_gym_backend/internal/app/unitofwork"
	"github.com/gymops/go_gym_backend/internal/domain"
	"github.com/gymops/go_gym_backend/internal/domain/exercise"
)

type fakeDB struct{}

func (fakeDB) Begin(ctx context.Context) (storage.DBContext, error) { return fakeDB{}, nil }
func (fakeDB) Commit() error                                        { return nil }
func (fakeDB) Rollback() error                                      { return nil }
func (fakeDB) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, nil
}
func (fakeDB) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, nil
}
func (fakeDB) QueryRowContext(context.Context, string, ...any) *sql.Row { return nil }

type fakeExerciseStorage struct {
	added   []*exercise.Exercise
	filters []exercise.Filter
}

func (s *fakeExerciseStorage) Add(_ context.Context, e *exercise.Exercise) error {
	e.ID = int64(len(s.added) + 1)
	s.added = append(s.added, e)
	return nil
}

func (s *fakeExerciseStorage) List(_ context.Context, filter exercise.Filter) ([]*exercise.Exercise, error) {
	s.filters = append(s.filters, filter)
	return s.added, nil
}

func (s *fakeExerciseStorage) CollectEvents() []domain.Event { return nil }
func (s *fakeExerciseStorage) Close() error                  { return nil }

type fixture struct {
	exercises *fakeExerciseStorage
}

func newFixture() *fixture {
	return &fixture{exercises: &fakeExerciseStorage{}}
}

func (f *fixture) uow() *unitofwork.UnitOfWork[*AtomicContext] {
	logger := slog.Default()
	newCtx := func(ctx context.Context, db storage.DBContext) (*AtomicContext, error) {
		return &AtomicContext{ctx: ctx, db: db, ExerciseStorage: f.exercises}, nil
	}
	return unitofwork.New[*AtomicContext](fakeDB{}, newCtx, messagebus.New(logger), logger)
}

func strptr(s string) *string { return &s }

func TestCreate(t *testing.T) {
	f := newFixture()
	service := New(slog.Default())

	e := exercise.New("Bench Press", "chest", strptr("flat barbell press"), strptr("barbell"), nil)
	err := service.Create(context.Background(), f.uow(), e)
	require.NoError(t, err)

	require.Len(t, f.exercises.added, 1)
	assert.Equal(t, int64(1), e.ID)
	assert.Equal(t, "Bench Press", f.exercises.added[0].Name)
}

func TestCreate_DuplicateNamesAllowed(t *testing.T) {
	f := newFixture()
	service := New(slog.Default())

	first := exercise.New("Squat", "legs", nil, nil, nil)
	second := exercise.New("Squat", "legs", nil, nil, nil)

	require.NoError(t, service.Create(context.Background(), f.uow(), first))
	require.NoError(t, service.Create(context.Background(), f.uow(), second))

	// The catalog enforces no name uniqueness on the write path.
	require.Len(t, f.exercises.added, 2)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestList(t *testing.T) {
	tests := []struct {
		name   string
		filter exercise.Filter
	}{
		{"unfiltered", exercise.Filter{}},
		{"muscle group only", exercise.Filter{MuscleGroup: "back"}},
		{"search only", exercise.Filter{Search: "row"}},
		{"both", exercise.Filter{MuscleGroup: "back", Search: "Row"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.exercises.added = []*exercise.Exercise{
				{ID: 1, Name: "Barbell Row", MuscleGroup: "back"},
			}
			service := New(slog.Default())

			list, err := service.List(context.Background(), f.uow(), tt.filter)
			require.NoError(t, err)
			assert.Len(t, list, 1)

			// The filter reaches the storage untranslated.
			require.Len(t, f.exercises.filters, 1)
			assert.Equal(t, tt.filter, f.exercises.filters[0])
		})
	}
}
