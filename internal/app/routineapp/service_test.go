package routineapp

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
	"github.com/gymops/go_gym_backend/internal/domain/client"
	"github.com/gymops/go_gym_backend/internal/domain/exercise"
	"github.com/gymops/go_gym_backend/internal/domain/routine"
	"github.com/gymops/go_gym_backend/internal/domain/user"
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

type fakeRoutineStorage struct {
	routines []*routine.Routine
	days     []*routine.Day
	details  []*routine.Detail
	deleted  []int64

	byID map[int64]*routine.Routine
}

func (s *fakeRoutineStorage) AddRoutine(_ context.Context, r *routine.Routine) error {
	r.ID = int64(len(s.routines) + 1)
	s.routines = append(s.routines, r)
	return nil
}

func (s *fakeRoutineStorage) AddDay(_ context.Context, d *routine.Day) error {
	d.ID = int64(len(s.days) + 1)
	s.days = append(s.days, d)
	return nil
}

func (s *fakeRoutineStorage) AddDetail(_ context.Context, d *routine.Detail) error {
	d.ID = int64(len(s.details) + 1)
	s.details = append(s.details, d)
	return nil
}

func (s *fakeRoutineStorage) GetByID(_ context.Context, routineID int64) (*routine.Routine, error) {
	if r, ok := s.byID[routineID]; ok {
		return r, nil
	}
	return nil, routine.ErrRoutineNotFound
}

func (s *fakeRoutineStorage) ListByClient(context.Context, int64) ([]*routine.Routine, error) {
	return s.routines, nil
}

func (s *fakeRoutineStorage) ListDays(context.Context, int64) ([]*routine.Day, error) {
	return s.days, nil
}

func (s *fakeRoutineStorage) ListDetails(context.Context, int64) ([]*routine.Detail, error) {
	return s.details, nil
}

func (s *fakeRoutineStorage) Delete(_ context.Context, routineID int64) error {
	s.deleted = append(s.deleted, routineID)
	return nil
}

func (s *fakeRoutineStorage) CollectEvents() []domain.Event { return nil }
func (s *fakeRoutineStorage) Close() error                  { return nil }

type fakeClientStorage struct {
	existing map[int64]bool
}

func (s *fakeClientStorage) Exists(_ context.Context, clientID int64) (bool, error) {
	return s.existing[clientID], nil
}
func (s *fakeClientStorage) Close() error { return nil }

type fakeExerciseStorage struct {
	existing map[int64]bool
	checks   int
}

func (s *fakeExerciseStorage) Exists(_ context.Context, exerciseID int64) (bool, error) {
	s.checks++
	return s.existing[exerciseID], nil
}
func (s *fakeExerciseStorage) Close() error { return nil }

type fakeUserStorage struct {
	users map[string]*user.User
}

func (s *fakeUserStorage) GetByEmail(_ context.Context, email string) (*user.User, error) {
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}
func (s *fakeUserStorage) Close() error { return nil }

type fixture struct {
	routines  *fakeRoutineStorage
	clients   *fakeClientStorage
	exercises *fakeExerciseStorage
	users     *fakeUserStorage
}

func newFixture() *fixture {
	return &fixture{
		routines:  &fakeRoutineStorage{byID: map[int64]*routine.Routine{}},
		clients:   &fakeClientStorage{existing: map[int64]bool{10: true}},
		exercises: &fakeExerciseStorage{existing: map[int64]bool{1: true, 2: true, 3: true}},
		users: &fakeUserStorage{users: map[string]*user.User{
			"admin@gym.com":   {ID: 1, Email: "admin@gym.com", Role: user.RoleAdmin, IsActive: true},
			"trainer@gym.com": {ID: 2, Email: "trainer@gym.com", Role: user.RoleUser, IsActive: true},
			"other@gym.com":   {ID: 3, Email: "other@gym.com", Role: user.RoleUser, IsActive: true},
		}},
	}
}

func (f *fixture) uow() *unitofwork.UnitOfWork[*AtomicContext] {
	logger := slog.Default()
	newCtx := func(ctx context.Context, db storage.DBContext) (*AtomicContext, error) {
		return &AtomicContext{
			ctx:             ctx,
			db:              db,
			RoutineStorage:  f.routines,
			ClientStorage:   f.clients,
			ExerciseStorage: f.exercises,
			UserStorage:     f.users,
		}, nil
	}
	return unitofwork.New[*AtomicContext](fakeDB{}, newCtx, messagebus.New(logger), logger)
}

func strptr(s string) *string { return &s }

func TestCreate(t *testing.T) {
	f := newFixture()
	service := New(slog.Default())

	days := []routine.DaySpec{
		{
			Name:  "Push",
			Order: 1,
			Exercises: []routine.DetailSpec{
				{ExerciseID: 1, Sets: 4, Reps: "8-10", RestSeconds: 90},
				{ExerciseID: 2, Sets: 3, Reps: "12"},
			},
		},
		{
			Name:  "Pull",
			Order: 2,
			Exercises: []routine.DetailSpec{
				{ExerciseID: 3, Sets: 3, Reps: "10", Notes: strptr("slow negatives")},
			},
		},
	}

	r, err := service.Create(
		context.Background(), f.uow(), "trainer@gym.com",
		"Hypertrophy A", nil, strptr("mass"), "intermediate", 8, 10, days,
	)
	require.NoError(t, err)

	// The acting user becomes the owner regardless of the payload.
	assert.Equal(t, int64(2), r.TrainerID)
	assert.Equal(t, int64(10), r.ClientID)
	assert.True(t, r.Active)

	require.Len(t, f.routines.days, 2)
	assert.Equal(t, 1, f.routines.days[0].Order)
	assert.Equal(t, 2, f.routines.days[1].Order)

	require.Len(t, f.routines.details, 3)
	// Detail order is the 1-based list position, restarting per day.
	assert.Equal(t, 1, f.routines.details[0].Order)
	assert.Equal(t, 2, f.routines.details[1].Order)
	assert.Equal(t, 1, f.routines.details[2].Order)

	// A zero rest falls back to the default; an explicit one is kept.
	assert.Equal(t, 90, f.routines.details[0].RestSeconds)
	assert.Equal(t, routine.DefaultRestSeconds, f.routines.details[1].RestSeconds)
}

func TestCreate_DayOrderStoredVerbatim(t *testing.T) {
	f := newFixture()
	service := New(slog.Default())

	days := []routine.DaySpec{
		{Name: "A", Order: 7, Exercises: []routine.DetailSpec{{ExerciseID: 1, Sets: 3, Reps: "10"}}},
		{Name: "B", Order: 7, Exercises: []routine.DetailSpec{{ExerciseID: 1, Sets: 3, Reps: "10"}}},
	}

	_, err := service.Create(
		context.Background(), f.uow(), "trainer@gym.com",
		"Oddly ordered", nil, nil, "beginner", 4, 10, days,
	)
	require.NoError(t, err)

	// Duplicate day orders pass through unchecked.
	require.Len(t, f.routines.days, 2)
	assert.Equal(t, 7, f.routines.days[0].Order)
	assert.Equal(t, 7, f.routines.days[1].Order)
}

func TestCreate_UnknownClient(t *testing.T) {
	f := newFixture()
	service := New(slog.Default())

	_, err := service.Create(
		context.Background(), f.uow(), "trainer@gym.com",
		"Plan", nil, nil, "beginner", 4, 999,
		[]routine.DaySpec{{Name: "A", Order: 1, Exercises: []routine.DetailSpec{{ExerciseID: 1, Sets: 3, Reps: "10"}}}},
	)
	assert.ErrorIs(t, err, client.ErrClientNotFound)
	assert.Empty(t, f.routines.routines)
}

func TestCreate_UnknownExercise(t *testing.T) {
	f := newFixture()
	service := New(slog.Default())

	days := []routine.DaySpec{
		{Name: "A", Order: 1, Exercises: []routine.DetailSpec{
			{ExerciseID: 1, Sets: 3, Reps: "10"},
			{ExerciseID: 999, Sets: 3, Reps: "10"},
		}},
	}

	_, err := service.Create(
		context.Background(), f.uow(), "trainer@gym.com",
		"Plan", nil, nil, "beginner", 4, 10, days,
	)
	assert.ErrorIs(t, err, exercise.ErrExerciseNotFound)

	// References are checked before any insert.
	assert.Empty(t, f.routines.routines)
	assert.Empty(t, f.routines.days)
	assert.Empty(t, f.routines.details)
}

func TestCreate_ExerciseCheckedOncePerID(t *testing.T) {
	f := newFixture()
	service := New(slog.Default())

	days := []routine.DaySpec{
		{Name: "A", Order: 1, Exercises: []routine.DetailSpec{
			{ExerciseID: 1, Sets: 3, Reps: "10"},
			{ExerciseID: 1, Sets: 4, Reps: "8"},
			{ExerciseID: 2, Sets: 3, Reps: "12"},
		}},
	}

	_, err := service.Create(
		context.Background(), f.uow(), "trainer@gym.com",
		"Plan", nil, nil, "beginner", 4, 10, days,
	)
	require.NoError(t, err)
	assert.Equal(t, 2, f.exercises.checks)
}

func TestCreate_UnknownActor(t *testing.T) {
	f := newFixture()
	service := New(slog.Default())

	_, err := service.Create(
		context.Background(), f.uow(), "ghost@gym.com",
		"Plan", nil, nil, "beginner", 4, 10, nil,
	)
	assert.ErrorIs(t, err, user.ErrUnauthorized)
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name    string
		actor   string
		wantErr error
	}{
		{"admin may delete any routine", "admin@gym.com", nil},
		{"owner may delete their routine", "trainer@gym.com", nil},
		{"other users may not", "other@gym.com", user.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.routines.byID[5] = &routine.Routine{ID: 5, TrainerID: 2}
			service := New(slog.Default())

			err := service.Delete(context.Background(), f.uow(), tt.actor, 5)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.routines.deleted)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []int64{5}, f.routines.deleted)
		})
	}
}

func TestDelete_UnknownRoutine(t *testing.T) {
	f := newFixture()
	service := New(slog.Default())

	err := service.Delete(context.Background(), f.uow(), "admin@gym.com", 404)
	assert.ErrorIs(t, err, routine.ErrRoutineNotFound)
}
