package routineapp

import (
	"context"
	"errors"
	"fmt"

	"github.com/gymops/go_gym_backend/internal/adapter/storage"
	clientstorage "github.com/gymops/go_gym_backend/internal/adapter/storage/clients"
	exercisestorage "github.com/gymops/go_gym_backend/internal/adapter/storage/exercises"
	routinestorage "github.com/gymops/go_gym_backend/internal/adapter/storage/routines"
	"github.com/gymops/go_gym_backend/internal/adapter/storage/userstorage"
	"github.com/gymops/go_gym_backend/internal/domain"
	"github.com/gymops/go_gym_backend/internal/domain/routine"
	"github.com/gymops/go_gym_backend/internal/domain/user"
)

type RoutineStorage interface {
	AddRoutine(ctx context.Context, r *routine.Routine) error
	AddDay(ctx context.Context, d *routine.Day) error
	AddDetail(ctx context.Context, d *routine.Detail) error
	GetByID(ctx context.Context, routineID int64) (*routine.Routine, error)
	ListByClient(ctx context.Context, clientID int64) ([]*routine.Routine, error)
	ListDays(ctx context.Context, routineID int64) ([]*routine.Day, error)
	ListDetails(ctx context.Context, dayID int64) ([]*routine.Detail, error)
	Delete(ctx context.Context, routineID int64) error
	CollectEvents() []domain.Event
	Close() error
}

type ClientStorage interface {
	Exists(ctx context.Context, clientID int64) (bool, error)
	Close() error
}

type ExerciseStorage interface {
	Exists(ctx context.Context, exerciseID int64) (bool, error)
	Close() error
}

type UserStorage interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Close() error
}

type AtomicContext struct {
	ctx context.Context
	db  storage.DBContext

	RoutineStorage  RoutineStorage
	ClientStorage   ClientStorage
	ExerciseStorage ExerciseStorage
	UserStorage     UserStorage
}

func (a *AtomicContext) Context() context.Context {
	return a.ctx
}

func (a *AtomicContext) Commit() error {
	return a.db.Commit()
}

func (a *AtomicContext) Close() (err error) {
	closers := []error{
		a.RoutineStorage.Close(),
		a.ClientStorage.Close(),
		a.ExerciseStorage.Close(),
		a.UserStorage.Close(),
	}
	for _, closeErr := range closers {
		if closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}

	if err != nil {
		err = errors.Join(fmt.Errorf("failed to close storage"), err)
	}

	return err
}

func (a *AtomicContext) CollectEvents() []domain.Event {
	return a.RoutineStorage.CollectEvents()
}

func NewAtomicContext(ctx context.Context, db storage.DBContext) (*AtomicContext, error) {
	return &AtomicContext{
		ctx:             ctx,
		db:              db,
		RoutineStorage:  routinestorage.NewPostgresStorage(db),
		ClientStorage:   clientstorage.NewPostgresStorage(db),
		ExerciseStorage: exercisestorage.NewPostgresStorage(db),
		UserStorage:     userstorage.NewPostgresStorage(db),
	}, nil
}
