package assessmentapp

import (
	"context"
	"errors"
	"fmt"

	"github.com/gymops/go_gym_backend/internal/adapter/storage"
	assessmentstorage "github.com/gymops/go_gym_backend/internal/adapter/storage/assessments"
	clientstorage "github.com/gymops/go_gym_backend/internal/adapter/storage/clients"
	"github.com/gymops/go_gym_backend/internal/domain"
	"github.com/gymops/go_gym_backend/internal/domain/assessment"
)

type AssessmentStorage interface {
	Add(ctx context.Context, a *assessment.Assessment) error
	GetByID(ctx context.Context, assessmentID int64) (*assessment.Assessment, error)
	List(ctx context.Context, clientID *int64) ([]*assessment.Assessment, error)
	History(ctx context.Context, clientID int64) ([]*assessment.Assessment, error)
	Persist(ctx context.Context, before, after *assessment.Assessment) error
	Delete(ctx context.Context, assessmentID int64) error
	CollectEvents() []domain.Event
	Close() error
}

type ClientStorage interface {
	Exists(ctx context.Context, clientID int64) (bool, error)
	Close() error
}

type AtomicContext struct {
	ctx context.Context
	db  storage.DBContext

	AssessmentStorage AssessmentStorage
	ClientStorage     ClientStorage
}

func (a *AtomicContext) Context() context.Context {
	return a.ctx
}

func (a *AtomicContext) Commit() error {
	return a.db.Commit()
}

func (a *AtomicContext) Close() (err error) {
	for _, closeErr := range []error{a.AssessmentStorage.Close(), a.ClientStorage.Close()} {
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
	return a.AssessmentStorage.CollectEvents()
}

func NewAtomicContext(ctx context.Context, db storage.DBContext) (*AtomicContext, error) {
	return &AtomicContext{
		ctx:               ctx,
		db:                db,
		AssessmentStorage: assessmentstorage.NewPostgresStorage(db),
		ClientStorage:     clientstorage.NewPostgresStorage(db),
	}, nil
}
