package clientapp

import (
	"context"
	"errors"
	"fmt"

	"github.com/gymops/go_gym_backend/internal/adapter/storage"
	clientstorage "github.com/gymops/go_gym_backend/internal/adapter/storage/clients"
	"github.com/gymops/go_gym_backend/internal/adapter/storage/userstorage"
	"github.com/gymops/go_gym_backend/internal/domain"
	"github.com/gymops/go_gym_backend/internal/domain/client"
	"github.com/gymops/go_gym_backend/internal/domain/user"
)

type ClientStorage interface {
	Add(ctx context.Context, c *client.Client) error
	GetByID(ctx context.Context, clientID int64) (*client.Client, error)
	List(ctx context.Context, offset, limit int) ([]*client.Client, error)
	Persist(ctx context.Context, before, after *client.Client) error
	Delete(ctx context.Context, clientID int64) error
	CollectEvents() []domain.Event
	Close() error
}

type UserStorage interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Close() error
}

type AtomicContext struct {
	ctx context.Context
	db  storage.DBContext

	ClientStorage ClientStorage
	UserStorage   UserStorage
}

func (a *AtomicContext) Context() context.Context {
	return a.ctx
}

func (a *AtomicContext) Commit() error {
	return a.db.Commit()
}

func (a *AtomicContext) Close() (err error) {
	for _, closeErr := range []error{a.ClientStorage.Close(), a.UserStorage.Close()} {
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
	return a.ClientStorage.CollectEvents()
}

func NewAtomicContext(ctx context.Context, db storage.DBContext) (*AtomicContext, error) {
	return &AtomicContext{
		ctx:           ctx,
		db:            db,
		ClientStorage: clientstorage.NewPostgresStorage(db),
		UserStorage:   userstorage.NewPostgresStorage(db),
	}, nil
}
