package clientapp

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gymops/go_gym_backend/internal/app/unitofwork"
	"github.com/gymops/go_gym_backend/internal/domain/client"
	"github.com/gymops/go_gym_backend/internal/domain/user"
)

type Service struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

func (s *Service) actor(a *AtomicContext, email string) (*user.User, error) {
	u, err := a.UserStorage.GetByEmail(a.Context(), email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrUnauthorized
		}
		return nil, err
	}
	return u, nil
}

// Create persists a new client. When the acting user may assign clients
// (admin trainers), they are recorded as the client's trainer.
func (s *Service) Create(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	actorEmail string,
	c *client.Client,
) (err error) {
	return uow.Atomic(ctx, func(a *AtomicContext) error {
		actor, err := s.actor(a, actorEmail)
		if err != nil {
			return err
		}
		if actor.Can(user.CapAssignClients) {
			c.TrainerID = &actor.ID
		}

		if err := a.ClientStorage.Add(a.Context(), c); err != nil {
			return err
		}

		return a.Commit()
	})
}

func (s *Service) Get(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	clientID int64,
) (c *client.Client, err error) {
	err = uow.Atomic(ctx, func(a *AtomicContext) error {
		c, err = a.ClientStorage.GetByID(a.Context(), clientID)
		return err
	})
	return
}

func (s *Service) List(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	offset, limit int,
) (clients []*client.Client, err error) {
	err = uow.Atomic(ctx, func(a *AtomicContext) error {
		clients, err = a.ClientStorage.List(a.Context(), offset, limit)
		return err
	})
	return
}

func (s *Service) Update(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	clientID int64,
	patch *client.Patch,
) (c *client.Client, err error) {
	err = uow.Atomic(ctx, func(a *AtomicContext) error {
		stored, err := a.ClientStorage.GetByID(a.Context(), clientID)
		if err != nil {
			return err
		}

		updated := *stored
		patch.Apply(&updated)

		if err := a.ClientStorage.Persist(a.Context(), stored, &updated); err != nil {
			return err
		}
		c = &updated

		return a.Commit()
	})
	return
}

// Delete removes a client. Dependent assessments and routines are left in
// place; the public surface defines no cascade for them.
func (s *Service) Delete(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	clientID int64,
) error {
	return uow.Atomic(ctx, func(a *AtomicContext) error {
		if err := a.ClientStorage.Delete(a.Context(), clientID); err != nil {
			return err
		}

		return a.Commit()
	})
}
