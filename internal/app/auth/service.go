package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gymops/go_gym_backend/internal/app/unitofwork"
	"github.com/gymops/go_gym_backend/internal/domain/user"
)

// Device describes the client that performed a login. It is parsed from the
// request and logged for the audit trail; it is not persisted.
type Device struct {
	Browser   string
	OS        string
	IPAddress string
	Model     string
}

type Service struct {
	logger     *slog.Logger
	Authorizer *Authorizer
}

func NewService(authorizer *Authorizer, logger *slog.Logger) *Service {
	return &Service{
		logger:     logger,
		Authorizer: authorizer,
	}
}

// Login verifies the credentials and issues an access token.
func (s *Service) Login(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	email, password string,
	device Device,
) (token string, err error) {
	err = uow.Atomic(ctx, func(a *AtomicContext) error {
		u, err := a.UserStorage.GetByEmail(a.Context(), email)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return user.ErrInvalidCredentials
			}
			return err
		}

		if err := s.Authorizer.Verify(password, u.PasswordHash); err != nil {
			return err
		}

		if !u.IsActive {
			return user.ErrUserInactive
		}

		if token, err = s.Authorizer.GenerateAccessToken(u); err != nil {
			return err
		}

		s.logger.Info("user logged in",
			"email", u.Email,
			"browser", device.Browser,
			"os", device.OS,
			"ip", device.IPAddress,
		)

		return a.Commit()
	})
	return
}

// Actor resolves the authenticated user behind a validated token subject.
// A vanished or deactivated subject is an authentication failure, not a 404.
func (s *Service) Actor(ctx context.Context, a *AtomicContext, email string) (*user.User, error) {
	u, err := a.UserStorage.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrUnauthorized
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) CreateUser(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	actorEmail string,
	email, fullName, password string,
	role user.Role,
) (u *user.User, err error) {
	err = uow.Atomic(ctx, func(a *AtomicContext) error {
		actor, err := s.Actor(a.Context(), a, actorEmail)
		if err != nil {
			return err
		}
		if !actor.Can(user.CapManageUsers) {
			return user.ErrForbidden
		}

		u = user.New(email, fullName, password, role, s.Authorizer)
		if err := a.UserStorage.Add(a.Context(), u); err != nil {
			return err
		}

		return a.Commit()
	})
	return
}

// EnsureAdmin seeds the configured admin account if it does not exist yet.
func (s *Service) EnsureAdmin(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	email, fullName, password string,
) error {
	return uow.Atomic(ctx, func(a *AtomicContext) error {
		_, err := a.UserStorage.GetByEmail(a.Context(), email)
		if err == nil {
			return nil
		}
		if !errors.Is(err, user.ErrUserNotFound) {
			return err
		}

		admin := user.New(email, fullName, password, user.RoleAdmin, s.Authorizer)
		if err := a.UserStorage.Add(a.Context(), admin); err != nil {
			return err
		}
		s.logger.Info("seeded admin user", "email", email)

		return a.Commit()
	})
}

func (s *Service) GetUserByEmail(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	email string,
) (u *user.User, err error) {
	err = uow.Atomic(ctx, func(a *AtomicContext) error {
		u, err = a.UserStorage.GetByEmail(a.Context(), email)
		return err
	})
	return
}

func (s *Service) GetUser(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	actorEmail string,
	userID int64,
) (u *user.User, err error) {
	err = uow.Atomic(ctx, func(a *AtomicContext) error {
		actor, err := s.Actor(a.Context(), a, actorEmail)
		if err != nil {
			return err
		}
		if !actor.Can(user.CapManageUsers) {
			return user.ErrForbidden
		}

		u, err = a.UserStorage.GetByID(a.Context(), userID)
		return err
	})
	return
}

func (s *Service) ListUsers(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	actorEmail string,
	offset, limit int,
) (users []*user.User, err error) {
	err = uow.Atomic(ctx, func(a *AtomicContext) error {
		actor, err := s.Actor(a.Context(), a, actorEmail)
		if err != nil {
			return err
		}
		if !actor.Can(user.CapManageUsers) {
			return user.ErrForbidden
		}

		users, err = a.UserStorage.List(a.Context(), offset, limit)
		return err
	})
	return
}

func (s *Service) UpdateUser(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	actorEmail string,
	userID int64,
	patch *user.Patch,
) (u *user.User, err error) {
	err = uow.Atomic(ctx, func(a *AtomicContext) error {
		actor, err := s.Actor(a.Context(), a, actorEmail)
		if err != nil {
			return err
		}
		if !actor.Can(user.CapManageUsers) {
			return user.ErrForbidden
		}

		stored, err := a.UserStorage.GetByID(a.Context(), userID)
		if err != nil {
			return err
		}

		updated := stored.Clone()
		patch.Apply(updated, s.Authorizer)

		if err := a.UserStorage.Persist(a.Context(), stored, updated); err != nil {
			return err
		}
		u = updated

		return a.Commit()
	})
	return
}

func (s *Service) DeleteUser(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	actorEmail string,
	userID int64,
) error {
	return uow.Atomic(ctx, func(a *AtomicContext) error {
		actor, err := s.Actor(a.Context(), a, actorEmail)
		if err != nil {
			return err
		}
		if !actor.Can(user.CapManageUsers) {
			return user.ErrForbidden
		}
		if actor.ID == userID {
			return user.ErrSelfDelete
		}

		if err := a.UserStorage.Delete(a.Context(), userID); err != nil {
			return err
		}

		return a.Commit()
	})
}
