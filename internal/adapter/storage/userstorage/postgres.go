package userstorage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/leporo/sqlf"
	"github.com/r3labs/diff"
	"github.com/samber/lo"

	"github.com/gymops/go_gym_backend/internal/adapter/storage"
	"github.com/gymops/go_gym_backend/internal/adapter/storage/pgutil"
	"github.com/gymops/go_gym_backend/internal/domain"
	"github.com/gymops/go_gym_backend/internal/domain/user"
)

type PostgresStorage struct {
	db     storage.DBContext
	events pgutil.EventRecorder
}

func NewPostgresStorage(db storage.DBContext) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (s *PostgresStorage) Add(ctx context.Context, u *user.User) error {
	q := sqlf.InsertInto("users").
		Set("email", u.Email).
		Set("full_name", u.FullName).
		Set("password_hash", u.PasswordHash).
		Set("is_active", u.IsActive).
		Set("role", u.Role).
		Set("created_at", u.CreatedAt).
		Returning("user_id").To(&u.ID)

	if err := q.QueryRowAndClose(ctx, s.db); err != nil {
		if pgutil.ViolatesConstraint(err, "users_email_key") {
			return user.ErrEmailDuplicate
		}
		return storage.InternalError(err)
	}

	s.events.Record(u.PopEvents()...)

	return nil
}

func (s *PostgresStorage) get(
	ctx context.Context,
	modify func(stmt *sqlf.Stmt) *sqlf.Stmt,
) (map[int64]*user.User, error) {
	var tmp user.User

	q := sqlf.From("users u").
		Select("u.user_id").To(&tmp.ID).
		Select("u.email").To(&tmp.Email).
		Select("u.full_name").To(&tmp.FullName).
		Select("u.password_hash").To(&tmp.PasswordHash).
		Select("u.is_active").To(&tmp.IsActive).
		Select("u.role").To(&tmp.Role).
		Select("u.created_at").To(&tmp.CreatedAt)

	q = modify(q)

	result := make(map[int64]*user.User)

	err := q.QueryAndClose(ctx, s.db, func(rows *sql.Rows) {
		result[tmp.ID] = &user.User{
			ID:           tmp.ID,
			Email:        tmp.Email,
			FullName:     tmp.FullName,
			PasswordHash: tmp.PasswordHash,
			IsActive:     tmp.IsActive,
			Role:         tmp.Role,
			CreatedAt:    tmp.CreatedAt,
		}
	})

	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return result, nil
	}

	return nil, storage.InternalError(err)
}

func (s *PostgresStorage) GetByID(ctx context.Context, userID int64) (*user.User, error) {
	result, err := s.get(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.Where("u.user_id = ?", userID)
	})
	return pgutil.PeekOrErr(result, err, user.ErrUserNotFound)
}

func (s *PostgresStorage) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	result, err := s.get(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.Where("u.email = ?", email)
	})
	return pgutil.PeekOrErr(result, err, user.ErrUserNotFound)
}

func (s *PostgresStorage) List(ctx context.Context, offset, limit int) ([]*user.User, error) {
	result, err := s.get(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.OrderBy("u.user_id").Offset(offset).Limit(limit)
	})
	if err != nil {
		return nil, err
	}
	users := lo.Values(result)
	return users, nil
}

// Persist writes back the columns that changed between the stored and the
// updated model, derived from the diff tags.
func (s *PostgresStorage) Persist(ctx context.Context, before, after *user.User) error {
	changes, err := diff.Diff(before, after)
	if err != nil {
		return storage.InternalError(err)
	}
	if len(changes) == 0 {
		return nil
	}

	q := pgutil.MakeUpdateQuery(sqlf.Update("users").Where("user_id = ?", after.ID), changes)

	res, err := q.ExecAndClose(ctx, s.db)
	if pgutil.ViolatesConstraint(err, "users_email_key") {
		return user.ErrEmailDuplicate
	}
	return pgutil.AssertUpdated(res, err, user.ErrUserNotFound)
}

func (s *PostgresStorage) Delete(ctx context.Context, userID int64) error {
	q := sqlf.DeleteFrom("users").Where("user_id = ?", userID)
	res, err := q.ExecAndClose(ctx, s.db)
	return pgutil.AssertUpdated(res, err, user.ErrUserNotFound)
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.events.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	return nil
}
