package auth

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

type fakeUserStorage struct {
	byEmail   map[string]*user.User
	byID      map[int64]*user.User
	added     []*user.User
	persisted []*user.User
	deleted   []int64
}

func newFakeUserStorage() *fakeUserStorage {
	return &fakeUserStorage{
		byEmail: map[string]*user.User{},
		byID:    map[int64]*user.User{},
	}
}

func (s *fakeUserStorage) put(u *user.User) {
	s.byEmail[u.Email] = u
	s.byID[u.ID] = u
}

func (s *fakeUserStorage) Add(_ context.Context, u *user.User) error {
	if _, ok := s.byEmail[u.Email]; ok {
		return user.ErrEmailDuplicate
	}
	u.ID = int64(len(s.added) + 100)
	s.added = append(s.added, u)
	s.put(u)
	return nil
}

func (s *fakeUserStorage) GetByEmail(_ context.Context, email string) (*user.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

func (s *fakeUserStorage) GetByID(_ context.Context, userID int64) (*user.User, error) {
	if u, ok := s.byID[userID]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

func (s *fakeUserStorage) List(context.Context, int, int) ([]*user.User, error) {
	return s.added, nil
}

func (s *fakeUserStorage) Persist(_ context.Context, _, after *user.User) error {
	s.persisted = append(s.persisted, after)
	return nil
}

func (s *fakeUserStorage) Delete(_ context.Context, userID int64) error {
	s.deleted = append(s.deleted, userID)
	return nil
}

func (s *fakeUserStorage) CollectEvents() []domain.Event { return nil }
func (s *fakeUserStorage) Close() error                  { return nil }

type fixture struct {
	users   *fakeUserStorage
	service *Service
}

func newFixture() *fixture {
	authorizer := testAuthorizer()
	f := &fixture{
		users:   newFakeUserStorage(),
		service: NewService(authorizer, slog.Default()),
	}
	admin := user.New("admin@gym.com", "Admin Trainer", "admin123", user.RoleAdmin, authorizer)
	admin.ID = 1
	admin.PopEvents()
	f.users.put(admin)

	regular := user.New("trainer@gym.com", "Jamie Doe", "secret123", user.RoleUser, authorizer)
	regular.ID = 2
	regular.PopEvents()
	f.users.put(regular)

	return f
}

func (f *fixture) uow() *unitofwork.UnitOfWork[*AtomicContext] {
	logger := slog.Default()
	newCtx := func(ctx context.Context, db storage.DBContext) (*AtomicContext, error) {
		return &AtomicContext{ctx: ctx, db: db, UserStorage: f.users}, nil
	}
	return unitofwork.New[*AtomicContext](fakeDB{}, newCtx, messagebus.New(logger), logger)
}

func TestLogin(t *testing.T) {
	f := newFixture()

	token, err := f.service.Login(context.Background(), f.uow(), "trainer@gym.com", "secret123", Device{})
	require.NoError(t, err)

	data, err := f.service.Authorizer.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "trainer@gym.com", data.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture()

	_, err := f.service.Login(context.Background(), f.uow(), "trainer@gym.com", "wrong", Device{})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	f := newFixture()

	// Unknown accounts answer exactly like wrong passwords.
	_, err := f.service.Login(context.Background(), f.uow(), "ghost@gym.com", "secret123", Device{})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	f := newFixture()
	f.users.byEmail["trainer@gym.com"].IsActive = false

	_, err := f.service.Login(context.Background(), f.uow(), "trainer@gym.com", "secret123", Device{})
	assert.ErrorIs(t, err, user.ErrUserInactive)
}

func TestCreateUser(t *testing.T) {
	f := newFixture()

	u, err := f.service.CreateUser(
		context.Background(), f.uow(), "admin@gym.com",
		"new@gym.com", "New Trainer", "secret123", user.RoleUser,
	)
	require.NoError(t, err)
	assert.Equal(t, "new@gym.com", u.Email)
	assert.True(t, u.IsActive)
	require.Len(t, f.users.added, 1)
}

func TestCreateUser_RequiresAdmin(t *testing.T) {
	f := newFixture()

	_, err := f.service.CreateUser(
		context.Background(), f.uow(), "trainer@gym.com",
		"new@gym.com", "New Trainer", "secret123", user.RoleUser,
	)
	assert.ErrorIs(t, err, user.ErrForbidden)
	assert.Empty(t, f.users.added)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	f := newFixture()

	_, err := f.service.CreateUser(
		context.Background(), f.uow(), "admin@gym.com",
		"trainer@gym.com", "Impostor", "secret123", user.RoleUser,
	)
	assert.ErrorIs(t, err, user.ErrEmailDuplicate)
}

func TestEnsureAdmin(t *testing.T) {
	f := newFixture()

	// Existing admin: nothing to seed.
	err := f.service.EnsureAdmin(context.Background(), f.uow(), "admin@gym.com", "Admin Trainer", "admin123")
	require.NoError(t, err)
	assert.Empty(t, f.users.added)

	err = f.service.EnsureAdmin(context.Background(), f.uow(), "boss@gym.com", "Boss", "admin123")
	require.NoError(t, err)
	require.Len(t, f.users.added, 1)
	assert.Equal(t, user.RoleAdmin, f.users.added[0].Role)
}

func TestUpdateUser(t *testing.T) {
	f := newFixture()

	name := "Renamed Trainer"
	u, err := f.service.UpdateUser(context.Background(), f.uow(), "admin@gym.com", 2, &user.Patch{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Trainer", u.FullName)
	require.Len(t, f.users.persisted, 1)
}

func TestUpdateUser_RequiresAdmin(t *testing.T) {
	f := newFixture()

	name := "Renamed"
	_, err := f.service.UpdateUser(context.Background(), f.uow(), "trainer@gym.com", 2, &user.Patch{FullName: &name})
	assert.ErrorIs(t, err, user.ErrForbidden)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture()

	err := f.service.DeleteUser(context.Background(), f.uow(), "admin@gym.com", 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, f.users.deleted)
}

func TestDeleteUser_Self(t *testing.T) {
	f := newFixture()

	err := f.service.DeleteUser(context.Background(), f.uow(), "admin@gym.com", 1)
	assert.ErrorIs(t, err, user.ErrSelfDelete)
	assert.Empty(t, f.users.deleted)
}

func TestDeleteUser_RequiresAdmin(t *testing.T) {
	f := newFixture()

	err := f.service.DeleteUser(context.Background(), f.uow(), "trainer@gym.com", 1)
	assert.ErrorIs(t, err, user.ErrForbidden)
}
