package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/gymops/go_gym_backend/internal/domain"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrEmailDuplicate     = fmt.Errorf("%w: email is not unique", ErrUserExists)
	ErrInvalidCredentials = errors.New("email or password is invalid")
	ErrUserInactive       = errors.New("user is inactive")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("operation is not permitted")
	ErrSelfDelete         = errors.New("users cannot delete themselves")
)

const (
	EventCreated = "user.created"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Capability names a role-gated action. Every protected operation consults
// Can or CanActOn instead of comparing role strings inline.
type Capability string

const (
	CapManageUsers    Capability = "users.manage"
	CapAssignClients  Capability = "clients.assign"
	CapManageRoutines Capability = "routines.manage"
)

type Hasher interface {
	Hash(password string) string
}

type User struct {
	domain.Aggregate `diff:"-"`
	ID               int64     `diff:"-"`
	Email            string    `diff:"email"`
	FullName         string    `diff:"full_name"`
	PasswordHash     string    `diff:"password_hash"`
	IsActive         bool      `diff:"is_active"`
	Role             Role      `diff:"role"`
	CreatedAt        time.Time `diff:"-"`
}

func New(email, fullName, password string, role Role, hasher Hasher) *User {
	u := &User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hasher.Hash(password),
		IsActive:     true,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	u.PushEvent(&CreatedEvent{Email: email, At: u.CreatedAt})
	return u
}

func (u *User) SetPassword(password string, hasher Hasher) {
	u.PasswordHash = hasher.Hash(password)
}

// Can reports whether the user holds the given capability.
// Admin trainers hold every capability.
func (u *User) Can(_ Capability) bool {
	return u.Role == RoleAdmin
}

// CanActOn extends Can with an ownership override: the owner of a resource
// may act on it even without the capability.
func (u *User) CanActOn(c Capability, ownerID int64) bool {
	return u.Can(c) || u.ID == ownerID
}

// Clone copies the persisted state of the user, without pending events.
func (u *User) Clone() *User {
	return &User{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
	}
}

// Patch carries a partial user update. Nil fields are left untouched.
type Patch struct {
	Email    *string
	FullName *string
	Password *string
	IsActive *bool
	Role     *Role
}

func (p *Patch) Apply(u *User, hasher Hasher) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Password != nil && *p.Password != "" {
		u.SetPassword(*p.Password, hasher)
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
}

type CreatedEvent struct {
	Email string
	At    time.Time
}

func (e *CreatedEvent) Type() string {
	return EventCreated
}

func (e *CreatedEvent) PublishedAt() time.Time {
	return e.At
}
