package client

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrClientNotFound = errors.New("client not found")
	ErrClientExists   = errors.New("client already exists")
	ErrEmailDuplicate = fmt.Errorf("%w: email is not unique", ErrClientExists)
)

type Membership string

const (
	MembershipVirtual Membership = "virtual"
	MembershipOnsite  Membership = "onsite"
	MembershipHybrid  Membership = "hybrid"
)

func (m Membership) Valid() bool {
	return m == MembershipVirtual || m == MembershipOnsite || m == MembershipHybrid
}

type Client struct {
	ID           int64      `diff:"-"`
	FirstName    string     `diff:"first_name"`
	LastName     string     `diff:"last_name"`
	Email        string     `diff:"email"`
	Phone        *string    `diff:"phone"`
	BirthDate    *time.Time `diff:"-"`
	Membership   Membership `diff:"membership"`
	FitnessGoal  *string    `diff:"fitness_goal"`
	MedicalNotes *string    `diff:"-"`
	Active       bool       `diff:"active"`
	StartDate    time.Time  `diff:"-"`
	TrainerID    *int64     `diff:"-"`
	CreatedAt    time.Time  `diff:"-"`
	UpdatedAt    time.Time  `diff:"updated_at"`
}

// Patch carries a partial client update mirroring the mutable fields of the
// public surface. Nil fields are left untouched.
type Patch struct {
	FirstName   *string
	LastName    *string
	Email       *string
	Phone       *string
	Membership  *Membership
	FitnessGoal *string
	Active      *bool
}

func (p *Patch) Apply(c *Client) {
	if p.FirstName != nil {
		c.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		c.LastName = *p.LastName
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = p.Phone
	}
	if p.Membership != nil {
		c.Membership = *p.Membership
	}
	if p.FitnessGoal != nil {
		c.FitnessGoal = p.FitnessGoal
	}
	if p.Active != nil {
		c.Active = *p.Active
	}
	c.UpdatedAt = time.Now().UTC()
}
