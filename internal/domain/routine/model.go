package routine

import (
	"errors"
	"time"

	"github.com/gymops/go_gym_backend/internal/domain"
)

var (
	ErrRoutineNotFound = errors.New("routine not found")
)

const (
	EventCreated = "routine.created"
)

// Routine is a named, dated training plan assigned to one client by one
// trainer, composed of ordered days. Days and details are exclusively owned:
// deleting the routine removes them, while catalog exercises are only
// referenced and never cascade.
type Routine struct {
	domain.Aggregate
	ID            int64
	Name          string
	Description   *string
	Objective     *string
	Level         string
	DurationWeeks int
	ClientID      int64
	TrainerID     int64
	Active        bool
	StartDate     time.Time
	EndDate       *time.Time

	// Populated on the nested read path only.
	Days []*Day
}

type Day struct {
	ID        int64
	RoutineID int64
	Name      string
	// Order is taken verbatim from the caller; it is neither checked for
	// uniqueness nor for contiguity.
	Order int

	Exercises []*Detail
}

type Detail struct {
	ID         int64
	DayID      int64
	ExerciseID int64
	// Order is the 1-based position of the detail in the submitted list.
	// Unlike the day order it is never caller-supplied.
	Order         int
	Sets          int
	Reps          string
	SuggestedLoad *string
	RestSeconds   int
	Notes         *string

	// Resolved from the catalog on the read path.
	ExerciseName string
}

// DaySpec describes one day of a routine to be created.
type DaySpec struct {
	Name      string
	Order     int
	Exercises []DetailSpec
}

// DetailSpec describes one exercise assignment within a day to be created.
// Any order hint the caller encodes is ignored: the final order is derived
// from the position in the Exercises slice.
type DetailSpec struct {
	ExerciseID    int64
	Sets          int
	Reps          string
	SuggestedLoad *string
	RestSeconds   int
	Notes         *string
}

const (
	DefaultRestSeconds   = 60
	DefaultLevel         = "Intermedio"
	DefaultDurationWeeks = 4
)

func New(name string, description, objective *string, level string, durationWeeks int, clientID, trainerID int64) *Routine {
	r := &Routine{
		Name:          name,
		Description:   description,
		Objective:     objective,
		Level:         level,
		DurationWeeks: durationWeeks,
		ClientID:      clientID,
		TrainerID:     trainerID,
		Active:        true,
		StartDate:     time.Now().UTC(),
	}
	r.PushEvent(&CreatedEvent{ClientID: clientID, TrainerID: trainerID, At: r.StartDate})
	return r
}

type CreatedEvent struct {
	ClientID  int64
	TrainerID int64
	At        time.Time
}

func (e *CreatedEvent) Type() string {
	return EventCreated
}

func (e *CreatedEvent) PublishedAt() time.Time {
	return e.At
}
