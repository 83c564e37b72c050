package routineapp

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gymops/go_gym_backend/internal/app/unitofwork"
	"github.com/gymops/go_gym_backend/internal/domain/client"
	"github.com/gymops/go_gym_backend/internal/domain/exercise"
	"github.com/gymops/go_gym_backend/internal/domain/routine"
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

// Create persists a routine with all nested days and details in one
// transaction, or nothing at all. The acting user becomes the owner no
// matter what the payload claims. Referenced client and exercise ids are
// checked up front so a dangling reference comes back as a typed not-found
// with no partial structure left behind.
//
// Day order is stored verbatim from the caller; detail order is the 1-based
// position in the submitted list, overriding any ordering hint in the input.
// The asymmetry is inherited behavior and is preserved on purpose.
func (s *Service) Create(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	actorEmail string,
	name string,
	description, objective *string,
	level string,
	durationWeeks int,
	clientID int64,
	days []routine.DaySpec,
) (r *routine.Routine, err error) {
	err = uow.Atomic(ctx, func(a *AtomicContext) error {
		actor, err := s.actor(a, actorEmail)
		if err != nil {
			return err
		}

		exists, err := a.ClientStorage.Exists(a.Context(), clientID)
		if err != nil {
			return err
		}
		if !exists {
			return client.ErrClientNotFound
		}

		checked := make(map[int64]struct{})
		for _, day := range days {
			for _, spec := range day.Exercises {
				if _, ok := checked[spec.ExerciseID]; ok {
					continue
				}
				exists, err := a.ExerciseStorage.Exists(a.Context(), spec.ExerciseID)
				if err != nil {
					return err
				}
				if !exists {
					return exercise.ErrExerciseNotFound
				}
				checked[spec.ExerciseID] = struct{}{}
			}
		}

		r = routine.New(name, description, objective, level, durationWeeks, clientID, actor.ID)
		if err := a.RoutineStorage.AddRoutine(a.Context(), r); err != nil {
			return err
		}

		for _, daySpec := range days {
			day := &routine.Day{
				RoutineID: r.ID,
				Name:      daySpec.Name,
				Order:     daySpec.Order,
			}
			if err := a.RoutineStorage.AddDay(a.Context(), day); err != nil {
				return err
			}

			for idx, spec := range daySpec.Exercises {
				rest := spec.RestSeconds
				if rest == 0 {
					rest = routine.DefaultRestSeconds
				}
				detail := &routine.Detail{
					DayID:         day.ID,
					ExerciseID:    spec.ExerciseID,
					Order:         idx + 1,
					Sets:          spec.Sets,
					Reps:          spec.Reps,
					SuggestedLoad: spec.SuggestedLoad,
					RestSeconds:   rest,
					Notes:         spec.Notes,
				}
				if err := a.RoutineStorage.AddDetail(a.Context(), detail); err != nil {
					return err
				}
			}
		}

		return a.Commit()
	})
	return
}

// ListByClient returns the full routine history of a client with days and
// details nested, most recent routine first. One query per routine, day and
// detail list: a fan-out that is fine at single-gym volumes.
func (s *Service) ListByClient(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	clientID int64,
) (routines []*routine.Routine, err error) {
	err = uow.Atomic(ctx, func(a *AtomicContext) error {
		routines, err = a.RoutineStorage.ListByClient(a.Context(), clientID)
		if err != nil {
			return err
		}

		for _, r := range routines {
			days, err := a.RoutineStorage.ListDays(a.Context(), r.ID)
			if err != nil {
				return err
			}
			for _, day := range days {
				if day.Exercises, err = a.RoutineStorage.ListDetails(a.Context(), day.ID); err != nil {
					return err
				}
			}
			r.Days = days
		}
		return nil
	})
	return
}

// Delete removes a routine and, through the storage cascade, its days and
// details. Only admins and the recorded owner may delete.
func (s *Service) Delete(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	actorEmail string,
	routineID int64,
) error {
	return uow.Atomic(ctx, func(a *AtomicContext) error {
		actor, err := s.actor(a, actorEmail)
		if err != nil {
			return err
		}

		r, err := a.RoutineStorage.GetByID(a.Context(), routineID)
		if err != nil {
			return err
		}

		if !actor.CanActOn(user.CapManageRoutines, r.TrainerID) {
			return user.ErrForbidden
		}

		if err := a.RoutineStorage.Delete(a.Context(), routineID); err != nil {
			return err
		}

		return a.Commit()
	})
}
