package catalogapp

import (
	"context"
	"log/slog"

	"github.com/gymops/go_gym_backend/internal/app/unitofwork"
	"github.com/gymops/go_gym_backend/internal/domain/exercise"
)

// Service is the flat catalog passthrough the routine builder depends on.
type Service struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

func (s *Service) Create(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	e *exercise.Exercise,
) error {
	return uow.Atomic(ctx, func(a *AtomicContext) error {
		if err := a.ExerciseStorage.Add(a.Context(), e); err != nil {
			return err
		}

		return a.Commit()
	})
}

func (s *Service) List(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	filter exercise.Filter,
) (list []*exercise.Exercise, err error) {
	err = uow.Atomic(ctx, func(a *AtomicContext) error {
		list, err = a.ExerciseStorage.List(a.Context(), filter)
		return err
	})
	return
}
