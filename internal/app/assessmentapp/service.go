package assessmentapp

import (
	"context"
	"log/slog"
	"time"

	"github.com/gymops/go_gym_backend/internal/app/unitofwork"
	"github.com/gymops/go_gym_backend/internal/domain/assessment"
	"github.com/gymops/go_gym_backend/internal/domain/client"
)

type Service struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// Create persists a new assessment with a server-side computed BMI. The
// client reference is checked before writing so a dangling id surfaces as a
// typed not-found instead of a storage violation.
func (s *Service) Create(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	a *assessment.Assessment,
) error {
	return uow.Atomic(ctx, func(atomic *AtomicContext) error {
		exists, err := atomic.ClientStorage.Exists(atomic.Context(), a.ClientID)
		if err != nil {
			return err
		}
		if !exists {
			return client.ErrClientNotFound
		}

		now := time.Now().UTC()
		if a.MeasuredAt.IsZero() {
			a.MeasuredAt = now
		}
		a.CreatedAt = now
		a.UpdatedAt = now
		a.Recompute()

		if err := atomic.AssessmentStorage.Add(atomic.Context(), a); err != nil {
			return err
		}

		return atomic.Commit()
	})
}

func (s *Service) Get(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	assessmentID int64,
) (a *assessment.Assessment, err error) {
	err = uow.Atomic(ctx, func(atomic *AtomicContext) error {
		a, err = atomic.AssessmentStorage.GetByID(atomic.Context(), assessmentID)
		return err
	})
	return
}

func (s *Service) List(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	clientID *int64,
) (list []*assessment.Assessment, err error) {
	err = uow.Atomic(ctx, func(atomic *AtomicContext) error {
		list, err = atomic.AssessmentStorage.List(atomic.Context(), clientID)
		return err
	})
	return
}

// Update merges a partial patch into the stored assessment. The BMI is
// recomputed only when the patch touches weight or height.
func (s *Service) Update(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	assessmentID int64,
	patch *assessment.Patch,
) (a *assessment.Assessment, err error) {
	err = uow.Atomic(ctx, func(atomic *AtomicContext) error {
		stored, err := atomic.AssessmentStorage.GetByID(atomic.Context(), assessmentID)
		if err != nil {
			return err
		}

		updated := *stored
		patch.Apply(&updated)

		if err := atomic.AssessmentStorage.Persist(atomic.Context(), stored, &updated); err != nil {
			return err
		}
		a = &updated

		return atomic.Commit()
	})
	return
}

func (s *Service) Delete(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	assessmentID int64,
) error {
	return uow.Atomic(ctx, func(atomic *AtomicContext) error {
		if err := atomic.AssessmentStorage.Delete(atomic.Context(), assessmentID); err != nil {
			return err
		}

		return atomic.Commit()
	})
}

// Progress compares a client's first and last assessment. When fewer than
// two exist it returns a nil report together with the count; the caller
// renders the sentinel response.
func (s *Service) Progress(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	clientID int64,
) (p *assessment.Progress, total int, err error) {
	err = uow.Atomic(ctx, func(atomic *AtomicContext) error {
		history, err := atomic.AssessmentStorage.History(atomic.Context(), clientID)
		if err != nil {
			return err
		}

		total = len(history)
		p, _ = assessment.ComputeProgress(history)
		return nil
	})
	return
}
