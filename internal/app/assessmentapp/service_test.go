package assessmentapp

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymops/go_gym_backend/internal/adapter/storage"
	"github.com/gymops/go_gym_backend/internal/app/messagebus"
	"github.com/gymops/go_gym_backend/internal/app/unitofwork"
	"github.com/gymops/go_gym_backend/internal/domain"
	"github.com/gymops/go_gym_backend/internal/domain/assessment"
	"github.com/gymops/go_gym_backend/internal/domain/client"
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

type fakeAssessmentStorage struct {
	added     []*assessment.Assessment
	persisted []*assessment.Assessment
	deleted   []int64
	byID      map[int64]*assessment.Assessment
	history   []*assessment.Assessment
}

func (s *fakeAssessmentStorage) Add(_ context.Context, a *assessment.Assessment) error {
	a.ID = int64(len(s.added) + 1)
	s.added = append(s.added, a)
	return nil
}

func (s *fakeAssessmentStorage) GetByID(_ context.Context, assessmentID int64) (*assessment.Assessment, error) {
	if a, ok := s.byID[assessmentID]; ok {
		return a, nil
	}
	return nil, assessment.ErrAssessmentNotFound
}

func (s *fakeAssessmentStorage) List(context.Context, *int64) ([]*assessment.Assessment, error) {
	return s.added, nil
}

func (s *fakeAssessmentStorage) History(context.Context, int64) ([]*assessment.Assessment, error) {
	return s.history, nil
}

func (s *fakeAssessmentStorage) Persist(_ context.Context, _, after *assessment.Assessment) error {
	s.persisted = append(s.persisted, after)
	return nil
}

func (s *fakeAssessmentStorage) Delete(_ context.Context, assessmentID int64) error {
	s.deleted = append(s.deleted, assessmentID)
	return nil
}

func (s *fakeAssessmentStorage) CollectEvents() []domain.Event { return nil }
func (s *fakeAssessmentStorage) Close() error                  { return nil }

type fakeClientStorage struct {
	existing map[int64]bool
}

func (s *fakeClientStorage) Exists(_ context.Context, clientID int64) (bool, error) {
	return s.existing[clientID], nil
}
func (s *fakeClientStorage) Close() error { return nil }

type fixture struct {
	assessments *fakeAssessmentStorage
	clients     *fakeClientStorage
}

func newFixture() *fixture {
	return &fixture{
		assessments: &fakeAssessmentStorage{byID: map[int64]*assessment.Assessment{}},
		clients:     &fakeClientStorage{existing: map[int64]bool{10: true}},
	}
}

func (f *fixture) uow() *unitofwork.UnitOfWork[*AtomicContext] {
	logger := slog.Default()
	newCtx := func(ctx context.Context, db storage.DBContext) (*AtomicContext, error) {
		return &AtomicContext{
			ctx:               ctx,
			db:                db,
			AssessmentStorage: f.assessments,
			ClientStorage:     f.clients,
		}, nil
	}
	return unitofwork.New[*AtomicContext](fakeDB{}, newCtx, messagebus.New(logger), logger)
}

func fptr(v float64) *float64 { return &v }

func TestCreate(t *testing.T) {
	f := newFixture()
	service := New(slog.Default())

	a := &assessment.Assessment{
		ClientID: 10,
		Kind:     assessment.KindInitial,
		WeightKg: 85,
		HeightCm: 175,
	}

	err := service.Create(context.Background(), f.uow(), a)
	require.NoError(t, err)

	require.Len(t, f.assessments.added, 1)
	require.NotNil(t, a.BMI)
	assert.InDelta(t, 27.76, *a.BMI, 0.001)
	assert.False(t, a.MeasuredAt.IsZero())
	assert.False(t, a.CreatedAt.IsZero())
}

func TestCreate_ServerOverridesClientBMI(t *testing.T) {
	f := newFixture()
	service := New(slog.Default())

	a := &assessment.Assessment{
		ClientID: 10,
		WeightKg: 85,
		HeightCm: 175,
		BMI:      fptr(1.0),
	}

	err := service.Create(context.Background(), f.uow(), a)
	require.NoError(t, err)
	assert.InDelta(t, 27.76, *a.BMI, 0.001)
}

func TestCreate_KeepsMeasuredAt(t *testing.T) {
	f := newFixture()
	service := New(slog.Default())

	measuredAt := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	a := &assessment.Assessment{
		ClientID:   10,
		WeightKg:   85,
		HeightCm:   175,
		MeasuredAt: measuredAt,
	}

	err := service.Create(context.Background(), f.uow(), a)
	require.NoError(t, err)
	assert.Equal(t, measuredAt, a.MeasuredAt)
}

func TestCreate_UnknownClient(t *testing.T) {
	f := newFixture()
	service := New(slog.Default())

	a := &assessment.Assessment{ClientID: 999, WeightKg: 85, HeightCm: 175}

	err := service.Create(context.Background(), f.uow(), a)
	assert.ErrorIs(t, err, client.ErrClientNotFound)
	assert.Empty(t, f.assessments.added)
}

func TestUpdate_RecomputesBMIOnWeight(t *testing.T) {
	f := newFixture()
	stored := &assessment.Assessment{ID: 1, ClientID: 10, WeightKg: 85, HeightCm: 175}
	stored.Recompute()
	f.assessments.byID[1] = stored
	service := New(slog.Default())

	a, err := service.Update(context.Background(), f.uow(), 1, &assessment.Patch{WeightKg: fptr(76.5)})
	require.NoError(t, err)

	assert.Equal(t, 76.5, a.WeightKg)
	assert.InDelta(t, 24.98, *a.BMI, 0.001)
	require.Len(t, f.assessments.persisted, 1)

	// The stored copy handed to Persist as "before" stays untouched.
	assert.Equal(t, 85.0, stored.WeightKg)
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture()
	service := New(slog.Default())

	_, err := service.Update(context.Background(), f.uow(), 404, &assessment.Patch{})
	assert.ErrorIs(t, err, assessment.ErrAssessmentNotFound)
}

func TestDelete(t *testing.T) {
	f := newFixture()
	service := New(slog.Default())

	err := service.Delete(context.Background(), f.uow(), 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, f.assessments.deleted)
}

func TestProgress_Sentinel(t *testing.T) {
	f := newFixture()
	f.assessments.history = []*assessment.Assessment{
		{ClientID: 10, WeightKg: 85, HeightCm: 175},
	}
	service := New(slog.Default())

	p, total, err := service.Progress(context.Background(), f.uow(), 10)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Equal(t, 1, total)
}

func TestProgress(t *testing.T) {
	f := newFixture()
	first := &assessment.Assessment{
		ClientID:   10,
		MeasuredAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		WeightKg:   85,
		HeightCm:   175,
	}
	first.Recompute()
	last := &assessment.Assessment{
		ClientID:   10,
		MeasuredAt: time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		WeightKg:   76.5,
		HeightCm:   175,
	}
	last.Recompute()
	f.assessments.history = []*assessment.Assessment{first, last}
	service := New(slog.Default())

	p, total, err := service.Progress(context.Background(), f.uow(), 10)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 2, total)
	assert.InDelta(t, -8.5, p.Changes.WeightKg, 0.001)
	assert.Equal(t, 180, p.ElapsedDays)
}
