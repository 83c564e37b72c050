package clientstorage

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
	"github.com/gymops/go_gym_backend/internal/domain/client"
)

type PostgresStorage struct {
	db     storage.DBContext
	events pgutil.EventRecorder
}

func NewPostgresStorage(db storage.DBContext) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (s *PostgresStorage) Add(ctx context.Context, c *client.Client) error {
	q := sqlf.InsertInto("clients").
		Set("first_name", c.FirstName).
		Set("last_name", c.LastName).
		Set("email", c.Email).
		Set("phone", c.Phone).
		Set("birth_date", c.BirthDate).
		Set("membership", c.Membership).
		Set("fitness_goal", c.FitnessGoal).
		Set("medical_notes", c.MedicalNotes).
		Set("active", c.Active).
		Set("start_date", c.StartDate).
		Set("trainer_id", c.TrainerID).
		Set("created_at", c.CreatedAt).
		Set("updated_at", c.UpdatedAt).
		Returning("client_id").To(&c.ID)

	if err := q.QueryRowAndClose(ctx, s.db); err != nil {
		if pgutil.ViolatesConstraint(err, "clients_email_key") {
			return client.ErrEmailDuplicate
		}
		return storage.InternalError(err)
	}

	return nil
}

func (s *PostgresStorage) get(
	ctx context.Context,
	modify func(stmt *sqlf.Stmt) *sqlf.Stmt,
) (map[int64]*client.Client, error) {
	var tmp client.Client

	q := sqlf.From("clients c").
		Select("c.client_id").To(&tmp.ID).
		Select("c.first_name").To(&tmp.FirstName).
		Select("c.last_name").To(&tmp.LastName).
		Select("c.email").To(&tmp.Email).
		Select("c.phone").To(&tmp.Phone).
		Select("c.birth_date").To(&tmp.BirthDate).
		Select("c.membership").To(&tmp.Membership).
		Select("c.fitness_goal").To(&tmp.FitnessGoal).
		Select("c.medical_notes").To(&tmp.MedicalNotes).
		Select("c.active").To(&tmp.Active).
		Select("c.start_date").To(&tmp.StartDate).
		Select("c.trainer_id").To(&tmp.TrainerID).
		Select("c.created_at").To(&tmp.CreatedAt).
		Select("c.updated_at").To(&tmp.UpdatedAt)

	q = modify(q)

	result := make(map[int64]*client.Client)

	err := q.QueryAndClose(ctx, s.db, func(rows *sql.Rows) {
		result[tmp.ID] = &client.Client{
			ID:           tmp.ID,
			FirstName:    tmp.FirstName,
			LastName:     tmp.LastName,
			Email:        tmp.Email,
			Phone:        tmp.Phone,
			BirthDate:    tmp.BirthDate,
			Membership:   tmp.Membership,
			FitnessGoal:  tmp.FitnessGoal,
			MedicalNotes: tmp.MedicalNotes,
			Active:       tmp.Active,
			StartDate:    tmp.StartDate,
			TrainerID:    tmp.TrainerID,
			CreatedAt:    tmp.CreatedAt,
			UpdatedAt:    tmp.UpdatedAt,
		}
	})

	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return result, nil
	}

	return nil, storage.InternalError(err)
}

func (s *PostgresStorage) GetByID(ctx context.Context, clientID int64) (*client.Client, error) {
	result, err := s.get(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.Where("c.client_id = ?", clientID)
	})
	return pgutil.PeekOrErr(result, err, client.ErrClientNotFound)
}

func (s *PostgresStorage) List(ctx context.Context, offset, limit int) ([]*client.Client, error) {
	result, err := s.get(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.OrderBy("c.client_id").Offset(offset).Limit(limit)
	})
	if err != nil {
		return nil, err
	}
	return lo.Values(result), nil
}

// Exists reports whether the client id references a stored row. The routine
// and assessment writers check references up front instead of letting a
// foreign key violation surface as a driver error.
func (s *PostgresStorage) Exists(ctx context.Context, clientID int64) (bool, error) {
	var id int64
	q := sqlf.From("clients").
		Select("client_id").To(&id).
		Where("client_id = ?", clientID)

	if err := q.QueryRowAndClose(ctx, s.db); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, storage.InternalError(err)
	}
	return true, nil
}

func (s *PostgresStorage) Persist(ctx context.Context, before, after *client.Client) error {
	changes, err := diff.Diff(before, after)
	if err != nil {
		return storage.InternalError(err)
	}
	if len(changes) == 0 {
		return nil
	}

	q := pgutil.MakeUpdateQuery(sqlf.Update("clients").Where("client_id = ?", after.ID), changes)

	res, err := q.ExecAndClose(ctx, s.db)
	if pgutil.ViolatesConstraint(err, "clients_email_key") {
		return client.ErrEmailDuplicate
	}
	return pgutil.AssertUpdated(res, err, client.ErrClientNotFound)
}

func (s *PostgresStorage) Delete(ctx context.Context, clientID int64) error {
	q := sqlf.DeleteFrom("clients").Where("client_id = ?", clientID)
	res, err := q.ExecAndClose(ctx, s.db)
	return pgutil.AssertUpdated(res, err, client.ErrClientNotFound)
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.events.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	return nil
}
