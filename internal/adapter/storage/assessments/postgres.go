package assessmentstorage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/leporo/sqlf"
	"github.com/r3labs/diff"

	"github.com/gymops/go_gym_backend/internal/adapter/storage"
	"github.com/gymops/go_gym_backend/internal/adapter/storage/pgutil"
	"github.com/gymops/go_gym_backend/internal/domain"
	"github.com/gymops/go_gym_backend/internal/domain/assessment"
	"github.com/gymops/go_gym_backend/internal/domain/client"
)

type PostgresStorage struct {
	db     storage.DBContext
	events pgutil.EventRecorder
}

func NewPostgresStorage(db storage.DBContext) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (s *PostgresStorage) Add(ctx context.Context, a *assessment.Assessment) error {
	q := sqlf.InsertInto("assessments").
		Set("client_id", a.ClientID).
		Set("measured_at", a.MeasuredAt).
		Set("kind", a.Kind).
		Set("weight_kg", a.WeightKg).
		Set("height_cm", a.HeightCm).
		Set("bmi", a.BMI).
		Set("girth_neck", a.GirthNeck).
		Set("girth_shoulders", a.GirthShoulders).
		Set("girth_chest", a.GirthChest).
		Set("girth_waist", a.GirthWaist).
		Set("girth_hip", a.GirthHip).
		Set("girth_arm_right", a.GirthArmRight).
		Set("girth_arm_left", a.GirthArmLeft).
		Set("girth_forearm_right", a.GirthForearmRight).
		Set("girth_forearm_left", a.GirthForearmLeft).
		Set("girth_thigh_right", a.GirthThighRight).
		Set("girth_thigh_left", a.GirthThighLeft).
		Set("girth_calf_right", a.GirthCalfRight).
		Set("girth_calf_left", a.GirthCalfLeft).
		Set("body_fat_percent", a.BodyFatPercent).
		Set("muscle_mass", a.MuscleMass).
		Set("bone_mass", a.BoneMass).
		Set("body_water", a.BodyWater).
		Set("visceral_fat", a.VisceralFat).
		Set("skinfold_triceps", a.SkinfoldTriceps).
		Set("skinfold_subscapular", a.SkinfoldSubscapular).
		Set("skinfold_suprailiac", a.SkinfoldSuprailiac).
		Set("skinfold_abdominal", a.SkinfoldAbdominal).
		Set("skinfold_thigh", a.SkinfoldThigh).
		Set("pushups_1min", a.Pushups1Min).
		Set("situps_1min", a.Situps1Min).
		Set("squats_1min", a.Squats1Min).
		Set("plank_seconds", a.PlankSeconds).
		Set("flexibility_cm", a.FlexibilityCm).
		Set("resting_heart_rate", a.RestingHeartRate).
		Set("systolic_pressure", a.SystolicPressure).
		Set("diastolic_pressure", a.DiastolicPressure).
		Set("notes", a.Notes).
		Set("goals", a.Goals).
		Set("created_at", a.CreatedAt).
		Set("updated_at", a.UpdatedAt).
		Returning("assessment_id").To(&a.ID)

	if err := q.QueryRowAndClose(ctx, s.db); err != nil {
		if pgutil.IsForeignKeyViolation(err) {
			return client.ErrClientNotFound
		}
		return storage.InternalError(err)
	}

	return nil
}

func (s *PostgresStorage) get(
	ctx context.Context,
	modify func(stmt *sqlf.Stmt) *sqlf.Stmt,
) ([]*assessment.Assessment, error) {
	var tmp assessment.Assessment

	q := sqlf.From("assessments a").
		Select("a.assessment_id").To(&tmp.ID).
		Select("a.client_id").To(&tmp.ClientID).
		Select("a.measured_at").To(&tmp.MeasuredAt).
		Select("a.kind").To(&tmp.Kind).
		Select("a.weight_kg").To(&tmp.WeightKg).
		Select("a.height_cm").To(&tmp.HeightCm).
		Select("a.bmi").To(&tmp.BMI).
		Select("a.girth_neck").To(&tmp.GirthNeck).
		Select("a.girth_shoulders").To(&tmp.GirthShoulders).
		Select("a.girth_chest").To(&tmp.GirthChest).
		Select("a.girth_waist").To(&tmp.GirthWaist).
		Select("a.girth_hip").To(&tmp.GirthHip).
		Select("a.girth_arm_right").To(&tmp.GirthArmRight).
		Select("a.girth_arm_left").To(&tmp.GirthArmLeft).
		Select("a.girth_forearm_right").To(&tmp.GirthForearmRight).
		Select("a.girth_forearm_left").To(&tmp.GirthForearmLeft).
		Select("a.girth_thigh_right").To(&tmp.GirthThighRight).
		Select("a.girth_thigh_left").To(&tmp.GirthThighLeft).
		Select("a.girth_calf_right").To(&tmp.GirthCalfRight).
		Select("a.girth_calf_left").To(&tmp.GirthCalfLeft).
		Select("a.body_fat_percent").To(&tmp.BodyFatPercent).
		Select("a.muscle_mass").To(&tmp.MuscleMass).
		Select("a.bone_mass").To(&tmp.BoneMass).
		Select("a.body_water").To(&tmp.BodyWater).
		Select("a.visceral_fat").To(&tmp.VisceralFat).
		Select("a.skinfold_triceps").To(&tmp.SkinfoldTriceps).
		Select("a.skinfold_subscapular").To(&tmp.SkinfoldSubscapular).
		Select("a.skinfold_suprailiac").To(&tmp.SkinfoldSuprailiac).
		Select("a.skinfold_abdominal").To(&tmp.SkinfoldAbdominal).
		Select("a.skinfold_thigh").To(&tmp.SkinfoldThigh).
		Select("a.pushups_1min").To(&tmp.Pushups1Min).
		Select("a.situps_1min").To(&tmp.Situps1Min).
		Select("a.squats_1min").To(&tmp.Squats1Min).
		Select("a.plank_seconds").To(&tmp.PlankSeconds).
		Select("a.flexibility_cm").To(&tmp.FlexibilityCm).
		Select("a.resting_heart_rate").To(&tmp.RestingHeartRate).
		Select("a.systolic_pressure").To(&tmp.SystolicPressure).
		Select("a.diastolic_pressure").To(&tmp.DiastolicPressure).
		Select("a.notes").To(&tmp.Notes).
		Select("a.goals").To(&tmp.Goals).
		Select("a.created_at").To(&tmp.CreatedAt).
		Select("a.updated_at").To(&tmp.UpdatedAt)

	q = modify(q)

	var result []*assessment.Assessment

	err := q.QueryAndClose(ctx, s.db, func(rows *sql.Rows) {
		row := tmp
		result = append(result, &row)
	})

	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return result, nil
	}

	return nil, storage.InternalError(err)
}

func (s *PostgresStorage) GetByID(ctx context.Context, assessmentID int64) (*assessment.Assessment, error) {
	result, err := s.get(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.Where("a.assessment_id = ?", assessmentID)
	})
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, assessment.ErrAssessmentNotFound
	}
	return result[0], nil
}

// List returns assessments ordered most recent first, optionally narrowed to
// one client.
func (s *PostgresStorage) List(ctx context.Context, clientID *int64) ([]*assessment.Assessment, error) {
	return s.get(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		if clientID != nil {
			stmt = stmt.Where("a.client_id = ?", *clientID)
		}
		return stmt.OrderBy("a.measured_at DESC")
	})
}

// History returns every assessment of a client ordered by measurement date
// ascending, the order the progress comparison expects.
func (s *PostgresStorage) History(ctx context.Context, clientID int64) ([]*assessment.Assessment, error) {
	return s.get(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.Where("a.client_id = ?", clientID).OrderBy("a.measured_at ASC")
	})
}

func (s *PostgresStorage) Persist(ctx context.Context, before, after *assessment.Assessment) error {
	changes, err := diff.Diff(before, after)
	if err != nil {
		return storage.InternalError(err)
	}
	if len(changes) == 0 {
		return nil
	}

	q := pgutil.MakeUpdateQuery(
		sqlf.Update("assessments").Where("assessment_id = ?", after.ID),
		changes,
	)

	res, err := q.ExecAndClose(ctx, s.db)
	return pgutil.AssertUpdated(res, err, assessment.ErrAssessmentNotFound)
}

func (s *PostgresStorage) Delete(ctx context.Context, assessmentID int64) error {
	q := sqlf.DeleteFrom("assessments").Where("assessment_id = ?", assessmentID)
	res, err := q.ExecAndClose(ctx, s.db)
	return pgutil.AssertUpdated(res, err, assessment.ErrAssessmentNotFound)
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.events.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	return nil
}
