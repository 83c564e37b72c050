package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/gymops/go_gym_backend/internal/app/assessmentapp"
	"github.com/gymops/go_gym_backend/internal/app/unitofwork"
	"github.com/gymops/go_gym_backend/internal/domain/assessment"
	"github.com/gymops/go_gym_backend/internal/domain/client"
)

func (s *Server) MountAssessments() {
	loginRequired := LoginRequired(s.authService.Authorizer)

	assessments := s.handler.Group("/assessments", loginRequired)

	assessments.POST("", s.CreateAssessment)
	assessments.GET("", s.ListAssessments)
	assessments.GET("/:assessment_id", s.GetAssessment)
	assessments.PATCH("/:assessment_id", s.UpdateAssessment)
	assessments.DELETE("/:assessment_id", s.DeleteAssessment)
	assessments.GET("/client/:client_id/progress", s.ClientProgress)
}

func (s *Server) assessmentUoW() *unitofwork.UnitOfWork[*assessmentapp.AtomicContext] {
	return unitofwork.New[*assessmentapp.AtomicContext](s.db, assessmentapp.NewAtomicContext, s.msgBus, s.logger)
}

// measurements is the optional tail of an assessment payload, shared between
// the create and update requests.
type measurements struct {
	GirthNeck         *float64 `json:"girth_neck" validate:"omitempty,gt=0"`
	GirthShoulders    *float64 `json:"girth_shoulders" validate:"omitempty,gt=0"`
	GirthChest        *float64 `json:"girth_chest" validate:"omitempty,gt=0"`
	GirthWaist        *float64 `json:"girth_waist" validate:"omitempty,gt=0"`
	GirthHip          *float64 `json:"girth_hip" validate:"omitempty,gt=0"`
	GirthArmRight     *float64 `json:"girth_arm_right" validate:"omitempty,gt=0"`
	GirthArmLeft      *float64 `json:"girth_arm_left" validate:"omitempty,gt=0"`
	GirthForearmRight *float64 `json:"girth_forearm_right" validate:"omitempty,gt=0"`
	GirthForearmLeft  *float64 `json:"girth_forearm_left" validate:"omitempty,gt=0"`
	GirthThighRight   *float64 `json:"girth_thigh_right" validate:"omitempty,gt=0"`
	GirthThighLeft    *float64 `json:"girth_thigh_left" validate:"omitempty,gt=0"`
	GirthCalfRight    *float64 `json:"girth_calf_right" validate:"omitempty,gt=0"`
	GirthCalfLeft     *float64 `json:"girth_calf_left" validate:"omitempty,gt=0"`

	BodyFatPercent *float64 `json:"body_fat_percent" validate:"omitempty,gte=0,lte=100"`
	MuscleMass     *float64 `json:"muscle_mass" validate:"omitempty,gt=0"`
	BoneMass       *float64 `json:"bone_mass" validate:"omitempty,gt=0"`
	BodyWater      *float64 `json:"body_water" validate:"omitempty,gte=0,lte=100"`
	VisceralFat    *float64 `json:"visceral_fat" validate:"omitempty,gte=0"`

	SkinfoldTriceps     *float64 `json:"skinfold_triceps" validate:"omitempty,gt=0"`
	SkinfoldSubscapular *float64 `json:"skinfold_subscapular" validate:"omitempty,gt=0"`
	SkinfoldSuprailiac  *float64 `json:"skinfold_suprailiac" validate:"omitempty,gt=0"`
	SkinfoldAbdominal   *float64 `json:"skinfold_abdominal" validate:"omitempty,gt=0"`
	SkinfoldThigh       *float64 `json:"skinfold_thigh" validate:"omitempty,gt=0"`

	Pushups1Min   *int     `json:"pushups_1min" validate:"omitempty,gte=0"`
	Situps1Min    *int     `json:"situps_1min" validate:"omitempty,gte=0"`
	Squats1Min    *int     `json:"squats_1min" validate:"omitempty,gte=0"`
	PlankSeconds  *int     `json:"plank_seconds" validate:"omitempty,gte=0"`
	FlexibilityCm *float64 `json:"flexibility_cm"`

	RestingHeartRate  *int `json:"resting_heart_rate" validate:"omitempty,gt=0"`
	SystolicPressure  *int `json:"systolic_pressure" validate:"omitempty,gt=0"`
	DiastolicPressure *int `json:"diastolic_pressure" validate:"omitempty,gt=0"`

	Notes *string `json:"notes"`
	Goals *string `json:"goals"`
}

type createAssessmentReq struct {
	ClientID   int64           `json:"client_id" validate:"required,min=1"`
	MeasuredAt *string         `json:"measured_at" validate:"omitempty,datetime=2006-01-02"`
	Kind       assessment.Kind `json:"kind" validate:"omitempty,oneof=INITIAL FOLLOWUP FINAL"`
	WeightKg   float64         `json:"weight_kg" validate:"required,gt=0"`
	HeightCm   float64         `json:"height_cm" validate:"required,gt=0"`

	measurements
}

type assessmentResp struct {
	ID         int64           `json:"id"`
	ClientID   int64           `json:"client_id"`
	MeasuredAt string          `json:"measured_at"`
	Kind       assessment.Kind `json:"kind"`
	WeightKg   float64         `json:"weight_kg"`
	HeightCm   float64         `json:"height_cm"`
	BMI        *float64        `json:"bmi"`

	GirthNeck         *float64 `json:"girth_neck"`
	GirthShoulders    *float64 `json:"girth_shoulders"`
	GirthChest        *float64 `json:"girth_chest"`
	GirthWaist        *float64 `json:"girth_waist"`
	GirthHip          *float64 `json:"girth_hip"`
	GirthArmRight     *float64 `json:"girth_arm_right"`
	GirthArmLeft      *float64 `json:"girth_arm_left"`
	GirthForearmRight *float64 `json:"girth_forearm_right"`
	GirthForearmLeft  *float64 `json:"girth_forearm_left"`
	GirthThighRight   *float64 `json:"girth_thigh_right"`
	GirthThighLeft    *float64 `json:"girth_thigh_left"`
	GirthCalfRight    *float64 `json:"girth_calf_right"`
	GirthCalfLeft     *float64 `json:"girth_calf_left"`

	BodyFatPercent *float64 `json:"body_fat_percent"`
	MuscleMass     *float64 `json:"muscle_mass"`
	BoneMass       *float64 `json:"bone_mass"`
	BodyWater      *float64 `json:"body_water"`
	VisceralFat    *float64 `json:"visceral_fat"`

	SkinfoldTriceps     *float64 `json:"skinfold_triceps"`
	SkinfoldSubscapular *float64 `json:"skinfold_subscapular"`
	SkinfoldSuprailiac  *float64 `json:"skinfold_suprailiac"`
	SkinfoldAbdominal   *float64 `json:"skinfold_abdominal"`
	SkinfoldThigh       *float64 `json:"skinfold_thigh"`

	Pushups1Min   *int     `json:"pushups_1min"`
	Situps1Min    *int     `json:"situps_1min"`
	Squats1Min    *int     `json:"squats_1min"`
	PlankSeconds  *int     `json:"plank_seconds"`
	FlexibilityCm *float64 `json:"flexibility_cm"`

	RestingHeartRate  *int `json:"resting_heart_rate"`
	SystolicPressure  *int `json:"systolic_pressure"`
	DiastolicPressure *int `json:"diastolic_pressure"`

	Notes *string `json:"notes"`
	Goals *string `json:"goals"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func marshalAssessment(a *assessment.Assessment) *assessmentResp {
	return &assessmentResp{
		ID:         a.ID,
		ClientID:   a.ClientID,
		MeasuredAt: a.MeasuredAt.Format(dateLayout),
		Kind:       a.Kind,
		WeightKg:   a.WeightKg,
		HeightCm:   a.HeightCm,
		BMI:        a.BMI,

		GirthNeck:         a.GirthNeck,
		GirthShoulders:    a.GirthShoulders,
		GirthChest:        a.GirthChest,
		GirthWaist:        a.GirthWaist,
		GirthHip:          a.GirthHip,
		GirthArmRight:     a.GirthArmRight,
		GirthArmLeft:      a.GirthArmLeft,
		GirthForearmRight: a.GirthForearmRight,
		GirthForearmLeft:  a.GirthForearmLeft,
		GirthThighRight:   a.GirthThighRight,
		GirthThighLeft:    a.GirthThighLeft,
		GirthCalfRight:    a.GirthCalfRight,
		GirthCalfLeft:     a.GirthCalfLeft,

		BodyFatPercent: a.BodyFatPercent,
		MuscleMass:     a.MuscleMass,
		BoneMass:       a.BoneMass,
		BodyWater:      a.BodyWater,
		VisceralFat:    a.VisceralFat,

		SkinfoldTriceps:     a.SkinfoldTriceps,
		SkinfoldSubscapular: a.SkinfoldSubscapular,
		SkinfoldSuprailiac:  a.SkinfoldSuprailiac,
		SkinfoldAbdominal:   a.SkinfoldAbdominal,
		SkinfoldThigh:       a.SkinfoldThigh,

		Pushups1Min:   a.Pushups1Min,
		Situps1Min:    a.Situps1Min,
		Squats1Min:    a.Squats1Min,
		PlankSeconds:  a.PlankSeconds,
		FlexibilityCm: a.FlexibilityCm,

		RestingHeartRate:  a.RestingHeartRate,
		SystolicPressure:  a.SystolicPressure,
		DiastolicPressure: a.DiastolicPressure,

		Notes: a.Notes,
		Goals: a.Goals,

		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (m *measurements) apply(a *assessment.Assessment) {
	a.GirthNeck = m.GirthNeck
	a.GirthShoulders = m.GirthShoulders
	a.GirthChest = m.GirthChest
	a.GirthWaist = m.GirthWaist
	a.GirthHip = m.GirthHip
	a.GirthArmRight = m.GirthArmRight
	a.GirthArmLeft = m.GirthArmLeft
	a.GirthForearmRight = m.GirthForearmRight
	a.GirthForearmLeft = m.GirthForearmLeft
	a.GirthThighRight = m.GirthThighRight
	a.GirthThighLeft = m.GirthThighLeft
	a.GirthCalfRight = m.GirthCalfRight
	a.GirthCalfLeft = m.GirthCalfLeft

	a.BodyFatPercent = m.BodyFatPercent
	a.MuscleMass = m.MuscleMass
	a.BoneMass = m.BoneMass
	a.BodyWater = m.BodyWater
	a.VisceralFat = m.VisceralFat

	a.SkinfoldTriceps = m.SkinfoldTriceps
	a.SkinfoldSubscapular = m.SkinfoldSubscapular
	a.SkinfoldSuprailiac = m.SkinfoldSuprailiac
	a.SkinfoldAbdominal = m.SkinfoldAbdominal
	a.SkinfoldThigh = m.SkinfoldThigh

	a.Pushups1Min = m.Pushups1Min
	a.Situps1Min = m.Situps1Min
	a.Squats1Min = m.Squats1Min
	a.PlankSeconds = m.PlankSeconds
	a.FlexibilityCm = m.FlexibilityCm

	a.RestingHeartRate = m.RestingHeartRate
	a.SystolicPressure = m.SystolicPressure
	a.DiastolicPressure = m.DiastolicPressure

	a.Notes = m.Notes
	a.Goals = m.Goals
}

func (s *Server) CreateAssessment(c echo.Context) error {
	var b createAssessmentReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}
	if b.Kind == "" {
		b.Kind = assessment.KindFollowUp
	}

	a := &assessment.Assessment{
		ClientID: b.ClientID,
		Kind:     b.Kind,
		WeightKg: b.WeightKg,
		HeightCm: b.HeightCm,
	}
	if b.MeasuredAt != nil {
		measuredAt, err := time.Parse(dateLayout, *b.MeasuredAt)
		if err != nil {
			return JsonError(c, http.StatusBadRequest, "measured_at: invalid date")
		}
		a.MeasuredAt = measuredAt
	}
	b.measurements.apply(a)

	if err := s.assessmentService.Create(c.Request().Context(), s.assessmentUoW(), a); err != nil {
		return s.assessmentError(c, err)
	}
	return c.JSON(http.StatusCreated, marshalAssessment(a))
}

type listAssessmentsReq struct {
	ClientID *int64 `query:"client_id" validate:"omitempty,min=1"`
}

func (s *Server) ListAssessments(c echo.Context) error {
	var b listAssessmentsReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	list, err := s.assessmentService.List(c.Request().Context(), s.assessmentUoW(), b.ClientID)
	if err != nil {
		return s.assessmentError(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(list, func(a *assessment.Assessment, _ int) *assessmentResp {
		return marshalAssessment(a)
	}))
}

type assessmentIDReq struct {
	AssessmentID int64 `param:"assessment_id" validate:"required,min=1"`
}

func (s *Server) GetAssessment(c echo.Context) error {
	var b assessmentIDReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	a, err := s.assessmentService.Get(c.Request().Context(), s.assessmentUoW(), b.AssessmentID)
	if err != nil {
		return s.assessmentError(c, err)
	}
	return c.JSON(http.StatusOK, marshalAssessment(a))
}

type updateAssessmentReq struct {
	AssessmentID int64            `param:"assessment_id" validate:"required,min=1"`
	Kind         *assessment.Kind `json:"kind" validate:"omitempty,oneof=INITIAL FOLLOWUP FINAL"`
	WeightKg     *float64         `json:"weight_kg" validate:"omitempty,gt=0"`
	HeightCm     *float64         `json:"height_cm" validate:"omitempty,gt=0"`

	measurements
}

func (s *Server) UpdateAssessment(c echo.Context) error {
	var b updateAssessmentReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	patch := &assessment.Patch{
		Kind:     b.Kind,
		WeightKg: b.WeightKg,
		HeightCm: b.HeightCm,

		GirthNeck:         b.GirthNeck,
		GirthShoulders:    b.GirthShoulders,
		GirthChest:        b.GirthChest,
		GirthWaist:        b.GirthWaist,
		GirthHip:          b.GirthHip,
		GirthArmRight:     b.GirthArmRight,
		GirthArmLeft:      b.GirthArmLeft,
		GirthForearmRight: b.GirthForearmRight,
		GirthForearmLeft:  b.GirthForearmLeft,
		GirthThighRight:   b.GirthThighRight,
		GirthThighLeft:    b.GirthThighLeft,
		GirthCalfRight:    b.GirthCalfRight,
		GirthCalfLeft:     b.GirthCalfLeft,

		BodyFatPercent: b.BodyFatPercent,
		MuscleMass:     b.MuscleMass,
		BoneMass:       b.BoneMass,
		BodyWater:      b.BodyWater,
		VisceralFat:    b.VisceralFat,

		SkinfoldTriceps:     b.SkinfoldTriceps,
		SkinfoldSubscapular: b.SkinfoldSubscapular,
		SkinfoldSuprailiac:  b.SkinfoldSuprailiac,
		SkinfoldAbdominal:   b.SkinfoldAbdominal,
		SkinfoldThigh:       b.SkinfoldThigh,

		Pushups1Min:   b.Pushups1Min,
		Situps1Min:    b.Situps1Min,
		Squats1Min:    b.Squats1Min,
		PlankSeconds:  b.PlankSeconds,
		FlexibilityCm: b.FlexibilityCm,

		RestingHeartRate:  b.RestingHeartRate,
		SystolicPressure:  b.SystolicPressure,
		DiastolicPressure: b.DiastolicPressure,

		Notes: b.Notes,
		Goals: b.Goals,
	}

	a, err := s.assessmentService.Update(c.Request().Context(), s.assessmentUoW(), b.AssessmentID, patch)
	if err != nil {
		return s.assessmentError(c, err)
	}
	return c.JSON(http.StatusOK, marshalAssessment(a))
}

func (s *Server) DeleteAssessment(c echo.Context) error {
	var b assessmentIDReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	if err := s.assessmentService.Delete(c.Request().Context(), s.assessmentUoW(), b.AssessmentID); err != nil {
		return s.assessmentError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type progressSnapshot struct {
	Date           string   `json:"date"`
	WeightKg       float64  `json:"weight_kg"`
	BMI            *float64 `json:"bmi"`
	BodyFatPercent *float64 `json:"body_fat_percent"`
	MuscleMass     *float64 `json:"muscle_mass"`
}

type progressChanges struct {
	WeightKg       float64  `json:"weight_kg"`
	BMI            float64  `json:"bmi"`
	BodyFatPercent *float64 `json:"body_fat_percent,omitempty"`
	MuscleMass     *float64 `json:"muscle_mass,omitempty"`
}

type progressResp struct {
	First            progressSnapshot `json:"first_assessment"`
	Last             progressSnapshot `json:"last_assessment"`
	Changes          progressChanges  `json:"changes"`
	TotalAssessments int              `json:"total_assessments"`
	ElapsedDays      int              `json:"elapsed_days"`
}

type progressSentinelResp struct {
	Message          string `json:"message"`
	TotalAssessments int    `json:"total_assessments"`
}

func marshalSnapshot(sn assessment.Snapshot) progressSnapshot {
	return progressSnapshot{
		Date:           sn.MeasuredAt.Format(dateLayout),
		WeightKg:       sn.WeightKg,
		BMI:            sn.BMI,
		BodyFatPercent: sn.BodyFatPercent,
		MuscleMass:     sn.MuscleMass,
	}
}

// ClientProgress compares a client's first and last assessment. With fewer
// than two on record it answers 200 with an explanatory message instead of an
// error: an empty history is a normal state for new clients.
func (s *Server) ClientProgress(c echo.Context) error {
	var b clientIDReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	p, total, err := s.assessmentService.Progress(c.Request().Context(), s.assessmentUoW(), b.ClientID)
	if err != nil {
		return s.assessmentError(c, err)
	}
	if p == nil {
		return c.JSON(http.StatusOK, &progressSentinelResp{
			Message:          "at least two assessments are required to compute progress",
			TotalAssessments: total,
		})
	}

	return c.JSON(http.StatusOK, &progressResp{
		First:            marshalSnapshot(p.First),
		Last:             marshalSnapshot(p.Last),
		Changes: progressChanges{
			WeightKg:       p.Changes.WeightKg,
			BMI:            p.Changes.BMI,
			BodyFatPercent: p.Changes.BodyFatPercent,
			MuscleMass:     p.Changes.MuscleMass,
		},
		TotalAssessments: p.TotalAssessments,
		ElapsedDays:      p.ElapsedDays,
	})
}

func (s *Server) assessmentError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, assessment.ErrAssessmentNotFound):
		return JsonError(c, http.StatusNotFound, "assessment not found")
	case errors.Is(err, client.ErrClientNotFound):
		return JsonError(c, http.StatusNotFound, "client not found")
	default:
		return JsonError(c, http.StatusInternalServerError, err)
	}
}
