package assessment

import (
	"errors"
	"math"
	"time"
)

var (
	ErrAssessmentNotFound = errors.New("assessment not found")
)

type Kind string

const (
	KindInitial  Kind = "INITIAL"
	KindFollowUp Kind = "FOLLOWUP"
	KindFinal    Kind = "FINAL"
)

func (k Kind) Valid() bool {
	return k == KindInitial || k == KindFollowUp || k == KindFinal
}

// Assessment is a dated physical-measurement snapshot for one client.
// Weight and height are required; everything else is optional.
type Assessment struct {
	ID         int64     `diff:"-"`
	ClientID   int64     `diff:"-"`
	MeasuredAt time.Time `diff:"-"`
	Kind       Kind      `diff:"kind"`

	WeightKg float64  `diff:"weight_kg"`
	HeightCm float64  `diff:"height_cm"`
	BMI      *float64 `diff:"bmi"`

	// Girths, in cm.
	GirthNeck         *float64 `diff:"girth_neck"`
	GirthShoulders    *float64 `diff:"girth_shoulders"`
	GirthChest        *float64 `diff:"girth_chest"`
	GirthWaist        *float64 `diff:"girth_waist"`
	GirthHip          *float64 `diff:"girth_hip"`
	GirthArmRight     *float64 `diff:"girth_arm_right"`
	GirthArmLeft      *float64 `diff:"girth_arm_left"`
	GirthForearmRight *float64 `diff:"girth_forearm_right"`
	GirthForearmLeft  *float64 `diff:"girth_forearm_left"`
	GirthThighRight   *float64 `diff:"girth_thigh_right"`
	GirthThighLeft    *float64 `diff:"girth_thigh_left"`
	GirthCalfRight    *float64 `diff:"girth_calf_right"`
	GirthCalfLeft     *float64 `diff:"girth_calf_left"`

	// Body composition.
	BodyFatPercent *float64 `diff:"body_fat_percent"`
	MuscleMass     *float64 `diff:"muscle_mass"`
	BoneMass       *float64 `diff:"bone_mass"`
	BodyWater      *float64 `diff:"body_water"`
	VisceralFat    *float64 `diff:"visceral_fat"`

	// Skinfolds, in mm.
	SkinfoldTriceps     *float64 `diff:"skinfold_triceps"`
	SkinfoldSubscapular *float64 `diff:"skinfold_subscapular"`
	SkinfoldSuprailiac  *float64 `diff:"skinfold_suprailiac"`
	SkinfoldAbdominal   *float64 `diff:"skinfold_abdominal"`
	SkinfoldThigh       *float64 `diff:"skinfold_thigh"`

	// Performance tests.
	Pushups1Min   *int     `diff:"pushups_1min"`
	Situps1Min    *int     `diff:"situps_1min"`
	Squats1Min    *int     `diff:"squats_1min"`
	PlankSeconds  *int     `diff:"plank_seconds"`
	FlexibilityCm *float64 `diff:"flexibility_cm"`

	// Cardiovascular.
	RestingHeartRate  *int `diff:"resting_heart_rate"`
	SystolicPressure  *int `diff:"systolic_pressure"`
	DiastolicPressure *int `diff:"diastolic_pressure"`

	Notes *string `diff:"notes"`
	Goals *string `diff:"goals"`

	CreatedAt time.Time `diff:"-"`
	UpdatedAt time.Time `diff:"updated_at"`
}

// BMI computes the body mass index for a weight in kilograms and a height in
// centimeters, rounded to two decimals.
func BMI(weightKg, heightCm float64) float64 {
	heightM := heightCm / 100
	return round2(weightKg / (heightM * heightM))
}

// Recompute refreshes the stored BMI from the current weight and height.
func (a *Assessment) Recompute() {
	bmi := BMI(a.WeightKg, a.HeightCm)
	a.BMI = &bmi
}

// Patch carries a partial assessment update. Nil fields are left untouched.
type Patch struct {
	Kind     *Kind
	WeightKg *float64
	HeightCm *float64

	GirthNeck         *float64
	GirthShoulders    *float64
	GirthChest        *float64
	GirthWaist        *float64
	GirthHip          *float64
	GirthArmRight     *float64
	GirthArmLeft      *float64
	GirthForearmRight *float64
	GirthForearmLeft  *float64
	GirthThighRight   *float64
	GirthThighLeft    *float64
	GirthCalfRight    *float64
	GirthCalfLeft     *float64

	BodyFatPercent *float64
	MuscleMass     *float64
	BoneMass       *float64
	BodyWater      *float64
	VisceralFat    *float64

	SkinfoldTriceps     *float64
	SkinfoldSubscapular *float64
	SkinfoldSuprailiac  *float64
	SkinfoldAbdominal   *float64
	SkinfoldThigh       *float64

	Pushups1Min   *int
	Situps1Min    *int
	Squats1Min    *int
	PlankSeconds  *int
	FlexibilityCm *float64

	RestingHeartRate  *int
	SystolicPressure  *int
	DiastolicPressure *int

	Notes *string
	Goals *string
}

// Apply merges the patch into the assessment. The BMI is recomputed only when
// the patch touches weight or height, always from the post-merge values.
// The updated_at timestamp is touched unconditionally.
func (p *Patch) Apply(a *Assessment) {
	if p.Kind != nil {
		a.Kind = *p.Kind
	}
	if p.WeightKg != nil {
		a.WeightKg = *p.WeightKg
	}
	if p.HeightCm != nil {
		a.HeightCm = *p.HeightCm
	}

	setF := func(dst **float64, src *float64) {
		if src != nil {
			*dst = src
		}
	}
	setI := func(dst **int, src *int) {
		if src != nil {
			*dst = src
		}
	}

	setF(&a.GirthNeck, p.GirthNeck)
	setF(&a.GirthShoulders, p.GirthShoulders)
	setF(&a.GirthChest, p.GirthChest)
	setF(&a.GirthWaist, p.GirthWaist)
	setF(&a.GirthHip, p.GirthHip)
	setF(&a.GirthArmRight, p.GirthArmRight)
	setF(&a.GirthArmLeft, p.GirthArmLeft)
	setF(&a.GirthForearmRight, p.GirthForearmRight)
	setF(&a.GirthForearmLeft, p.GirthForearmLeft)
	setF(&a.GirthThighRight, p.GirthThighRight)
	setF(&a.GirthThighLeft, p.GirthThighLeft)
	setF(&a.GirthCalfRight, p.GirthCalfRight)
	setF(&a.GirthCalfLeft, p.GirthCalfLeft)

	setF(&a.BodyFatPercent, p.BodyFatPercent)
	setF(&a.MuscleMass, p.MuscleMass)
	setF(&a.BoneMass, p.BoneMass)
	setF(&a.BodyWater, p.BodyWater)
	setF(&a.VisceralFat, p.VisceralFat)

	setF(&a.SkinfoldTriceps, p.SkinfoldTriceps)
	setF(&a.SkinfoldSubscapular, p.SkinfoldSubscapular)
	setF(&a.SkinfoldSuprailiac, p.SkinfoldSuprailiac)
	setF(&a.SkinfoldAbdominal, p.SkinfoldAbdominal)
	setF(&a.SkinfoldThigh, p.SkinfoldThigh)

	setI(&a.Pushups1Min, p.Pushups1Min)
	setI(&a.Situps1Min, p.Situps1Min)
	setI(&a.Squats1Min, p.Squats1Min)
	setI(&a.PlankSeconds, p.PlankSeconds)
	setF(&a.FlexibilityCm, p.FlexibilityCm)

	setI(&a.RestingHeartRate, p.RestingHeartRate)
	setI(&a.SystolicPressure, p.SystolicPressure)
	setI(&a.DiastolicPressure, p.DiastolicPressure)

	if p.Notes != nil {
		a.Notes = p.Notes
	}
	if p.Goals != nil {
		a.Goals = p.Goals
	}

	if p.WeightKg != nil || p.HeightCm != nil {
		a.Recompute()
	}
	a.UpdatedAt = time.Now().UTC()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
