package assessment

import "time"

// Snapshot is the slice of an assessment that the progress comparison exposes.
type Snapshot struct {
	MeasuredAt     time.Time
	WeightKg       float64
	BMI            *float64
	BodyFatPercent *float64
	MuscleMass     *float64
}

// Changes holds the deltas between the first and last snapshot.
//
// The BMI delta substitutes 0 for a missing BMI before subtracting, while the
// body-fat and muscle-mass deltas are reported only when both endpoints carry
// a non-nil, non-zero value. The asymmetry is inherited behavior and is kept
// as is.
type Changes struct {
	WeightKg       float64
	BMI            float64
	BodyFatPercent *float64
	MuscleMass     *float64
}

type Progress struct {
	First            Snapshot
	Last             Snapshot
	Changes          Changes
	TotalAssessments int
	ElapsedDays      int
}

// ComputeProgress compares the chronologically first and last of the given
// assessments, which must be ordered by measurement date ascending. It
// returns false when fewer than two assessments exist; intermediate
// assessments only contribute to the total count.
func ComputeProgress(history []*Assessment) (*Progress, bool) {
	if len(history) < 2 {
		return nil, false
	}

	first := history[0]
	last := history[len(history)-1]

	changes := Changes{
		WeightKg: round2(last.WeightKg - first.WeightKg),
		BMI:      round2(deref(last.BMI) - deref(first.BMI)),
	}
	if bothSet(first.BodyFatPercent, last.BodyFatPercent) {
		d := round2(*last.BodyFatPercent - *first.BodyFatPercent)
		changes.BodyFatPercent = &d
	}
	if bothSet(first.MuscleMass, last.MuscleMass) {
		d := round2(*last.MuscleMass - *first.MuscleMass)
		changes.MuscleMass = &d
	}

	return &Progress{
		First:            snapshot(first),
		Last:             snapshot(last),
		Changes:          changes,
		TotalAssessments: len(history),
		ElapsedDays:      int(last.MeasuredAt.Sub(first.MeasuredAt).Hours() / 24),
	}, true
}

func snapshot(a *Assessment) Snapshot {
	return Snapshot{
		MeasuredAt:     a.MeasuredAt,
		WeightKg:       a.WeightKg,
		BMI:            a.BMI,
		BodyFatPercent: a.BodyFatPercent,
		MuscleMass:     a.MuscleMass,
	}
}

func bothSet(a, b *float64) bool {
	return a != nil && *a != 0 && b != nil && *b != 0
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
