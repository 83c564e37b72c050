package assessment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(offset int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestComputeProgress_RequiresTwoAssessments(t *testing.T) {
	p, ok := ComputeProgress(nil)
	assert.False(t, ok)
	assert.Nil(t, p)

	p, ok = ComputeProgress([]*Assessment{{WeightKg: 85, HeightCm: 175}})
	assert.False(t, ok)
	assert.Nil(t, p)
}

func TestComputeProgress(t *testing.T) {
	first := &Assessment{
		MeasuredAt:     day(0),
		WeightKg:       85,
		HeightCm:       175,
		BodyFatPercent: fptr(28.5),
		MuscleMass:     fptr(32),
	}
	first.Recompute()
	last := &Assessment{
		MeasuredAt:     day(180),
		WeightKg:       76.5,
		HeightCm:       175,
		BodyFatPercent: fptr(20.5),
		MuscleMass:     fptr(34.5),
	}
	last.Recompute()

	p, ok := ComputeProgress([]*Assessment{first, last})
	require.True(t, ok)

	assert.InDelta(t, -8.5, p.Changes.WeightKg, 0.001)
	assert.InDelta(t, -2.78, p.Changes.BMI, 0.001)
	require.NotNil(t, p.Changes.BodyFatPercent)
	assert.InDelta(t, -8.0, *p.Changes.BodyFatPercent, 0.001)
	require.NotNil(t, p.Changes.MuscleMass)
	assert.InDelta(t, 2.5, *p.Changes.MuscleMass, 0.001)

	assert.Equal(t, 2, p.TotalAssessments)
	assert.Equal(t, 180, p.ElapsedDays)
	assert.Equal(t, day(0), p.First.MeasuredAt)
	assert.Equal(t, day(180), p.Last.MeasuredAt)
	assert.Equal(t, 85.0, p.First.WeightKg)
	assert.Equal(t, 76.5, p.Last.WeightKg)
}

func TestComputeProgress_IntermediateOnlyCounts(t *testing.T) {
	history := []*Assessment{
		{MeasuredAt: day(0), WeightKg: 90, HeightCm: 175},
		{MeasuredAt: day(30), WeightKg: 120, HeightCm: 175},
		{MeasuredAt: day(60), WeightKg: 88, HeightCm: 175},
	}

	p, ok := ComputeProgress(history)
	require.True(t, ok)

	// The middle assessment contributes to the total only.
	assert.InDelta(t, -2, p.Changes.WeightKg, 0.001)
	assert.Equal(t, 3, p.TotalAssessments)
	assert.Equal(t, 60, p.ElapsedDays)
}

func TestComputeProgress_MissingBMISubstitutesZero(t *testing.T) {
	history := []*Assessment{
		{MeasuredAt: day(0), WeightKg: 85, HeightCm: 175},
		{MeasuredAt: day(90), WeightKg: 80, HeightCm: 175, BMI: fptr(26.12)},
	}

	p, ok := ComputeProgress(history)
	require.True(t, ok)

	// A missing endpoint BMI counts as zero, so the delta degenerates to
	// the other endpoint's value.
	assert.InDelta(t, 26.12, p.Changes.BMI, 0.001)
}

func TestComputeProgress_OptionalDeltasNeedBothEndpoints(t *testing.T) {
	tests := []struct {
		name  string
		first *float64
		last  *float64
	}{
		{"first nil", nil, fptr(20.5)},
		{"last nil", fptr(28.5), nil},
		{"first zero", fptr(0), fptr(20.5)},
		{"last zero", fptr(28.5), fptr(0)},
		{"both nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := []*Assessment{
				{MeasuredAt: day(0), WeightKg: 85, HeightCm: 175, BodyFatPercent: tt.first, MuscleMass: tt.first},
				{MeasuredAt: day(90), WeightKg: 80, HeightCm: 175, BodyFatPercent: tt.last, MuscleMass: tt.last},
			}

			p, ok := ComputeProgress(history)
			require.True(t, ok)
			assert.Nil(t, p.Changes.BodyFatPercent)
			assert.Nil(t, p.Changes.MuscleMass)
		})
	}
}

func TestComputeProgress_PartialDays(t *testing.T) {
	history := []*Assessment{
		{MeasuredAt: day(0), WeightKg: 85, HeightCm: 175},
		{MeasuredAt: day(0).Add(36 * time.Hour), WeightKg: 84, HeightCm: 175},
	}

	p, ok := ComputeProgress(history)
	require.True(t, ok)
	assert.Equal(t, 1, p.ElapsedDays)
}
