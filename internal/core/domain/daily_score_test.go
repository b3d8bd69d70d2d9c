package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeDailyScore(t *testing.T) {
	tests := []struct {
		name    string
		signals DaySignals
		want    DailyScoreBreakdown
	}{
		{
			name:    "Empty day",
			signals: DaySignals{WaterTargetMl: 2000},
			want:    DailyScoreBreakdown{},
		},
		{
			name: "Perfect day sums to 100",
			signals: DaySignals{
				WorkoutCompleted: true,
				WaterMl:          2000,
				WaterTargetMl:    2000,
				MealsLoggedCount: 5,
				SleepLogged:      true,
			},
			want: DailyScoreBreakdown{Total: 100, Workout: 30, Hydration: 30, Nutrition: 25, Extras: 15},
		},
		{
			name:    "Hydration rounds half up",
			signals: DaySignals{WaterMl: 250, WaterTargetMl: 1000},
			want:    DailyScoreBreakdown{Total: 8, Hydration: 8},
		},
		{
			name:    "Hydration is capped above target",
			signals: DaySignals{WaterMl: 5000, WaterTargetMl: 2000},
			want:    DailyScoreBreakdown{Total: 30, Hydration: 30},
		},
		{
			name:    "Huge intake still caps hydration",
			signals: DaySignals{WaterMl: math.MaxInt, WaterTargetMl: 1},
			want:    DailyScoreBreakdown{Total: 30, Hydration: 30},
		},
		{
			name:    "Zero water target scores no hydration",
			signals: DaySignals{WaterMl: 1500, WaterTargetMl: 0},
			want:    DailyScoreBreakdown{},
		},
		{
			name:    "Meals are capped at 25",
			signals: DaySignals{MealsLoggedCount: 9},
			want:    DailyScoreBreakdown{Total: 25, Nutrition: 25},
		},
		{
			name:    "Negative inputs clamp to zero",
			signals: DaySignals{WaterMl: -400, WaterTargetMl: 2000, MealsLoggedCount: -2},
			want:    DailyScoreBreakdown{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComposeDailyScore(tt.signals))
		})
	}
}

// Two historical weightings existed for the workout component: 30 on the
// dashboard and 40 in the weekly report. With 40 a perfect day would score
// 110 and get clamped, hiding 10 points of the other categories. The 30-point
// weighting is the one applied everywhere.
func TestComposeDailyScore_WorkoutWeightIsThirty(t *testing.T) {
	workoutOnly := ComposeDailyScore(DaySignals{WorkoutCompleted: true})
	assert.Equal(t, 30, workoutOnly.Workout)
	assert.NotEqual(t, 40, workoutOnly.Workout)

	assert.Equal(t, 100, WorkoutScoreMax+HydrationScoreMax+NutritionScoreMax+ExtrasScoreMax)
}

func TestComposeDailyScore_PerfectDayThreshold(t *testing.T) {
	nearPerfect := ComposeDailyScore(DaySignals{
		WorkoutCompleted: true,
		WaterMl:          1800,
		WaterTargetMl:    2000,
		MealsLoggedCount: 5,
		SleepLogged:      true,
	})

	assert.Equal(t, 97, nearPerfect.Total)
	assert.GreaterOrEqual(t, nearPerfect.Total, PerfectDayScore)
}
