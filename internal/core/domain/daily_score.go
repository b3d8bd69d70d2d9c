package domain

import (
	"math"
	"time"
)

// Maximum points per daily score category. A perfect day sums to 100.
const (
	WorkoutScoreMax   = 30
	HydrationScoreMax = 30
	NutritionScoreMax = 25
	ExtrasScoreMax    = 15

	pointsPerMeal = 5

	// PerfectDayScore is the near-perfect threshold counted as a perfect day.
	PerfectDayScore = 95
)

// DaySignals are the inputs for one calendar day.
type DaySignals struct {
	WorkoutCompleted bool `json:"workout_completed"`
	WaterMl          int  `json:"water_ml"`
	WaterTargetMl    int  `json:"water_target_ml"`
	MealsLoggedCount int  `json:"meals_logged_count"`
	SleepLogged      bool `json:"sleep_logged"`
}

type DailyScoreBreakdown struct {
	Date      time.Time `json:"date"`
	Total     int       `json:"total"`
	Workout   int       `json:"workout"`
	Nutrition int       `json:"nutrition"`
	Hydration int       `json:"hydration"`
	Extras    int       `json:"extras"`
}

// ComposeDailyScore scores a single day on the 30/30/25/15 scale.
func ComposeDailyScore(s DaySignals) DailyScoreBreakdown {
	var b DailyScoreBreakdown

	if s.WorkoutCompleted {
		b.Workout = WorkoutScoreMax
	}

	if s.WaterTargetMl > 0 {
		ratio := math.Min(float64(nonNegative(s.WaterMl))/float64(s.WaterTargetMl), 1)
		b.Hydration = clampInt(roundHalfUp(ratio*HydrationScoreMax), 0, HydrationScoreMax)
	}

	b.Nutrition = clampInt(nonNegative(s.MealsLoggedCount)*pointsPerMeal, 0, NutritionScoreMax)

	if s.SleepLogged {
		b.Extras = ExtrasScoreMax
	}

	b.Total = clampInt(b.Workout+b.Nutrition+b.Hydration+b.Extras, 0, 100)
	return b
}
