package domain

type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

type Trend struct {
	Direction        TrendDirection `json:"direction"`
	MagnitudePercent int            `json:"magnitude_percent"`
}

// CalculateTrend compares current against previous as a rounded percentage.
// A zero baseline reads as +100% for any non-zero current and stable for zero.
func CalculateTrend(current, previous float64) Trend {
	var magnitude int
	switch {
	case previous == 0 && current == 0:
		magnitude = 0
	case previous == 0:
		magnitude = 100
	default:
		magnitude = roundHalfUp((current - previous) / previous * 100)
	}

	direction := TrendStable
	if magnitude > 0 {
		direction = TrendUp
	} else if magnitude < 0 {
		direction = TrendDown
	}
	return Trend{Direction: direction, MagnitudePercent: magnitude}
}

// PeriodTrends holds the trends a report shows between two periods.
type PeriodTrends struct {
	WorkoutCompletion Trend `json:"workout_completion"`
	AvgCalories       Trend `json:"avg_calories"`
	AvgProtein        Trend `json:"avg_protein"`
	Hydration         Trend `json:"hydration"`
	AvgScore          Trend `json:"avg_score"`
	XPGained          Trend `json:"xp_gained"`
}

func ComparePeriods(current, previous PeriodSummary) PeriodTrends {
	return PeriodTrends{
		WorkoutCompletion: CalculateTrend(float64(current.Workouts.CompletionRate), float64(previous.Workouts.CompletionRate)),
		AvgCalories:       CalculateTrend(current.Nutrition.AvgCalories, previous.Nutrition.AvgCalories),
		AvgProtein:        CalculateTrend(current.Nutrition.AvgProtein, previous.Nutrition.AvgProtein),
		Hydration:         CalculateTrend(current.Hydration.AvgDaily, previous.Hydration.AvgDaily),
		AvgScore:          CalculateTrend(current.Score.Average, previous.Score.Average),
		XPGained:          CalculateTrend(float64(current.Gamification.XPGained), float64(previous.Gamification.XPGained)),
	}
}
