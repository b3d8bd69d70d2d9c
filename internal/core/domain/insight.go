package domain

import "fmt"

type InsightType string

const (
	InsightWarning     InsightType = "warning"
	InsightTip         InsightType = "tip"
	InsightCelebration InsightType = "celebration"
	InsightTrend       InsightType = "trend"
	InsightAchievement InsightType = "achievement"
)

type InsightPriority string

const (
	PriorityCritical InsightPriority = "critical"
	PriorityHigh     InsightPriority = "high"
	PriorityMedium   InsightPriority = "medium"
	PriorityLow      InsightPriority = "low"
)

type InsightCategory string

const (
	InsightCategoryActivity  InsightCategory = "activity"
	InsightCategoryWorkout   InsightCategory = "workout"
	InsightCategoryNutrition InsightCategory = "nutrition"
	InsightCategoryHydration InsightCategory = "hydration"
	InsightCategoryScore     InsightCategory = "score"
	InsightCategoryStreak    InsightCategory = "streak"
	InsightCategoryProgress  InsightCategory = "progress"
)

type Insight struct {
	Type     InsightType     `json:"type"`
	Category InsightCategory `json:"category"`
	Priority InsightPriority `json:"priority"`
	Title    string          `json:"title"`
	Message  string          `json:"message"`
}

// Thresholds used by the insight rules.
const (
	workoutDropPercent     = 20
	lowCompletionRate      = 50
	highCompletionRate     = 80
	lowHydrationRate       = 50
	scoreTrendPercent      = 10
	perfectDaysCelebration = 3
	streakCelebrationDays  = 7
	minDaysForGapWarnings  = 3
)

type insightRule func(current PeriodSummary, previous *PeriodSummary) (Insight, bool)

var insightRules = []insightRule{
	noActivityRule,
	workoutRule,
	hydrationRule,
	proteinRule,
	calorieRule,
	scoreTrendRule,
	perfectDaysRule,
	streakRule,
	achievementsRule,
	levelUpRule,
}

// GenerateInsights runs every rule in a fixed order. Each rule yields at most
// one insight; previous may be nil when there is nothing to compare against.
func GenerateInsights(current PeriodSummary, previous *PeriodSummary) []Insight {
	insights := make([]Insight, 0, len(insightRules))
	for _, rule := range insightRules {
		if insight, ok := rule(current, previous); ok {
			insights = append(insights, insight)
		}
	}
	return insights
}

func noActivityRule(cur PeriodSummary, _ *PeriodSummary) (Insight, bool) {
	if cur.ActiveDays > 0 || cur.Days <= minDaysForGapWarnings {
		return Insight{}, false
	}
	return Insight{
		Type:     InsightWarning,
		Category: InsightCategoryActivity,
		Priority: PriorityCritical,
		Title:    "No activity logged",
		Message:  fmt.Sprintf("Nothing was logged in the last %d days. Start small: log one meal or a glass of water today.", cur.Days),
	}, true
}

func workoutRule(cur PeriodSummary, prev *PeriodSummary) (Insight, bool) {
	rate := cur.Workouts.CompletionRate
	if prev != nil && prev.Workouts.CompletionRate > 0 {
		trend := CalculateTrend(float64(rate), float64(prev.Workouts.CompletionRate))
		if trend.MagnitudePercent < -workoutDropPercent {
			return Insight{
				Type:     InsightWarning,
				Category: InsightCategoryWorkout,
				Priority: PriorityHigh,
				Title:    "Workout consistency dropped",
				Message:  fmt.Sprintf("Workout completion fell from %d%% to %d%% compared to the previous period.", prev.Workouts.CompletionRate, rate),
			}, true
		}
	}

	switch {
	case cur.Days >= minDaysForGapWarnings && rate < lowCompletionRate:
		return Insight{
			Type:     InsightWarning,
			Category: InsightCategoryWorkout,
			Priority: PriorityMedium,
			Title:    "Workouts are falling behind",
			Message:  fmt.Sprintf("You completed %d of %d planned workouts (%d%%). Try scheduling shorter sessions.", cur.Workouts.Completed, cur.Workouts.Planned, rate),
		}, true
	case rate >= highCompletionRate:
		return Insight{
			Type:     InsightCelebration,
			Category: InsightCategoryWorkout,
			Priority: PriorityLow,
			Title:    "Great workout consistency",
			Message:  fmt.Sprintf("You completed %d%% of your planned workouts. Keep it up!", rate),
		}, true
	}
	return Insight{}, false
}

func hydrationRule(cur PeriodSummary, _ *PeriodSummary) (Insight, bool) {
	if cur.Hydration.DaysLogged == 0 {
		return Insight{
			Type:     InsightTip,
			Category: InsightCategoryHydration,
			Priority: PriorityMedium,
			Title:    "Track your water",
			Message:  "No water was logged in this period. Logging each glass makes the daily target easier to hit.",
		}, true
	}
	if cur.Hydration.TargetRate < lowHydrationRate {
		return Insight{
			Type:     InsightWarning,
			Category: InsightCategoryHydration,
			Priority: PriorityMedium,
			Title:    "Hydration below target",
			Message:  fmt.Sprintf("You reached your water target on %d of %d logged days.", cur.Hydration.DaysOnTarget, cur.Hydration.DaysLogged),
		}, true
	}
	return Insight{}, false
}

func proteinRule(cur PeriodSummary, _ *PeriodSummary) (Insight, bool) {
	n := cur.Nutrition
	if n.DaysLogged == 0 || n.DaysOnProteinTarget*2 >= n.DaysLogged {
		return Insight{}, false
	}
	return Insight{
		Type:     InsightTip,
		Category: InsightCategoryNutrition,
		Priority: PriorityMedium,
		Title:    "Add more protein",
		Message:  fmt.Sprintf("You met your protein target on %d of %d days. Your average was %.1f g.", n.DaysOnProteinTarget, n.DaysLogged, n.AvgProtein),
	}, true
}

func calorieRule(cur PeriodSummary, _ *PeriodSummary) (Insight, bool) {
	n := cur.Nutrition
	if n.DaysLogged == 0 || n.DaysOnCalorieTarget*10 < n.DaysLogged*7 {
		return Insight{}, false
	}
	return Insight{
		Type:     InsightCelebration,
		Category: InsightCategoryNutrition,
		Priority: PriorityLow,
		Title:    "Calories on point",
		Message:  fmt.Sprintf("You stayed within your calorie target on %d of %d days.", n.DaysOnCalorieTarget, n.DaysLogged),
	}, true
}

func scoreTrendRule(cur PeriodSummary, prev *PeriodSummary) (Insight, bool) {
	if prev == nil {
		return Insight{}, false
	}
	trend := CalculateTrend(cur.Score.Average, prev.Score.Average)
	switch {
	case trend.MagnitudePercent >= scoreTrendPercent:
		return Insight{
			Type:     InsightTrend,
			Category: InsightCategoryScore,
			Priority: PriorityLow,
			Title:    "Your daily score is rising",
			Message:  fmt.Sprintf("Average daily score is up %d%% (%.1f vs %.1f).", trend.MagnitudePercent, cur.Score.Average, prev.Score.Average),
		}, true
	case trend.MagnitudePercent <= -scoreTrendPercent:
		return Insight{
			Type:     InsightTrend,
			Category: InsightCategoryScore,
			Priority: PriorityHigh,
			Title:    "Your daily score is slipping",
			Message:  fmt.Sprintf("Average daily score is down %d%% (%.1f vs %.1f).", -trend.MagnitudePercent, cur.Score.Average, prev.Score.Average),
		}, true
	}
	return Insight{}, false
}

func perfectDaysRule(cur PeriodSummary, _ *PeriodSummary) (Insight, bool) {
	switch {
	case cur.Score.PerfectDays == 0 && cur.Days > minDaysForGapWarnings:
		return Insight{
			Type:     InsightTip,
			Category: InsightCategoryScore,
			Priority: PriorityLow,
			Title:    "Aim for a perfect day",
			Message:  fmt.Sprintf("A workout, your water target, five meals and a sleep log add up to a perfect day (%d+).", PerfectDayScore),
		}, true
	case cur.Score.PerfectDays >= perfectDaysCelebration:
		return Insight{
			Type:     InsightCelebration,
			Category: InsightCategoryScore,
			Priority: PriorityLow,
			Title:    "Perfect days",
			Message:  fmt.Sprintf("You had %d perfect days in this period.", cur.Score.PerfectDays),
		}, true
	}
	return Insight{}, false
}

func streakRule(cur PeriodSummary, _ *PeriodSummary) (Insight, bool) {
	g := cur.Gamification
	switch {
	case g.CurrentStreak >= streakCelebrationDays:
		return Insight{
			Type:     InsightCelebration,
			Category: InsightCategoryStreak,
			Priority: PriorityLow,
			Title:    "Streak on fire",
			Message:  fmt.Sprintf("You have been active %d days in a row.", g.CurrentStreak),
		}, true
	case g.CurrentStreak == 0 && g.BestStreak > 0:
		return Insight{
			Type:     InsightTip,
			Category: InsightCategoryStreak,
			Priority: PriorityMedium,
			Title:    "Start a new streak",
			Message:  fmt.Sprintf("Your best streak is %d days. Log anything today to start a new one.", g.BestStreak),
		}, true
	}
	return Insight{}, false
}

func achievementsRule(cur PeriodSummary, _ *PeriodSummary) (Insight, bool) {
	n := cur.Gamification.AchievementsUnlocked
	if n == 0 {
		return Insight{}, false
	}
	title := "New achievement"
	if n > 1 {
		title = "New achievements"
	}
	return Insight{
		Type:     InsightAchievement,
		Category: InsightCategoryProgress,
		Priority: PriorityLow,
		Title:    title,
		Message:  fmt.Sprintf("You unlocked %d achievement(s) in this period.", n),
	}, true
}

func levelUpRule(cur PeriodSummary, _ *PeriodSummary) (Insight, bool) {
	g := cur.Gamification
	if g.LevelsGained <= 0 {
		return Insight{}, false
	}
	return Insight{
		Type:     InsightAchievement,
		Category: InsightCategoryProgress,
		Priority: PriorityLow,
		Title:    "Level up",
		Message:  fmt.Sprintf("You gained %d level(s) and %d XP in this period.", g.LevelsGained, g.XPGained),
	}, true
}
