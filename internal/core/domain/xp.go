package domain

import "time"

// ActivityCounts are lifetime activity tallies for one user.
type ActivityCounts struct {
	WorkoutsCompleted int `json:"workouts_completed" db:"workouts_completed"`
	WaterGoalsMet     int `json:"water_goals_met" db:"water_goals_met"`
	MealsLogged       int `json:"meals_logged" db:"meals_logged"`
	SleepLogs         int `json:"sleep_logs" db:"sleep_logs"`
	PRsAchieved       int `json:"prs_achieved" db:"prs_achieved"`
	CurrentStreakDays int `json:"current_streak_days" db:"-"`
}

type XPWeights struct {
	WorkoutCompleted  int
	WaterGoalMet      int
	MealLogged        int
	SleepLogged       int
	PRAchieved        int
	StreakBonusPerDay int
}

var DefaultXPWeights = XPWeights{
	WorkoutCompleted:  100,
	WaterGoalMet:      25,
	MealLogged:        15,
	SleepLogged:       20,
	PRAchieved:        75,
	StreakBonusPerDay: 5,
}

// TotalXP is the plain weighted sum of the counts. No category is capped.
func TotalXP(c ActivityCounts) int {
	return DefaultXPWeights.Apply(c)
}

func (w XPWeights) Apply(c ActivityCounts) int {
	return nonNegative(c.WorkoutsCompleted)*w.WorkoutCompleted +
		nonNegative(c.WaterGoalsMet)*w.WaterGoalMet +
		nonNegative(c.MealsLogged)*w.MealLogged +
		nonNegative(c.SleepLogs)*w.SleepLogged +
		nonNegative(c.PRsAchieved)*w.PRAchieved +
		nonNegative(c.CurrentStreakDays)*w.StreakBonusPerDay
}

// XPAt is the XP total held when day started. counts must only cover
// activity dated before day. Achievements count when unlocked before day and
// the streak is rebuilt from the activity days before it.
func XPAt(day time.Time, counts ActivityCounts, unlocks []UserAchievement, activityDates []time.Time) int {
	day = Day(day)

	earlier := make([]time.Time, 0, len(activityDates))
	for _, d := range activityDates {
		if Day(d).Before(day) {
			earlier = append(earlier, d)
		}
	}
	streak := RebuildStreak("", earlier)
	counts.CurrentStreakDays = streak.ActiveOn(day.AddDate(0, 0, -1))

	var owned []UserAchievement
	for _, u := range unlocks {
		if u.UnlockedAt.Before(day) {
			owned = append(owned, u)
		}
	}

	return TotalXP(counts) + AchievementXP(owned) + StreakMilestoneXP(streak.BestStreak)
}
