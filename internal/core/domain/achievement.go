package domain

import (
	"errors"
	"time"
)

var (
	ErrAchievementNotFound     = errors.New("achievement not found")
	ErrAchievementAlreadyOwned = errors.New("achievement already unlocked")
)

type AchievementCategory string

const (
	AchievementWorkout   AchievementCategory = "workout"
	AchievementNutrition AchievementCategory = "nutrition"
	AchievementHydration AchievementCategory = "hydration"
	AchievementSleep     AchievementCategory = "sleep"
	AchievementStreak    AchievementCategory = "streak"
	AchievementMilestone AchievementCategory = "milestone"
)

func (c AchievementCategory) Valid() bool {
	switch c {
	case AchievementWorkout, AchievementNutrition, AchievementHydration,
		AchievementSleep, AchievementStreak, AchievementMilestone:
		return true
	}
	return false
}

// UserStats is the lifetime snapshot achievement conditions are evaluated on.
type UserStats struct {
	WorkoutsCompleted int `json:"workouts_completed"`
	WaterGoalsMet     int `json:"water_goals_met"`
	MealsLogged       int `json:"meals_logged"`
	SleepLogs         int `json:"sleep_logs"`
	PRsAchieved       int `json:"prs_achieved"`
	PerfectDays       int `json:"perfect_days"`
	BestStreak        int `json:"best_streak"`
	TotalXP           int `json:"total_xp"`
}

// AchievementCondition decides whether an achievement is satisfied.
type AchievementCondition func(stats UserStats, level, streak int) bool

type Achievement struct {
	ID          string               `json:"id"`
	Category    AchievementCategory  `json:"category"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	XPReward    int                  `json:"xp_reward"`
	Condition   AchievementCondition `json:"-"`
}

// UserAchievement is an append-only unlock record.
type UserAchievement struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id"`
	AchievementID string    `json:"achievement_id" db:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at" db:"unlocked_at"`
}

func workoutsAtLeast(n int) AchievementCondition {
	return func(s UserStats, _, _ int) bool { return s.WorkoutsCompleted >= n }
}

func mealsAtLeast(n int) AchievementCondition {
	return func(s UserStats, _, _ int) bool { return s.MealsLogged >= n }
}

func waterGoalsAtLeast(n int) AchievementCondition {
	return func(s UserStats, _, _ int) bool { return s.WaterGoalsMet >= n }
}

func sleepLogsAtLeast(n int) AchievementCondition {
	return func(s UserStats, _, _ int) bool { return s.SleepLogs >= n }
}

func prsAtLeast(n int) AchievementCondition {
	return func(s UserStats, _, _ int) bool { return s.PRsAchieved >= n }
}

func streakAtLeast(n int) AchievementCondition {
	return func(_ UserStats, _, streak int) bool { return streak >= n }
}

func levelAtLeast(n int) AchievementCondition {
	return func(_ UserStats, level, _ int) bool { return level >= n }
}

// AchievementCatalog is the static catalog. Its order is the unlock order.
var AchievementCatalog = []Achievement{
	{ID: "first_workout", Category: AchievementWorkout, Name: "First Sweat", Description: "Complete your first workout", XPReward: 50, Condition: workoutsAtLeast(1)},
	{ID: "workouts_10", Category: AchievementWorkout, Name: "Getting Into It", Description: "Complete 10 workouts", XPReward: 150, Condition: workoutsAtLeast(10)},
	{ID: "workouts_50", Category: AchievementWorkout, Name: "Gym Regular", Description: "Complete 50 workouts", XPReward: 500, Condition: workoutsAtLeast(50)},
	{ID: "workouts_100", Category: AchievementWorkout, Name: "Centurion", Description: "Complete 100 workouts", XPReward: 1000, Condition: workoutsAtLeast(100)},
	{ID: "first_pr", Category: AchievementWorkout, Name: "New Personal Best", Description: "Set your first personal record", XPReward: 100, Condition: prsAtLeast(1)},
	{ID: "prs_10", Category: AchievementWorkout, Name: "Record Breaker", Description: "Set 10 personal records", XPReward: 400, Condition: prsAtLeast(10)},
	{ID: "first_meal", Category: AchievementNutrition, Name: "Food Diary", Description: "Log your first meal", XPReward: 25, Condition: mealsAtLeast(1)},
	{ID: "meals_100", Category: AchievementNutrition, Name: "Mindful Eater", Description: "Log 100 meals", XPReward: 300, Condition: mealsAtLeast(100)},
	{ID: "meals_500", Category: AchievementNutrition, Name: "Nutrition Pro", Description: "Log 500 meals", XPReward: 1000, Condition: mealsAtLeast(500)},
	{ID: "first_water_goal", Category: AchievementHydration, Name: "Hydrated", Description: "Reach your water target for the first time", XPReward: 25, Condition: waterGoalsAtLeast(1)},
	{ID: "water_goals_30", Category: AchievementHydration, Name: "Like Water", Description: "Reach your water target on 30 days", XPReward: 300, Condition: waterGoalsAtLeast(30)},
	{ID: "sleep_7", Category: AchievementSleep, Name: "Well Rested", Description: "Log sleep 7 times", XPReward: 100, Condition: sleepLogsAtLeast(7)},
	{ID: "sleep_30", Category: AchievementSleep, Name: "Sleep Scientist", Description: "Log sleep 30 times", XPReward: 300, Condition: sleepLogsAtLeast(30)},
	{ID: "streak_3", Category: AchievementStreak, Name: "On a Roll", Description: "Stay active 3 days in a row", XPReward: 50, Condition: streakAtLeast(3)},
	{ID: "streak_7", Category: AchievementStreak, Name: "Week Warrior", Description: "Stay active 7 days in a row", XPReward: 150, Condition: streakAtLeast(7)},
	{ID: "streak_30", Category: AchievementStreak, Name: "Unstoppable", Description: "Stay active 30 days in a row", XPReward: 500, Condition: streakAtLeast(30)},
	{ID: "perfect_day", Category: AchievementMilestone, Name: "Perfect Day", Description: "Score 95 or more in a single day", XPReward: 100, Condition: func(s UserStats, _, _ int) bool { return s.PerfectDays >= 1 }},
	{ID: "level_5", Category: AchievementMilestone, Name: "Halfway There", Description: "Reach level 5", XPReward: 250, Condition: levelAtLeast(5)},
	{ID: "level_10", Category: AchievementMilestone, Name: "Legendary", Description: "Reach level 10", XPReward: 1000, Condition: levelAtLeast(10)},
}

// FindAchievement looks an achievement up by id.
func FindAchievement(id string) (Achievement, error) {
	for _, a := range AchievementCatalog {
		if a.ID == id {
			return a, nil
		}
	}
	return Achievement{}, ErrAchievementNotFound
}

// CheckUnlockedAchievements returns, in catalog order, every achievement whose
// condition holds and whose id is not in alreadyUnlockedIDs.
func CheckUnlockedAchievements(stats UserStats, level, streak int, alreadyUnlockedIDs []string) []Achievement {
	owned := make(map[string]bool, len(alreadyUnlockedIDs))
	for _, id := range alreadyUnlockedIDs {
		owned[id] = true
	}

	var unlocked []Achievement
	for _, a := range AchievementCatalog {
		if owned[a.ID] || a.Condition == nil {
			continue
		}
		if a.Condition(stats, level, streak) {
			unlocked = append(unlocked, a)
			owned[a.ID] = true
		}
	}
	return unlocked
}

// AchievementXP sums the rewards of the given unlocks. Unknown ids are ignored.
func AchievementXP(unlocks []UserAchievement) int {
	seen := make(map[string]bool, len(unlocks))
	total := 0
	for _, u := range unlocks {
		if seen[u.AchievementID] {
			continue
		}
		seen[u.AchievementID] = true
		if a, err := FindAchievement(u.AchievementID); err == nil {
			total += a.XPReward
		}
	}
	return total
}
