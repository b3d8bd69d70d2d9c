package domain

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func propertyParameters() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	return parameters
}

func TestProperty_LevelMonotonicity(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())

	properties.Property("a higher XP never maps to a lower level", prop.ForAll(
		func(xp, delta int) bool {
			return LevelFromXP(xp).Level <= LevelFromXP(xp+delta).Level
		},
		gen.IntRange(0, 100_000),
		gen.IntRange(1, 50_000),
	))

	properties.Property("XP to next level is positive below the max level", prop.ForAll(
		func(xp int) bool {
			if IsMaxLevel(LevelFromXP(xp)) {
				return XPToNextLevel(xp) == 0
			}
			next := NextLevel(LevelFromXP(xp))
			return XPToNextLevel(xp) > 0 && LevelFromXP(xp+XPToNextLevel(xp)).Level == next.Level
		},
		gen.IntRange(0, 100_000),
	))

	properties.TestingRun(t)
}

func TestProperty_LevelProgressBounds(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())

	properties.Property("progress stays within 0 and 100", prop.ForAll(
		func(xp int) bool {
			p := LevelProgress(xp)
			return p >= 0 && p <= 100
		},
		gen.IntRange(-1_000, 1_000_000),
	))

	properties.TestingRun(t)
}

func TestProperty_BestStreakCoversCurrent(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())
	start := day(2026, 1, 1)

	properties.Property("best streak is never below the current streak", prop.ForAll(
		func(offsets []int) bool {
			var s StreakData
			for _, off := range offsets {
				s = UpdateStreakData(s, start.AddDate(0, 0, off))
				if s.BestStreak < s.CurrentStreak || s.CurrentStreak < 0 {
					return false
				}
				if len(s.StreakHistory) > MaxStreakHistory {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 400)),
	))

	properties.Property("best streak never decreases", prop.ForAll(
		func(offsets []int) bool {
			var s StreakData
			best := 0
			for _, off := range offsets {
				s = UpdateStreakData(s, start.AddDate(0, 0, off))
				if s.BestStreak < best {
					return false
				}
				best = s.BestStreak
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 60)),
	))

	properties.TestingRun(t)
}

func TestProperty_DailyScoreBounds(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())

	properties.Property("total is within 0 and 100 and equals the sum of its parts", prop.ForAll(
		func(workout bool, waterMl, targetMl, meals int, sleep bool) bool {
			b := ComposeDailyScore(DaySignals{
				WorkoutCompleted: workout,
				WaterMl:          waterMl,
				WaterTargetMl:    targetMl,
				MealsLoggedCount: meals,
				SleepLogged:      sleep,
			})
			if b.Total < 0 || b.Total > 100 {
				return false
			}
			return b.Workout+b.Nutrition+b.Hydration+b.Extras == b.Total
		},
		gen.Bool(),
		gen.IntRange(-5_000, 20_000),
		gen.IntRange(-1_000, 5_000),
		gen.IntRange(-10, 50),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestProperty_AchievementIdempotence(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())

	properties.Property("a second check never returns an already unlocked id", prop.ForAll(
		func(workouts, meals, water, sleep, prs, level, streak int) bool {
			stats := UserStats{
				WorkoutsCompleted: workouts,
				MealsLogged:       meals,
				WaterGoalsMet:     water,
				SleepLogs:         sleep,
				PRsAchieved:       prs,
			}

			first := CheckUnlockedAchievements(stats, level, streak, nil)
			owned := ids(first)
			second := CheckUnlockedAchievements(stats, level, streak, owned)

			if len(second) != 0 {
				return false
			}
			seen := make(map[string]bool)
			for _, id := range owned {
				if seen[id] {
					return false
				}
				seen[id] = true
			}
			return true
		},
		gen.IntRange(0, 150),
		gen.IntRange(0, 600),
		gen.IntRange(0, 40),
		gen.IntRange(0, 40),
		gen.IntRange(0, 15),
		gen.IntRange(1, 10),
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t)
}

func TestProperty_TrendZeroBaseline(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())

	properties.Property("any positive value against a zero baseline is +100", prop.ForAll(
		func(current float64) bool {
			tr := CalculateTrend(current, 0)
			return tr.Direction == TrendUp && tr.MagnitudePercent == 100
		},
		gen.Float64Range(0.01, 1_000_000),
	))

	properties.TestingRun(t)
}
