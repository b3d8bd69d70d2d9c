package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTotalXP(t *testing.T) {
	tests := []struct {
		name   string
		counts ActivityCounts
		want   int
	}{
		{
			name:   "No activity",
			counts: ActivityCounts{},
			want:   0,
		},
		{
			name: "Mixed activity",
			counts: ActivityCounts{
				WorkoutsCompleted: 10,
				WaterGoalsMet:     5,
				MealsLogged:       20,
				SleepLogs:         3,
				PRsAchieved:       1,
				CurrentStreakDays: 7,
			},
			want: 1595,
		},
		{
			name:   "Categories are never capped",
			counts: ActivityCounts{MealsLogged: 10_000},
			want:   150_000,
		},
		{
			name:   "Negative counts contribute nothing",
			counts: ActivityCounts{WorkoutsCompleted: -3, SleepLogs: 2},
			want:   40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalXP(tt.counts))
		})
	}
}

func TestXPWeights_Apply(t *testing.T) {
	double := XPWeights{WorkoutCompleted: 200}
	assert.Equal(t, 600, double.Apply(ActivityCounts{WorkoutsCompleted: 3, MealsLogged: 4}))
}

func TestXPAt(t *testing.T) {
	d := func(m time.Month, dd int) time.Time { return time.Date(2026, m, dd, 0, 0, 0, 0, time.UTC) }
	dates := []time.Time{d(2, 26), d(2, 27), d(2, 28), d(3, 1), d(3, 3), d(3, 4)}
	unlocks := []UserAchievement{
		{AchievementID: "first_workout", UnlockedAt: d(2, 26).Add(9 * time.Hour)},
		{AchievementID: "streak_3", UnlockedAt: d(3, 1).Add(8 * time.Hour)},
	}

	t.Run("Counts only what came before the day", func(t *testing.T) {
		counts := ActivityCounts{WorkoutsCompleted: 3}

		got := XPAt(d(3, 1), counts, unlocks, dates)

		assert.Equal(t, 300+3*5+50, got, "streak_3 unlocked during the day itself")
	})

	t.Run("Streak still live from the day before", func(t *testing.T) {
		counts := ActivityCounts{WorkoutsCompleted: 4}

		got := XPAt(d(3, 3), counts, unlocks, dates)

		assert.Equal(t, 400+4*5+50+50, got)
	})

	t.Run("Lapsed streak drops the linear bonus", func(t *testing.T) {
		counts := ActivityCounts{WorkoutsCompleted: 6}

		got := XPAt(d(3, 9), counts, unlocks, dates)

		assert.Equal(t, 600+50+50, got)
	})

	t.Run("Milestones stay once reached", func(t *testing.T) {
		var week []time.Time
		for i := 0; i < 7; i++ {
			week = append(week, d(2, 1).AddDate(0, 0, i))
		}

		got := XPAt(d(3, 1), ActivityCounts{}, nil, week)

		assert.Equal(t, 50, got)
	})

	t.Run("Nothing before the first day", func(t *testing.T) {
		assert.Equal(t, 0, XPAt(d(2, 26), ActivityCounts{}, unlocks, dates))
	})
}
