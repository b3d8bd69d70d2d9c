package domain

import (
	"fmt"
	"sort"
	"time"
)

// MaxStreakHistory caps how many distinct activity days a streak remembers.
const MaxStreakHistory = 365

type StreakData struct {
	UserID           string      `json:"user_id,omitempty" db:"user_id"`
	CurrentStreak    int         `json:"current_streak" db:"current_streak"`
	BestStreak       int         `json:"best_streak" db:"best_streak"`
	LastActivityDate time.Time   `json:"last_activity_date" db:"last_activity_date"`
	StreakHistory    []time.Time `json:"streak_history" db:"-"`
	UpdatedAt        time.Time   `json:"updated_at" db:"updated_at"`
}

type StreakChange string

const (
	StreakUnchanged StreakChange = "unchanged"
	StreakStarted   StreakChange = "started"
	StreakExtended  StreakChange = "extended"
	StreakReset     StreakChange = "reset"
)

// StreakMilestone pays a one-off XP bonus on the day a streak reaches Days.
type StreakMilestone struct {
	Days  int `json:"days"`
	Bonus int `json:"bonus"`
}

var StreakMilestones = []StreakMilestone{
	{Days: 7, Bonus: 50},
	{Days: 14, Bonus: 100},
	{Days: 30, Bonus: 250},
	{Days: 60, Bonus: 500},
	{Days: 100, Bonus: 1000},
	{Days: 365, Bonus: 5000},
}

// UpdateStreakData folds one activity day into the streak.
// Same day or an older day is a no-op, the next day extends, a gap restarts at 1.
func UpdateStreakData(current StreakData, activityDate time.Time) StreakData {
	day := Day(activityDate)
	next := current
	next.StreakHistory = append([]time.Time(nil), current.StreakHistory...)

	if current.LastActivityDate.IsZero() {
		next.CurrentStreak = 1
	} else {
		last := Day(current.LastActivityDate)
		switch {
		case !day.After(last):
			return current
		case day.Equal(last.AddDate(0, 0, 1)):
			next.CurrentStreak = current.CurrentStreak + 1
		default:
			next.CurrentStreak = 1
		}
	}

	next.LastActivityDate = day
	if next.CurrentStreak > next.BestStreak {
		next.BestStreak = next.CurrentStreak
	}

	next.StreakHistory = append(next.StreakHistory, day)
	if len(next.StreakHistory) > MaxStreakHistory {
		next.StreakHistory = next.StreakHistory[len(next.StreakHistory)-MaxStreakHistory:]
	}
	return next
}

// RebuildStreak recomputes a streak from scratch out of the user's activity
// days, in any order and with duplicates. Used after activity is deleted.
func RebuildStreak(userID string, dates []time.Time) StreakData {
	days := make([]time.Time, 0, len(dates))
	seen := make(map[string]bool, len(dates))
	for _, d := range dates {
		k := dayKey(d)
		if !seen[k] {
			seen[k] = true
			days = append(days, Day(d))
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	s := StreakData{UserID: userID}
	for _, d := range days {
		s = UpdateStreakData(s, d)
	}
	return s
}

// StreakTransition classifies what an UpdateStreakData call did.
func StreakTransition(previous, updated StreakData) StreakChange {
	if Day(previous.LastActivityDate).Equal(Day(updated.LastActivityDate)) {
		return StreakUnchanged
	}
	if previous.LastActivityDate.IsZero() {
		return StreakStarted
	}
	if updated.CurrentStreak == 1 {
		return StreakReset
	}
	return StreakExtended
}

// IsComeback is true when the update restarted a streak that had been broken.
func IsComeback(previous, updated StreakData) bool {
	return StreakTransition(previous, updated) == StreakReset
}

// StreakMessage is the short line shown after an activity is recorded.
func StreakMessage(previous, updated StreakData) string {
	switch StreakTransition(previous, updated) {
	case StreakStarted:
		return "First day logged. Your streak starts now!"
	case StreakExtended:
		return fmt.Sprintf("%d days in a row. Keep it going!", updated.CurrentStreak)
	case StreakReset:
		return "Welcome back! A new streak starts today."
	default:
		return ""
	}
}

// ActiveOn returns the streak as seen on day: a streak whose last activity is
// older than yesterday has lapsed and reads as 0.
func (s StreakData) ActiveOn(day time.Time) int {
	if s.LastActivityDate.IsZero() {
		return 0
	}
	yesterday := Day(day).AddDate(0, 0, -1)
	if Day(s.LastActivityDate).Before(yesterday) {
		return 0
	}
	return s.CurrentStreak
}

// StreakBonus returns the milestone bonus earned on the day the streak reaches
// streakDays, or 0 when streakDays is not a milestone.
func StreakBonus(streakDays int) int {
	for _, m := range StreakMilestones {
		if m.Days == streakDays {
			return m.Bonus
		}
	}
	return 0
}

// StreakMilestoneXP sums every milestone bonus reached by bestStreak.
func StreakMilestoneXP(bestStreak int) int {
	total := 0
	for _, m := range StreakMilestones {
		if bestStreak >= m.Days {
			total += m.Bonus
		}
	}
	return total
}
