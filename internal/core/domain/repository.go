package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrTargetsNotFound = errors.New("targets not found")
	ErrStreakNotFound  = errors.New("streak not found")
	ErrReportNotCached = errors.New("report not cached")
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error

	GetByEmail(ctx context.Context, email string) (*User, error)

	GetByID(ctx context.Context, id string) (*User, error)
}

type ProfileRepository interface {
	// GetTargets returns ErrTargetsNotFound when the user never saved any goals.
	GetTargets(ctx context.Context, userID string) (*Targets, error)

	// SaveTargets creates or replaces the user's goals.
	SaveTargets(ctx context.Context, targets *Targets) error
}

type ActivityRepository interface {
	CreateWorkout(ctx context.Context, w *WorkoutRecord) error
	CreateMeal(ctx context.Context, m *MealRecord) error
	CreateWater(ctx context.Context, w *WaterRecord) error
	CreateSleep(ctx context.Context, s *SleepRecord) error
	CreateBody(ctx context.Context, b *BodyMeasurement) error

	// ListInRange returns every activity row of the user dated inside r.
	ListInRange(ctx context.Context, userID string, r DateRange) (*PeriodData, error)

	// CountLifetime tallies all-time activity. A water goal is a day whose
	// total intake reaches waterTargetMl.
	CountLifetime(ctx context.Context, userID string, waterTargetMl int) (ActivityCounts, error)

	// CountBefore tallies activity dated strictly before day.
	CountBefore(ctx context.Context, userID string, waterTargetMl int, day time.Time) (ActivityCounts, error)

	// ListActivityDates returns the distinct days on which the user logged anything.
	ListActivityDates(ctx context.Context, userID string) ([]time.Time, error)

	// Delete removes a row owned by userID, or returns ErrActivityNotFound.
	Delete(ctx context.Context, kind ActivityKind, id, userID string) error

	// ListActiveUserIDs returns users with at least one row inside r.
	ListActiveUserIDs(ctx context.Context, r DateRange) ([]string, error)
}

type ProgressRepository interface {
	// GetStreak returns ErrStreakNotFound for users that never logged anything.
	GetStreak(ctx context.Context, userID string) (*StreakData, error)

	SaveStreak(ctx context.Context, streak *StreakData) error

	ListAchievements(ctx context.Context, userID string) ([]UserAchievement, error)

	// AddAchievement appends an unlock. A second unlock of the same
	// achievement returns ErrAchievementAlreadyOwned.
	AddAchievement(ctx context.Context, unlock *UserAchievement) error

	// MarkPerfectDay records day as perfect. Marking the same day twice is a no-op.
	MarkPerfectDay(ctx context.Context, userID string, day time.Time) error

	CountPerfectDays(ctx context.Context, userID string) (int, error)
}

type ReportCache interface {
	// GetReport returns ErrReportNotCached on a miss.
	GetReport(ctx context.Context, userID string, r DateRange) (*Report, error)

	SetReport(ctx context.Context, report *Report) error

	// InvalidateUser drops every cached report of the user.
	InvalidateUser(ctx context.Context, userID string) error
}
