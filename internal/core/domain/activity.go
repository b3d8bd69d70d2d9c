package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrActivityNotFound    = errors.New("activity not found")
	ErrInvalidActivityKind = errors.New("invalid activity kind (must be workout, meal, water, sleep or body)")
	ErrNoActivityOnDay     = errors.New("no activity logged on that day")
)

// maxClockLead is how far the furthest timezone runs ahead of UTC.
const maxClockLead = 14 * time.Hour

// ValidationError rejects a malformed activity record.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

type ActivityKind string

const (
	ActivityWorkout ActivityKind = "workout"
	ActivityMeal    ActivityKind = "meal"
	ActivityWater   ActivityKind = "water"
	ActivitySleep   ActivityKind = "sleep"
	ActivityBody    ActivityKind = "body"
)

func ParseActivityKind(s string) (ActivityKind, error) {
	k := ActivityKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case ActivityWorkout, ActivityMeal, ActivityWater, ActivitySleep, ActivityBody:
		return k, nil
	}
	return "", ErrInvalidActivityKind
}

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

type WorkoutRecord struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"user_id" db:"user_id"`
	Date            time.Time `json:"date" db:"activity_date"`
	Name            string    `json:"name" db:"name"`
	Completed       bool      `json:"completed" db:"completed"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	CaloriesBurned  int       `json:"calories_burned" db:"calories_burned"`
	PersonalRecords int       `json:"personal_records" db:"personal_records"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

type MealRecord struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Date      time.Time `json:"date" db:"activity_date"`
	MealType  MealType  `json:"meal_type" db:"meal_type"`
	Calories  int       `json:"calories" db:"calories"`
	ProteinG  float64   `json:"protein_g" db:"protein_g"`
	CarbsG    float64   `json:"carbs_g" db:"carbs_g"`
	FatG      float64   `json:"fat_g" db:"fat_g"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type WaterRecord struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Date      time.Time `json:"date" db:"activity_date"`
	AmountMl  int       `json:"amount_ml" db:"amount_ml"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type SleepRecord struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Date      time.Time `json:"date" db:"activity_date"`
	Hours     float64   `json:"hours" db:"hours"`
	Quality   int       `json:"quality" db:"quality"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type BodyMeasurement struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Date       time.Time `json:"date" db:"activity_date"`
	WeightKg   float64   `json:"weight_kg" db:"weight_kg"`
	BodyFatPct *float64  `json:"body_fat_pct,omitempty" db:"body_fat_pct"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

func validateOwnerAndDate(userID string, date time.Time) error {
	if strings.TrimSpace(userID) == "" {
		return invalid("user_id is required")
	}
	if date.IsZero() {
		return invalid("date is required")
	}
	return nil
}

// ValidateNotFuture rejects a day that has not started anywhere on Earth at now.
func ValidateNotFuture(date, now time.Time) error {
	if Day(date).After(Day(now.Add(maxClockLead))) {
		return invalid("date cannot be in the future")
	}
	return nil
}

func (w *WorkoutRecord) Validate() error {
	if err := validateOwnerAndDate(w.UserID, w.Date); err != nil {
		return err
	}
	if strings.TrimSpace(w.Name) == "" {
		return invalid("workout name is required")
	}
	if w.DurationMinutes < 0 || w.CaloriesBurned < 0 || w.PersonalRecords < 0 {
		return invalid("workout values cannot be negative")
	}
	return nil
}

func (m *MealRecord) Validate() error {
	if err := validateOwnerAndDate(m.UserID, m.Date); err != nil {
		return err
	}
	switch m.MealType {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
	default:
		return invalid("meal_type must be breakfast, lunch, dinner or snack")
	}
	if m.Calories < 0 || m.ProteinG < 0 || m.CarbsG < 0 || m.FatG < 0 {
		return invalid("meal values cannot be negative")
	}
	return nil
}

func (w *WaterRecord) Validate() error {
	if err := validateOwnerAndDate(w.UserID, w.Date); err != nil {
		return err
	}
	if w.AmountMl <= 0 {
		return invalid("amount_ml must be positive")
	}
	return nil
}

func (s *SleepRecord) Validate() error {
	if err := validateOwnerAndDate(s.UserID, s.Date); err != nil {
		return err
	}
	if s.Hours <= 0 || s.Hours > 24 {
		return invalid("hours must be between 0 and 24")
	}
	if s.Quality < 0 || s.Quality > 10 {
		return invalid("quality must be between 0 and 10")
	}
	return nil
}

func (b *BodyMeasurement) Validate() error {
	if err := validateOwnerAndDate(b.UserID, b.Date); err != nil {
		return err
	}
	if b.WeightKg <= 0 {
		return invalid("weight_kg must be positive")
	}
	if b.BodyFatPct != nil && (*b.BodyFatPct < 0 || *b.BodyFatPct > 100) {
		return invalid("body_fat_pct must be between 0 and 100")
	}
	return nil
}
