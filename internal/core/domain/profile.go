package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidCalorieTarget = errors.New("calorie target must be between 800 and 10000 kcal")
	ErrInvalidProteinTarget = errors.New("protein target must be between 0 and 500 g")
	ErrInvalidWaterTarget   = errors.New("water target must be between 250 and 10000 ml")
)

const (
	DefaultCalorieTarget = 2000
	DefaultProteinTarget = 100
	DefaultWaterTargetMl = 2000
)

// Targets are the per-user daily goals the scoring rules measure against.
type Targets struct {
	UserID        string    `json:"user_id,omitempty" db:"user_id"`
	CalorieTarget int       `json:"calorie_target" db:"calorie_target"`
	ProteinTarget float64   `json:"protein_target" db:"protein_target"`
	WaterTargetMl int       `json:"water_target_ml" db:"water_target_ml"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultTargets is what a user who never set goals is scored against.
func DefaultTargets(userID string) *Targets {
	return &Targets{
		UserID:        userID,
		CalorieTarget: DefaultCalorieTarget,
		ProteinTarget: DefaultProteinTarget,
		WaterTargetMl: DefaultWaterTargetMl,
	}
}

func (t *Targets) Validate() error {
	if t.CalorieTarget < 800 || t.CalorieTarget > 10000 {
		return ErrInvalidCalorieTarget
	}
	if t.ProteinTarget < 0 || t.ProteinTarget > 500 {
		return ErrInvalidProteinTarget
	}
	if t.WaterTargetMl < 250 || t.WaterTargetMl > 10000 {
		return ErrInvalidWaterTarget
	}
	return nil
}

// Update applies new goals, keeping the old ones if validation fails.
func (t *Targets) Update(calories int, protein float64, waterMl int) error {
	next := *t
	next.CalorieTarget = calories
	next.ProteinTarget = protein
	next.WaterTargetMl = waterMl
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = time.Now().UTC()
	*t = next
	return nil
}
