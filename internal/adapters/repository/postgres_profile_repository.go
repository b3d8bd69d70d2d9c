package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/jmoiron/sqlx"
)

var _ domain.ProfileRepository = (*PostgresProfileRepository)(nil)

type PostgresProfileRepository struct {
	db *sqlx.DB
}

func NewPostgresProfileRepository(db *sqlx.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) GetTargets(ctx context.Context, userID string) (*domain.Targets, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT user_id, calorie_target, protein_target, water_target_ml, updated_at
		FROM user_targets
		WHERE user_id = $1`

	var t domain.Targets
	if err := r.db.GetContext(ctx, &t, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) || pgCode(err) == codeInvalidText {
			return nil, domain.ErrTargetsNotFound
		}
		return nil, fmt.Errorf("repository: get targets failed: %w", err)
	}
	return &t, nil
}

func (r *PostgresProfileRepository) SaveTargets(ctx context.Context, t *domain.Targets) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO user_targets (user_id, calorie_target, protein_target, water_target_ml, updated_at)
		VALUES (:user_id, :calorie_target, :protein_target, :water_target_ml, :updated_at)
		ON CONFLICT (user_id) DO UPDATE SET
			calorie_target = EXCLUDED.calorie_target,
			protein_target = EXCLUDED.protein_target,
			water_target_ml = EXCLUDED.water_target_ml,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("repository: save targets failed: %w", err)
	}
	return nil
}
