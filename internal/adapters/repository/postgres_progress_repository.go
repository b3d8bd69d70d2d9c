package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var _ domain.ProgressRepository = (*PostgresProgressRepository)(nil)

type PostgresProgressRepository struct {
	db *sqlx.DB
}

func NewPostgresProgressRepository(db *sqlx.DB) *PostgresProgressRepository {
	return &PostgresProgressRepository{db: db}
}

// streakRow is the stored shape of a streak. History is a DATE[] read back
// through its text form so both drivers decode it the same way.
type streakRow struct {
	UserID           string         `db:"user_id"`
	CurrentStreak    int            `db:"current_streak"`
	BestStreak       int            `db:"best_streak"`
	LastActivityDate sql.NullTime   `db:"last_activity_date"`
	StreakHistory    pq.StringArray `db:"streak_history"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func (r *PostgresProgressRepository) GetStreak(ctx context.Context, userID string) (*domain.StreakData, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT user_id, current_streak, best_streak, last_activity_date, streak_history::text AS streak_history, updated_at
		FROM user_streaks
		WHERE user_id = $1`

	var row streakRow
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) || pgCode(err) == codeInvalidText {
			return nil, domain.ErrStreakNotFound
		}
		return nil, fmt.Errorf("repository: get streak failed: %w", err)
	}

	streak := &domain.StreakData{
		UserID:        row.UserID,
		CurrentStreak: row.CurrentStreak,
		BestStreak:    row.BestStreak,
		UpdatedAt:     row.UpdatedAt,
	}
	if row.LastActivityDate.Valid {
		streak.LastActivityDate = domain.Day(row.LastActivityDate.Time)
	}
	for _, v := range row.StreakHistory {
		d, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return nil, fmt.Errorf("repository: bad streak history day %q: %w", v, err)
		}
		streak.StreakHistory = append(streak.StreakHistory, d)
	}
	return streak, nil
}

func (r *PostgresProgressRepository) SaveStreak(ctx context.Context, streak *domain.StreakData) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	history := make([]string, 0, len(streak.StreakHistory))
	for _, d := range streak.StreakHistory {
		history = append(history, domain.Day(d).Format(time.DateOnly))
	}

	var last sql.NullTime
	if !streak.LastActivityDate.IsZero() {
		last = sql.NullTime{Time: domain.Day(streak.LastActivityDate), Valid: true}
	}

	query := `
		INSERT INTO user_streaks (user_id, current_streak, best_streak, last_activity_date, streak_history, updated_at)
		VALUES ($1, $2, $3, $4, $5::text::date[], $6)
		ON CONFLICT (user_id) DO UPDATE SET
			current_streak = EXCLUDED.current_streak,
			best_streak = EXCLUDED.best_streak,
			last_activity_date = EXCLUDED.last_activity_date,
			streak_history = EXCLUDED.streak_history,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		streak.UserID, streak.CurrentStreak, streak.BestStreak, last, pq.Array(history), streak.UpdatedAt,
	)
	if err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("repository: save streak failed: %w", err)
	}
	return nil
}

func (r *PostgresProgressRepository) ListAchievements(ctx context.Context, userID string) ([]domain.UserAchievement, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, user_id, achievement_id, unlocked_at
		FROM user_achievements
		WHERE user_id = $1
		ORDER BY unlocked_at ASC, achievement_id ASC`

	var unlocks []domain.UserAchievement
	if err := r.db.SelectContext(ctx, &unlocks, query, userID); err != nil {
		return nil, fmt.Errorf("repository: list achievements failed: %w", err)
	}
	return unlocks, nil
}

func (r *PostgresProgressRepository) AddAchievement(ctx context.Context, unlock *domain.UserAchievement) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO user_achievements (id, user_id, achievement_id, unlocked_at)
		VALUES (:id, :user_id, :achievement_id, :unlocked_at)`

	if _, err := r.db.NamedExecContext(ctx, query, unlock); err != nil {
		switch pgCode(err) {
		case codeUniqueViolation:
			return domain.ErrAchievementAlreadyOwned
		case codeForeignKeyViolation:
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("repository: add achievement failed: %w", err)
	}
	return nil
}

func (r *PostgresProgressRepository) MarkPerfectDay(ctx context.Context, userID string, day time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO perfect_days (user_id, day)
		VALUES ($1, $2)
		ON CONFLICT (user_id, day) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, userID, domain.Day(day)); err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("repository: mark perfect day failed: %w", err)
	}
	return nil
}

func (r *PostgresProgressRepository) CountPerfectDays(ctx context.Context, userID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int
	query := `SELECT COUNT(*) FROM perfect_days WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("repository: count perfect days failed: %w", err)
	}
	return count, nil
}
