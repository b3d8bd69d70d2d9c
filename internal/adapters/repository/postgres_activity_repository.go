package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/jmoiron/sqlx"
)

var _ domain.ActivityRepository = (*PostgresActivityRepository)(nil)

// activityTables maps each kind to the table holding its rows.
var activityTables = map[domain.ActivityKind]string{
	domain.ActivityWorkout: "workouts",
	domain.ActivityMeal:    "meals",
	domain.ActivityWater:   "water_logs",
	domain.ActivitySleep:   "sleep_logs",
	domain.ActivityBody:    "body_measurements",
}

type PostgresActivityRepository struct {
	db *sqlx.DB
}

func NewPostgresActivityRepository(db *sqlx.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

func (r *PostgresActivityRepository) insert(ctx context.Context, kind domain.ActivityKind, query string, row interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		switch pgCode(err) {
		case codeForeignKeyViolation:
			return domain.ErrUserNotFound
		case codeUniqueViolation:
			return fmt.Errorf("repository: duplicate %s id: %w", kind, err)
		}
		return fmt.Errorf("repository: insert %s failed: %w", kind, err)
	}
	return nil
}

func (r *PostgresActivityRepository) CreateWorkout(ctx context.Context, w *domain.WorkoutRecord) error {
	return r.insert(ctx, domain.ActivityWorkout, `
		INSERT INTO workouts (
			id, user_id, activity_date, name, completed,
			duration_minutes, calories_burned, personal_records, created_at
		) VALUES (
			:id, :user_id, :activity_date, :name, :completed,
			:duration_minutes, :calories_burned, :personal_records, :created_at
		)`, w)
}

func (r *PostgresActivityRepository) CreateMeal(ctx context.Context, m *domain.MealRecord) error {
	return r.insert(ctx, domain.ActivityMeal, `
		INSERT INTO meals (
			id, user_id, activity_date, meal_type,
			calories, protein_g, carbs_g, fat_g, created_at
		) VALUES (
			:id, :user_id, :activity_date, :meal_type,
			:calories, :protein_g, :carbs_g, :fat_g, :created_at
		)`, m)
}

func (r *PostgresActivityRepository) CreateWater(ctx context.Context, w *domain.WaterRecord) error {
	return r.insert(ctx, domain.ActivityWater, `
		INSERT INTO water_logs (id, user_id, activity_date, amount_ml, created_at)
		VALUES (:id, :user_id, :activity_date, :amount_ml, :created_at)`, w)
}

func (r *PostgresActivityRepository) CreateSleep(ctx context.Context, s *domain.SleepRecord) error {
	return r.insert(ctx, domain.ActivitySleep, `
		INSERT INTO sleep_logs (id, user_id, activity_date, hours, quality, created_at)
		VALUES (:id, :user_id, :activity_date, :hours, :quality, :created_at)`, s)
}

func (r *PostgresActivityRepository) CreateBody(ctx context.Context, b *domain.BodyMeasurement) error {
	return r.insert(ctx, domain.ActivityBody, `
		INSERT INTO body_measurements (id, user_id, activity_date, weight_kg, body_fat_pct, created_at)
		VALUES (:id, :user_id, :activity_date, :weight_kg, :body_fat_pct, :created_at)`, b)
}

func (r *PostgresActivityRepository) ListInRange(ctx context.Context, userID string, dr domain.DateRange) (*domain.PeriodData, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	data := &domain.PeriodData{}
	from, to := dr.Start, dr.End

	queries := []struct {
		kind domain.ActivityKind
		dest interface{}
		sql  string
	}{
		{domain.ActivityWorkout, &data.Workouts, `
			SELECT id, user_id, activity_date, name, completed,
			       duration_minutes, calories_burned, personal_records, created_at
			FROM workouts`},
		{domain.ActivityMeal, &data.Meals, `
			SELECT id, user_id, activity_date, meal_type, calories, protein_g, carbs_g, fat_g, created_at
			FROM meals`},
		{domain.ActivityWater, &data.Water, `
			SELECT id, user_id, activity_date, amount_ml, created_at
			FROM water_logs`},
		{domain.ActivitySleep, &data.Sleep, `
			SELECT id, user_id, activity_date, hours, quality, created_at
			FROM sleep_logs`},
		{domain.ActivityBody, &data.Body, `
			SELECT id, user_id, activity_date, weight_kg, body_fat_pct, created_at
			FROM body_measurements`},
	}

	for _, q := range queries {
		query := q.sql + `
			WHERE user_id = $1 AND activity_date BETWEEN $2 AND $3
			ORDER BY activity_date ASC, created_at ASC`
		if err := r.db.SelectContext(ctx, q.dest, query, userID, from, to); err != nil {
			return nil, fmt.Errorf("repository: list %s failed: %w", q.kind, err)
		}
	}

	return data, nil
}

func (r *PostgresActivityRepository) CountLifetime(ctx context.Context, userID string, waterTargetMl int) (domain.ActivityCounts, error) {
	return r.count(ctx, userID, waterTargetMl, nil)
}

func (r *PostgresActivityRepository) CountBefore(ctx context.Context, userID string, waterTargetMl int, day time.Time) (domain.ActivityCounts, error) {
	before := domain.Day(day)
	return r.count(ctx, userID, waterTargetMl, &before)
}

// count tallies activity dated before the cutoff, or everything when it is nil.
func (r *PostgresActivityRepository) count(ctx context.Context, userID string, waterTargetMl int, before *time.Time) (domain.ActivityCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT
			(SELECT COUNT(*) FROM workouts
				WHERE user_id = $1 AND completed AND ($3::date IS NULL OR activity_date < $3::date)) AS workouts_completed,
			(SELECT COALESCE(SUM(personal_records), 0) FROM workouts
				WHERE user_id = $1 AND ($3::date IS NULL OR activity_date < $3::date)) AS prs_achieved,
			(SELECT COUNT(*) FROM meals
				WHERE user_id = $1 AND ($3::date IS NULL OR activity_date < $3::date)) AS meals_logged,
			(SELECT COUNT(*) FROM sleep_logs
				WHERE user_id = $1 AND ($3::date IS NULL OR activity_date < $3::date)) AS sleep_logs,
			(SELECT COUNT(*) FROM (
				SELECT activity_date FROM water_logs
				WHERE user_id = $1 AND ($3::date IS NULL OR activity_date < $3::date)
				GROUP BY activity_date
				HAVING SUM(amount_ml) >= $2
			) AS goal_days) AS water_goals_met`

	var counts domain.ActivityCounts
	if err := r.db.GetContext(ctx, &counts, query, userID, waterTargetMl, before); err != nil {
		return domain.ActivityCounts{}, fmt.Errorf("repository: count activity failed: %w", err)
	}
	return counts, nil
}

func (r *PostgresActivityRepository) ListActivityDates(ctx context.Context, userID string) ([]time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT activity_date FROM workouts WHERE user_id = $1
		UNION SELECT activity_date FROM meals WHERE user_id = $1
		UNION SELECT activity_date FROM water_logs WHERE user_id = $1
		UNION SELECT activity_date FROM sleep_logs WHERE user_id = $1
		UNION SELECT activity_date FROM body_measurements WHERE user_id = $1
		ORDER BY activity_date ASC`

	var dates []time.Time
	if err := r.db.SelectContext(ctx, &dates, query, userID); err != nil {
		return nil, fmt.Errorf("repository: list activity dates failed: %w", err)
	}
	return dates, nil
}

func (r *PostgresActivityRepository) Delete(ctx context.Context, kind domain.ActivityKind, id, userID string) error {
	table, ok := activityTables[kind]
	if !ok {
		return domain.ErrInvalidActivityKind
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, table)
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		if pgCode(err) == codeInvalidText {
			return domain.ErrActivityNotFound
		}
		return fmt.Errorf("repository: delete %s failed: %w", kind, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrActivityNotFound
	}
	return nil
}

func (r *PostgresActivityRepository) ListActiveUserIDs(ctx context.Context, dr domain.DateRange) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	query := `
		SELECT user_id::text FROM workouts WHERE activity_date BETWEEN $1 AND $2
		UNION SELECT user_id::text FROM meals WHERE activity_date BETWEEN $1 AND $2
		UNION SELECT user_id::text FROM water_logs WHERE activity_date BETWEEN $1 AND $2
		UNION SELECT user_id::text FROM sleep_logs WHERE activity_date BETWEEN $1 AND $2
		UNION SELECT user_id::text FROM body_measurements WHERE activity_date BETWEEN $1 AND $2`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, dr.Start, dr.End); err != nil {
		return nil, fmt.Errorf("repository: list active users failed: %w", err)
	}
	return ids, nil
}
