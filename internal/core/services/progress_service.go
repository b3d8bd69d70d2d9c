package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/workers"
	"github.com/comitanigiacomo/kanso-fit-engine/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TargetsReader interface {
	GetTargets(ctx context.Context, userID string) (*domain.Targets, error)
}

type ProgressService struct {
	activities  domain.ActivityRepository
	progress    domain.ProgressRepository
	targets     TargetsReader
	invalidator ReportInvalidator
	logger      *zap.Logger
	now         func() time.Time
}

// NewProgressService wires streaks, achievements and XP. invalidator may be
// nil when no report cache is configured.
func NewProgressService(activities domain.ActivityRepository, progress domain.ProgressRepository, targets TargetsReader, invalidator ReportInvalidator, logger *zap.Logger) *ProgressService {
	return &ProgressService{
		activities:  activities,
		progress:    progress,
		targets:     targets,
		invalidator: invalidator,
		logger:      logger,
		now:         time.Now,
	}
}

// XPBreakdown splits the total XP by where it came from.
type XPBreakdown struct {
	Activity         int `json:"activity"`
	Achievements     int `json:"achievements"`
	StreakMilestones int `json:"streak_milestones"`
}

type ProgressView struct {
	UserID        string                   `json:"user_id"`
	TotalXP       int                      `json:"total_xp"`
	XP            XPBreakdown              `json:"xp_breakdown"`
	Level         domain.Level             `json:"level"`
	NextLevel     *domain.Level            `json:"next_level,omitempty"`
	XPToNextLevel int                      `json:"xp_to_next_level"`
	LevelProgress float64                  `json:"level_progress"`
	CurrentStreak int                      `json:"current_streak"`
	BestStreak    int                      `json:"best_streak"`
	Streak        domain.StreakData        `json:"streak"`
	Stats         domain.UserStats         `json:"stats"`
	Achievements  []domain.UserAchievement `json:"achievements"`
}

type progressState struct {
	targets     *domain.Targets
	counts      domain.ActivityCounts
	streak      domain.StreakData
	unlocks     []domain.UserAchievement
	perfectDays int
}

func (s *ProgressService) loadState(ctx context.Context, userID string) (*progressState, error) {
	targets, err := s.targets.GetTargets(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts, err := s.activities.CountLifetime(ctx, userID, targets.WaterTargetMl)
	if err != nil {
		return nil, fmt.Errorf("progress service: failed to count activity: %w", err)
	}

	streak, err := s.progress.GetStreak(ctx, userID)
	if errors.Is(err, domain.ErrStreakNotFound) {
		streak = &domain.StreakData{UserID: userID}
	} else if err != nil {
		return nil, fmt.Errorf("progress service: failed to load streak: %w", err)
	}

	unlocks, err := s.progress.ListAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("progress service: failed to load achievements: %w", err)
	}

	perfectDays, err := s.progress.CountPerfectDays(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("progress service: failed to count perfect days: %w", err)
	}

	return &progressState{
		targets:     targets,
		counts:      counts,
		streak:      *streak,
		unlocks:     unlocks,
		perfectDays: perfectDays,
	}, nil
}

func (st *progressState) activeStreak(now time.Time) int {
	return st.streak.ActiveOn(now)
}

func (st *progressState) xp(now time.Time) XPBreakdown {
	counts := st.counts
	counts.CurrentStreakDays = st.activeStreak(now)
	return XPBreakdown{
		Activity:         domain.TotalXP(counts),
		Achievements:     domain.AchievementXP(st.unlocks),
		StreakMilestones: domain.StreakMilestoneXP(st.streak.BestStreak),
	}
}

func (b XPBreakdown) Total() int {
	return b.Activity + b.Achievements + b.StreakMilestones
}

func (st *progressState) stats(totalXP int) domain.UserStats {
	return domain.UserStats{
		WorkoutsCompleted: st.counts.WorkoutsCompleted,
		WaterGoalsMet:     st.counts.WaterGoalsMet,
		MealsLogged:       st.counts.MealsLogged,
		SleepLogs:         st.counts.SleepLogs,
		PRsAchieved:       st.counts.PRsAchieved,
		PerfectDays:       st.perfectDays,
		BestStreak:        st.streak.BestStreak,
		TotalXP:           totalXP,
	}
}

func (st *progressState) unlockedIDs() []string {
	ids := make([]string, 0, len(st.unlocks))
	for _, u := range st.unlocks {
		ids = append(ids, u.AchievementID)
	}
	return ids
}

// CurrentXP is the derived XP total. It is never stored.
func (s *ProgressService) CurrentXP(ctx context.Context, userID string) (int, error) {
	st, err := s.loadState(ctx, userID)
	if err != nil {
		return 0, err
	}
	return st.xp(s.now()).Total(), nil
}

func (s *ProgressService) GetProgress(ctx context.Context, userID string) (*ProgressView, error) {
	st, err := s.loadState(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	breakdown := st.xp(now)
	total := breakdown.Total()
	level := domain.LevelFromXP(total)

	return &ProgressView{
		UserID:        userID,
		TotalXP:       total,
		XP:            breakdown,
		Level:         level,
		NextLevel:     domain.NextLevel(level),
		XPToNextLevel: domain.XPToNextLevel(total),
		LevelProgress: domain.LevelProgress(total),
		CurrentStreak: st.activeStreak(now),
		BestStreak:    st.streak.BestStreak,
		Streak:        st.streak,
		Stats:         st.stats(total),
		Achievements:  st.unlocks,
	}, nil
}

type AchievementStatus struct {
	domain.Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// ListAchievements returns the whole catalog, flagging what the user owns.
func (s *ProgressService) ListAchievements(ctx context.Context, userID string) ([]AchievementStatus, error) {
	unlocks, err := s.progress.ListAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("progress service: failed to load achievements: %w", err)
	}

	owned := make(map[string]time.Time, len(unlocks))
	for _, u := range unlocks {
		owned[u.AchievementID] = u.UnlockedAt
	}

	list := make([]AchievementStatus, 0, len(domain.AchievementCatalog))
	for _, a := range domain.AchievementCatalog {
		status := AchievementStatus{Achievement: a}
		if at, ok := owned[a.ID]; ok {
			unlockedAt := at
			status.Unlocked = true
			status.UnlockedAt = &unlockedAt
		}
		list = append(list, status)
	}
	return list, nil
}

type RecordActivityInput struct {
	UserID string
	Date   time.Time
	// XPBefore is the XP before the activity was stored. When nil the
	// current XP is used, so only streak and achievement XP can level up.
	XPBefore *int
}

type ProgressUpdate struct {
	Streak          domain.StreakData    `json:"streak"`
	StreakChange    domain.StreakChange  `json:"streak_change"`
	StreakMessage   string               `json:"streak_message,omitempty"`
	Comeback        bool                 `json:"comeback"`
	StreakBonus     int                  `json:"streak_bonus"`
	PerfectDay      bool                 `json:"perfect_day"`
	NewAchievements []domain.Achievement `json:"new_achievements"`
	XPBefore        int                  `json:"xp_before"`
	XPAfter         int                  `json:"xp_after"`
	LevelUp         *domain.Level        `json:"level_up,omitempty"`
}

// RecordActivity folds one day of activity into the user's streak, marks
// perfect days, persists newly unlocked achievements and detects level ups.
// A day without any logged row returns ErrNoActivityOnDay.
func (s *ProgressService) RecordActivity(ctx context.Context, input RecordActivityInput) (*ProgressUpdate, error) {
	now := s.now()
	if err := domain.ValidateNotFuture(input.Date, now); err != nil {
		return nil, err
	}

	day, err := domain.NewDateRange(input.Date, input.Date)
	if err != nil {
		return nil, err
	}
	data, err := s.activities.ListInRange(ctx, input.UserID, day)
	if err != nil {
		return nil, fmt.Errorf("progress service: failed to load day: %w", err)
	}
	if data.IsEmpty() {
		return nil, domain.ErrNoActivityOnDay
	}

	st, err := s.loadState(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	changed := false
	defer func() {
		if changed {
			s.invalidate(ctx, input.UserID)
		}
	}()

	update := &ProgressUpdate{}
	if input.XPBefore != nil {
		update.XPBefore = *input.XPBefore
	} else {
		update.XPBefore = st.xp(now).Total()
	}

	previous := st.streak
	st.streak = domain.UpdateStreakData(previous, input.Date)
	st.streak.UserID = input.UserID
	update.StreakChange = domain.StreakTransition(previous, st.streak)
	if update.StreakChange != domain.StreakUnchanged {
		st.streak.UpdatedAt = now.UTC()
		if err := s.progress.SaveStreak(ctx, &st.streak); err != nil {
			return nil, fmt.Errorf("progress service: failed to save streak: %w", err)
		}
		changed = true
		metrics.StreakTransitions.WithLabelValues(string(update.StreakChange)).Inc()
		update.StreakBonus = domain.StreakBonus(st.streak.CurrentStreak)
	}
	update.Streak = st.streak
	update.StreakMessage = domain.StreakMessage(previous, st.streak)
	update.Comeback = domain.IsComeback(previous, st.streak)

	perfect, err := s.markPerfectDay(ctx, st, input.UserID, day, data)
	if err != nil {
		return nil, err
	}
	update.PerfectDay = perfect
	changed = changed || perfect

	unlocked, err := s.unlockAchievements(ctx, st, input.UserID, now)
	changed = changed || len(unlocked) > 0
	if err != nil {
		return nil, err
	}
	update.NewAchievements = unlocked

	update.XPAfter = st.xp(now).Total()
	update.LevelUp = domain.CheckLevelUp(update.XPBefore, update.XPAfter)
	if update.LevelUp != nil {
		metrics.LevelUps.WithLabelValues(strconv.Itoa(update.LevelUp.Level)).Inc()
		s.logger.Info("level up",
			zap.String("user_id", input.UserID),
			zap.Int("level", update.LevelUp.Level),
			zap.String("name", update.LevelUp.Name),
		)
	}

	s.logger.Debug("activity recorded",
		zap.String("user_id", input.UserID),
		zap.String("streak_change", string(update.StreakChange)),
		zap.Int("current_streak", st.streak.CurrentStreak),
		zap.Int("xp_before", update.XPBefore),
		zap.Int("xp_after", update.XPAfter),
		zap.Int("unlocked", len(unlocked)),
	)
	return update, nil
}

func (s *ProgressService) markPerfectDay(ctx context.Context, st *progressState, userID string, day domain.DateRange, data *domain.PeriodData) (bool, error) {
	summary := domain.BuildPeriodSummary(day, *data, *st.targets, domain.GamificationContext{})
	if summary.Score.PerfectDays == 0 {
		return false, nil
	}

	if err := s.progress.MarkPerfectDay(ctx, userID, day.Start); err != nil {
		return false, fmt.Errorf("progress service: failed to mark perfect day: %w", err)
	}
	count, err := s.progress.CountPerfectDays(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("progress service: failed to count perfect days: %w", err)
	}
	st.perfectDays = count
	return true, nil
}

// unlockAchievements repeats the catalog check until nothing new unlocks,
// since achievement rewards can lift the level into a level achievement.
func (s *ProgressService) unlockAchievements(ctx context.Context, st *progressState, userID string, now time.Time) ([]domain.Achievement, error) {
	var unlocked []domain.Achievement

	for round := 0; round < len(domain.AchievementCatalog); round++ {
		total := st.xp(now).Total()
		level := domain.LevelFromXP(total).Level
		candidates := domain.CheckUnlockedAchievements(st.stats(total), level, st.activeStreak(now), st.unlockedIDs())
		if len(candidates) == 0 {
			break
		}

		for _, a := range candidates {
			record := domain.UserAchievement{
				ID:            uuid.NewString(),
				UserID:        userID,
				AchievementID: a.ID,
				UnlockedAt:    now.UTC(),
			}
			err := s.progress.AddAchievement(ctx, &record)
			if err != nil && !errors.Is(err, domain.ErrAchievementAlreadyOwned) {
				return unlocked, fmt.Errorf("progress service: failed to unlock %s: %w", a.ID, err)
			}
			st.unlocks = append(st.unlocks, record)
			if err != nil {
				continue
			}

			unlocked = append(unlocked, a)
			metrics.AchievementsUnlocked.WithLabelValues(string(a.Category)).Inc()
			s.logger.Info("achievement unlocked",
				zap.String("user_id", userID),
				zap.String("achievement", a.ID),
				zap.Int("xp_reward", a.XPReward),
			)
		}
	}
	return unlocked, nil
}

// RebuildStreak recomputes the stored streak from every activity day.
func (s *ProgressService) RebuildStreak(ctx context.Context, userID string) (*domain.StreakData, error) {
	dates, err := s.activities.ListActivityDates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("progress service: failed to list activity days: %w", err)
	}

	streak := domain.RebuildStreak(userID, dates)
	streak.UpdatedAt = s.now().UTC()
	if err := s.progress.SaveStreak(ctx, &streak); err != nil {
		return nil, fmt.Errorf("progress service: failed to save streak: %w", err)
	}
	s.invalidate(ctx, userID)
	return &streak, nil
}

// ProcessJob runs a job queued by the progress worker.
func (s *ProgressService) ProcessJob(ctx context.Context, job workers.ProgressJob) error {
	switch job.Kind {
	case workers.JobRebuild:
		_, err := s.RebuildStreak(ctx, job.UserID)
		return err
	case workers.JobRecord:
		xpBefore := job.XPBefore
		_, err := s.RecordActivity(ctx, RecordActivityInput{
			UserID:   job.UserID,
			Date:     job.ActivityDate,
			XPBefore: &xpBefore,
		})
		if errors.Is(err, domain.ErrNoActivityOnDay) {
			// The row was deleted before the job ran; its rebuild job follows.
			s.logger.Debug("skipping empty day",
				zap.String("user_id", job.UserID),
				zap.Time("date", job.ActivityDate),
			)
			return nil
		}
		return err
	default:
		return fmt.Errorf("progress service: unknown job kind %q", job.Kind)
	}
}

func (s *ProgressService) invalidate(ctx context.Context, userID string) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateUser(ctx, userID); err != nil {
		s.logger.Warn("failed to invalidate cached reports",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}
