package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/workers"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// memoryActivities is an in-memory ActivityRepository.
type memoryActivities struct {
	data          domain.PeriodData
	simulateError error
}

func newMemoryActivities() *memoryActivities {
	return &memoryActivities{}
}

func (m *memoryActivities) CreateWorkout(_ context.Context, w *domain.WorkoutRecord) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	m.data.Workouts = append(m.data.Workouts, *w)
	return nil
}

func (m *memoryActivities) CreateMeal(_ context.Context, meal *domain.MealRecord) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	m.data.Meals = append(m.data.Meals, *meal)
	return nil
}

func (m *memoryActivities) CreateWater(_ context.Context, w *domain.WaterRecord) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	m.data.Water = append(m.data.Water, *w)
	return nil
}

func (m *memoryActivities) CreateSleep(_ context.Context, s *domain.SleepRecord) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	m.data.Sleep = append(m.data.Sleep, *s)
	return nil
}

func (m *memoryActivities) CreateBody(_ context.Context, b *domain.BodyMeasurement) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	m.data.Body = append(m.data.Body, *b)
	return nil
}

func (m *memoryActivities) ListInRange(_ context.Context, userID string, r domain.DateRange) (*domain.PeriodData, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	out := &domain.PeriodData{}
	for _, w := range m.data.Workouts {
		if w.UserID == userID && r.Contains(w.Date) {
			out.Workouts = append(out.Workouts, w)
		}
	}
	for _, meal := range m.data.Meals {
		if meal.UserID == userID && r.Contains(meal.Date) {
			out.Meals = append(out.Meals, meal)
		}
	}
	for _, w := range m.data.Water {
		if w.UserID == userID && r.Contains(w.Date) {
			out.Water = append(out.Water, w)
		}
	}
	for _, s := range m.data.Sleep {
		if s.UserID == userID && r.Contains(s.Date) {
			out.Sleep = append(out.Sleep, s)
		}
	}
	for _, b := range m.data.Body {
		if b.UserID == userID && r.Contains(b.Date) {
			out.Body = append(out.Body, b)
		}
	}
	return out, nil
}

func (m *memoryActivities) CountLifetime(_ context.Context, userID string, waterTargetMl int) (domain.ActivityCounts, error) {
	return m.count(userID, waterTargetMl, func(time.Time) bool { return true })
}

func (m *memoryActivities) CountBefore(_ context.Context, userID string, waterTargetMl int, day time.Time) (domain.ActivityCounts, error) {
	cutoff := domain.Day(day)
	return m.count(userID, waterTargetMl, func(t time.Time) bool { return domain.Day(t).Before(cutoff) })
}

func (m *memoryActivities) count(userID string, waterTargetMl int, keep func(time.Time) bool) (domain.ActivityCounts, error) {
	if m.simulateError != nil {
		return domain.ActivityCounts{}, m.simulateError
	}
	var c domain.ActivityCounts
	for _, w := range m.data.Workouts {
		if w.UserID != userID || !keep(w.Date) {
			continue
		}
		if w.Completed {
			c.WorkoutsCompleted++
		}
		c.PRsAchieved += w.PersonalRecords
	}
	for _, meal := range m.data.Meals {
		if meal.UserID == userID && keep(meal.Date) {
			c.MealsLogged++
		}
	}
	for _, s := range m.data.Sleep {
		if s.UserID == userID && keep(s.Date) {
			c.SleepLogs++
		}
	}
	water := map[time.Time]int{}
	for _, w := range m.data.Water {
		if w.UserID == userID && keep(w.Date) {
			water[domain.Day(w.Date)] += w.AmountMl
		}
	}
	for _, ml := range water {
		if ml >= waterTargetMl {
			c.WaterGoalsMet++
		}
	}
	return c, nil
}

func (m *memoryActivities) ListActivityDates(_ context.Context, userID string) ([]time.Time, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	seen := map[time.Time]bool{}
	add := func(owner string, t time.Time) {
		if owner == userID {
			seen[domain.Day(t)] = true
		}
	}
	for _, w := range m.data.Workouts {
		add(w.UserID, w.Date)
	}
	for _, meal := range m.data.Meals {
		add(meal.UserID, meal.Date)
	}
	for _, w := range m.data.Water {
		add(w.UserID, w.Date)
	}
	for _, s := range m.data.Sleep {
		add(s.UserID, s.Date)
	}
	for _, b := range m.data.Body {
		add(b.UserID, b.Date)
	}

	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

func (m *memoryActivities) Delete(_ context.Context, kind domain.ActivityKind, id, userID string) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	if kind == domain.ActivityWorkout {
		for i, w := range m.data.Workouts {
			if w.ID == id && w.UserID == userID {
				m.data.Workouts = append(m.data.Workouts[:i], m.data.Workouts[i+1:]...)
				return nil
			}
		}
	}
	if kind == domain.ActivityMeal {
		for i, meal := range m.data.Meals {
			if meal.ID == id && meal.UserID == userID {
				m.data.Meals = append(m.data.Meals[:i], m.data.Meals[i+1:]...)
				return nil
			}
		}
	}
	return domain.ErrActivityNotFound
}

func (m *memoryActivities) ListActiveUserIDs(ctx context.Context, r domain.DateRange) ([]string, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	seen := map[string]bool{}
	var ids []string
	add := func(userID string, t time.Time) {
		if r.Contains(t) && !seen[userID] {
			seen[userID] = true
			ids = append(ids, userID)
		}
	}
	for _, w := range m.data.Workouts {
		add(w.UserID, w.Date)
	}
	for _, meal := range m.data.Meals {
		add(meal.UserID, meal.Date)
	}
	for _, w := range m.data.Water {
		add(w.UserID, w.Date)
	}
	return ids, nil
}

// memoryProgress is an in-memory ProgressRepository.
type memoryProgress struct {
	streaks       map[string]domain.StreakData
	unlocks       map[string][]domain.UserAchievement
	perfect       map[string]map[time.Time]bool
	simulateError error
}

func newMemoryProgress() *memoryProgress {
	return &memoryProgress{
		streaks: map[string]domain.StreakData{},
		unlocks: map[string][]domain.UserAchievement{},
		perfect: map[string]map[time.Time]bool{},
	}
}

func (m *memoryProgress) GetStreak(_ context.Context, userID string) (*domain.StreakData, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	s, ok := m.streaks[userID]
	if !ok {
		return nil, domain.ErrStreakNotFound
	}
	return &s, nil
}

func (m *memoryProgress) SaveStreak(_ context.Context, streak *domain.StreakData) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	m.streaks[streak.UserID] = *streak
	return nil
}

func (m *memoryProgress) ListAchievements(_ context.Context, userID string) ([]domain.UserAchievement, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	return append([]domain.UserAchievement(nil), m.unlocks[userID]...), nil
}

func (m *memoryProgress) AddAchievement(_ context.Context, unlock *domain.UserAchievement) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	for _, u := range m.unlocks[unlock.UserID] {
		if u.AchievementID == unlock.AchievementID {
			return domain.ErrAchievementAlreadyOwned
		}
	}
	m.unlocks[unlock.UserID] = append(m.unlocks[unlock.UserID], *unlock)
	return nil
}

func (m *memoryProgress) MarkPerfectDay(_ context.Context, userID string, day time.Time) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	if m.perfect[userID] == nil {
		m.perfect[userID] = map[time.Time]bool{}
	}
	m.perfect[userID][domain.Day(day)] = true
	return nil
}

func (m *memoryProgress) CountPerfectDays(_ context.Context, userID string) (int, error) {
	if m.simulateError != nil {
		return 0, m.simulateError
	}
	return len(m.perfect[userID]), nil
}

// staticTargets serves the default goals, or err when set.
type staticTargets struct {
	err error
}

func (s staticTargets) GetTargets(_ context.Context, userID string) (*domain.Targets, error) {
	if s.err != nil {
		return nil, s.err
	}
	return domain.DefaultTargets(userID), nil
}

// recordingQueue keeps every enqueued job.
type recordingQueue struct {
	mu   sync.Mutex
	jobs []workers.ProgressJob
}

func (q *recordingQueue) Enqueue(job workers.ProgressJob) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
}

// memoryReportCache is an in-memory ReportCache.
type memoryReportCache struct {
	reports       map[string]domain.Report
	invalidated   []string
	simulateError error
}

func newMemoryReportCache() *memoryReportCache {
	return &memoryReportCache{reports: map[string]domain.Report{}}
}

func reportKey(userID string, r domain.DateRange) string {
	return userID + ":" + r.Start.Format(time.DateOnly) + ":" + r.End.Format(time.DateOnly)
}

func (c *memoryReportCache) GetReport(_ context.Context, userID string, r domain.DateRange) (*domain.Report, error) {
	if c.simulateError != nil {
		return nil, c.simulateError
	}
	report, ok := c.reports[reportKey(userID, r)]
	if !ok {
		return nil, domain.ErrReportNotCached
	}
	return &report, nil
}

func (c *memoryReportCache) SetReport(_ context.Context, report *domain.Report) error {
	if c.simulateError != nil {
		return c.simulateError
	}
	c.reports[reportKey(report.UserID, report.Range)] = *report
	return nil
}

func (c *memoryReportCache) InvalidateUser(_ context.Context, userID string) error {
	c.invalidated = append(c.invalidated, userID)
	for k, r := range c.reports {
		if r.UserID == userID {
			delete(c.reports, k)
		}
	}
	return c.simulateError
}
