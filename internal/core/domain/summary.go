package domain

import (
	"math"
	"sort"
	"time"
)

// calorieTolerance is the ± band around the calorie target that counts as on target.
const calorieTolerance = 0.10

// PeriodData is every activity row of one user inside a range.
type PeriodData struct {
	Workouts []WorkoutRecord
	Meals    []MealRecord
	Water    []WaterRecord
	Sleep    []SleepRecord
	Body     []BodyMeasurement

	// PlannedWorkouts overrides the planned count when a real plan exists.
	PlannedWorkouts int
}

// IsEmpty reports whether no row of any kind was read.
func (d *PeriodData) IsEmpty() bool {
	return len(d.Workouts) == 0 && len(d.Meals) == 0 && len(d.Water) == 0 &&
		len(d.Sleep) == 0 && len(d.Body) == 0
}

// GamificationContext carries the progress state the rows alone cannot give.
type GamificationContext struct {
	// XPBefore is the XP held when the range started.
	XPBefore int
	Unlocked []UserAchievement
	Streak   StreakData
	AsOf     time.Time
}

type WorkoutSummary struct {
	Completed      int `json:"completed"`
	Planned        int `json:"planned"`
	CompletionRate int `json:"completion_rate"`
	TotalMinutes   int `json:"total_minutes"`
	TotalCalories  int `json:"total_calories"`
	PRsCount       int `json:"prs_count"`
}

type NutritionSummary struct {
	AvgCalories         float64 `json:"avg_calories"`
	AvgProtein          float64 `json:"avg_protein"`
	AvgCarbs            float64 `json:"avg_carbs"`
	AvgFat              float64 `json:"avg_fat"`
	DaysOnCalorieTarget int     `json:"days_on_calorie_target"`
	DaysOnProteinTarget int     `json:"days_on_protein_target"`
	TotalMealsLogged    int     `json:"total_meals_logged"`
	DaysLogged          int     `json:"days_logged"`
}

type HydrationSummary struct {
	AvgDaily     float64 `json:"avg_daily"`
	TotalLiters  float64 `json:"total_liters"`
	DaysOnTarget int     `json:"days_on_target"`
	TargetRate   int     `json:"target_rate"`
	DaysLogged   int     `json:"days_logged"`
}

type SleepSummary struct {
	AvgHours   float64 `json:"avg_hours"`
	DaysLogged int     `json:"days_logged"`
}

type BodySummary struct {
	StartWeightKg    float64  `json:"start_weight_kg"`
	EndWeightKg      float64  `json:"end_weight_kg"`
	WeightChangeKg   float64  `json:"weight_change_kg"`
	BodyFatChangePct *float64 `json:"body_fat_change_pct,omitempty"`
}

type ScoreSummary struct {
	Average     float64               `json:"average"`
	Best        int                   `json:"best"`
	Worst       int                   `json:"worst"`
	PerfectDays int                   `json:"perfect_days"`
	DailyScores []DailyScoreBreakdown `json:"daily_scores"`
}

type GamificationSummary struct {
	XPGained             int `json:"xp_gained"`
	LevelsGained         int `json:"levels_gained"`
	AchievementsUnlocked int `json:"achievements_unlocked"`
	CurrentStreak        int `json:"current_streak"`
	BestStreak           int `json:"best_streak"`
}

type PeriodSummary struct {
	Range        DateRange           `json:"range"`
	Days         int                 `json:"days"`
	ActiveDays   int                 `json:"active_days"`
	Workouts     WorkoutSummary      `json:"workouts"`
	Nutrition    NutritionSummary    `json:"nutrition"`
	Hydration    HydrationSummary    `json:"hydration"`
	Sleep        SleepSummary        `json:"sleep"`
	Body         *BodySummary        `json:"body,omitempty"`
	Score        ScoreSummary        `json:"score"`
	Gamification GamificationSummary `json:"gamification"`
}

// EmptyPeriodSummary is the all-zero summary used when no data could be read.
// The score series still has one zero entry per day.
func EmptyPeriodSummary(r DateRange) PeriodSummary {
	scores := make([]DailyScoreBreakdown, 0, r.Days())
	for _, d := range r.Dates() {
		scores = append(scores, DailyScoreBreakdown{Date: d})
	}
	return PeriodSummary{
		Range: r,
		Days:  r.Days(),
		Score: ScoreSummary{DailyScores: scores},
	}
}

type dayTotals struct {
	workoutDone bool
	meals       int
	calories    float64
	protein     float64
	carbs       float64
	fat         float64
	waterMl     int
	sleepHours  float64
	sleepLogged bool
}

// BuildPeriodSummary aggregates the rows falling inside r. Rows dated outside
// the range are ignored.
func BuildPeriodSummary(r DateRange, data PeriodData, targets Targets, gctx GamificationContext) PeriodSummary {
	summary := EmptyPeriodSummary(r)
	days := make(map[string]*dayTotals, summary.Days)
	get := func(t time.Time) *dayTotals {
		k := dayKey(t)
		d, ok := days[k]
		if !ok {
			d = &dayTotals{}
			days[k] = d
		}
		return d
	}

	var workouts []WorkoutRecord
	for _, w := range data.Workouts {
		if !r.Contains(w.Date) {
			continue
		}
		workouts = append(workouts, w)
		d := get(w.Date)
		if w.Completed {
			d.workoutDone = true
		}
	}

	mealsInRange := 0
	for _, m := range data.Meals {
		if !r.Contains(m.Date) {
			continue
		}
		mealsInRange++
		d := get(m.Date)
		d.meals++
		d.calories += float64(m.Calories)
		d.protein += m.ProteinG
		d.carbs += m.CarbsG
		d.fat += m.FatG
	}

	for _, w := range data.Water {
		if !r.Contains(w.Date) {
			continue
		}
		get(w.Date).waterMl += w.AmountMl
	}

	sleepInRange := 0
	for _, s := range data.Sleep {
		if !r.Contains(s.Date) {
			continue
		}
		sleepInRange++
		d := get(s.Date)
		d.sleepHours += s.Hours
		d.sleepLogged = true
	}

	summary.ActiveDays = len(days)
	summary.Workouts = summarizeWorkouts(workouts, data.PlannedWorkouts, summary.Days)
	summary.Nutrition = summarizeNutrition(days, targets)
	summary.Nutrition.TotalMealsLogged = mealsInRange
	summary.Hydration = summarizeHydration(days, targets)
	summary.Sleep = summarizeSleep(days)
	summary.Body = summarizeBody(r, data.Body)
	summary.Score = summarizeScores(r, days, targets)

	counts := ActivityCounts{
		WorkoutsCompleted: summary.Workouts.Completed,
		WaterGoalsMet:     summary.Hydration.DaysOnTarget,
		MealsLogged:       mealsInRange,
		SleepLogs:         sleepInRange,
		PRsAchieved:       summary.Workouts.PRsCount,
	}
	summary.Gamification = summarizeGamification(r, counts, gctx)
	return summary
}

func summarizeWorkouts(workouts []WorkoutRecord, planned, days int) WorkoutSummary {
	var s WorkoutSummary
	for _, w := range workouts {
		if w.Completed {
			s.Completed++
		}
		s.TotalMinutes += nonNegative(w.DurationMinutes)
		s.TotalCalories += nonNegative(w.CaloriesBurned)
		s.PRsCount += nonNegative(w.PersonalRecords)
	}

	// Without an explicit plan, one workout per day approximates the plan.
	s.Planned = planned
	if s.Planned <= 0 {
		s.Planned = days
		if len(workouts) > s.Planned {
			s.Planned = len(workouts)
		}
	}
	if s.Planned > 0 {
		s.CompletionRate = roundHalfUp(float64(s.Completed) / float64(s.Planned) * 100)
	}
	return s
}

func summarizeNutrition(days map[string]*dayTotals, targets Targets) NutritionSummary {
	var s NutritionSummary
	var calories, protein, carbs, fat float64
	for _, d := range days {
		if d.meals == 0 {
			continue
		}
		s.DaysLogged++
		calories += d.calories
		protein += d.protein
		carbs += d.carbs
		fat += d.fat

		if targets.CalorieTarget > 0 {
			target := float64(targets.CalorieTarget)
			if math.Abs(d.calories-target) <= target*calorieTolerance {
				s.DaysOnCalorieTarget++
			}
		}
		if d.protein >= targets.ProteinTarget {
			s.DaysOnProteinTarget++
		}
	}

	// Averages only count days with at least one meal.
	denominator := float64(s.DaysLogged)
	if denominator == 0 {
		denominator = 1
	}
	s.AvgCalories = roundTo(calories/denominator, 1)
	s.AvgProtein = roundTo(protein/denominator, 1)
	s.AvgCarbs = roundTo(carbs/denominator, 1)
	s.AvgFat = roundTo(fat/denominator, 1)
	return s
}

func summarizeHydration(days map[string]*dayTotals, targets Targets) HydrationSummary {
	var s HydrationSummary
	total := 0
	for _, d := range days {
		if d.waterMl <= 0 {
			continue
		}
		s.DaysLogged++
		total += d.waterMl
		if d.waterMl >= targets.WaterTargetMl {
			s.DaysOnTarget++
		}
	}

	denominator := float64(s.DaysLogged)
	if denominator == 0 {
		denominator = 1
	}
	s.AvgDaily = roundTo(float64(total)/denominator, 1)
	s.TotalLiters = roundTo(float64(total)/1000, 2)
	if s.DaysLogged > 0 {
		s.TargetRate = roundHalfUp(float64(s.DaysOnTarget) / float64(s.DaysLogged) * 100)
	}
	return s
}

func summarizeSleep(days map[string]*dayTotals) SleepSummary {
	var s SleepSummary
	hours := 0.0
	for _, d := range days {
		if !d.sleepLogged {
			continue
		}
		s.DaysLogged++
		hours += d.sleepHours
	}
	if s.DaysLogged > 0 {
		s.AvgHours = roundTo(hours/float64(s.DaysLogged), 1)
	}
	return s
}

func summarizeBody(r DateRange, measurements []BodyMeasurement) *BodySummary {
	var inRange []BodyMeasurement
	for _, m := range measurements {
		if r.Contains(m.Date) {
			inRange = append(inRange, m)
		}
	}
	if len(inRange) < 2 {
		return nil
	}
	sort.SliceStable(inRange, func(i, j int) bool {
		return inRange[i].Date.Before(inRange[j].Date)
	})

	first, last := inRange[0], inRange[len(inRange)-1]
	s := &BodySummary{
		StartWeightKg:  first.WeightKg,
		EndWeightKg:    last.WeightKg,
		WeightChangeKg: roundTo(last.WeightKg-first.WeightKg, 1),
	}
	if first.BodyFatPct != nil && last.BodyFatPct != nil {
		change := roundTo(*last.BodyFatPct-*first.BodyFatPct, 1)
		s.BodyFatChangePct = &change
	}
	return s
}

func summarizeScores(r DateRange, days map[string]*dayTotals, targets Targets) ScoreSummary {
	s := ScoreSummary{DailyScores: make([]DailyScoreBreakdown, 0, r.Days())}
	sum := 0
	for i, date := range r.Dates() {
		signals := DaySignals{WaterTargetMl: targets.WaterTargetMl}
		if d, ok := days[dayKey(date)]; ok {
			signals.WorkoutCompleted = d.workoutDone
			signals.WaterMl = d.waterMl
			signals.MealsLoggedCount = d.meals
			signals.SleepLogged = d.sleepLogged
		}

		score := ComposeDailyScore(signals)
		score.Date = date
		s.DailyScores = append(s.DailyScores, score)

		sum += score.Total
		if i == 0 || score.Total > s.Best {
			s.Best = score.Total
		}
		if i == 0 || score.Total < s.Worst {
			s.Worst = score.Total
		}
		if score.Total >= PerfectDayScore {
			s.PerfectDays++
		}
	}
	if n := len(s.DailyScores); n > 0 {
		s.Average = roundTo(float64(sum)/float64(n), 1)
	}
	return s
}

func summarizeGamification(r DateRange, counts ActivityCounts, gctx GamificationContext) GamificationSummary {
	var unlocked []UserAchievement
	for _, u := range gctx.Unlocked {
		if r.Contains(u.UnlockedAt) {
			unlocked = append(unlocked, u)
		}
	}

	gained := TotalXP(counts) + AchievementXP(unlocked)
	before := nonNegative(gctx.XPBefore)

	asOf := gctx.AsOf
	if asOf.IsZero() {
		asOf = r.End
	}

	return GamificationSummary{
		XPGained:             gained,
		LevelsGained:         LevelFromXP(before+gained).Level - LevelFromXP(before).Level,
		AchievementsUnlocked: len(unlocked),
		CurrentStreak:        gctx.Streak.ActiveOn(asOf),
		BestStreak:           gctx.Streak.BestStreak,
	}
}

func roundTo(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(x*p+0.5) / p
}
