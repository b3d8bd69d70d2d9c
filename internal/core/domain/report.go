package domain

import "time"

// Report is a period summary next to the equal-length period before it.
type Report struct {
	UserID      string        `json:"user_id"`
	Range       DateRange     `json:"range"`
	Current     PeriodSummary `json:"current"`
	Previous    PeriodSummary `json:"previous"`
	Trends      PeriodTrends  `json:"trends"`
	Insights    []Insight     `json:"insights"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// BuildReport compares current with previous. A previous period without any
// activity is not used as an insight baseline.
func BuildReport(userID string, current, previous PeriodSummary, now time.Time) Report {
	var baseline *PeriodSummary
	if previous.ActiveDays > 0 {
		baseline = &previous
	}
	return Report{
		UserID:      userID,
		Range:       current.Range,
		Current:     current,
		Previous:    previous,
		Trends:      ComparePeriods(current, previous),
		Insights:    GenerateInsights(current, baseline),
		GeneratedAt: now.UTC(),
	}
}
