package domain

import (
	"errors"
	"math"
	"time"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidDateRange = errors.New("start date cannot be after end date")
)

// roundHalfUp rounds .5 toward +Inf, so -2.5 becomes -2 and 2.5 becomes 3.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// Day truncates t to UTC midnight of its calendar date.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func dayKey(t time.Time) string {
	return Day(t).Format(dateLayout)
}

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange normalizes both bounds to UTC midnight.
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: Day(start), End: Day(end)}
	if r.Start.After(r.End) {
		return DateRange{}, ErrInvalidDateRange
	}
	return r, nil
}

// Days returns the inclusive number of calendar days in the range.
func (r DateRange) Days() int {
	start, end := Day(r.Start), Day(r.End)
	if start.After(end) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Dates lists every calendar day in the range, oldest first.
func (r DateRange) Dates() []time.Time {
	n := r.Days()
	dates := make([]time.Time, 0, n)
	current := Day(r.Start)
	for i := 0; i < n; i++ {
		dates = append(dates, current)
		current = current.AddDate(0, 0, 1)
	}
	return dates
}

// Contains reports whether t falls on a day inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(r.Start)) && !d.After(Day(r.End))
}

// Previous returns the range of equal length that ends the day before r starts.
func (r DateRange) Previous() DateRange {
	n := r.Days()
	end := Day(r.Start).AddDate(0, 0, -1)
	return DateRange{Start: end.AddDate(0, 0, -(n - 1)), End: end}
}
