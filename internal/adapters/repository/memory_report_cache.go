package repository

import (
	"context"
	"sync"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
)

var _ domain.ReportCache = (*InMemoryReportCache)(nil)

type reportKey struct {
	userID string
	from   string
	to     string
}

func newReportKey(userID string, r domain.DateRange) reportKey {
	return reportKey{
		userID: userID,
		from:   r.Start.Format("2006-01-02"),
		to:     r.End.Format("2006-01-02"),
	}
}

// InMemoryReportCache is the process-local report cache used when Redis is
// not configured. Entries live until the user's data changes.
type InMemoryReportCache struct {
	store map[reportKey]domain.Report

	mu sync.RWMutex
}

func NewInMemoryReportCache() *InMemoryReportCache {
	return &InMemoryReportCache{
		store: make(map[reportKey]domain.Report),
	}
}

func (c *InMemoryReportCache) GetReport(ctx context.Context, userID string, r domain.DateRange) (*domain.Report, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	report, ok := c.store[newReportKey(userID, r)]
	if !ok {
		return nil, domain.ErrReportNotCached
	}
	return &report, nil
}

func (c *InMemoryReportCache) SetReport(ctx context.Context, report *domain.Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[newReportKey(report.UserID, report.Range)] = *report
	return nil
}

func (c *InMemoryReportCache) InvalidateUser(ctx context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k := range c.store {
		if k.userID == userID {
			delete(c.store, k)
		}
	}
	return nil
}
