// Package stats derives the admin dashboard counters from the appointment
// ledger.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/twisthair/booking-api/internal/appointments"
	"github.com/twisthair/booking-api/internal/schedule"
)

// Totals carries the dashboard counters. Field names match what the
// dashboard frontend reads.
type Totals struct {
	TotalBookings     int `json:"totalBookings"`
	PendingBookings   int `json:"pendingBookings"`
	ConfirmedBookings int `json:"confirmedBookings"`
	CompletedBookings int `json:"completedBookings"`
	CanceledBookings  int `json:"canceledBookings"`
	TodayBookings     int `json:"todayBookings"`
}

// Aggregator is a read-side projection over the ledger. No caching: the
// dashboard reads it rarely and counts must be live.
type Aggregator struct {
	repo    appointments.Repository
	catalog *schedule.Catalog
	now     func() time.Time
}

// NewAggregator wires an aggregator. now may be nil and defaults to time.Now.
func NewAggregator(repo appointments.Repository, catalog *schedule.Catalog, now func() time.Time) *Aggregator {
	if catalog == nil {
		catalog = schedule.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Aggregator{repo: repo, catalog: catalog, now: now}
}

// Totals computes all counters. "Today" is today in the catalog time zone.
func (a *Aggregator) Totals(ctx context.Context) (*Totals, error) {
	byStatus, err := a.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: count by status: %w", err)
	}

	today, err := a.repo.CountByDate(ctx, a.catalog.Today(a.now()))
	if err != nil {
		return nil, fmt.Errorf("stats: count today: %w", err)
	}

	t := &Totals{
		PendingBookings:   byStatus[appointments.StatusPending],
		ConfirmedBookings: byStatus[appointments.StatusConfirmed],
		CompletedBookings: byStatus[appointments.StatusCompleted],
		CanceledBookings:  byStatus[appointments.StatusCanceled],
		TodayBookings:     today,
	}
	t.TotalBookings = t.PendingBookings + t.ConfirmedBookings + t.CompletedBookings + t.CanceledBookings
	return t, nil
}
