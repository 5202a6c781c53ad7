package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/twisthair/booking-api/internal/appointments"
	"github.com/twisthair/booking-api/internal/schedule"
)

// View joins booking occupancy with admin overrides into per-date slot
// statuses. Read-only; both the booking form and the admin date controller
// consume it.
type View struct {
	catalog      *schedule.Catalog
	bookings     appointments.Repository
	overrides    Store
	horizonWeeks int
}

// NewView wires the reconciliation view.
func NewView(catalog *schedule.Catalog, bookings appointments.Repository, overrides Store, horizonWeeks int) *View {
	if catalog == nil {
		catalog = schedule.Default()
	}
	if horizonWeeks <= 0 {
		horizonWeeks = 4
	}
	return &View{
		catalog:      catalog,
		bookings:     bookings,
		overrides:    overrides,
		horizonWeeks: horizonWeeks,
	}
}

// AvailableDates builds DateEntry results for every bookable date from now
// through the horizon. Dates ascend; slots keep catalog order. A booked slot
// is always reported booked, never disabled, even when an override exists.
func (v *View) AvailableDates(ctx context.Context, now time.Time) ([]DateEntry, error) {
	dates := v.catalog.UpcomingDates(now, v.horizonWeeks)
	return v.Reconcile(ctx, dates)
}

// Reconcile builds DateEntry results for an explicit set of dates.
func (v *View) Reconcile(ctx context.Context, dates []string) ([]DateEntry, error) {
	if len(dates) == 0 {
		return []DateEntry{}, nil
	}

	booked, err := v.bookings.BookedSlots(ctx, dates)
	if err != nil {
		return nil, fmt.Errorf("availability: load bookings: %w", err)
	}
	disabled, err := v.overrides.DisabledSet(ctx, dates)
	if err != nil {
		return nil, fmt.Errorf("availability: load overrides: %w", err)
	}

	entries := make([]DateEntry, 0, len(dates))
	for _, date := range dates {
		slots := v.catalog.SlotsFor(date)
		if len(slots) == 0 {
			continue
		}

		entry := DateEntry{
			Date:           date,
			DisplayDate:    v.catalog.FormatDisplayDate(date),
			AvailableSlots: make([]SlotStatus, 0, len(slots)),
		}
		for _, slot := range slots {
			ref := appointments.SlotRef{Date: date, TimeSlot: slot.Value}
			status := SlotStatus{Slot: slot}
			switch {
			case booked[ref]:
				status.Booked = true
				entry.BookedCount++
			case disabled[ref]:
				status.AdminDisabled = true
				entry.DisabledCount++
			default:
				status.Available = true
				entry.AvailableSlotsCount++
			}
			entry.AvailableSlots = append(entry.AvailableSlots, status)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
