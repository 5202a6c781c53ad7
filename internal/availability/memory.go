package availability

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/twisthair/booking-api/internal/appointments"
	"github.com/twisthair/booking-api/internal/schedule"
)

// BookingChecker reports whether a slot holds an active appointment.
// appointments.Repository satisfies it.
type BookingChecker interface {
	IsBooked(ctx context.Context, date, timeSlot string) (bool, error)
}

// MemoryStore keeps overrides in memory for tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	byRef    map[appointments.SlotRef]*DisabledSlot
	catalog  *schedule.Catalog
	bookings BookingChecker
}

// NewMemoryStore creates an empty in-memory store. bookings may be nil to
// skip the booked-slot conflict check.
func NewMemoryStore(catalog *schedule.Catalog, bookings BookingChecker) *MemoryStore {
	if catalog == nil {
		catalog = schedule.Default()
	}
	return &MemoryStore{
		byRef:    make(map[appointments.SlotRef]*DisabledSlot),
		catalog:  catalog,
		bookings: bookings,
	}
}

// ListOverrides returns all overrides, oldest date first.
func (s *MemoryStore) ListOverrides(ctx context.Context) ([]*DisabledSlot, error) {
	s.mu.RLock()
	out := make([]*DisabledSlot, 0, len(s.byRef))
	for _, d := range s.byRef {
		cp := *d
		out = append(out, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].TimeSlot < out[j].TimeSlot
	})
	return out, nil
}

// DisabledSet reports overridden slots among the given dates.
func (s *MemoryStore) DisabledSet(ctx context.Context, dates []string) (map[appointments.SlotRef]bool, error) {
	wanted := make(map[string]bool, len(dates))
	for _, d := range dates {
		wanted[d] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	disabled := make(map[appointments.SlotRef]bool)
	for ref := range s.byRef {
		if wanted[ref.Date] {
			disabled[ref] = true
		}
	}
	return disabled, nil
}

// IsDisabled reports whether one slot carries an override.
func (s *MemoryStore) IsDisabled(ctx context.Context, date, timeSlot string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byRef[appointments.SlotRef{Date: date, TimeSlot: timeSlot}] != nil, nil
}

// Disable records an override, rejecting slots with active bookings.
func (s *MemoryStore) Disable(ctx context.Context, date, timeSlot string) error {
	if !s.catalog.HasSlot(date, timeSlot) {
		return ErrNotBookable
	}
	if s.bookings != nil {
		booked, err := s.bookings.IsBooked(ctx, date, timeSlot)
		if err != nil {
			return err
		}
		if booked {
			return ErrSlotBooked
		}
	}

	ref := appointments.SlotRef{Date: date, TimeSlot: timeSlot}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byRef[ref] != nil {
		return nil
	}
	s.byRef[ref] = &DisabledSlot{
		ID:        uuid.New(),
		Date:      date,
		TimeSlot:  timeSlot,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// Restore removes an override; absent overrides are a no-op.
func (s *MemoryStore) Restore(ctx context.Context, date, timeSlot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byRef, appointments.SlotRef{Date: date, TimeSlot: timeSlot})
	return nil
}
