package appointments

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/twisthair/booking-api/internal/schedule"
)

// DisabledChecker reports whether an admin override blocks a slot.
// The availability package provides the real implementation.
type DisabledChecker interface {
	IsDisabled(ctx context.Context, date, timeSlot string) (bool, error)
}

// MemoryRepository keeps appointments in memory. It backs tests and local
// development without Postgres; the mutex gives it the same one-winner
// guarantee for concurrent creates.
type MemoryRepository struct {
	mu       sync.RWMutex
	byID     map[uuid.UUID]*Appointment
	catalog  *schedule.Catalog
	disabled DisabledChecker
}

// NewMemoryRepository creates an empty in-memory repository. disabled may be
// nil when override checks are not needed.
func NewMemoryRepository(catalog *schedule.Catalog, disabled DisabledChecker) *MemoryRepository {
	if catalog == nil {
		catalog = schedule.Default()
	}
	return &MemoryRepository{
		byID:     make(map[uuid.UUID]*Appointment),
		catalog:  catalog,
		disabled: disabled,
	}
}

// Create validates, checks the slot, and inserts under one lock.
func (r *MemoryRepository) Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !r.catalog.HasSlot(req.Date, req.TimeSlot) {
		return nil, ErrInvalidDate
	}

	if r.disabled != nil {
		blocked, err := r.disabled.IsDisabled(ctx, req.Date, req.TimeSlot)
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, ErrSlotUnavailable
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.byID {
		if a.Date == req.Date && a.TimeSlot == req.TimeSlot && a.Status.Active() {
			return nil, ErrSlotUnavailable
		}
	}

	appt := &Appointment{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		Date:      req.Date,
		TimeSlot:  req.TimeSlot,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	r.byID[appt.ID] = appt
	return copyOf(appt), nil
}

// GetByID retrieves an appointment by id.
func (r *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appt, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyOf(appt), nil
}

// SetStatus applies a workflow transition.
func (r *MemoryRepository) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !appt.Status.CanTransitionTo(status) {
		return nil, ErrInvalidTransition
	}
	appt.Status = status
	return copyOf(appt), nil
}

// Delete removes an appointment permanently.
func (r *MemoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// List returns matching appointments, newest first.
func (r *MemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Appointment, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	needle := strings.ToLower(strings.TrimSpace(filter.Search))

	r.mu.RLock()
	var out []*Appointment
	for _, a := range r.byID {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if needle != "" && !matchesSearch(a, needle) {
			continue
		}
		out = append(out, copyOf(a))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// BookedSlots reports occupied slots for the given dates.
func (r *MemoryRepository) BookedSlots(ctx context.Context, dates []string) (map[SlotRef]bool, error) {
	wanted := make(map[string]bool, len(dates))
	for _, d := range dates {
		wanted[d] = true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	booked := make(map[SlotRef]bool)
	for _, a := range r.byID {
		if wanted[a.Date] && a.Status.Active() {
			booked[SlotRef{Date: a.Date, TimeSlot: a.TimeSlot}] = true
		}
	}
	return booked, nil
}

// IsBooked reports whether one slot is occupied.
func (r *MemoryRepository) IsBooked(ctx context.Context, date, timeSlot string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		if a.Date == date && a.TimeSlot == timeSlot && a.Status.Active() {
			return true, nil
		}
	}
	return false, nil
}

// CountByStatus tallies appointments per status.
func (r *MemoryRepository) CountByStatus(ctx context.Context) (map[Status]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[Status]int)
	for _, a := range r.byID {
		counts[a.Status]++
	}
	return counts, nil
}

// CountByDate tallies appointments on one date, any status.
func (r *MemoryRepository) CountByDate(ctx context.Context, date string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, a := range r.byID {
		if a.Date == date {
			n++
		}
	}
	return n, nil
}

func matchesSearch(a *Appointment, needle string) bool {
	return strings.Contains(strings.ToLower(a.Name), needle) ||
		strings.Contains(strings.ToLower(a.Email), needle) ||
		strings.Contains(strings.ToLower(a.Phone), needle)
}

func copyOf(a *Appointment) *Appointment {
	cp := *a
	return &cp
}
