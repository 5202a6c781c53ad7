package appointments

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for appointment storage.
type Repository interface {
	// Create inserts a pending appointment after verifying the slot is open.
	// The check and insert are atomic: concurrent creates for the same slot
	// yield exactly one success.
	Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error)

	// GetByID fetches one appointment.
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// SetStatus moves an appointment through the status workflow.
	SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error)

	// Delete permanently removes an appointment.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns appointments matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]*Appointment, error)

	// BookedSlots reports which (date, time_slot) pairs among the given dates
	// hold a non-canceled appointment.
	BookedSlots(ctx context.Context, dates []string) (map[SlotRef]bool, error)

	// IsBooked reports whether a single slot holds a non-canceled appointment.
	IsBooked(ctx context.Context, date, timeSlot string) (bool, error)

	// CountByStatus tallies appointments per status across the whole ledger.
	CountByStatus(ctx context.Context) (map[Status]int, error)

	// CountByDate tallies appointments on one calendar date, any status.
	CountByDate(ctx context.Context, date string) (int, error)
}
