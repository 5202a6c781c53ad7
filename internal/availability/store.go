package availability

import (
	"context"

	"github.com/twisthair/booking-api/internal/appointments"
)

// Store is the authoritative record of admin slot overrides.
type Store interface {
	// ListOverrides returns all overrides, oldest date first.
	ListOverrides(ctx context.Context) ([]*DisabledSlot, error)

	// DisabledSet reports which (date, time_slot) pairs among the given
	// dates carry an override.
	DisabledSet(ctx context.Context, dates []string) (map[appointments.SlotRef]bool, error)

	// IsDisabled reports whether one slot carries an override.
	IsDisabled(ctx context.Context, date, timeSlot string) (bool, error)

	// Disable records an override. It fails with ErrSlotBooked when the slot
	// holds an active appointment and is idempotent when already disabled.
	Disable(ctx context.Context, date, timeSlot string) error

	// Restore removes an override; restoring an absent override is a no-op.
	Restore(ctx context.Context, date, timeSlot string) error
}
