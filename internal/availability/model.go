// Package availability owns admin slot overrides and the read-time merge of
// override and booking state into per-date slot statuses.
package availability

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/twisthair/booking-api/internal/schedule"
)

var (
	// ErrNotBookable is returned when the catalog defines no such slot.
	ErrNotBookable = errors.New("date or time slot not in catalog")

	// ErrSlotBooked is returned when disabling a slot that holds an active
	// booking. The admin must cancel the appointment first.
	ErrSlotBooked = errors.New("slot has an active booking")
)

// DisabledSlot is an admin override marking a slot unavailable without an
// associated appointment.
type DisabledSlot struct {
	ID          uuid.UUID `json:"id"`
	Date        string    `json:"date"`
	TimeSlot    string    `json:"time_slot"`
	CreatedAt   time.Time `json:"created_at"`
	DisplayDate string    `json:"displayDate,omitempty"`
}

// SlotStatus is the reconciled state of one slot on one date. Exactly one of
// Available, Booked, AdminDisabled is true.
type SlotStatus struct {
	schedule.Slot
	Available     bool `json:"available"`
	Booked        bool `json:"booked"`
	AdminDisabled bool `json:"adminDisabled"`
}

// DateEntry is the per-date availability listing consumed by the booking form
// and the admin date controller.
type DateEntry struct {
	Date                string       `json:"date"`
	DisplayDate         string       `json:"displayDate"`
	AvailableSlots      []SlotStatus `json:"availableSlots"`
	AvailableSlotsCount int          `json:"availableSlotsCount"`
	BookedCount         int          `json:"bookedCount"`
	DisabledCount       int          `json:"disabledCount"`
}
