package appointments

import "errors"

var (
	// ErrValidation is returned when a required field is missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidDate is returned when the catalog defines no slots for the date
	// or the named slot does not exist on it.
	ErrInvalidDate = errors.New("date or time slot not bookable")

	// ErrSlotUnavailable is returned when the slot is already booked or has
	// been disabled by an admin.
	ErrSlotUnavailable = errors.New("time slot unavailable")

	// ErrNotFound is returned when no appointment has the given id.
	ErrNotFound = errors.New("appointment not found")

	// ErrInvalidStatus is returned for a status outside the known enum.
	ErrInvalidStatus = errors.New("unknown appointment status")

	// ErrInvalidTransition is returned when the workflow forbids the move.
	ErrInvalidTransition = errors.New("status transition not allowed")
)
