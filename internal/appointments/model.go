package appointments

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Status tracks the lifecycle of an appointment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// Active reports whether the appointment still occupies its slot.
func (s Status) Active() bool {
	return s.Valid() && s != StatusCanceled
}

// transitions is the forward-only workflow: pending -> confirmed -> completed,
// with canceled reachable from pending and confirmed. Completed and canceled
// are terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCanceled},
	StatusConfirmed: {StatusCompleted, StatusCanceled},
}

// CanTransitionTo reports whether the move from s to next is allowed.
// Setting the same status again is treated as a no-op and allowed.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	for _, allowed := range transitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Appointment is a customer booking bound to one (date, time_slot) pair.
type Appointment struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message,omitempty"`
	Date      string    `json:"date"`
	TimeSlot  string    `json:"time_slot"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// SlotRef identifies a (date, time_slot) pair.
type SlotRef struct {
	Date     string
	TimeSlot string
}

// CreateAppointmentRequest is the request body for creating a booking.
type CreateAppointmentRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=3,max=30"`
	Message  string `json:"message" validate:"max=2000"`
	Date     string `json:"date" validate:"required"`
	TimeSlot string `json:"time_slot" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks required fields and formats. Date/slot existence against
// the catalog is the repository's job, not validation.
func (r *CreateAppointmentRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)

	if err := validate.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			f := fieldErrs[0]
			return fmt.Errorf("%w: %s is missing or invalid", ErrValidation, strings.ToLower(f.Field()))
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// ListFilter narrows List results.
type ListFilter struct {
	// Search matches name, email, or phone, case-insensitive substring.
	Search string
	// Status keeps only appointments in the given status when non-empty.
	Status Status
	// Limit caps the result set; values <= 0 fall back to a default.
	Limit int
}

// DefaultListLimit bounds admin listings when the caller sends none.
const DefaultListLimit = 100
