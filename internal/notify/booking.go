package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/twisthair/booking-api/internal/appointments"
	"github.com/twisthair/booking-api/internal/schedule"
	"github.com/twisthair/booking-api/pkg/logging"
)

// BookingNotifier emails customers when their booking is received. Sends are
// best-effort: a failed email never fails the booking.
type BookingNotifier struct {
	sender  EmailSender
	catalog *schedule.Catalog
	logger  *logging.Logger
	timeout time.Duration
}

// NewBookingNotifier wires the notifier. sender may be nil, which disables
// sending entirely.
func NewBookingNotifier(sender EmailSender, catalog *schedule.Catalog, logger *logging.Logger) *BookingNotifier {
	if catalog == nil {
		catalog = schedule.Default()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingNotifier{
		sender:  sender,
		catalog: catalog,
		logger:  logger,
		timeout: 10 * time.Second,
	}
}

// BookingReceived sends the confirmation email for a new appointment.
func (n *BookingNotifier) BookingReceived(ctx context.Context, appt *appointments.Appointment) {
	if n == nil || n.sender == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	msg := EmailMessage{
		To:      appt.Email,
		ToName:  appt.Name,
		Subject: "Your booking request at Twist Hair Studio",
		Body: fmt.Sprintf(
			"Hi %s,\n\nWe received your booking request for %s, %s. "+
				"We'll confirm your appointment shortly.\n\nTwist Hair Studio",
			appt.Name, n.catalog.FormatDisplayDate(appt.Date), appt.TimeSlot,
		),
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		n.logger.Error("booking confirmation email failed",
			"error", err,
			"appointment_id", appt.ID,
		)
	}
}
