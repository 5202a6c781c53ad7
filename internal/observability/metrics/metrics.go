package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for the booking and admin flows.
type BookingMetrics struct {
	bookingsTotal     *prometheus.CounterVec
	adminActionsTotal *prometheus.CounterVec
	cacheLookups      *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "twisthair",
			Subsystem: "bookings",
			Name:      "create_total",
			Help:      "Booking create attempts by outcome",
		}, []string{"outcome"}),
		adminActionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "twisthair",
			Subsystem: "admin",
			Name:      "actions_total",
			Help:      "Admin mutations by action and outcome",
		}, []string{"action", "outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "twisthair",
			Subsystem: "availability",
			Name:      "cache_lookups_total",
			Help:      "Availability cache lookups by result",
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.adminActionsTotal, m.cacheLookups)
	return m
}

// ObserveBooking records a booking create attempt.
// Outcomes: created, conflict, invalid, error.
func (m *BookingMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

// ObserveAdminAction records an admin mutation.
// Actions: set_status, delete, disable_slot, restore_slot.
func (m *BookingMetrics) ObserveAdminAction(action, outcome string) {
	if m == nil {
		return
	}
	m.adminActionsTotal.WithLabelValues(action, outcome).Inc()
}

// ObserveCacheLookup records an availability cache hit or miss.
func (m *BookingMetrics) ObserveCacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
