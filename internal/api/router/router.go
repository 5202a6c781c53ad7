// Package router assembles the HTTP surface of the booking API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/twisthair/booking-api/internal/appointments"
	"github.com/twisthair/booking-api/internal/auth"
	"github.com/twisthair/booking-api/internal/availability"
	httpmiddleware "github.com/twisthair/booking-api/internal/http/middleware"
	"github.com/twisthair/booking-api/internal/stats"
	"github.com/twisthair/booking-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	AppointmentsHandler *appointments.Handler
	AvailabilityHandler *availability.Handler
	StatsHandler        *stats.Handler
	AuthHandler         *auth.Handler
	AdminJWTSecret      string
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Customer-facing booking endpoints.
	r.Route("/api/bookings", func(public chi.Router) {
		public.Get("/availability", cfg.AvailabilityHandler.GetAvailability)
		public.Post("/", cfg.AppointmentsHandler.CreateBooking)
	})

	r.Route("/api/admin", func(admin chi.Router) {
		if cfg.AuthHandler != nil {
			admin.Post("/login", cfg.AuthHandler.Login)
		}

		admin.Group(func(protected chi.Router) {
			protected.Use(httpmiddleware.AdminJWT(cfg.AdminJWTSecret))

			protected.Route("/appointments", func(r chi.Router) {
				r.Get("/", cfg.AppointmentsHandler.List)
				r.Patch("/{id}/status", cfg.AppointmentsHandler.UpdateStatus)
				r.Delete("/{id}", cfg.AppointmentsHandler.Delete)
			})

			protected.Route("/date-controller", func(r chi.Router) {
				r.Get("/available-dates", cfg.AvailabilityHandler.GetAvailability)
				r.Get("/deleted-slots", cfg.AvailabilityHandler.DeletedSlots)
				r.Delete("/slot/{date}/{timeSlot}", cfg.AvailabilityHandler.DisableSlot)
				r.Post("/restore-slot", cfg.AvailabilityHandler.RestoreSlot)
			})

			if cfg.StatsHandler != nil {
				protected.Get("/dashboard/stats", cfg.StatsHandler.GetStats)
			}
		})
	})

	return r
}
