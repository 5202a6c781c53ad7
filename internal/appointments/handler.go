package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/twisthair/booking-api/internal/api/respond"
	"github.com/twisthair/booking-api/internal/observability/metrics"
	"github.com/twisthair/booking-api/pkg/logging"
)

// Notifier receives successful bookings; the notify package implements it.
type Notifier interface {
	BookingReceived(ctx context.Context, appt *Appointment)
}

// Invalidator drops the cached availability listing after a mutation; the
// availability cache implements it.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Handler handles HTTP requests for appointments.
type Handler struct {
	repo     Repository
	notifier Notifier
	cache    Invalidator
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

// HandlerConfig wires a Handler. notifier, cache and metrics may be nil.
type HandlerConfig struct {
	Repo     Repository
	Notifier Notifier
	Cache    Invalidator
	Metrics  *metrics.BookingMetrics
	Logger   *logging.Logger
}

// NewHandler creates an appointments handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Repo == nil {
		panic("appointments: repository required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Handler{
		repo:     cfg.Repo,
		notifier: cfg.Notifier,
		cache:    cfg.Cache,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
}

// CreateBooking handles POST /api/bookings.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.ObserveBooking("invalid")
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	appt, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			h.metrics.ObserveBooking("invalid")
			respond.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrInvalidDate):
			h.metrics.ObserveBooking("invalid")
			respond.Error(w, http.StatusBadRequest, "selected date or time slot is not bookable")
		case errors.Is(err, ErrSlotUnavailable):
			h.metrics.ObserveBooking("conflict")
			respond.Error(w, http.StatusConflict, "time slot is no longer available, please pick another")
		default:
			h.metrics.ObserveBooking("error")
			h.logger.Error("booking create failed", "error", err)
			respond.Error(w, http.StatusInternalServerError, "could not create booking")
		}
		return
	}

	h.metrics.ObserveBooking("created")
	h.logger.Info("booking created",
		"id", appt.ID,
		"date", appt.Date,
		"time_slot", appt.TimeSlot,
	)

	if h.cache != nil {
		h.cache.Invalidate(r.Context())
	}
	if h.notifier != nil {
		// Detached from the request: the customer should not wait on email.
		go h.notifier.BookingReceived(context.Background(), appt)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(respond.Envelope{
		Success: true,
		Data:    appt,
		Message: "Booking request received!",
	})
}

// ListResponse is the payload for the admin appointment listing.
type ListResponse struct {
	Appointments []*Appointment `json:"appointments"`
	Count        int            `json:"count"`
}

// List handles GET /api/admin/appointments.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Search: r.URL.Query().Get("search")}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := Status(raw)
		if !status.Valid() {
			respond.Error(w, http.StatusBadRequest, "unknown status filter")
			return
		}
		filter.Status = status
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	appts, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("appointment list failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "could not list appointments")
		return
	}
	if appts == nil {
		appts = []*Appointment{}
	}
	respond.JSON(w, http.StatusOK, ListResponse{Appointments: appts, Count: len(appts)})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/admin/appointments/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid appointment id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	appt, err := h.repo.SetStatus(r.Context(), id, Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			h.metrics.ObserveAdminAction("set_status", "invalid")
			respond.Error(w, http.StatusBadRequest, "unknown appointment status")
		case errors.Is(err, ErrInvalidTransition):
			h.metrics.ObserveAdminAction("set_status", "conflict")
			respond.Error(w, http.StatusConflict, "status change not allowed from the current state")
		case errors.Is(err, ErrNotFound):
			h.metrics.ObserveAdminAction("set_status", "not_found")
			respond.Error(w, http.StatusNotFound, "appointment no longer exists")
		default:
			h.metrics.ObserveAdminAction("set_status", "error")
			h.logger.Error("status update failed", "error", err, "id", id)
			respond.Error(w, http.StatusInternalServerError, "could not update status")
		}
		return
	}

	h.metrics.ObserveAdminAction("set_status", "ok")
	h.logger.Info("appointment status updated", "id", id, "status", appt.Status)
	if h.cache != nil {
		// Canceling frees the slot, so the listing may have changed.
		h.cache.Invalidate(r.Context())
	}
	respond.JSON(w, http.StatusOK, appt)
}

// Delete handles DELETE /api/admin/appointments/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid appointment id")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.metrics.ObserveAdminAction("delete", "not_found")
			respond.Error(w, http.StatusNotFound, "appointment no longer exists")
			return
		}
		h.metrics.ObserveAdminAction("delete", "error")
		h.logger.Error("appointment delete failed", "error", err, "id", id)
		respond.Error(w, http.StatusInternalServerError, "could not delete appointment")
		return
	}

	h.metrics.ObserveAdminAction("delete", "ok")
	h.logger.Info("appointment deleted", "id", id)
	if h.cache != nil {
		h.cache.Invalidate(r.Context())
	}
	respond.Message(w, http.StatusOK, "appointment deleted")
}
