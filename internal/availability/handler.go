package availability

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/twisthair/booking-api/internal/api/respond"
	"github.com/twisthair/booking-api/internal/observability/metrics"
	"github.com/twisthair/booking-api/internal/schedule"
	"github.com/twisthair/booking-api/pkg/logging"
)

// Handler serves the public availability listing and the admin date
// controller endpoints.
type Handler struct {
	view    *View
	store   Store
	cache   *Cache
	catalog *schedule.Catalog
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
	now     func() time.Time
}

// HandlerConfig wires a Handler. Cache and Metrics may be nil.
type HandlerConfig struct {
	View    *View
	Store   Store
	Cache   *Cache
	Catalog *schedule.Catalog
	Metrics *metrics.BookingMetrics
	Logger  *logging.Logger
	Now     func() time.Time
}

// NewHandler creates an availability handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.View == nil || cfg.Store == nil {
		panic("availability: view and store required")
	}
	if cfg.Catalog == nil {
		cfg.Catalog = schedule.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Handler{
		view:    cfg.View,
		store:   cfg.Store,
		cache:   cfg.Cache,
		catalog: cfg.Catalog,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
		now:     cfg.Now,
	}
}

// GetAvailability handles GET /api/bookings/availability and the admin
// GET /api/admin/date-controller/available-dates.
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	if entries, ok := h.cache.Get(r.Context()); ok {
		respond.JSON(w, http.StatusOK, entries)
		return
	}

	entries, err := h.view.AvailableDates(r.Context(), h.now())
	if err != nil {
		h.logger.Error("availability listing failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "could not load availability")
		return
	}
	h.cache.Set(r.Context(), entries)
	respond.JSON(w, http.StatusOK, entries)
}

// DeletedSlots handles GET /api/admin/date-controller/deleted-slots.
func (h *Handler) DeletedSlots(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.store.ListOverrides(r.Context())
	if err != nil {
		h.logger.Error("override listing failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "could not load disabled slots")
		return
	}
	for _, o := range overrides {
		o.DisplayDate = h.catalog.FormatDisplayDate(o.Date)
	}
	if overrides == nil {
		overrides = []*DisabledSlot{}
	}
	respond.JSON(w, http.StatusOK, overrides)
}

// DisableSlot handles DELETE /api/admin/date-controller/slot/{date}/{timeSlot}.
func (h *Handler) DisableSlot(w http.ResponseWriter, r *http.Request) {
	// Slot values carry spaces, so the path segment arrives percent-encoded.
	date := unescape(chi.URLParam(r, "date"))
	timeSlot := unescape(chi.URLParam(r, "timeSlot"))

	if err := h.store.Disable(r.Context(), date, timeSlot); err != nil {
		switch {
		case errors.Is(err, ErrNotBookable):
			h.metrics.ObserveAdminAction("disable_slot", "invalid")
			respond.Error(w, http.StatusBadRequest, "date or time slot is not in the booking catalog")
		case errors.Is(err, ErrSlotBooked):
			h.metrics.ObserveAdminAction("disable_slot", "conflict")
			respond.Error(w, http.StatusConflict, "slot has an active booking; cancel it before disabling")
		default:
			h.metrics.ObserveAdminAction("disable_slot", "error")
			h.logger.Error("slot disable failed", "error", err, "date", date, "time_slot", timeSlot)
			respond.Error(w, http.StatusInternalServerError, "could not disable slot")
		}
		return
	}

	h.metrics.ObserveAdminAction("disable_slot", "ok")
	h.logger.Info("slot disabled", "date", date, "time_slot", timeSlot)
	h.cache.Invalidate(r.Context())
	respond.Message(w, http.StatusOK, "time slot disabled")
}

func unescape(s string) string {
	if out, err := url.PathUnescape(s); err == nil {
		return out
	}
	return s
}

type restoreSlotRequest struct {
	Date     string `json:"date"`
	TimeSlot string `json:"time_slot"`
}

// RestoreSlot handles POST /api/admin/date-controller/restore-slot.
func (h *Handler) RestoreSlot(w http.ResponseWriter, r *http.Request) {
	var req restoreSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Date == "" || req.TimeSlot == "" {
		respond.Error(w, http.StatusBadRequest, "date and time_slot are required")
		return
	}

	if err := h.store.Restore(r.Context(), req.Date, req.TimeSlot); err != nil {
		h.metrics.ObserveAdminAction("restore_slot", "error")
		h.logger.Error("slot restore failed", "error", err, "date", req.Date, "time_slot", req.TimeSlot)
		respond.Error(w, http.StatusInternalServerError, "could not restore slot")
		return
	}

	h.metrics.ObserveAdminAction("restore_slot", "ok")
	h.logger.Info("slot restored", "date", req.Date, "time_slot", req.TimeSlot)
	h.cache.Invalidate(r.Context())
	respond.Message(w, http.StatusOK, "time slot restored")
}
