package stats

import (
	"net/http"

	"github.com/twisthair/booking-api/internal/api/respond"
	"github.com/twisthair/booking-api/pkg/logging"
)

// Handler serves the admin dashboard stats endpoint.
type Handler struct {
	agg    *Aggregator
	logger *logging.Logger
}

// NewHandler creates a stats handler.
func NewHandler(agg *Aggregator, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{agg: agg, logger: logger}
}

type statsPayload struct {
	Stats *Totals `json:"stats"`
}

// GetStats handles GET /api/admin/dashboard/stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	totals, err := h.agg.Totals(r.Context())
	if err != nil {
		h.logger.Error("dashboard stats failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "could not load stats")
		return
	}
	respond.JSON(w, http.StatusOK, statsPayload{Stats: totals})
}
