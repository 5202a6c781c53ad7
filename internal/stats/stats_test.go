package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twisthair/booking-api/internal/appointments"
)

func seedRequest(date, timeSlot string) *appointments.CreateAppointmentRequest {
	return &appointments.CreateAppointmentRequest{
		Name:     "Jordan Blake",
		Email:    "jordan@example.com",
		Phone:    "204-555-0101",
		Date:     date,
		TimeSlot: timeSlot,
	}
}

func TestTotalsEmptyLedger(t *testing.T) {
	repo := appointments.NewMemoryRepository(nil, nil)
	agg := NewAggregator(repo, nil, nil)

	totals, err := agg.Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Totals{}, totals, "empty ledger reports all zeros")
}

func TestTotals(t *testing.T) {
	ctx := context.Background()
	repo := appointments.NewMemoryRepository(nil, nil)

	// Saturday 2030-01-05 is "today" for the aggregator below.
	seeds := []struct {
		date, slot string
		status     appointments.Status
	}{
		{"2030-01-05", "10 am - 12 pm", appointments.StatusPending},
		{"2030-01-05", "2 pm - 4 pm", appointments.StatusConfirmed},
		{"2030-01-06", "10 am - 12 pm", appointments.StatusConfirmed},
		{"2030-01-06", "2 pm - 4 pm", appointments.StatusCanceled},
		{"2030-01-12", "5 pm - 7 pm", appointments.StatusCompleted},
	}
	for _, s := range seeds {
		appt, err := repo.Create(ctx, seedRequest(s.date, s.slot))
		require.NoError(t, err)
		switch s.status {
		case appointments.StatusConfirmed, appointments.StatusCanceled:
			_, err = repo.SetStatus(ctx, appt.ID, s.status)
			require.NoError(t, err)
		case appointments.StatusCompleted:
			_, err = repo.SetStatus(ctx, appt.ID, appointments.StatusConfirmed)
			require.NoError(t, err)
			_, err = repo.SetStatus(ctx, appt.ID, appointments.StatusCompleted)
			require.NoError(t, err)
		}
	}

	// 03:00 UTC on Jan 6 is still the evening of Jan 5 in Winnipeg.
	now := func() time.Time {
		return time.Date(2030, time.January, 6, 3, 0, 0, 0, time.UTC)
	}
	agg := NewAggregator(repo, nil, now)

	totals, err := agg.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, totals.TotalBookings, "canceled bookings still count toward the total")
	assert.Equal(t, 1, totals.PendingBookings)
	assert.Equal(t, 2, totals.ConfirmedBookings)
	assert.Equal(t, 1, totals.CompletedBookings)
	assert.Equal(t, 1, totals.CanceledBookings)
	assert.Equal(t, 2, totals.TodayBookings)
}

func TestGetStatsHandler(t *testing.T) {
	ctx := context.Background()
	repo := appointments.NewMemoryRepository(nil, nil)
	_, err := repo.Create(ctx, seedRequest("2030-01-05", "2 pm - 4 pm"))
	require.NoError(t, err)

	h := NewHandler(NewAggregator(repo, nil, nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard/stats", nil)
	rec := httptest.NewRecorder()
	h.GetStats(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Success bool `json:"success"`
		Data    struct {
			Stats Totals `json:"stats"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, 1, env.Data.Stats.TotalBookings)
	assert.Equal(t, 1, env.Data.Stats.PendingBookings)
}
