package appointments

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticDisabled blocks a fixed set of slots.
type staticDisabled map[SlotRef]bool

func (d staticDisabled) IsDisabled(_ context.Context, date, timeSlot string) (bool, error) {
	return d[SlotRef{Date: date, TimeSlot: timeSlot}], nil
}

func TestMemoryCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(nil, nil)

	appt, err := repo.Create(ctx, validRequest())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, appt.ID)
	assert.Equal(t, StatusPending, appt.Status)
	assert.Equal(t, "2030-01-05", appt.Date)
	assert.False(t, appt.CreatedAt.IsZero())
}

func TestMemoryCreateRejectsWeekday(t *testing.T) {
	repo := NewMemoryRepository(nil, nil)

	req := validRequest()
	req.Date = "2030-01-07" // Monday
	_, err := repo.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestMemoryCreateRejectsUnknownSlot(t *testing.T) {
	repo := NewMemoryRepository(nil, nil)

	req := validRequest()
	req.TimeSlot = "8 pm - 10 pm"
	_, err := repo.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestMemoryCreateRejectsDisabledSlot(t *testing.T) {
	blocked := staticDisabled{{Date: "2030-01-05", TimeSlot: "2 pm - 4 pm"}: true}
	repo := NewMemoryRepository(nil, blocked)

	_, err := repo.Create(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// A different slot on the same date is still open.
	req := validRequest()
	req.TimeSlot = "10 am - 12 pm"
	_, err = repo.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestMemoryCreateDoubleBooking(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(nil, nil)

	_, err := repo.Create(ctx, validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.Name = "Second Customer"
	req.Email = "second@example.com"
	_, err = repo.Create(ctx, req)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestMemoryCreateConcurrentSameSlot(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(nil, nil)

	const n = 32
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Create(ctx, validRequest())
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrSlotUnavailable)
		}
	}
	assert.Equal(t, 1, wins, "exactly one concurrent create must win")
}

func TestMemoryCanceledSlotReopens(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(nil, nil)

	appt, err := repo.Create(ctx, validRequest())
	require.NoError(t, err)

	_, err = repo.SetStatus(ctx, appt.ID, StatusCanceled)
	require.NoError(t, err)

	req := validRequest()
	req.Name = "Second Customer"
	_, err = repo.Create(ctx, req)
	assert.NoError(t, err, "a canceled appointment frees its slot")
}

func TestMemorySetStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(nil, nil)

	appt, err := repo.Create(ctx, validRequest())
	require.NoError(t, err)

	updated, err := repo.SetStatus(ctx, appt.ID, StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, updated.Status)

	_, err = repo.SetStatus(ctx, appt.ID, StatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = repo.SetStatus(ctx, appt.ID, Status("archived"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = repo.SetStatus(ctx, uuid.New(), StatusConfirmed)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(nil, nil)

	appt, err := repo.Create(ctx, validRequest())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, appt.ID))
	assert.ErrorIs(t, repo.Delete(ctx, appt.ID), ErrNotFound)

	_, err = repo.GetByID(ctx, appt.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryList(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(nil, nil)

	seed := []struct {
		name, email, slot string
	}{
		{"Alice Johnson", "alice@example.com", "10 am - 12 pm"},
		{"Bob Carter", "bob@example.com", "2 pm - 4 pm"},
		{"Carol Ames", "carol@example.com", "5 pm - 7 pm"},
	}
	var ids []uuid.UUID
	for _, s := range seed {
		req := validRequest()
		req.Name = s.name
		req.Email = s.email
		req.TimeSlot = s.slot
		appt, err := repo.Create(ctx, req)
		require.NoError(t, err)
		ids = append(ids, appt.ID)
	}
	_, err := repo.SetStatus(ctx, ids[1], StatusConfirmed)
	require.NoError(t, err)

	t.Run("all", func(t *testing.T) {
		out, err := repo.List(ctx, ListFilter{})
		require.NoError(t, err)
		assert.Len(t, out, 3)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		out, err := repo.List(ctx, ListFilter{Search: "ALICE"})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "Alice Johnson", out[0].Name)
	})

	t.Run("search matches email", func(t *testing.T) {
		out, err := repo.List(ctx, ListFilter{Search: "bob@"})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "Bob Carter", out[0].Name)
	})

	t.Run("status filter", func(t *testing.T) {
		out, err := repo.List(ctx, ListFilter{Status: StatusConfirmed})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "Bob Carter", out[0].Name)
	})

	t.Run("limit caps results", func(t *testing.T) {
		out, err := repo.List(ctx, ListFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})
}

func TestMemoryBookedSlots(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(nil, nil)

	appt, err := repo.Create(ctx, validRequest())
	require.NoError(t, err)

	sunday := validRequest()
	sunday.Date = "2030-01-06"
	canceled, err := repo.Create(ctx, sunday)
	require.NoError(t, err)
	_, err = repo.SetStatus(ctx, canceled.ID, StatusCanceled)
	require.NoError(t, err)

	booked, err := repo.BookedSlots(ctx, []string{"2030-01-05", "2030-01-06"})
	require.NoError(t, err)
	assert.True(t, booked[SlotRef{Date: appt.Date, TimeSlot: appt.TimeSlot}])
	assert.False(t, booked[SlotRef{Date: "2030-01-06", TimeSlot: canceled.TimeSlot}],
		"canceled appointments do not occupy slots")

	got, err := repo.IsBooked(ctx, appt.Date, appt.TimeSlot)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestMemoryCounts(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(nil, nil)

	first, err := repo.Create(ctx, validRequest())
	require.NoError(t, err)

	second := validRequest()
	second.Date = "2030-01-06"
	_, err = repo.Create(ctx, second)
	require.NoError(t, err)

	_, err = repo.SetStatus(ctx, first.ID, StatusConfirmed)
	require.NoError(t, err)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[StatusPending])
	assert.Equal(t, 1, counts[StatusConfirmed])
	assert.Equal(t, 0, counts[StatusCanceled])

	n, err := repo.CountByDate(ctx, "2030-01-05")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryGetByIDReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(nil, nil)

	appt, err := repo.Create(ctx, validRequest())
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, appt.ID)
	require.NoError(t, err)
	got.Status = StatusCanceled

	again, err := repo.GetByID(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, again.Status, "callers must not mutate stored state")
}
