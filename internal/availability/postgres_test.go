package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twisthair/booking-api/internal/appointments"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresStore(mock, nil), mock
}

func TestPostgresStoreDisable(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("2030-01-05", "2 pm - 4 pm").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO disabled_slots").
		WithArgs(pgxmock.AnyArg(), "2030-01-05", "2 pm - 4 pm").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.Disable(context.Background(), "2030-01-05", "2 pm - 4 pm"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreDisableBookedSlot(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("2030-01-05", "2 pm - 4 pm").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	err := store.Disable(context.Background(), "2030-01-05", "2 pm - 4 pm")
	assert.ErrorIs(t, err, ErrSlotBooked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreDisableUnknownSlot(t *testing.T) {
	store, mock := newMockStore(t)

	err := store.Disable(context.Background(), "2030-01-07", "2 pm - 4 pm")
	assert.ErrorIs(t, err, ErrNotBookable)
	assert.NoError(t, mock.ExpectationsWereMet(), "catalog check happens before any query")
}

func TestPostgresStoreRestore(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM disabled_slots").
		WithArgs("2030-01-05", "2 pm - 4 pm").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	// Zero rows deleted is still success.
	require.NoError(t, store.Restore(context.Background(), "2030-01-05", "2 pm - 4 pm"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreListOverrides(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT id, date, time_slot, created_at FROM disabled_slots").
		WillReturnRows(pgxmock.NewRows([]string{"id", "date", "time_slot", "created_at"}).
			AddRow(id, "2030-01-05", "2 pm - 4 pm", now))

	overrides, err := store.ListOverrides(context.Background())
	require.NoError(t, err)
	require.Len(t, overrides, 1)
	assert.Equal(t, id, overrides[0].ID)
	assert.Equal(t, "2030-01-05", overrides[0].Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreDisabledSet(t *testing.T) {
	store, mock := newMockStore(t)
	dates := []string{"2030-01-05", "2030-01-06"}

	mock.ExpectQuery("SELECT date, time_slot FROM disabled_slots").
		WithArgs(dates).
		WillReturnRows(pgxmock.NewRows([]string{"date", "time_slot"}).
			AddRow("2030-01-06", "10 am - 12 pm"))

	set, err := store.DisabledSet(context.Background(), dates)
	require.NoError(t, err)
	assert.True(t, set[appointments.SlotRef{Date: "2030-01-06", TimeSlot: "10 am - 12 pm"}])
	assert.Len(t, set, 1)

	// Empty date sets never touch the database.
	set, err = store.DisabledSet(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, set)
	assert.NoError(t, mock.ExpectationsWereMet())
}
