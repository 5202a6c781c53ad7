package availability

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/twisthair/booking-api/internal/appointments"
	"github.com/twisthair/booking-api/internal/schedule"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps overrides in the disabled_slots table.
type PostgresStore struct {
	db      DB
	catalog *schedule.Catalog
}

// NewPostgresStore initializes a store backed by pgx.
func NewPostgresStore(db DB, catalog *schedule.Catalog) *PostgresStore {
	if db == nil {
		panic("availability: db required")
	}
	if catalog == nil {
		catalog = schedule.Default()
	}
	return &PostgresStore{db: db, catalog: catalog}
}

// ListOverrides returns all overrides, oldest date first.
func (s *PostgresStore) ListOverrides(ctx context.Context) ([]*DisabledSlot, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, date, time_slot, created_at FROM disabled_slots
		ORDER BY date ASC, time_slot ASC`)
	if err != nil {
		return nil, fmt.Errorf("availability: list overrides: %w", err)
	}
	defer rows.Close()

	var out []*DisabledSlot
	for rows.Next() {
		var d DisabledSlot
		if err := rows.Scan(&d.ID, &d.Date, &d.TimeSlot, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("availability: scan override: %w", err)
		}
		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("availability: override rows: %w", err)
	}
	return out, nil
}

// DisabledSet reports overridden slots among the given dates.
func (s *PostgresStore) DisabledSet(ctx context.Context, dates []string) (map[appointments.SlotRef]bool, error) {
	disabled := make(map[appointments.SlotRef]bool)
	if len(dates) == 0 {
		return disabled, nil
	}

	rows, err := s.db.Query(ctx,
		`SELECT date, time_slot FROM disabled_slots WHERE date = ANY($1)`, dates)
	if err != nil {
		return nil, fmt.Errorf("availability: disabled set: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ref appointments.SlotRef
		if err := rows.Scan(&ref.Date, &ref.TimeSlot); err != nil {
			return nil, fmt.Errorf("availability: scan disabled slot: %w", err)
		}
		disabled[ref] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("availability: disabled rows: %w", err)
	}
	return disabled, nil
}

// IsDisabled reports whether one slot carries an override.
func (s *PostgresStore) IsDisabled(ctx context.Context, date, timeSlot string) (bool, error) {
	var disabled bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM disabled_slots WHERE date = $1 AND time_slot = $2)`,
		date, timeSlot,
	).Scan(&disabled)
	if err != nil {
		return false, fmt.Errorf("availability: is disabled: %w", err)
	}
	return disabled, nil
}

// Disable records an override. A slot with an active booking is rejected
// with ErrSlotBooked; a slot already disabled is left as is. If a booking
// commits between the check and the insert, the reconciled view still
// reports the slot as booked, so the stray override is harmless.
func (s *PostgresStore) Disable(ctx context.Context, date, timeSlot string) error {
	if !s.catalog.HasSlot(date, timeSlot) {
		return ErrNotBookable
	}

	var booked bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE date = $1 AND time_slot = $2 AND status <> 'canceled')`,
		date, timeSlot,
	).Scan(&booked)
	if err != nil {
		return fmt.Errorf("availability: check booking before disable: %w", err)
	}
	if booked {
		return ErrSlotBooked
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO disabled_slots (id, date, time_slot)
		VALUES ($1, $2, $3)
		ON CONFLICT (date, time_slot) DO NOTHING`,
		uuid.New(), date, timeSlot)
	if err != nil {
		return fmt.Errorf("availability: disable slot: %w", err)
	}
	return nil
}

// Restore removes an override; absent overrides are a no-op.
func (s *PostgresStore) Restore(ctx context.Context, date, timeSlot string) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM disabled_slots WHERE date = $1 AND time_slot = $2`,
		date, timeSlot)
	if err != nil {
		return fmt.Errorf("availability: restore slot: %w", err)
	}
	return nil
}
