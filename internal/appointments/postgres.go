package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/twisthair/booking-api/internal/schedule"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	db      DB
	catalog *schedule.Catalog
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(db DB, catalog *schedule.Catalog) *PostgresRepository {
	if db == nil {
		panic("appointments: db required")
	}
	if catalog == nil {
		catalog = schedule.Default()
	}
	return &PostgresRepository{db: db, catalog: catalog}
}

const appointmentColumns = `id, name, email, phone, message, date, time_slot, status, created_at`

// Create inserts a pending appointment. The disabled-slot check and the
// insert run in one transaction; the partial unique index on active
// (date, time_slot) rows turns a lost race into a unique violation, so two
// concurrent creates for the same slot produce exactly one success.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !r.catalog.HasSlot(req.Date, req.TimeSlot) {
		return nil, ErrInvalidDate
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("appointments: begin create: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var disabled bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM disabled_slots WHERE date = $1 AND time_slot = $2)`,
		req.Date, req.TimeSlot,
	).Scan(&disabled)
	if err != nil {
		return nil, fmt.Errorf("appointments: check disabled slot: %w", err)
	}
	if disabled {
		return nil, ErrSlotUnavailable
	}

	id := uuid.New()
	var createdAt time.Time
	err = tx.QueryRow(ctx, `
		INSERT INTO appointments (id, name, email, phone, message, date, time_slot, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		id, req.Name, req.Email, req.Phone, req.Message, req.Date, req.TimeSlot, string(StatusPending),
	).Scan(&createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("appointments: insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("appointments: commit create: %w", err)
	}

	return &Appointment{
		ID:        id,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		Date:      req.Date,
		TimeSlot:  req.TimeSlot,
		Status:    StatusPending,
		CreatedAt: createdAt,
	}, nil
}

// GetByID fetches one appointment.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	appt, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: select by id: %w", err)
	}
	return appt, nil
}

// SetStatus applies a workflow transition under a row lock so concurrent
// admin updates cannot interleave.
func (r *PostgresRepository) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("appointments: begin set status: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var currentRaw string
	err = tx.QueryRow(ctx,
		`SELECT status FROM appointments WHERE id = $1 FOR UPDATE`, id,
	).Scan(&currentRaw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: lock row: %w", err)
	}
	if !Status(currentRaw).CanTransitionTo(status) {
		return nil, ErrInvalidTransition
	}

	row := tx.QueryRow(ctx, `
		UPDATE appointments SET status = $2 WHERE id = $1
		RETURNING `+appointmentColumns,
		id, string(status))
	appt, err := scanAppointment(row)
	if err != nil {
		return nil, fmt.Errorf("appointments: update status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("appointments: commit set status: %w", err)
	}
	return appt, nil
}

// Delete removes an appointment permanently.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("appointments: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns matching appointments, newest first.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Appointment, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `SELECT ` + appointmentColumns + ` FROM appointments`
	var clauses []string
	var args []any

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)", n, n, n))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	for i, c := range clauses {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan list row: %w", err)
		}
		out = append(out, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: list rows: %w", err)
	}
	return out, nil
}

// BookedSlots reports occupied slots for the given dates.
func (r *PostgresRepository) BookedSlots(ctx context.Context, dates []string) (map[SlotRef]bool, error) {
	booked := make(map[SlotRef]bool)
	if len(dates) == 0 {
		return booked, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT date, time_slot FROM appointments
		WHERE date = ANY($1) AND status <> 'canceled'`, dates)
	if err != nil {
		return nil, fmt.Errorf("appointments: booked slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ref SlotRef
		if err := rows.Scan(&ref.Date, &ref.TimeSlot); err != nil {
			return nil, fmt.Errorf("appointments: scan booked slot: %w", err)
		}
		booked[ref] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: booked slot rows: %w", err)
	}
	return booked, nil
}

// IsBooked reports whether one slot holds a non-canceled appointment.
func (r *PostgresRepository) IsBooked(ctx context.Context, date, timeSlot string) (bool, error) {
	var booked bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE date = $1 AND time_slot = $2 AND status <> 'canceled')`,
		date, timeSlot,
	).Scan(&booked)
	if err != nil {
		return false, fmt.Errorf("appointments: is booked: %w", err)
	}
	return booked, nil
}

// CountByStatus tallies appointments per status.
func (r *PostgresRepository) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT status, COUNT(*) FROM appointments GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("appointments: count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("appointments: scan status count: %w", err)
		}
		counts[Status(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: status count rows: %w", err)
	}
	return counts, nil
}

// CountByDate tallies appointments on one date, any status.
func (r *PostgresRepository) CountByDate(ctx context.Context, date string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE date = $1`, date,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("appointments: count by date: %w", err)
	}
	return n, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var status string
	if err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.Phone,
		&a.Message,
		&a.Date,
		&a.TimeSlot,
		&status,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	a.Status = Status(status)
	return &a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
