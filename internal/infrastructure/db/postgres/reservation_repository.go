package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/core/ports"
)

type ReservationRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewReservationRepository(db *sql.DB, timeout time.Duration) *ReservationRepository {
	return &ReservationRepository{db: db, timeout: opTimeout(timeout)}
}

const reservationColumns = `id, guest_id, room_id, check_in, check_out, status, party_size, notes, cancel_reason, created_by, created_at, updated_at`

func scanReservation(s rowScanner) (*domain.Reservation, error) {
	var (
		res     domain.Reservation
		in, out time.Time
		status  string
	)
	err := s.Scan(&res.ID, &res.GuestID, &res.RoomID, &in, &out, &status, &res.PartySize,
		&res.Notes, &res.CancelReason, &res.CreatedBy, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if res.Stay, err = domain.NewDateRange(in, out); err != nil {
		return nil, fmt.Errorf("reservation %s has a corrupt stay: %w", res.ID, err)
	}
	res.Status = domain.ReservationStatus(status)
	res.CreatedAt, res.UpdatedAt = res.CreatedAt.UTC(), res.UpdatedAt.UTC()
	return &res, nil
}

// Dates travel as YYYY-MM-DD strings so the session time zone cannot shift them.
func sqlDate(t time.Time) string { return t.Format(domain.DateLayout) }

func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reservations (`+reservationColumns+`)
		VALUES ($1, $2, $3, $4::date, $5::date, $6, $7, $8, $9, $10, $11, $12)`,
		res.ID, res.GuestID, res.RoomID, sqlDate(res.Stay.CheckIn), sqlDate(res.Stay.CheckOut),
		string(res.Status), res.PartySize, res.Notes, res.CancelReason, res.CreatedBy, res.CreatedAt, res.UpdatedAt,
	)
	return mapErr("insert reservation", err, nil, nil)
}

func (r *ReservationRepository) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := scanReservation(r.db.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr("find reservation", err, domain.ErrReservationNotFound, nil)
	}
	return res, nil
}

func (r *ReservationRepository) FindOverlapping(ctx context.Context, roomID string, stay domain.DateRange, statuses []domain.ReservationStatus) ([]*domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE room_id = $1 AND check_in < $3::date AND check_out > $2::date`
	args := []interface{}{roomID, sqlDate(stay.CheckIn), sqlDate(stay.CheckOut)}
	if len(statuses) > 0 {
		query += ` AND status = ANY($4)`
		args = append(args, pq.Array(statusStrings(statuses)))
	}
	return r.query(ctx, "find overlapping reservations", query, args...)
}

func statusStrings(statuses []domain.ReservationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func (r *ReservationRepository) query(ctx context.Context, op, query string, args ...interface{}) ([]*domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapErr(op, err, nil, nil)
	}
	defer rows.Close()

	out := []*domain.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, mapErr(op, err, nil, nil)
		}
		out = append(out, res)
	}
	return out, mapErr(op, rows.Err(), nil, nil)
}

// UpdateStatus is a compare-and-set on the current status. Confirming into
// an overlap trips the exclusion constraint and surfaces as a conflict.
// Both writes match on id and status, and on room and stay when a placement
// is given. $2 through $5 carry those expectations in every statement.
const placementMatch = `id = $1 AND status = $2
		AND ($3::text = '' OR (room_id = $3 AND check_in = $4::date AND check_out = $5::date))`

func placementArgs(id string, expected domain.ReservationStatus, where ports.Placement) []interface{} {
	return []interface{}{id, string(expected), where.RoomID, sqlDate(where.Stay.CheckIn), sqlDate(where.Stay.CheckOut)}
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id string, change ports.StatusChange) error {
	args := append(placementArgs(id, change.From, change.Where), string(change.To), change.CancelReason, change.At)
	return r.conditionalExec(ctx, "update reservation status", id, `
		UPDATE reservations
		SET status = $6,
		    cancel_reason = CASE WHEN $7 <> '' THEN $7 ELSE cancel_reason END,
		    updated_at = $8
		WHERE `+placementMatch, args...)
}

func (r *ReservationRepository) UpdateDetails(ctx context.Context, res *domain.Reservation, expected domain.ReservationStatus, where ports.Placement) error {
	args := append(placementArgs(res.ID, expected, where),
		res.RoomID, sqlDate(res.Stay.CheckIn), sqlDate(res.Stay.CheckOut), res.PartySize, res.Notes, res.UpdatedAt)
	return r.conditionalExec(ctx, "update reservation", res.ID, `
		UPDATE reservations
		SET room_id = $6, check_in = $7::date, check_out = $8::date, party_size = $9, notes = $10, updated_at = $11
		WHERE `+placementMatch, args...)
}

func (r *ReservationRepository) conditionalExec(ctx context.Context, op, id, query string, args ...interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapErr(op, err, nil, nil)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM reservations WHERE id = $1)`, id).Scan(&exists); err != nil {
		return mapErr(op, err, nil, nil)
	}
	if !exists {
		return domain.ErrReservationNotFound
	}
	return domain.ErrStaleStatus
}

func (r *ReservationRepository) List(ctx context.Context, f ports.ListReservationsFilter) ([]*domain.Reservation, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	where, args := listConditions(f)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM reservations`+where, args...).Scan(&total); err != nil {
		return nil, 0, mapErr("count reservations", err, nil, nil)
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	query := fmt.Sprintf(`SELECT %s FROM reservations%s ORDER BY check_in, id LIMIT $%d OFFSET $%d`,
		reservationColumns, where, len(args)-1, len(args))
	items, err := r.query(ctx, "list reservations", query, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func listConditions(f ports.ListReservationsFilter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.GuestIDs != nil {
		add("guest_id = ANY($%d)", pq.Array(f.GuestIDs))
	}
	if f.RoomID != "" {
		add("room_id = $%d", f.RoomID)
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if !f.To.IsZero() {
		add("check_in < $%d::date", sqlDate(f.To))
	}
	if !f.From.IsZero() {
		add("check_out > $%d::date", sqlDate(f.From))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
