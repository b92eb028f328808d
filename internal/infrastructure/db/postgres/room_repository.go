package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/core/ports"
)

type RoomRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewRoomRepository(db *sql.DB, timeout time.Duration) *RoomRepository {
	return &RoomRepository{db: db, timeout: opTimeout(timeout)}
}

const roomColumns = `id, number, type, capacity, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRoom(s rowScanner) (*domain.Room, error) {
	var (
		room   domain.Room
		status string
	)
	if err := s.Scan(&room.ID, &room.Number, &room.Type, &room.Capacity, &status, &room.CreatedAt, &room.UpdatedAt); err != nil {
		return nil, err
	}
	room.Status = domain.RoomStatus(status)
	room.CreatedAt, room.UpdatedAt = room.CreatedAt.UTC(), room.UpdatedAt.UTC()
	return &room, nil
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `INSERT INTO rooms (`+roomColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		room.ID, room.Number, room.Type, room.Capacity, string(room.Status), room.CreatedAt, room.UpdatedAt)
	return mapErr("insert room", err, nil, domain.ErrRoomExists)
}

func (r *RoomRepository) FindByID(ctx context.Context, id string) (*domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	room, err := scanRoom(r.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr("find room", err, domain.ErrRoomNotFound, nil)
	}
	return room, nil
}

func (r *RoomRepository) List(ctx context.Context, filter ports.RoomFilter) ([]*domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + roomColumns + ` FROM rooms WHERE ($1 = '' OR status = $1)`
	args := []interface{}{string(filter.Status)}
	if filter.BookableOnly {
		query += ` AND status = ANY($2)`
		args = append(args, pq.Array([]string{
			string(domain.RoomAvailable), string(domain.RoomOccupied), string(domain.RoomCleaning),
		}))
	}
	query += ` ORDER BY number`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapErr("list rooms", err, nil, nil)
	}
	defer rows.Close()

	out := []*domain.Room{}
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, mapErr("scan room", err, nil, nil)
		}
		out = append(out, room)
	}
	return out, mapErr("iterate rooms", rows.Err(), nil, nil)
}

func (r *RoomRepository) UpdateStatus(ctx context.Context, id string, status domain.RoomStatus) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `UPDATE rooms SET status = $2, updated_at = now() WHERE id = $1`, id, string(status))
	if err != nil {
		return mapErr("update room status", err, nil, nil)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}
