package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/hotelcore/reservations/internal/core/domain"
)

type GuestRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewGuestRepository(db *sql.DB, timeout time.Duration) *GuestRepository {
	return &GuestRepository{db: db, timeout: opTimeout(timeout)}
}

func (r *GuestRepository) Create(ctx context.Context, g *domain.Guest) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO guests (id, name, email, phone, created_at) VALUES ($1, $2, $3, $4, $5)`,
		g.ID, g.Name, g.Email, g.Phone, g.CreatedAt)
	return mapErr("insert guest", err, nil, nil)
}

func (r *GuestRepository) FindByID(ctx context.Context, id string) (*domain.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var g domain.Guest
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, created_at FROM guests WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.Email, &g.Phone, &g.CreatedAt)
	if err != nil {
		return nil, mapErr("find guest", err, domain.ErrGuestNotFound, nil)
	}
	g.CreatedAt = g.CreatedAt.UTC()
	return &g, nil
}

func (r *GuestRepository) FindByEmail(ctx context.Context, email string) ([]*domain.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, phone, created_at FROM guests WHERE lower(email) = lower($1) ORDER BY created_at`, email)
	if err != nil {
		return nil, mapErr("find guests", err, nil, nil)
	}
	defer rows.Close()

	var out []*domain.Guest
	for rows.Next() {
		var g domain.Guest
		if err := rows.Scan(&g.ID, &g.Name, &g.Email, &g.Phone, &g.CreatedAt); err != nil {
			return nil, mapErr("scan guest", err, nil, nil)
		}
		g.CreatedAt = g.CreatedAt.UTC()
		out = append(out, &g)
	}
	return out, mapErr("iterate guests", rows.Err(), nil, nil)
}
