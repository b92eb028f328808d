// Package postgres is the PostgreSQL store. Besides the application-level
// room lock it relies on an exclusion constraint so two blocking
// reservations for the same room can never overlap, even across instances.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/hotelcore/reservations/internal/core/domain"
)

const defaultTimeout = 5 * time.Second

// Postgres error codes the repositories react to.
const (
	codeUniqueViolation    = "23505"
	codeExclusionViolation = "23P01"
	codeQueryCanceled      = "57014"
	codeTooManyConnections = "53300"
)

//go:embed schema.sql
var schema string

// Config holds database pool settings.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Timeout         time.Duration
}

// Connect opens a pool and verifies it with a ping.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	} else {
		db.SetMaxOpenConns(25)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	} else {
		db.SetMaxIdleConns(5)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	} else {
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, opTimeout(cfg.Timeout))
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

// Migrate applies the idempotent schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}

func opTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultTimeout
	}
	return d
}

// mapErr translates driver failures into domain errors. notFound is returned
// for sql.ErrNoRows; exists for unique violations.
func mapErr(op string, err error, notFound, exists error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) && notFound != nil {
		return notFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s: %v", domain.ErrTransient, op, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeExclusionViolation:
			return domain.ErrBookingConflict
		case codeUniqueViolation:
			if exists != nil {
				return exists
			}
			return fmt.Errorf("%w: %s", domain.ErrConflict, pqErr.Message)
		case codeQueryCanceled, codeTooManyConnections:
			return fmt.Errorf("%w: %s: %v", domain.ErrTransient, op, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
