package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/hotelcore/reservations/internal/core/domain"
)

type UserRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewUserRepository(db *sql.DB, timeout time.Duration) *UserRepository {
	return &UserRepository{db: db, timeout: opTimeout(timeout)}
}

const userColumns = `id, username, email, password_hash, role, is_active, locked_until, failed_login_count, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role.String(), u.IsActive,
		u.LockedUntil, u.FailedLoginCount, u.CreatedAt, u.UpdatedAt,
	)
	return mapErr("insert user", err, nil, domain.ErrUserExists)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var (
		u      domain.User
		role   string
		locked sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.IsActive,
		&locked, &u.FailedLoginCount, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, mapErr("find user", err, domain.ErrUserNotFound, nil)
	}
	if u.Role, err = domain.ParseRole(role); err != nil {
		return nil, err
	}
	if locked.Valid {
		until := locked.Time.UTC()
		u.LockedUntil = &until
	}
	u.CreatedAt, u.UpdatedAt = u.CreatedAt.UTC(), u.UpdatedAt.UTC()
	return &u, nil
}

// IncrementFailedLogins is a single UPDATE ... RETURNING, so concurrent
// failures cannot overwrite each other.
func (r *UserRepository) IncrementFailedLogins(ctx context.Context, id string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx, `
		UPDATE users SET failed_login_count = failed_login_count + 1, updated_at = now()
		WHERE id = $1
		RETURNING failed_login_count`, id).Scan(&count)
	if err != nil {
		return 0, mapErr("increment failed logins", err, domain.ErrUserNotFound, nil)
	}
	return count, nil
}

func (r *UserRepository) ResetLoginState(ctx context.Context, id string) error {
	return r.exec(ctx, "reset login state",
		`UPDATE users SET failed_login_count = 0, locked_until = NULL, updated_at = now() WHERE id = $1`, id)
}

func (r *UserRepository) LockUntil(ctx context.Context, id string, until time.Time) error {
	return r.exec(ctx, "lock user",
		`UPDATE users SET failed_login_count = 0, locked_until = $2, updated_at = now() WHERE id = $1`, id, until.UTC())
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.exec(ctx, "set user active",
		`UPDATE users SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
}

func (r *UserRepository) SetRole(ctx context.Context, id string, role domain.Role) error {
	return r.exec(ctx, "set user role",
		`UPDATE users SET role = $2, updated_at = now() WHERE id = $1`, id, role.String())
}

func (r *UserRepository) exec(ctx context.Context, op, query string, args ...interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapErr(op, err, nil, nil)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
