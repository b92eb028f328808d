package domain

import (
	"strings"
	"time"
)

// User models an account able to authenticate. Users are never hard-deleted;
// deactivation clears IsActive.
type User struct {
	ID               string     `json:"id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Role             Role       `json:"role"`
	IsActive         bool       `json:"is_active"`
	LockedUntil      *time.Time `json:"locked_until,omitempty"`
	FailedLoginCount int        `json:"failed_login_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// IsLocked reports whether the account is locked at now. A lock whose expiry
// has passed no longer applies; nothing needs to clear it.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// Identity is the authenticated principal attached to a request.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IdentityOf projects a user onto the principal the gates work with.
func IdentityOf(u *User) *Identity {
	return &Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}

// IsStaff reports whether the identity belongs to the Staff group.
func (i *Identity) IsStaff() bool {
	return i != nil && Staff.Has(i.Role)
}

// SameContact compares two contact emails the way ownership checks do.
func SameContact(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}
