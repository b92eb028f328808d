package domain

import "time"

// Guest is a person a reservation is made for. Guest-role users own the
// guest records that share their email.
type Guest struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
