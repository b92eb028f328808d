package handler

import (
	"time"

	"github.com/hotelcore/reservations/internal/core/domain"
)

// errorResponse documents the error envelope written by the HTTP error
// handler.
type errorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message"`
	Error   string `json:"error" example:"not_found"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

// --- Users ---

type userResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LockedUntil *time.Time `json:"locked_until,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role"     validate:"required,oneof=guest cleaning receptionist manager admin"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=guest cleaning receptionist manager admin"`
}

type setActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type lockUserRequest struct {
	Minutes int `json:"minutes" validate:"required,gt=0"`
}

// --- Rooms ---

type createRoomRequest struct {
	Number   string `json:"number"   validate:"required,max=16"`
	Type     string `json:"type"     validate:"required,max=32"`
	Capacity int    `json:"capacity" validate:"required,gt=0"`
}

type roomStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available occupied cleaning maintenance out_of_order"`
}

type listRoomsQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=available occupied cleaning maintenance out_of_order"`
}

type availabilityQuery struct {
	CheckIn  string `query:"check_in"  validate:"required,datetime=2006-01-02"`
	CheckOut string `query:"check_out" validate:"required,datetime=2006-01-02"`
}

type roomResponse struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	Type      string    `json:"type"`
	Capacity  int       `json:"capacity"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// publicRoomResponse is what anonymous and guest callers see. Housekeeping
// status is staff-only.
type publicRoomResponse struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	Type     string `json:"type"`
	Capacity int    `json:"capacity"`
}

type availabilityResponse struct {
	RoomID    string `json:"room_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Nights    int    `json:"nights"`
	Available bool   `json:"available"`
}

// --- Guests ---

type createGuestRequest struct {
	Name  string `json:"name"  validate:"required,max=128"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}

// --- Reservations ---

type createReservationRequest struct {
	GuestID   string `json:"guest_id"   validate:"required"`
	RoomID    string `json:"room_id"    validate:"required"`
	CheckIn   string `json:"check_in"   validate:"required,datetime=2006-01-02"`
	CheckOut  string `json:"check_out"  validate:"required,datetime=2006-01-02"`
	PartySize int    `json:"party_size" validate:"required,gt=0"`
	Notes     string `json:"notes"      validate:"max=500"`
}

// updateReservationRequest carries optional fields; absent fields are kept.
type updateReservationRequest struct {
	RoomID    *string `json:"room_id"    validate:"omitempty,min=1"`
	CheckIn   *string `json:"check_in"   validate:"omitempty,datetime=2006-01-02"`
	CheckOut  *string `json:"check_out"  validate:"omitempty,datetime=2006-01-02"`
	PartySize *int    `json:"party_size" validate:"omitempty,gt=0"`
	Notes     *string `json:"notes"      validate:"omitempty,max=500"`
}

type cancelReservationRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type listReservationsQuery struct {
	GuestID string `query:"guest_id"`
	RoomID  string `query:"room_id"`
	Status  string `query:"status" validate:"omitempty,oneof=pending confirmed checked_in checked_out cancelled no_show"`
	From    string `query:"from"   validate:"omitempty,datetime=2006-01-02"`
	To      string `query:"to"     validate:"omitempty,datetime=2006-01-02"`
	Page    int    `query:"page"   validate:"omitempty,gt=0"`
	Limit   int    `query:"limit"  validate:"omitempty,gt=0"`
}

type reservationLinks struct {
	Self  string `json:"self"`
	Guest string `json:"guest"`
	Room  string `json:"room"`
}

type reservationResponse struct {
	ID           string           `json:"id"`
	GuestID      string           `json:"guest_id"`
	RoomID       string           `json:"room_id"`
	CheckIn      string           `json:"check_in"`
	CheckOut     string           `json:"check_out"`
	Nights       int              `json:"nights"`
	Status       string           `json:"status"`
	PartySize    int              `json:"party_size"`
	Notes        string           `json:"notes,omitempty"`
	CancelReason string           `json:"cancel_reason,omitempty"`
	CreatedBy    string           `json:"created_by"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Links        reservationLinks `json:"_links"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listReservationsResponse struct {
	Data       []reservationResponse `json:"data"`
	Pagination paginationResponse    `json:"pagination"`
}

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role.String(),
		IsActive:    u.IsActive,
		LockedUntil: u.LockedUntil,
		CreatedAt:   u.CreatedAt,
	}
}

func toRoomResponse(r *domain.Room) roomResponse {
	return roomResponse{
		ID:        r.ID,
		Number:    r.Number,
		Type:      r.Type,
		Capacity:  r.Capacity,
		Status:    string(r.Status),
		UpdatedAt: r.UpdatedAt,
	}
}

func toPublicRoomResponse(r *domain.Room) publicRoomResponse {
	return publicRoomResponse{ID: r.ID, Number: r.Number, Type: r.Type, Capacity: r.Capacity}
}

func toReservationResponse(r *domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:           r.ID,
		GuestID:      r.GuestID,
		RoomID:       r.RoomID,
		CheckIn:      r.Stay.CheckIn.Format(domain.DateLayout),
		CheckOut:     r.Stay.CheckOut.Format(domain.DateLayout),
		Nights:       r.Stay.Nights(),
		Status:       string(r.Status),
		PartySize:    r.PartySize,
		Notes:        r.Notes,
		CancelReason: r.CancelReason,
		CreatedBy:    r.CreatedBy,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Links: reservationLinks{
			Self:  "/v1/reservations/" + r.ID,
			Guest: "/v1/guests/" + r.GuestID,
			Room:  "/v1/rooms/" + r.RoomID,
		},
	}
}
