package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hotelcore/reservations/internal/api/middleware"
	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/core/ports"
)

// RoomHandler serves the room inventory and the availability probe.
type RoomHandler struct {
	rooms        ports.RoomService
	availability ports.AvailabilityChecker
}

func NewRoomHandler(rooms ports.RoomService, availability ports.AvailabilityChecker) *RoomHandler {
	return &RoomHandler{rooms: rooms, availability: availability}
}

// List handles GET /v1/rooms. Staff see every room with its status; everyone
// else sees bookable rooms only.
//
// @Summary      List rooms
// @Tags         rooms
// @Produce      json
// @Param        status  query     string  false  "Room status (staff only)"
// @Success      200     {array}   roomResponse
// @Failure      400     {object}  errorResponse
// @Router       /v1/rooms [get]
func (h *RoomHandler) List(c echo.Context) error {
	var q listRoomsQuery
	if err := bind(c, &q); err != nil {
		return err
	}

	staff := middleware.IdentityFrom(c).IsStaff()
	filter := ports.RoomFilter{BookableOnly: !staff}
	if staff && q.Status != "" {
		filter.Status = domain.RoomStatus(q.Status)
	}

	rooms, err := h.rooms.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	if !staff {
		out := make([]publicRoomResponse, 0, len(rooms))
		for _, r := range rooms {
			out = append(out, toPublicRoomResponse(r))
		}
		return c.JSON(http.StatusOK, out)
	}
	out := make([]roomResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, toRoomResponse(r))
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /v1/rooms.
//
// @Summary      Create a room
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRoomRequest  true  "Room details"
// @Success      201   {object}  roomResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/rooms [post]
func (h *RoomHandler) Create(c echo.Context) error {
	var req createRoomRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	room, err := h.rooms.Create(c.Request().Context(), ports.CreateRoomInput{
		Number:   req.Number,
		Type:     req.Type,
		Capacity: req.Capacity,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRoomResponse(room))
}

// UpdateStatus handles PATCH /v1/rooms/:id/status.
//
// @Summary      Update a room's housekeeping status
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Room ID"
// @Param        body  body      roomStatusRequest  true  "New status"
// @Success      200   {object}  roomResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/rooms/{id}/status [patch]
func (h *RoomHandler) UpdateStatus(c echo.Context) error {
	var req roomStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	status, err := domain.ParseRoomStatus(req.Status)
	if err != nil {
		return err
	}
	room, err := h.rooms.UpdateStatus(c.Request().Context(), c.Param("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoomResponse(room))
}

// Availability handles GET /v1/rooms/:id/availability.
//
// @Summary      Check whether a room can be booked for a stay
// @Tags         rooms
// @Produce      json
// @Param        id         path      string  true  "Room ID"
// @Param        check_in   query     string  true  "Check-in date (YYYY-MM-DD)"
// @Param        check_out  query     string  true  "Check-out date (YYYY-MM-DD)"
// @Success      200        {object}  availabilityResponse
// @Failure      400        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /v1/rooms/{id}/availability [get]
func (h *RoomHandler) Availability(c echo.Context) error {
	var q availabilityQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	stay, err := domain.ParseDateRange(q.CheckIn, q.CheckOut)
	if err != nil {
		return err
	}
	roomID := c.Param("id")
	ok, err := h.availability.Available(c.Request().Context(), roomID, stay)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, availabilityResponse{
		RoomID:    roomID,
		CheckIn:   q.CheckIn,
		CheckOut:  q.CheckOut,
		Nights:    stay.Nights(),
		Available: ok,
	})
}
