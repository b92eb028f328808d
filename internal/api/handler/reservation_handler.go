package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hotelcore/reservations/internal/api/metrics"
	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/core/ports"
)

// ReservationHandler handles HTTP requests for the reservation lifecycle.
// Guests reach only reservations made for their own guest records; staff
// routes are additionally gated by RBAC in the router.
type ReservationHandler struct {
	reservations ports.ReservationService
	guests       ports.GuestService
	authz        ports.Authorizer
}

func NewReservationHandler(reservations ports.ReservationService, guests ports.GuestService, authz ports.Authorizer) *ReservationHandler {
	return &ReservationHandler{reservations: reservations, guests: guests, authz: authz}
}

// Create handles POST /v1/reservations.
//
// @Summary      Book a room
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReservationRequest  true  "Reservation details"
// @Success      201   {object}  reservationResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req createReservationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	stay, err := domain.ParseDateRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.authz.RequireGuestAccess(ctx, id, req.GuestID); err != nil {
		return err
	}

	res, err := h.reservations.Create(ctx, ports.CreateReservationInput{
		GuestID:   req.GuestID,
		RoomID:    req.RoomID,
		Stay:      stay,
		PartySize: req.PartySize,
		Notes:     req.Notes,
		CreatedBy: id.ID,
	})
	observe("create", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toReservationResponse(res))
}

// List handles GET /v1/reservations.
//
// @Summary      List reservations
// @Description  Staff may filter by any field. Guests only ever see their own reservations.
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        guest_id  query     string  false  "Guest ID"
// @Param        room_id   query     string  false  "Room ID"
// @Param        status    query     string  false  "Reservation status"
// @Param        from      query     string  false  "Stays overlapping from this date (YYYY-MM-DD)"
// @Param        to        query     string  false  "Stays overlapping until this date (YYYY-MM-DD)"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Items per page (default 20, max 100)"
// @Success      200       {object}  listReservationsResponse
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Router       /v1/reservations [get]
func (h *ReservationHandler) List(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var q listReservationsQuery
	if err := bind(c, &q); err != nil {
		return err
	}

	ctx := c.Request().Context()
	filter := ports.ListReservationsFilter{
		RoomID: q.RoomID,
		Status: domain.ReservationStatus(q.Status),
		Page:   q.Page,
		Limit:  q.Limit,
	}
	if filter.From, err = optionalDate("from", q.From); err != nil {
		return err
	}
	if filter.To, err = optionalDate("to", q.To); err != nil {
		return err
	}

	if id.IsStaff() {
		if q.GuestID != "" {
			filter.GuestIDs = []string{q.GuestID}
		}
	} else {
		owned, err := h.guests.FindByEmail(ctx, id.Email)
		if err != nil {
			return err
		}
		filter.GuestIDs = make([]string, 0, len(owned))
		for _, g := range owned {
			if q.GuestID == "" || q.GuestID == g.ID {
				filter.GuestIDs = append(filter.GuestIDs, g.ID)
			}
		}
	}

	page, err := h.reservations.List(ctx, filter)
	if err != nil {
		return err
	}

	data := make([]reservationResponse, 0, len(page.Items))
	for _, r := range page.Items {
		data = append(data, toReservationResponse(r))
	}
	totalPages := 0
	if page.Limit > 0 {
		totalPages = int((page.Total + int64(page.Limit) - 1) / int64(page.Limit))
	}
	return c.JSON(http.StatusOK, listReservationsResponse{
		Data: data,
		Pagination: paginationResponse{
			Total:      page.Total,
			Page:       page.Page,
			Limit:      page.Limit,
			TotalPages: totalPages,
		},
	})
}

// Get handles GET /v1/reservations/:id.
//
// @Summary      Get a reservation
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reservation ID"
// @Success      200  {object}  reservationResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/reservations/{id} [get]
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	res, err := h.authz.RequireReservationAccess(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponse(res))
}

// Update handles PATCH /v1/reservations/:id.
//
// @Summary      Change dates, room, party size or notes
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Reservation ID"
// @Param        body  body      updateReservationRequest  true  "Fields to change"
// @Success      200   {object}  reservationResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/reservations/{id} [patch]
func (h *ReservationHandler) Update(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req updateReservationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	current, err := h.authz.RequireReservationAccess(ctx, id, c.Param("id"))
	if err != nil {
		return err
	}

	input := ports.UpdateReservationInput{
		RoomID:    req.RoomID,
		PartySize: req.PartySize,
		Notes:     req.Notes,
	}
	if req.CheckIn != nil || req.CheckOut != nil {
		checkIn := current.Stay.CheckIn.Format(domain.DateLayout)
		checkOut := current.Stay.CheckOut.Format(domain.DateLayout)
		if req.CheckIn != nil {
			checkIn = *req.CheckIn
		}
		if req.CheckOut != nil {
			checkOut = *req.CheckOut
		}
		stay, err := domain.ParseDateRange(checkIn, checkOut)
		if err != nil {
			return err
		}
		input.Stay = &stay
	}

	res, err := h.reservations.Update(ctx, current.ID, input)
	observe("update", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponse(res))
}

// Cancel handles POST /v1/reservations/:id/cancel.
//
// @Summary      Cancel a pending or confirmed reservation
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Reservation ID"
// @Param        body  body      cancelReservationRequest  true  "Cancellation reason"
// @Success      200   {object}  reservationResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req cancelReservationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	current, err := h.authz.RequireReservationAccess(ctx, id, c.Param("id"))
	if err != nil {
		return err
	}
	res, err := h.reservations.Cancel(ctx, current.ID, req.Reason)
	observe("cancel", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponse(res))
}

// Confirm handles POST /v1/reservations/:id/confirm.
//
// @Summary      Confirm a pending reservation
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reservation ID"
// @Success      200  {object}  reservationResponse
// @Failure      409  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/reservations/{id}/confirm [post]
func (h *ReservationHandler) Confirm(c echo.Context) error {
	return h.transition(c, "confirm", h.reservations.Confirm)
}

// CheckIn handles POST /v1/reservations/:id/check-in.
//
// @Summary      Check a guest in
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reservation ID"
// @Success      200  {object}  reservationResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/reservations/{id}/check-in [post]
func (h *ReservationHandler) CheckIn(c echo.Context) error {
	return h.transition(c, "check_in", h.reservations.CheckIn)
}

// CheckOut handles POST /v1/reservations/:id/check-out.
//
// @Summary      Check a guest out
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reservation ID"
// @Success      200  {object}  reservationResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/reservations/{id}/check-out [post]
func (h *ReservationHandler) CheckOut(c echo.Context) error {
	return h.transition(c, "check_out", h.reservations.CheckOut)
}

// NoShow handles POST /v1/reservations/:id/no-show.
//
// @Summary      Mark a confirmed reservation as a no-show
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reservation ID"
// @Success      200  {object}  reservationResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/reservations/{id}/no-show [post]
func (h *ReservationHandler) NoShow(c echo.Context) error {
	return h.transition(c, "no_show", h.reservations.MarkNoShow)
}

// transition runs a staff-only lifecycle operation; the role check lives in
// the router.
func (h *ReservationHandler) transition(c echo.Context, op string, apply func(ctx context.Context, id string) (*domain.Reservation, error)) error {
	res, err := apply(c.Request().Context(), c.Param("id"))
	observe(op, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponse(res))
}

func observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = domain.Kind(err)
	}
	metrics.ReservationOpsTotal.WithLabelValues(op, result).Inc()
}
