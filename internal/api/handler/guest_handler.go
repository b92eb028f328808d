package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hotelcore/reservations/internal/core/ports"
)

type GuestHandler struct {
	guests ports.GuestService
	authz  ports.Authorizer
}

func NewGuestHandler(guests ports.GuestService, authz ports.Authorizer) *GuestHandler {
	return &GuestHandler{guests: guests, authz: authz}
}

// Create handles POST /v1/guests.
//
// @Summary      Register a guest at the front desk
// @Tags         guests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createGuestRequest  true  "Guest details"
// @Success      201   {object}  domain.Guest
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/guests [post]
func (h *GuestHandler) Create(c echo.Context) error {
	var req createGuestRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	guest, err := h.guests.Create(c.Request().Context(), ports.CreateGuestInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, guest)
}

// Get handles GET /v1/guests/:id.
//
// @Summary      Get a guest
// @Tags         guests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Guest ID"
// @Success      200  {object}  domain.Guest
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/guests/{id} [get]
func (h *GuestHandler) Get(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	guest, err := h.authz.RequireGuestAccess(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, guest)
}
