package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/core/ports"
)

// UserHandler serves account administration.
type UserHandler struct {
	users ports.UserService
	authz ports.Authorizer
}

func NewUserHandler(users ports.UserService, authz ports.Authorizer) *UserHandler {
	return &UserHandler{users: users, authz: authz}
}

// Create handles POST /v1/users.
//
// @Summary      Create a user with any role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return err
	}
	user, err := h.users.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Get handles GET /v1/users/:id. Callers may read their own account; staff
// may read any.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	userID := c.Param("id")
	if err := h.authz.RequireOwnershipOrStaff(id, userID); err != nil {
		return err
	}
	user, err := h.users.GetUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// ChangeRole handles PUT /v1/users/:id/role.
//
// @Summary      Change a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      changeRoleRequest  true  "New role"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/users/{id}/role [put]
func (h *UserHandler) ChangeRole(c echo.Context) error {
	var req changeRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return err
	}
	user, err := h.users.ChangeRole(c.Request().Context(), c.Param("id"), role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// SetActive handles PUT /v1/users/:id/active.
//
// @Summary      Activate or deactivate a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "User ID"
// @Param        body  body      setActiveRequest  true  "Active flag"
// @Success      200   {object}  userResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/users/{id}/active [put]
func (h *UserHandler) SetActive(c echo.Context) error {
	var req setActiveRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.SetActive(c.Request().Context(), c.Param("id"), *req.Active)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Lock handles POST /v1/users/:id/lock.
//
// @Summary      Lock a user for a number of minutes
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "User ID"
// @Param        body  body      lockUserRequest  true  "Lock duration"
// @Success      200   {object}  userResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/users/{id}/lock [post]
func (h *UserHandler) Lock(c echo.Context) error {
	var req lockUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.Lock(c.Request().Context(), c.Param("id"), time.Duration(req.Minutes)*time.Minute)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Unlock handles POST /v1/users/:id/unlock.
//
// @Summary      Clear a user's lock and failure count
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id}/unlock [post]
func (h *UserHandler) Unlock(c echo.Context) error {
	user, err := h.users.Unlock(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}
