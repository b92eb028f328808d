package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hotelcore/reservations/internal/api/metrics"
	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/core/ports"
)

type AuthHandler struct {
	authService  ports.AuthService
	userService  ports.UserService
	guestService ports.GuestService
	log          zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, userService ports.UserService, guestService ports.GuestService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService, guestService: guestService, log: log}
}

// Register creates a guest account and the guest record it owns.
//
// @Summary      Register a new guest account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.authService.Register(ctx, ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	// The account is usable without a guest record; staff can add one later.
	existing, err := h.guestService.FindByEmail(ctx, user.Email)
	if err == nil && len(existing) == 0 {
		_, err = h.guestService.Create(ctx, ports.CreateGuestInput{Name: user.Username, Email: user.Email})
	}
	if err != nil {
		h.log.Warn().Err(err).Str("user_id", user.ID).Msg("guest record not created on registration")
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		ClientAddr: c.RealIP(),
	})
	metrics.LoginAttemptsTotal.WithLabelValues(loginResult(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:     result.Token,
		TokenType: "Bearer",
		ExpiresAt: result.ExpiresAt,
		User:      toUserResponse(result.User),
	})
}

// Me returns the caller's own account.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetUser(c.Request().Context(), id.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccountLocked):
		return "locked"
	case errors.Is(err, domain.ErrAccountInactive):
		return "inactive"
	case errors.Is(err, domain.ErrRateLimited):
		return "throttled"
	}
	return "error"
}
