package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hotelcore/reservations/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

var kindStatus = map[string]int{
	"unauthenticated":    http.StatusUnauthorized,
	"forbidden":          http.StatusForbidden,
	"not_found":          http.StatusNotFound,
	"conflict":           http.StatusConflict,
	"invalid_transition": http.StatusUnprocessableEntity,
	"room_unavailable":   http.StatusUnprocessableEntity,
	"rate_limited":       http.StatusTooManyRequests,
	"invalid_input":      http.StatusBadRequest,
	"transient":          http.StatusServiceUnavailable,
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Sets Retry-After on rate limited responses.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"success": false, "message": "...", "error": "<kind>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, middleware limits).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Message: fmt.Sprintf("%v", he.Message), Error: kindForStatus(he.Code)}
	}

	var rl *domain.RateLimitError
	if errors.As(err, &rl) {
		secs := int(math.Ceil(rl.RetryAfter.Seconds()))
		if secs < 1 {
			secs = 1
		}
		c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
	}

	kind := domain.Kind(err)
	code, known := kindStatus[kind]
	switch {
	case !known:
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("unhandled error")
		return http.StatusInternalServerError, errorResponse{Message: "internal server error", Error: kind}
	case code == http.StatusServiceUnavailable:
		log.Warn().Err(err).Str("path", c.Path()).Msg("dependency unavailable")
		return code, errorResponse{Message: "service temporarily unavailable, retry later", Error: kind}
	}
	return code, errorResponse{Message: err.Error(), Error: kind}
}

func kindForStatus(code int) string {
	for kind, c := range kindStatus {
		// 422 is shared; echo never produces it on its own.
		if c == code && code != http.StatusUnprocessableEntity {
			return kind
		}
	}
	switch {
	case code == http.StatusRequestEntityTooLarge, code == http.StatusUnsupportedMediaType:
		return "invalid_input"
	case code == http.StatusMethodNotAllowed:
		return "not_found"
	case code >= 500:
		return "internal"
	}
	return "invalid_input"
}
