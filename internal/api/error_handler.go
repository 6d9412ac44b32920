package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/netondemand/portal/internal/api/handler"
	"github.com/netondemand/portal/internal/api/middleware"
	"github.com/netondemand/portal/internal/core/domain"
	"github.com/netondemand/portal/internal/infrastructure/backend"
)

// loginRoute answers 401 for bad credentials; the caller's session is not at fault.
const loginRoute = "/api/auth/login"

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	Details   any       `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Redirect  string    `json:"redirect,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders backend failures with the backend's status, code and message.
//   - Ends the session when the backend answers 401 and points the client at the login page.
//     A failed login leaves any existing session alone.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger, sessions *middleware.Sessions) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if code == http.StatusUnauthorized && c.Path() != loginRoute {
			sessions.Invalidate(c)
			resp.Redirect = middleware.LoginPath
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	now := time.Now().UTC()

	// Field validation of request bodies.
	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error: ve.Error(), Code: "VALIDATION_ERROR", Details: ve.Fields, Timestamp: now,
		}
	}

	// Backend failures keep their status and message.
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status == 0 {
			status = http.StatusBadGateway
		}
		if status >= http.StatusInternalServerError {
			log.Warn().Err(err).Int("backend_status", apiErr.Status).Str("path", c.Path()).Msg("backend failure")
		}
		return status, errorResponse{
			Error: apiErr.Message, Code: apiErr.Code, Details: apiErr.Details, Timestamp: apiErr.Timestamp,
		}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message), Code: httpCode(he.Code), Timestamp: now}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated), errors.Is(err, domain.ErrNoRefreshToken):
		return http.StatusUnauthorized, errorResponse{Error: "Authentication required", Code: backend.CodeUnauthorized, Timestamp: now}
	case errors.Is(err, domain.ErrOrderNotCancellable):
		return http.StatusConflict, errorResponse{Error: "Order can no longer be cancelled", Code: "ORDER_NOT_CANCELLABLE", Timestamp: now}
	case errors.Is(err, domain.ErrPasswordMismatch):
		return http.StatusUnprocessableEntity, errorResponse{
			Error: "Passwords do not match", Code: "VALIDATION_ERROR",
			Details: map[string]string{"confirmPassword": "Passwords do not match"}, Timestamp: now,
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: backend.CodeInternalError, Timestamp: now}
}

func httpCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return backend.CodeBadRequest
	case http.StatusUnauthorized:
		return backend.CodeUnauthorized
	case http.StatusForbidden:
		return backend.CodeForbidden
	case http.StatusNotFound:
		return backend.CodeNotFound
	default:
		return fmt.Sprintf("HTTP_%d", status)
	}
}
