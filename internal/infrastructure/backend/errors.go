package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/netondemand/portal/internal/core/domain"
)

// Codes used when the backend body carries no code of its own.
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeInternalError      = "INTERNAL_SERVER_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeClientError        = "CLIENT_ERROR"
)

// APIError is a failed backend call in the portal's error shape.
type APIError struct {
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   any       `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Is matches the taxonomy sentinel of the status, so callers can write
// errors.Is(err, domain.ErrUnauthorized).
func (e *APIError) Is(target error) bool {
	return e.Kind() == target
}

// Kind returns the taxonomy sentinel for the status.
func (e *APIError) Kind() error {
	switch e.Status {
	case http.StatusBadRequest:
		return domain.ErrBadRequest
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusInternalServerError:
		return domain.ErrServerError
	case http.StatusServiceUnavailable:
		return domain.ErrServiceUnavailable
	default:
		return domain.ErrUnknown
	}
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details"`
}

// classify turns a non-2xx response into an APIError. A message from the
// backend wins over the fixed per-status messages.
func classify(status int, statusText string, body []byte) *APIError {
	apiErr := &APIError{Status: status, Timestamp: time.Now().UTC()}

	var eb errorBody
	if len(body) > 0 && json.Unmarshal(body, &eb) == nil && eb.Message != "" {
		apiErr.Message = eb.Message
		apiErr.Code = eb.Code
		if apiErr.Code == "" {
			apiErr.Code = "HTTP_" + strconv.Itoa(status)
		}
		apiErr.Details = eb.Details
		return apiErr
	}

	switch status {
	case http.StatusBadRequest:
		apiErr.Code, apiErr.Message = CodeBadRequest, "Bad request. Please check your input."
	case http.StatusUnauthorized:
		apiErr.Code, apiErr.Message = CodeUnauthorized, "Unauthorized. Please log in again."
	case http.StatusForbidden:
		apiErr.Code, apiErr.Message = CodeForbidden, "Forbidden. You do not have permission to access this resource."
	case http.StatusNotFound:
		apiErr.Code, apiErr.Message = CodeNotFound, "Resource not found."
	case http.StatusInternalServerError:
		apiErr.Code, apiErr.Message = CodeInternalError, "Internal server error. Please try again later."
	case http.StatusServiceUnavailable:
		apiErr.Code, apiErr.Message = CodeServiceUnavailable, "Service unavailable. Please try again later."
	default:
		apiErr.Code = "HTTP_" + strconv.Itoa(status)
		apiErr.Message = fmt.Sprintf("Error %d: %s", status, statusText)
	}
	return apiErr
}

// clientError wraps a failure that produced no HTTP response.
func clientError(err error) *APIError {
	return &APIError{
		Code:      CodeClientError,
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

// statusText extracts the reason phrase from a status line such as "409 Conflict".
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
