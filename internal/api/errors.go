// errors.go - Error responses for the API
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	// MsgNoFileFound is the body returned when a request carries no file parts.
	MsgNoFileFound = "No File Found"
	// MsgUploadFailed is the body returned for failures that carry no message.
	MsgUploadFailed = "Upload Failed"
)

// APIError represents an error response. The parse endpoint's clients read the
// body as plain text, so only Message is written to the wire.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: message,
	}
}

// NewInternalError creates a 500 error whose message is the cause's message,
// or MsgUploadFailed when the cause has none.
func NewInternalError(cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: MsgUploadFailed,
	}
	if cause != nil {
		err.Details = cause.Error()
		if msg := cause.Error(); msg != "" {
			err.Message = msg
		}
	}
	return err
}

// ErrorHandler writes errors as plain text.
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &httpErr):
		apiErr = &APIError{
			Status:  httpErr.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", httpErr.Message),
		}
	default:
		apiErr = NewInternalError(err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(apiErr.Status)
		return
	}
	_ = c.String(apiErr.Status, apiErr.Message)
}
