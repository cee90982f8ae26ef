package common

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AppError is the error type services return. Status decides the HTTP code,
// Message is the client-facing text, Err carries the cause for logs only.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message}
}

func NewAuthError(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: message}
}

func NewInternalError(message string, err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: message, Err: err}
}

// ErrorResponse is the wire shape for every error the API returns.
type ErrorResponse struct {
	Message string `json:"message"`
}

// HTTPErrorHandler renders AppError, echo.HTTPError, and anything else as
// {"message": ...} JSON. Internal causes go to the log, never to the client.
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		resp := ErrorResponse{Message: "Internal server error"}

		var appErr *AppError
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = appErr.Status
			resp.Message = appErr.Message
		case errors.As(err, &httpErr):
			status = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				resp.Message = msg
			} else {
				resp.Message = http.StatusText(status)
			}
		}

		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			if err := c.NoContent(status); err != nil {
				logger.Error("failed to write error response", zap.Error(err))
			}
			return
		}
		if err := c.JSON(status, resp); err != nil {
			logger.Error("failed to write error response", zap.Error(err))
		}
	}
}
