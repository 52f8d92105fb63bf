package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kstrelkov/webshop/internal/service"
)

// Envelope is the wire shape every endpoint answers with.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func respondOK(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, Envelope{Success: true, Message: message, Data: data})
}

func respondError(c echo.Context, code int, message string) error {
	return c.JSON(code, Envelope{Success: false, Message: message})
}

// respondServiceError maps the service error taxonomy onto HTTP. Unknown
// errors answer a generic 500; internals are never echoed to the client.
func respondServiceError(c echo.Context, l *slog.Logger, err error, fallback string) error {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		l.Warn("validation_failed", "status", 422, "error", err)
		return c.JSON(http.StatusUnprocessableEntity, Envelope{
			Success: false,
			Message: "Validation failed",
			Errors:  vErr.Fields,
		})
	case errors.Is(err, service.ErrValidation):
		l.Warn("validation_failed", "status", 422, "error", err)
		return respondError(c, http.StatusUnprocessableEntity, "Validation failed")
	case errors.Is(err, service.ErrNotFound):
		l.Warn("not_found", "status", 404, "error", err)
		return respondError(c, http.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrConflict):
		l.Warn("conflict", "status", 409, "error", err)
		return respondError(c, http.StatusConflict, "Already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		l.Warn("invalid_credentials", "status", 401, "error", err)
		return respondError(c, http.StatusUnauthorized, "Invalid credentials")
	default:
		l.Error("internal_error", "status", 500, "error", err)
		return respondError(c, http.StatusInternalServerError, fallback)
	}
}
