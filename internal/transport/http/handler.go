// Package http provides the HTTP transport for the vacuum world service.
package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"vacuumworld/internal/domain"
	"vacuumworld/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// RegisterRoutes registers all routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/sessions", h.CreateSession)
	e.GET("/api/sessions", h.ListSessions)
	e.GET("/api/sessions/:session_id/state", h.GetState)
	e.POST("/api/sessions/:session_id/action", h.ExecuteAction)
	e.GET("/api/sessions/:session_id/sense", h.Sense)
	e.GET("/api/sessions/:session_id/watch", h.Watch)
	e.DELETE("/api/sessions/:session_id", h.DeleteSession)

	e.GET("/api/results", h.ListResults)
	e.GET("/api/health", h.Health)
}

// Health returns health status.
// GET /api/health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":          "healthy",
		"active_sessions": h.service.ActiveSessions(),
	})
}

// jsonError maps domain failures to HTTP statuses. Validation failures and
// bad action names are 400, unknown sessions 404, anything else 500.
func jsonError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidParameter), errors.Is(err, domain.ErrInvalidAction):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
