package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"vacuumworld/internal/domain"
	"vacuumworld/internal/world"
)

// CreateSessionRequest is the request to create a simulation session. An
// absent size defaults to 8x8, absent positions to the grid center, an
// absent dirt rate to 0.3. Explicit values are validated as given, so
// width 0 is rejected rather than treated as absent.
type CreateSessionRequest struct {
	Width    *int     `json:"width,omitempty"`
	Height   *int     `json:"height,omitempty"`
	InitX    *int     `json:"init_x,omitempty"`
	InitY    *int     `json:"init_y,omitempty"`
	DirtRate *float64 `json:"dirt_rate,omitempty"`
	Seed     *int64   `json:"seed,omitempty"`
}

// CreateSessionResponse echoes the effective parameters back with the id.
type CreateSessionResponse struct {
	SessionID       string          `json:"session_id"`
	Width           int             `json:"width"`
	Height          int             `json:"height"`
	InitialPosition domain.Position `json:"initial_position"`
	DirtRate        float64         `json:"dirt_rate"`
	Seed            int64           `json:"seed"`
}

const (
	defaultSize     = 8
	defaultDirtRate = 0.3
)

// CreateSession creates a new simulation session.
// POST /api/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	width, height := defaultSize, defaultSize
	if req.Width != nil {
		width = *req.Width
	}
	if req.Height != nil {
		height = *req.Height
	}
	p := world.Params{
		Width:    width,
		Height:   height,
		InitX:    width / 2,
		InitY:    height / 2,
		DirtRate: defaultDirtRate,
		Seed:     req.Seed,
	}
	if req.InitX != nil {
		p.InitX = *req.InitX
	}
	if req.InitY != nil {
		p.InitY = *req.InitY
	}
	if req.DirtRate != nil {
		p.DirtRate = *req.DirtRate
	}

	session, err := h.service.CreateSession(ctx, p)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusCreated, CreateSessionResponse{
		SessionID:       session.ID,
		Width:           p.Width,
		Height:          p.Height,
		InitialPosition: domain.Position{X: p.InitX, Y: p.InitY},
		DirtRate:        p.DirtRate,
		Seed:            session.World.Seed(),
	})
}

// StateResponse is the full session state.
type StateResponse struct {
	SessionID string `json:"session_id"`
	domain.Snapshot
}

// GetState returns the full snapshot of a session.
// GET /api/sessions/:session_id/state
func (h *Handler) GetState(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("session_id")

	snap, err := h.service.State(ctx, id)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, StateResponse{SessionID: id, Snapshot: snap})
}

// ActionRequest carries the action name to execute.
type ActionRequest struct {
	Action string `json:"action"`
}

// ExecuteAction applies one action to a session.
// POST /api/sessions/:session_id/action
func (h *Handler) ExecuteAction(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("session_id")

	var req ActionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Action == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "action is required"})
	}

	result, err := h.service.Act(ctx, id, req.Action)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Sense returns the agent perception for a session.
// GET /api/sessions/:session_id/sense
func (h *Handler) Sense(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("session_id")

	perception, err := h.service.Sense(ctx, id)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, perception)
}

// ListSessions lists all live sessions.
// GET /api/sessions
func (h *Handler) ListSessions(c echo.Context) error {
	summaries := h.service.ListSessions(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]interface{}{"sessions": summaries})
}

// DeleteSession removes a session.
// DELETE /api/sessions/:session_id
func (h *Handler) DeleteSession(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("session_id")

	if err := h.service.DeleteSession(ctx, id); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "session deleted"})
}

// ListResults lists archived run summaries.
// GET /api/results?limit=N
func (h *Handler) ListResults(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
		}
		limit = n
	}

	results, err := h.service.Results(ctx, limit)
	if err != nil {
		return jsonError(c, err)
	}
	if results == nil {
		results = []domain.RunResult{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"results": results})
}
