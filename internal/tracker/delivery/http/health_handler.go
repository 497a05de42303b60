package http

import (
	"net/http"
	"time"

	"golang-stock-movers/internal/tracker/config"

	"github.com/labstack/echo/v4"
)

// HealthHandler serves the service banner and liveness probe.
type HealthHandler struct {
	cfg *config.Config
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// RegisterRoutes registers the root and health routes.
func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Root)
	e.GET("/health", h.Health)
}

// Root serves a banner pointing at the interesting paths.
func (h *HealthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
		"docs":    "/swagger/index.html",
		"health":  "/health",
	})
}

// Health godoc
// @Summary Health check
// @Description Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": h.cfg.App.Name,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
