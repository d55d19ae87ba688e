package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/masala/backend/internal/infrastructure/telemetry"
	"github.com/masala/backend/internal/interfaces/http/dto"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and database reachability
type HealthHandler struct {
	BaseHandler
	db        Pinger
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, startTime: time.Now()}
}

// HealthResponse is the health check payload
type HealthResponse struct {
	Status   string `json:"status" example:"healthy"`
	Database string `json:"database" example:"up"`
	Version  string `json:"version" example:"dev"`
	Uptime   string `json:"uptime" example:"1h30m45s"`
}

// Health godoc
// @ID           health
// @Summary      Health check
// @Description  Returns 503 when the database cannot be reached
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} APIResponse[HealthResponse]
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:   "healthy",
		Database: "up",
		Version:  telemetry.ServiceVersion,
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
	}
	status := http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		resp.Status, resp.Database = "unhealthy", "down"
		status = http.StatusServiceUnavailable
	}

	out := dto.NewSuccessResponse(resp)
	out.Success = status == http.StatusOK
	c.JSON(status, out)
}
