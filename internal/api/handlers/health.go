package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sentrycam-go/internal/config"
)

type HealthHandler struct {
	cfg     *config.Config
	started time.Time
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		cfg:     cfg,
		started: time.Now(),
	}
}

// WorkerInfo returns worker identity and version
// @Summary Worker info
// @Description Get worker identity, version and environment
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) WorkerInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"worker_id":   h.cfg.WorkerID,
		"version":     h.cfg.Version,
		"environment": h.cfg.Environment,
		"service":     "sentrycam",
	})
}

// HealthCheck reports liveness
// @Summary Health check
// @Description Liveness probe with uptime
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"uptime": time.Since(h.started).String(),
	})
}
