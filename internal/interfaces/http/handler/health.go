package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler exposes liveness and readiness probes
type HealthHandler struct {
	pinger  func() error
	started time.Time
}

// NewHealthHandler creates a new HealthHandler. pinger checks the
// database connection and may be nil.
func NewHealthHandler(pinger func() error) *HealthHandler {
	return &HealthHandler{pinger: pinger, started: time.Now()}
}

// Live handles GET /healthz
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.started).String(),
	})
}

// Ready handles GET /readyz
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.pinger != nil {
		if err := h.pinger(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
