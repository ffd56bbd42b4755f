package handler

import (
	"net/http"
	"time"

	"github.com/devworkshop/usersvc/internal/constants"
	"github.com/devworkshop/usersvc/pkg/health"
	"github.com/gin-gonic/gin"
)

// Health reports liveness; it deliberately touches no dependency.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   constants.AppName,
		"version":   constants.AppVersion,
		"timestamp": time.Now().UTC(),
	})
}

// ReadinessHandler reports readiness from the dependency monitor's cached
// results, so the endpoint itself never blocks on a slow dependency.
type ReadinessHandler struct {
	monitor *health.Monitor
}

func NewReadinessHandler(monitor *health.Monitor) *ReadinessHandler {
	return &ReadinessHandler{monitor: monitor}
}

func (h *ReadinessHandler) Ready(c *gin.Context) {
	status := http.StatusOK
	ready := h.monitor.IsReady()
	if !ready {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"ready":        ready,
		"dependencies": h.monitor.Snapshot(),
		"timestamp":    time.Now().UTC(),
	})
}
