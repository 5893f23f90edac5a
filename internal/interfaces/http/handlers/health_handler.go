package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/geowild/ConserveIQ/internal/infrastructure/cache"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	cache cache.Cache
}

// NewHealthHandler constructs the handler.  cache may be nil, in which case
// readiness degrades to liveness.
func NewHealthHandler(c cache.Cache) *HealthHandler {
	return &HealthHandler{cache: c}
}

// Healthz handles GET /healthz.
func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz handles GET /readyz: ready once the cache backend answers.
func (h *HealthHandler) Readyz(c *gin.Context) {
	if h.cache != nil {
		if err := h.cache.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "cache unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
