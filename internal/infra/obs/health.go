package obs

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandlers serves liveness and readiness. Readiness runs every named
// dependency check and reports which ones failed, so a degraded gateway is
// diagnosable from the probe response alone.
type HealthHandlers struct {
	Checks map[string]func(context.Context) error
}

func (h HealthHandlers) Livez(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h HealthHandlers) Readyz(c *gin.Context) {
	failed := gin.H{}
	for name, check := range h.Checks {
		if err := check(c.Request.Context()); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "checks": failed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
