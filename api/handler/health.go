package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/paisawise/pricewatch/models"
)

// Health returns the handler for GET /health. Kept outside the rate
// limiter so monitoring probes always work.
func Health(startTime time.Time, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Service:   "pricewatch",
			Uptime:    time.Since(startTime).Round(time.Second).String(),
			Version:   version,
		})
	}
}
