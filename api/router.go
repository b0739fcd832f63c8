// Package api assembles the HTTP surface over the extraction engine.
package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/paisawise/pricewatch/api/handler"
	"github.com/paisawise/pricewatch/api/middleware"
	"github.com/paisawise/pricewatch/config"
	"github.com/paisawise/pricewatch/engine"
)

// Version is reported by /health; overridable at build time with
// -ldflags "-X github.com/paisawise/pricewatch/api.Version=...".
var Version = "0.1.0"

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:     Recovery → Logger
//	/api group: RateLimit
//
// Health is outside the rate limiter so probes never get throttled.
func NewRouter(retrier *engine.Retrier, cfg *config.Config, startTime time.Time) *gin.Engine {
	if cfg.Log.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.GET("/health", handler.Health(startTime, Version))

	api := r.Group("/api")
	api.Use(middleware.RateLimit(cfg.RateLimit))

	api.GET("/price", handler.Price(retrier, cfg))
	api.POST("/price", handler.Price(retrier, cfg))
	api.POST("/price/batch", handler.Batch(retrier, cfg))

	return r
}
