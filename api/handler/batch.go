package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/paisawise/pricewatch/config"
	"github.com/paisawise/pricewatch/engine"
	"github.com/paisawise/pricewatch/models"
)

// Batch returns the handler for POST /api/price/batch. The endpoint is
// synchronous and always answers 200 once the body binds; per-URL
// success lives in the result items.
func Batch(retrier *engine.Retrier, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req models.BatchPriceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "urls is required (1-100 entries)",
			})
			return
		}

		// Malformed entries never fail the batch. They become failed
		// items in place so results stay aligned to input positions.
		items := make([]*models.PriceResponse, len(req.URLs))
		reqs := make([]engine.Request, 0, len(req.URLs))
		slots := make([]int, 0, len(req.URLs))
		for i, rawURL := range req.URLs {
			if !models.ValidURL(rawURL) {
				items[i] = &models.PriceResponse{
					URL:      rawURL,
					FinalURL: rawURL,
					Status:   "Invalid URL",
					Error:    models.NewExtractError(models.ErrCodeInvalidInput, "invalid url", nil).Error(),
				}
				continue
			}
			slots = append(slots, i)
			reqs = append(reqs, engine.Request{
				URL:               rawURL,
				MaxAttempts:       models.ClampRetries(req.MaxRetries, cfg.Retry.MaxRetries),
				UseVirtualDisplay: req.UseVirtualDisplay,
			})
		}

		concurrency := models.ClampConcurrency(
			req.MaxConcurrent, cfg.Batch.DefaultConcurrent, cfg.Batch.MaxConcurrent)

		batch := engine.Batch(c.Request.Context(), retrier, reqs, concurrency)
		for j, res := range batch.Results {
			items[slots[j]] = ToResponse(res, res.Elapsed)
		}

		c.JSON(http.StatusOK, &models.BatchPriceResponse{
			Count:        len(items),
			SuccessCount: batch.SuccessCount,
			FailedCount:  len(items) - batch.SuccessCount,
			ElapsedTime:  time.Since(start).Seconds(),
			Results:      items,
		})
	}
}
