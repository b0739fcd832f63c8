package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/paisawise/pricewatch/config"
	"github.com/paisawise/pricewatch/engine"
	"github.com/paisawise/pricewatch/extract"
	"github.com/paisawise/pricewatch/models"
)

// Price returns the handler shared by GET and POST /api/price.
//
// Orchestration flow:
//  1. Parse & validate the request (query params on GET, JSON on POST).
//  2. Run the retry controller for the single URL.
//  3. Map the engine result to the response schema and an HTTP status.
func Price(retrier *engine.Retrier, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req models.PriceRequest
		var bindErr error
		if c.Request.Method == http.MethodGet {
			bindErr = c.ShouldBindQuery(&req)
		} else {
			bindErr = c.ShouldBindJSON(&req)
		}
		if bindErr != nil || !models.ValidURL(req.URL) {
			c.JSON(http.StatusBadRequest, &models.PriceResponse{
				Success:     false,
				URL:         req.URL,
				Site:        "generic",
				Status:      "Invalid request",
				StockStatus: models.StockStatus{State: models.StockUnknown},
				Error:       "url must start with http:// or https://",
				ElapsedTime: time.Since(start).Seconds(),
			})
			return
		}

		result := retrier.Run(c.Request.Context(), engine.Request{
			URL:               req.URL,
			MaxAttempts:       models.ClampRetries(req.MaxRetries, cfg.Retry.MaxRetries),
			UseVirtualDisplay: req.UseVirtualDisplay,
		})

		resp := ToResponse(result, time.Since(start))
		c.JSON(statusFor(resp, result), resp)
	}
}

// ToResponse converts an engine result into the wire schema.
func ToResponse(result *engine.Result, elapsed time.Duration) *models.PriceResponse {
	resp := &models.PriceResponse{
		Success:     result.Success(),
		URL:         result.URL,
		FinalURL:    result.FinalURL,
		Site:        string(result.Site),
		Method:      result.Method,
		Status:      result.Status,
		Attempts:    result.Attempts,
		Retried:     result.Attempts > 1,
		ElapsedTime: elapsed.Seconds(),
		StockStatus: result.Stock,
		Title:       result.Title,
		ImageURL:    result.ImageURL,
	}
	if resp.FinalURL == "" {
		resp.FinalURL = result.URL
	}
	if result.Price != nil {
		price := extract.FormatPrice(result.Price.Amount)
		resp.Price = &price
	}
	if result.Err != nil {
		resp.Error = result.Err.Error()
	}
	return resp
}

// statusFor maps a finished extraction to an HTTP status: 200 on success,
// 400 for input errors, 500 for internal faults, 404 for every way of not
// finding a price (the body still carries the failure detail).
func statusFor(resp *models.PriceResponse, result *engine.Result) int {
	if resp.Success {
		return http.StatusOK
	}
	if result.Err != nil {
		switch result.Err.Code {
		case models.ErrCodeInvalidInput:
			return http.StatusBadRequest
		case models.ErrCodeInternal, models.ErrCodeBrowserCrash:
			return http.StatusInternalServerError
		}
	}
	return http.StatusNotFound
}
