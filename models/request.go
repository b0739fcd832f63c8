package models

import "strings"

// PriceRequest is the payload for POST /api/price (and the query form of
// GET /api/price).
type PriceRequest struct {
	// URL is the product page to extract a price from. Required.
	URL string `json:"url" form:"url" binding:"required"`

	// MaxRetries bounds the number of extraction attempts. Clamped to
	// [1, 10] server-side; 0 means "use the configured default".
	MaxRetries int `json:"max_retries,omitempty" form:"max_retries"`

	// UseVirtualDisplay asks the stealth backend to render under a
	// virtual display (Xvfb) instead of headless mode, when available.
	UseVirtualDisplay bool `json:"use_virtual_display,omitempty" form:"use_virtual_display"`
}

// BatchPriceRequest is the payload for POST /api/price/batch.
type BatchPriceRequest struct {
	// URLs lists the product pages to process. Required.
	URLs []string `json:"urls" binding:"required,min=1,max=100"`

	// MaxRetries applies to every URL in the batch. Clamped to [1, 10].
	MaxRetries int `json:"max_retries,omitempty"`

	// MaxConcurrent bounds in-flight extractions. Clamped to
	// [1, configured max].
	MaxConcurrent int `json:"max_concurrent,omitempty"`

	// UseVirtualDisplay applies to every URL in the batch.
	UseVirtualDisplay bool `json:"use_virtual_display,omitempty"`
}

// ValidURL reports whether a URL is acceptable input: it must carry an
// explicit http or https scheme.
func ValidURL(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}

// ClampRetries clamps a requested retry count to [1, 10], substituting
// fallback when the request left it unset.
func ClampRetries(requested, fallback int) int {
	if requested == 0 {
		requested = fallback
	}
	if requested < 1 {
		return 1
	}
	if requested > 10 {
		return 10
	}
	return requested
}

// ClampConcurrency clamps a requested concurrency to [1, max], substituting
// fallback when the request left it unset.
func ClampConcurrency(requested, fallback, max int) int {
	if requested == 0 {
		requested = fallback
	}
	if requested < 1 {
		return 1
	}
	if requested > max {
		return max
	}
	return requested
}
