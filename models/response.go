package models

// Stock states reported alongside a price result. Price extraction and
// stock detection are independent signals; a page can yield a price while
// the product is not purchasable, and vice versa.
const (
	StockInStock    = "in_stock"
	StockOutOfStock = "out_of_stock"
	StockUnknown    = "unknown"
)

// StockStatus is the availability verdict for a product page.
type StockStatus struct {
	State string `json:"state"`
	// Message names the phrase, selector, or rule that produced the
	// verdict, when one exists.
	Message string `json:"message,omitempty"`
}

// PriceResponse is the response for single-URL extraction requests.
type PriceResponse struct {
	// Success is true exactly when Price is non-null.
	Success bool `json:"success"`

	// URL is the original request URL.
	URL string `json:"url"`

	// FinalURL is the URL after all redirects settled.
	FinalURL string `json:"final_url"`

	// Site is the storefront identified from FinalURL.
	Site string `json:"site"`

	// Price is the extracted selling price in INR, or null when no
	// plausible price was found.
	Price *string `json:"price"`

	// Method records which backend produced the result: "fast" or "stealth".
	Method string `json:"method,omitempty"`

	// Status is a human-readable summary of how the extraction ended.
	Status string `json:"status"`

	// Attempts is the number of extraction attempts consumed (>= 1).
	Attempts int `json:"attempts"`

	// Retried is true when more than one attempt was needed.
	Retried bool `json:"retried"`

	// ElapsedTime is the wall-clock duration in seconds.
	ElapsedTime float64 `json:"elapsed_time"`

	// StockStatus reports availability, independent of Success.
	StockStatus StockStatus `json:"stock_status"`

	// Title is the best-effort product title.
	Title string `json:"title,omitempty"`

	// ImageURL is the best-effort product image, resize suffixes stripped.
	ImageURL string `json:"image_url,omitempty"`

	// Error is populated only when Success is false.
	Error string `json:"error,omitempty"`
}

// BatchPriceResponse is the response for POST /api/price/batch.
// The endpoint always answers 200; per-item success lives in Results.
type BatchPriceResponse struct {
	Count        int              `json:"count"`
	SuccessCount int              `json:"success_count"`
	FailedCount  int              `json:"failed_count"`
	ElapsedTime  float64          `json:"elapsed_time"`
	Results      []*PriceResponse `json:"results"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
	Uptime    string `json:"uptime"`
	Version   string `json:"version"`
}
