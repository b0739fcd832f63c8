package engine

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/paisawise/pricewatch/config"
	"github.com/paisawise/pricewatch/extract"
	"github.com/paisawise/pricewatch/models"
	"github.com/paisawise/pricewatch/sites"
)

// Request is one URL's extraction job as the retry controller sees it.
type Request struct {
	URL string

	// MaxAttempts is clamped to [1, 10]; 0 uses the configured default.
	MaxAttempts int

	// UseVirtualDisplay is forwarded to the stealth backend.
	UseVirtualDisplay bool
}

// Result is the aggregated outcome after the retry budget is spent.
type Result struct {
	URL      string
	FinalURL string
	Site     sites.Tag
	Price    *extract.Candidate
	Stock    models.StockStatus
	Title    string
	ImageURL string
	Method   string
	Attempts int
	Status   string
	Elapsed  time.Duration
	Err      *models.ExtractError
}

// Success reports whether a price was extracted.
func (r *Result) Success() bool { return r.Price != nil }

// attempter is the slice of the dispatcher the retry controller needs.
type attempter interface {
	Attempt(ctx context.Context, rawURL string, useVirtualDisplay bool) (*AttemptResult, error)
	StealthOnly(rawURL string) bool
}

// Retrier wraps the dispatcher with bounded exponential backoff.
type Retrier struct {
	dispatcher attempter
	cfg        config.RetryConfig
	log        *slog.Logger

	// sleep is swappable in tests.
	sleep func(ctx context.Context, d time.Duration) bool
}

func NewRetrier(dispatcher *Dispatcher, cfg config.RetryConfig) *Retrier {
	return &Retrier{
		dispatcher: dispatcher,
		cfg:        cfg,
		log:        slog.Default().With("component", "retrier"),
		sleep:      sleepCtx,
	}
}

// Run executes up to MaxAttempts extraction attempts for one URL.
// Terminal failures (404, bot-block on every backend, invalid input) stop
// immediately; everything else backs off and retries.
func (r *Retrier) Run(ctx context.Context, req Request) *Result {
	attempts := models.ClampRetries(req.MaxAttempts, r.cfg.MaxRetries)
	if min := r.cfg.MinRetries; min > 1 && attempts < min {
		attempts = min
	}

	timeout := r.cfg.AttemptTimeout
	if r.dispatcher.StealthOnly(req.URL) {
		timeout = r.cfg.StealthAttemptTimeout
	}

	start := time.Now()
	result := &Result{
		URL:   req.URL,
		Site:  sites.Identify(req.URL),
		Stock: models.StockStatus{State: models.StockUnknown},
	}
	defer func() { result.Elapsed = time.Since(start) }()

	for attempt := 0; attempt < attempts; attempt++ {
		result.Attempts = attempt + 1

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		res, err := r.dispatcher.Attempt(attemptCtx, req.URL, req.UseVirtualDisplay)
		cancel()

		if res != nil {
			result.FinalURL = res.FinalURL
			result.Site = res.Site
			result.Price = res.Price
			result.Stock = res.Stock
			result.Title = res.Title
			result.ImageURL = res.ImageURL
			result.Method = res.Method
			result.Status = res.Status
		}

		if err == nil {
			result.Err = nil
			return result
		}

		ee := models.AsExtractError(err)
		result.Err = ee
		if result.Status == "" {
			result.Status = ee.Message
		}

		if ee.Terminal() {
			r.log.Info("terminal failure, not retrying",
				"url", req.URL, "code", ee.Code, "attempt", result.Attempts)
			return result
		}
		if ctx.Err() != nil {
			return result
		}
		if attempt+1 < attempts {
			delay := r.backoff(attempt)
			r.log.Debug("attempt failed, backing off",
				"url", req.URL, "code", ee.Code,
				"attempt", result.Attempts, "delay", delay)
			if !r.sleep(ctx, delay) {
				return result
			}
		}
	}
	return result
}

// backoff computes min(base * 2^attempt, cap) plus a uniform jitter of
// 10–50% of the delay. Delays grow monotonically until the cap.
func (r *Retrier) backoff(attempt int) time.Duration {
	delay := r.cfg.DelayBase << uint(attempt)
	if delay > r.cfg.MaxDelay || delay <= 0 {
		delay = r.cfg.MaxDelay
	}
	jitter := time.Duration((0.1 + 0.4*rand.Float64()) * float64(delay))
	return delay + jitter
}
