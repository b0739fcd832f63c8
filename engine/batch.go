package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/paisawise/pricewatch/models"
	"github.com/paisawise/pricewatch/sites"
)

// BatchResult aggregates per-URL outcomes. Results are index-aligned with
// the input URLs regardless of completion order.
type BatchResult struct {
	Results      []*Result
	SuccessCount int
	FailedCount  int
	Elapsed      time.Duration
}

// Batch runs many URLs through the retrier under a semaphore so at most
// `concurrency` extractions (and therefore browsers) are in flight at
// once. Per-URL failures are isolated; a panic-free Result is produced
// for every input.
func Batch(ctx context.Context, retrier *Retrier, reqs []Request, concurrency int) *BatchResult {
	start := time.Now()
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]*Result, len(reqs))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, req := range reqs {
		wg.Add(1)
		go func(idx int, req Request) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[idx] = canceledResult(req)
				return
			}
			defer func() { <-sem }()

			results[idx] = retrier.Run(ctx, req)
		}(i, req)
	}
	wg.Wait()

	batch := &BatchResult{Results: results, Elapsed: time.Since(start)}
	for _, res := range results {
		if res.Success() {
			batch.SuccessCount++
		} else {
			batch.FailedCount++
		}
	}

	slog.Info("batch finished",
		"count", len(reqs),
		"success", batch.SuccessCount,
		"failed", batch.FailedCount,
		"elapsed", batch.Elapsed.Round(time.Millisecond),
	)
	return batch
}

func canceledResult(req Request) *Result {
	return &Result{
		URL:      req.URL,
		Site:     sites.Identify(req.URL),
		Stock:    models.StockStatus{State: models.StockUnknown},
		Attempts: 1,
		Status:   "Canceled before start",
		Err:      models.NewExtractError(models.ErrCodeTimeout, "batch canceled before start", nil),
	}
}
