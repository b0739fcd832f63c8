package engine

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/paisawise/pricewatch/config"
	"github.com/paisawise/pricewatch/extract"
	"github.com/paisawise/pricewatch/models"
)

// fakeAttempter scripts the dispatcher: each call consumes the next
// step's result and error.
type fakeAttempter struct {
	steps []struct {
		res *AttemptResult
		err error
	}
	calls       int
	stealthOnly bool
	deadlines   []time.Duration
}

func (f *fakeAttempter) Attempt(ctx context.Context, _ string, _ bool) (*AttemptResult, error) {
	if deadline, ok := ctx.Deadline(); ok {
		f.deadlines = append(f.deadlines, time.Until(deadline))
	}
	idx := f.calls
	f.calls++
	if idx >= len(f.steps) {
		idx = len(f.steps) - 1
	}
	step := f.steps[idx]
	return step.res, step.err
}

func (f *fakeAttempter) StealthOnly(string) bool { return f.stealthOnly }

func (f *fakeAttempter) step(res *AttemptResult, err error) *fakeAttempter {
	f.steps = append(f.steps, struct {
		res *AttemptResult
		err error
	}{res, err})
	return f
}

func testRetrier(fake *fakeAttempter) (*Retrier, *[]time.Duration) {
	var slept []time.Duration
	r := &Retrier{
		dispatcher: fake,
		cfg: config.RetryConfig{
			MaxRetries:            3,
			MinRetries:            1,
			DelayBase:             2 * time.Second,
			MaxDelay:              30 * time.Second,
			AttemptTimeout:        60 * time.Second,
			StealthAttemptTimeout: 120 * time.Second,
		},
		log: slog.Default(),
		sleep: func(_ context.Context, d time.Duration) bool {
			slept = append(slept, d)
			return true
		},
	}
	return r, &slept
}

func okResult() *AttemptResult {
	return &AttemptResult{
		FinalURL: "https://www.amazon.in/dp/B0X",
		Site:     "amazon",
		Price:    &extract.Candidate{Amount: 1299, Currency: "INR"},
		Stock:    models.StockStatus{State: models.StockInStock},
		Method:   "fast",
		Status:   "Price extracted",
	}
}

func TestRetrier_FirstAttemptSucceeds(t *testing.T) {
	fake := (&fakeAttempter{}).step(okResult(), nil)
	r, slept := testRetrier(fake)

	res := r.Run(context.Background(), Request{URL: "https://www.amazon.in/dp/B0X"})
	if !res.Success() {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", res.Attempts)
	}
	if len(*slept) != 0 {
		t.Errorf("no backoff expected, slept %v", *slept)
	}
	if res.Price.Amount != 1299 {
		t.Errorf("price = %v", res.Price.Amount)
	}
}

func TestRetrier_RetriesThenSucceeds(t *testing.T) {
	miss := models.NewExtractError(models.ErrCodePriceNotFound, "Price not found", nil)
	fake := (&fakeAttempter{}).
		step(nil, miss).
		step(nil, miss).
		step(okResult(), nil)
	r, slept := testRetrier(fake)

	res := r.Run(context.Background(), Request{URL: "https://www.amazon.in/dp/B0X"})
	if !res.Success() {
		t.Fatalf("expected eventual success, got err %v", res.Err)
	}
	if res.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", res.Attempts)
	}
	if res.Err != nil {
		t.Errorf("error should be cleared on success, got %v", res.Err)
	}
	if len(*slept) != 2 {
		t.Errorf("expected 2 backoff sleeps, got %v", *slept)
	}
}

func TestRetrier_BudgetExhausted(t *testing.T) {
	miss := models.NewExtractError(models.ErrCodePriceNotFound, "Price not found", nil)
	fake := (&fakeAttempter{}).step(nil, miss)
	r, slept := testRetrier(fake)

	res := r.Run(context.Background(), Request{URL: "https://www.amazon.in/dp/B0X", MaxAttempts: 4})
	if res.Success() {
		t.Fatal("expected failure")
	}
	if res.Attempts != 4 {
		t.Errorf("attempts = %d, want 4", res.Attempts)
	}
	if res.Err == nil || res.Err.Code != models.ErrCodePriceNotFound {
		t.Errorf("err = %v", res.Err)
	}
	// No sleep after the final attempt.
	if len(*slept) != 3 {
		t.Errorf("expected 3 backoff sleeps, got %d", len(*slept))
	}
}

func TestRetrier_TerminalErrorStopsImmediately(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"page not found", models.ErrCodeNotFound},
		{"bot blocked everywhere", models.ErrCodeBotBlocked},
		{"invalid input", models.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := (&fakeAttempter{}).step(nil, models.NewExtractError(tt.code, "nope", nil))
			r, _ := testRetrier(fake)

			res := r.Run(context.Background(), Request{URL: "https://www.amazon.in/dp/B0X", MaxAttempts: 5})
			if res.Attempts != 1 {
				t.Errorf("attempts = %d, want 1 (terminal)", res.Attempts)
			}
			if fake.calls != 1 {
				t.Errorf("dispatcher called %d times, want 1", fake.calls)
			}
		})
	}
}

func TestRetrier_AttemptsClamped(t *testing.T) {
	miss := models.NewExtractError(models.ErrCodeTimeout, "timed out", nil)
	fake := (&fakeAttempter{}).step(nil, miss)
	r, _ := testRetrier(fake)

	res := r.Run(context.Background(), Request{URL: "https://www.amazon.in/dp/B0X", MaxAttempts: 50})
	if res.Attempts != 10 {
		t.Errorf("attempts = %d, want 10 (upper clamp)", res.Attempts)
	}
}

func TestRetrier_StealthSitesGetLongerDeadline(t *testing.T) {
	fake := (&fakeAttempter{stealthOnly: true}).step(okResult(), nil)
	r, _ := testRetrier(fake)

	r.Run(context.Background(), Request{URL: "https://www.nykaa.com/p/1"})
	if len(fake.deadlines) != 1 {
		t.Fatalf("expected 1 recorded deadline, got %d", len(fake.deadlines))
	}
	if fake.deadlines[0] <= 60*time.Second {
		t.Errorf("deadline headroom = %v, want the stealth timeout (>60s)", fake.deadlines[0])
	}
}

func TestRetrier_BackoffGrowsToCap(t *testing.T) {
	r, _ := testRetrier(&fakeAttempter{})

	rawFor := func(attempt int) time.Duration {
		raw := r.cfg.DelayBase << uint(attempt)
		if raw > r.cfg.MaxDelay || raw <= 0 {
			raw = r.cfg.MaxDelay
		}
		return raw
	}

	for attempt := 0; attempt < 8; attempt++ {
		raw := rawFor(attempt)
		low := time.Duration(1.1*float64(raw)) - time.Millisecond
		high := time.Duration(1.5*float64(raw)) + time.Millisecond
		for i := 0; i < 20; i++ {
			got := r.backoff(attempt)
			if got < low || got > high {
				t.Fatalf("backoff(%d) = %v, want within [%v, %v]", attempt, got, low, high)
			}
		}
	}

	// Past the cap the raw delay stops growing.
	if rawFor(7) != r.cfg.MaxDelay {
		t.Errorf("raw delay at attempt 7 = %v, want cap %v", rawFor(7), r.cfg.MaxDelay)
	}
}

func TestRetrier_CanceledContextStops(t *testing.T) {
	miss := models.NewExtractError(models.ErrCodeTimeout, "timed out", nil)
	fake := (&fakeAttempter{}).step(nil, miss)
	r, _ := testRetrier(fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := r.Run(ctx, Request{URL: "https://www.amazon.in/dp/B0X", MaxAttempts: 5})
	if res.Attempts != 1 {
		t.Errorf("attempts = %d, want 1 after cancellation", res.Attempts)
	}
}
