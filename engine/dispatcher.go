package engine

import (
	"context"
	"log/slog"

	"github.com/paisawise/pricewatch/browser"
	"github.com/paisawise/pricewatch/extract"
	"github.com/paisawise/pricewatch/models"
	"github.com/paisawise/pricewatch/sites"
)

// statusFlipkartOverride is the status reported when a price was found
// but the post-extraction stock check said the product is gone.
const statusFlipkartOverride = "Product is out of stock (price found but product is sold out)"

// AttemptResult is the outcome of one extraction attempt. Price is nil
// when no plausible candidate survived.
type AttemptResult struct {
	FinalURL string
	Site     sites.Tag
	Price    *extract.Candidate
	Stock    models.StockStatus
	Title    string
	ImageURL string
	Method   string
	Status   string
}

// Dispatcher picks a backend order for a URL, runs navigation and the
// site extractor, and applies the cross-signal override rules.
type Dispatcher struct {
	fast      browser.Backend
	stealth   browser.Backend
	stealthVD browser.Backend // stealth under a virtual display; may be nil
	catalog   *sites.Catalog
	nav       *Navigator
	resolver  *Resolver
	log       *slog.Logger
}

// NewDispatcher wires the backends, the selector catalog and the
// navigator together. stealthVD is the virtual-display stealth variant
// used when a request sets use_virtual_display; pass nil to always reuse
// the headless stealth backend.
func NewDispatcher(fast, stealth, stealthVD browser.Backend, catalog *sites.Catalog, nav *Navigator, resolver *Resolver) *Dispatcher {
	return &Dispatcher{
		fast:      fast,
		stealth:   stealth,
		stealthVD: stealthVD,
		catalog:   catalog,
		nav:       nav,
		resolver:  resolver,
		log:       slog.Default().With("component", "dispatcher"),
	}
}

// StealthOnly reports whether the URL's site goes straight to the stealth
// backend. The retry controller uses this to pick the attempt deadline.
func (d *Dispatcher) StealthOnly(rawURL string) bool {
	return d.catalog.StealthOnly(sites.Identify(rawURL))
}

// Attempt runs one full extraction attempt: resolve short links, try the
// fast backend where the site permits it, escalate to stealth on a block
// or an extraction miss, stop dead on a 404.
func (d *Dispatcher) Attempt(ctx context.Context, rawURL string, useVirtualDisplay bool) (*AttemptResult, error) {
	target := d.resolver.Resolve(ctx, rawURL)
	site := sites.Identify(target)

	stealth := d.stealth
	if useVirtualDisplay && d.stealthVD != nil {
		stealth = d.stealthVD
	}

	order := []browser.Backend{d.fast, stealth}
	if d.catalog.StealthOnly(site) {
		order = []browser.Backend{stealth}
	}

	var last *AttemptResult
	var lastErr error
	for _, backend := range order {
		res, err := d.runBackend(ctx, backend, target)
		if err != nil {
			ee := models.AsExtractError(err)
			if ee.Code == models.ErrCodeNotFound {
				return res, ee
			}
			if ee.Code == models.ErrCodeBotBlocked {
				d.log.Info("backend blocked, escalating",
					"backend", backend.Name(), "url", target)
				last, lastErr = res, ee
				continue
			}
			// Transport faults and timeouts: stop this attempt, let the
			// retry controller decide.
			return res, ee
		}
		if res.Price != nil || res.Status == statusFlipkartOverride {
			return res, nil
		}
		// Page loaded but no plausible candidate: one escalation to
		// stealth is worth it, the fast render may simply be incomplete.
		last = res
		lastErr = models.NewExtractError(models.ErrCodePriceNotFound, "Price not found", nil)
	}
	return last, lastErr
}

// runBackend performs navigation and extraction on one backend. The page
// (and its browser process) is released on every exit path.
func (d *Dispatcher) runBackend(ctx context.Context, backend browser.Backend, target string) (res *AttemptResult, err error) {
	page, err := backend.NewPage(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			d.log.Warn("page close failed", "backend", backend.Name(), "error", cerr)
		}
	}()

	outcome, err := d.nav.Navigate(ctx, page, target)
	if err != nil {
		return nil, err
	}

	res = &AttemptResult{
		FinalURL: outcome.FinalURL,
		Site:     outcome.Site,
		Method:   backend.Name(),
		Stock:    models.StockStatus{State: models.StockUnknown},
	}

	switch outcome.Class {
	case ClassNotFound:
		res.Stock = models.StockStatus{State: models.StockOutOfStock, Message: outcome.Marker}
		res.Status = "Page not found (404)"
		return res, models.NewExtractError(models.ErrCodeNotFound, "page not found", nil)
	case ClassBotBlocked:
		res.Status = "Blocked by bot protection"
		return res, models.NewExtractError(models.ErrCodeBotBlocked, "blocked: "+outcome.Marker, nil)
	}

	set := d.catalog.For(outcome.Site)
	extractor := extract.For(outcome.Site)

	res.Price = extractor.ExtractPrice(page, set)
	res.Title, res.ImageURL = extract.TitleAndImage(page, set)
	res.Stock = extract.DetectStock(outcome.Site, page, set)

	d.reconcile(res)
	return res, nil
}

// reconcile applies the per-site precedence between the price signal and
// the stock signal.
func (d *Dispatcher) reconcile(res *AttemptResult) {
	switch res.Site {
	case sites.Flipkart:
		// A visible Notify-Me page sometimes still renders the last
		// selling price; the stock verdict wins and the price is dropped.
		if res.Price != nil && res.Stock.State == models.StockOutOfStock {
			res.Price = nil
			res.Status = statusFlipkartOverride
			return
		}
	case sites.Hyugalife:
		// The hydration JSON lags real inventory; an extractable price
		// means the product page is live, so the price wins. DOM-based
		// out-of-stock evidence is left alone.
		fromJSON := res.Stock.Message == "stock_status" || res.Stock.Message == "inventory_is_in_stock"
		if res.Price != nil && res.Stock.State == models.StockOutOfStock && fromJSON {
			res.Stock = models.StockStatus{
				State:   models.StockInStock,
				Message: "price extracted; stale JSON stock flag overridden",
			}
		}
	}

	if res.Price != nil {
		if res.Stock.State == models.StockUnknown {
			res.Stock = models.StockStatus{State: models.StockInStock}
		}
		res.Status = "Price extracted"
	} else if res.Status == "" {
		res.Status = "Price not found"
	}
}
