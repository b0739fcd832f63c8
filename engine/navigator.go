package engine

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/paisawise/pricewatch/browser"
	"github.com/paisawise/pricewatch/sites"
)

// Classification is the Navigator's verdict on a loaded page.
type Classification int

const (
	ClassNormal Classification = iota
	ClassBotBlocked
	ClassNotFound
	ClassNavError
)

func (c Classification) String() string {
	switch c {
	case ClassNormal:
		return "normal"
	case ClassBotBlocked:
		return "bot_blocked"
	case ClassNotFound:
		return "not_found"
	default:
		return "navigation_error"
	}
}

// Outcome is what navigation settled on. Site is always derived from
// FinalURL, never from the input URL.
type Outcome struct {
	FinalURL string
	Site     sites.Tag
	Class    Classification
	// Marker is the phrase or rule that produced a non-normal class.
	Marker string
}

// Stabilization tuning. Short links can hop through several storefront
// interstitials; the URL must hold still for quietWindow before we trust it.
const (
	pollInterval   = 500 * time.Millisecond
	quietWindow    = 2 * time.Second
	stabilizeCap   = 25 * time.Second
	settleMin      = 1 * time.Second
	settleSpread   = 2 * time.Second // settle delay is settleMin + U(0,1)*settleSpread
	botMarkerLimit = 64 << 10        // only scan the head of the page for block markers
)

var botMarkers = []string{
	"access denied",
	"blocked",
	"forbidden",
	"cloudflare",
	"captcha",
}

// Navigator opens a URL on a page, waits out redirects, and classifies
// the result.
type Navigator struct {
	log *slog.Logger
}

func NewNavigator() *Navigator {
	return &Navigator{log: slog.Default().With("component", "navigator")}
}

// Navigate drives the page to the URL and returns the settled outcome.
// A transport-level failure returns an error; block walls and 404 pages
// are outcomes, not errors.
func (n *Navigator) Navigate(ctx context.Context, page browser.Page, rawURL string) (*Outcome, error) {
	if err := page.Navigate(ctx, rawURL); err != nil {
		return nil, err
	}

	if sites.IsShortLink(rawURL) {
		n.stabilize(ctx, page)
	} else {
		settle(ctx)
	}

	finalURL := page.CurrentURL()
	if finalURL == "" {
		finalURL = rawURL
	}
	site := sites.Identify(finalURL)

	outcome := &Outcome{FinalURL: finalURL, Site: site, Class: ClassNormal}
	n.classify(page, outcome)
	if outcome.Class != ClassNormal {
		n.log.Debug("page classified",
			"url", rawURL, "final_url", finalURL,
			"class", outcome.Class.String(), "marker", outcome.Marker)
	}
	return outcome, nil
}

// stabilize polls the current URL until it is unchanged for quietWindow or
// stabilizeCap elapses.
func (n *Navigator) stabilize(ctx context.Context, page browser.Page) {
	deadline := time.Now().Add(stabilizeCap)
	last := page.CurrentURL()
	stableSince := time.Now()

	for time.Now().Before(deadline) {
		if !sleepCtx(ctx, pollInterval) {
			return
		}
		current := page.CurrentURL()
		if current != last {
			last = current
			stableSince = time.Now()
			continue
		}
		if time.Since(stableSince) >= quietWindow {
			return
		}
	}
}

// settle waits a small randomized delay after DOM-content-loaded so late
// client-side renders land before extraction.
func settle(ctx context.Context) {
	delay := settleMin + time.Duration(rand.Float64()*float64(settleSpread))
	sleepCtx(ctx, delay)
}

// sleepCtx sleeps for d or until the context is done; it reports whether
// the full duration elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// classify flags bot walls and 404 pages from the title and the head of
// the body.
func (n *Navigator) classify(page browser.Page, outcome *Outcome) {
	title := strings.ToLower(page.Title())
	body := strings.ToLower(page.HTML())
	if len(body) > botMarkerLimit {
		body = body[:botMarkerLimit]
	}

	if outcome.Site == sites.Nykaa &&
		(strings.Contains(title, "404") || strings.Contains(title, "page not found")) {
		outcome.Class = ClassNotFound
		outcome.Marker = "404"
		return
	}

	for _, marker := range botMarkers {
		if strings.Contains(title, marker) || strings.Contains(body, marker) {
			outcome.Class = ClassBotBlocked
			outcome.Marker = marker
			return
		}
	}

	// Amazon serves a "Continue shopping" interstitial instead of a hard
	// block page when it suspects automation.
	if outcome.Site == sites.Amazon &&
		strings.Contains(body, "continue shopping") && !strings.Contains(body, "producttitle") {
		outcome.Class = ClassBotBlocked
		outcome.Marker = "continue shopping interstitial"
	}
}
