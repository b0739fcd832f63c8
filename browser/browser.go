// Package browser abstracts the two automation backends (fast headless
// Chromium and a fingerprint-hardened stealth variant) behind a uniform
// page/element interface so each site extractor is written once.
package browser

import "context"

// Backend names, reported in API responses.
const (
	MethodFast    = "fast"
	MethodStealth = "stealth"
)

// Element is a handle to a DOM element. All methods are best-effort:
// lookups that fail return zero values, never errors. Errors are reserved
// for transport failures at the Page level.
type Element interface {
	// Text returns the element's visible text, trimmed.
	Text() string

	// Attr returns the value of an attribute, or "" when absent.
	Attr(name string) string

	// Visible reports whether the element is rendered and displayed.
	// Static (non-live) pages approximate this from inline styles.
	Visible() bool

	// Parent returns the parent element, or nil at the root.
	Parent() Element

	// Eval runs a JS function with the element as `this` and returns the
	// result as a string. Static pages return "".
	Eval(js string) string
}

// Page is one loaded browser tab. A Page belongs to exactly one extraction
// attempt and must be closed on every exit path.
type Page interface {
	// Navigate opens the URL. It returns an error only on transport
	// failure (browser died, connection refused, context expired).
	Navigate(ctx context.Context, url string) error

	// CurrentURL returns the page's current location, which may differ
	// from the navigated URL after redirects.
	CurrentURL() string

	// Title returns document.title.
	Title() string

	// HTML returns the rendered page HTML.
	HTML() string

	// Query returns the first element matching the CSS selector, or nil.
	Query(selector string) Element

	// QueryAll returns all elements matching the CSS selector.
	QueryAll(selector string) []Element

	// QueryXPath returns all elements matching the XPath expression.
	QueryXPath(xpath string) []Element

	// Eval runs a JS function on the page and returns the result as a
	// string.
	Eval(js string) (string, error)

	// Close releases the page and, for per-attempt browsers, the browser
	// process behind it.
	Close() error
}

// Backend creates pages. One browser process is launched per page so a
// dying browser in one attempt can never take a sibling attempt down.
type Backend interface {
	// Name returns MethodFast or MethodStealth.
	Name() string

	// NewPage launches a browser instance and opens a blank page on it.
	NewPage(ctx context.Context) (Page, error)
}
