// Package extract implements per-storefront price extraction strategies
// and stock-status detection over the browser abstraction.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/paisawise/pricewatch/sites"
)

// priceRe matches the first price-looking substring in a text node:
// optional currency symbol, digits with thousand separators, optional
// two-decimal fraction.
var priceRe = regexp.MustCompile(`[₹$€£¥]?\s*[\d,]+(?:\.\d{1,2})?`)

// ParsePrice extracts the first price-like number from text and returns
// it with ok=false when no amount is present.
func ParsePrice(text string) (float64, bool) {
	match := priceRe.FindString(text)
	if match == "" {
		return 0, false
	}
	cleaned := strings.NewReplacer("₹", "", "$", "", "€", "", "£", "", "¥", "", ",", "", " ", "").Replace(match)
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// FormatPrice renders an amount the way the API reports it: integral
// prices without a fraction, everything else with two decimals.
func FormatPrice(amount float64) string {
	if amount == float64(int64(amount)) {
		return strconv.FormatInt(int64(amount), 10)
	}
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// siteBounds are per-storefront plausibility ranges in INR. Candidates
// outside the range are discarded: they are usually product IDs, review
// counts, discount percentages or pin codes picked up by loose selectors.
var siteBounds = map[sites.Tag]struct {
	min, max float64
	// openMin excludes the floor itself. Meesho listings at exactly 50
	// are shipping charges, not selling prices.
	openMin bool
}{
	sites.Amazon:    {min: 10, max: 10_000_000},
	sites.Flipkart:  {min: 50, max: 10_000_000},
	sites.Myntra:    {min: 10, max: 10_000_000},
	sites.Nykaa:     {min: 50, max: 1_000_000},
	sites.Ajio:      {min: 50, max: 10_000_000},
	sites.Meesho:    {min: 50, max: 10_000_000, openMin: true},
	sites.Snapdeal:  {min: 50, max: 10_000_000},
	sites.Shopclues: {min: 10, max: 10_000_000},
	sites.Hyugalife: {min: 50, max: 100_000},
	sites.Generic:   {min: 10, max: 10_000_000},
}

// Plausible reports whether an amount is inside the site's price bounds.
func Plausible(amount float64, site sites.Tag) bool {
	bounds, ok := siteBounds[site]
	if !ok {
		bounds = siteBounds[sites.Generic]
	}
	if bounds.min > 0 && amount < bounds.min {
		return false
	}
	if bounds.openMin && amount == bounds.min {
		return false
	}
	if bounds.max > 0 && amount > bounds.max {
		return false
	}
	return true
}

// amazonResizeRe matches Amazon image resize tokens like
// "._SX300_SY300_QL70_" between the media id and the extension.
var amazonResizeRe = regexp.MustCompile(`\._[^.]+_\.`)

// CleanImageURL strips known resizing suffixes so the URL points at the
// highest-resolution form of the image.
func CleanImageURL(raw string) string {
	if raw == "" {
		return ""
	}
	cleaned := amazonResizeRe.ReplaceAllString(raw, ".")
	if idx := strings.IndexAny(cleaned, "?"); idx >= 0 {
		query := strings.ToLower(cleaned[idx+1:])
		for _, param := range []string{"w=", "width=", "h=", "height="} {
			if strings.HasPrefix(query, param) {
				return cleaned[:idx]
			}
		}
	}
	return cleaned
}
