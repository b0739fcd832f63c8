package extract

import (
	"strings"

	"github.com/paisawise/pricewatch/browser"
	"github.com/paisawise/pricewatch/sites"
)

// meeshoExtractor takes the first rupee-bearing <h4> on the product page;
// Meesho renders the selling price as the page's leading h4. The shipping
// info block and a bounded rupee scan are the fallbacks.
type meeshoExtractor struct{}

func (meeshoExtractor) Site() sites.Tag { return sites.Meesho }

func (meeshoExtractor) ExtractPrice(page browser.Page, set *sites.SelectorSet) *Candidate {
	for _, el := range page.QueryAll("h4") {
		text := el.Text()
		if !strings.Contains(text, "₹") {
			continue
		}
		if amount, ok := ParsePrice(text); ok && Plausible(amount, sites.Meesho) {
			c := newCandidate(amount, SourceDOMSelector, "h4")
			c.Container = "pdp"
			return c
		}
	}

	for _, sel := range set.PriceSelectors {
		if c := firstBySelectors(page, []string{sel}, sites.Meesho); c != nil {
			return c
		}
	}

	// Short rupee-bearing leaves only; long texts are descriptions that
	// happen to quote prices.
	snap := browser.NewStaticPage(page.HTML(), page.CurrentURL())
	for _, el := range snap.QueryAll("span, div, p") {
		text := el.Text()
		if !strings.Contains(text, "₹") || len(text) >= 50 {
			continue
		}
		if amount, ok := ParsePrice(text); ok && Plausible(amount, sites.Meesho) {
			return newCandidate(amount, SourceTextPattern, "rupee-scan")
		}
	}
	return nil
}
