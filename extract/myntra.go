package extract

import (
	"github.com/paisawise/pricewatch/browser"
	"github.com/paisawise/pricewatch/sites"
)

// myntraExtractor prefers the discounted price over the full price. It
// only runs on product-detail pages; listing pages carry dozens of prices
// and none of them is "the" price.
type myntraExtractor struct{}

func (myntraExtractor) Site() sites.Tag { return sites.Myntra }

func (myntraExtractor) ExtractPrice(page browser.Page, set *sites.SelectorSet) *Candidate {
	if !onProductPage(page, set) {
		return nil
	}
	if c := firstBySelectors(page, set.PriceSelectors, sites.Myntra); c != nil {
		c.Container = "pdp"
		return c
	}
	return nil
}

// onProductPage requires at least one of the site's container selectors,
// which only exist on the PDP layout.
func onProductPage(page browser.Page, set *sites.SelectorSet) bool {
	for _, sel := range set.ContainerSelectors {
		if page.Query(sel) != nil {
			return true
		}
	}
	return false
}
