package extract

import (
	"github.com/paisawise/pricewatch/browser"
	"github.com/paisawise/pricewatch/sites"
)

// genericExtractor handles unknown storefronts: structured data first,
// then the selector conventions most shop templates share.
type genericExtractor struct{}

func (genericExtractor) Site() sites.Tag { return sites.Generic }

func (genericExtractor) ExtractPrice(page browser.Page, set *sites.SelectorSet) *Candidate {
	if c := metaPrice(page, sites.Generic); c != nil {
		return c
	}
	if c := jsonLDPrice(page.HTML(), sites.Generic); c != nil {
		return c
	}
	if c := firstBySelectors(page, set.PriceSelectors, sites.Generic); c != nil {
		return c
	}
	// data-price attributes carry the amount out of band.
	for _, el := range page.QueryAll("[data-price]") {
		if amount, ok := ParsePrice(el.Attr("data-price")); ok && Plausible(amount, sites.Generic) {
			return newCandidate(amount, SourceDOMSelector, "[data-price]")
		}
	}
	return nil
}
