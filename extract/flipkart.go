package extract

import (
	"strings"

	"github.com/paisawise/pricewatch/browser"
	"github.com/paisawise/pricewatch/sites"
)

// flipkartExtractor covers flipkart.com, shopsy and fkrt short links.
// The page shows the selling price, the crossed-out MRP and a discount
// percentage side by side; the selling price is the highest candidate
// left after the discount and strikethrough filters.
type flipkartExtractor struct{}

func (flipkartExtractor) Site() sites.Tag { return sites.Flipkart }

// discountWords in an element's text mean it is the offer badge ("20% off",
// "extra ₹500 discount"), never the price.
var discountWords = []string{"off", "discount", "extra"}

func (flipkartExtractor) ExtractPrice(page browser.Page, set *sites.SelectorSet) *Candidate {
	var cands []*Candidate
	for _, sel := range set.PriceSelectors {
		for _, el := range page.QueryAll(sel) {
			text := el.Text()
			if containsAnyFold(text, discountWords) {
				continue
			}
			amount, ok := ParsePrice(text)
			if !ok || !Plausible(amount, sites.Flipkart) {
				continue
			}
			if strickenParent(el) {
				continue
			}
			c := newCandidate(amount, SourceDOMSelector, sel)
			c.Container = "pdp"
			cands = append(cands, c)
		}
	}
	return highest(cands)
}

func containsAnyFold(text string, words []string) bool {
	lower := strings.ToLower(text)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
