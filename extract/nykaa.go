package extract

import (
	"strings"

	"github.com/paisawise/pricewatch/browser"
	"github.com/paisawise/pricewatch/sites"
)

// nykaaExtractor leans on the selling-price class first, then on the
// product meta tags and JSON-LD, and finally on a rupee scan of the page
// preferring elements parented by the selling-price class.
type nykaaExtractor struct{}

func (nykaaExtractor) Site() sites.Tag { return sites.Nykaa }

func (n nykaaExtractor) ExtractPrice(page browser.Page, set *sites.SelectorSet) *Candidate {
	if c := firstBySelectors(page, set.PriceSelectors, sites.Nykaa); c != nil {
		return c
	}
	if c := metaPrice(page, sites.Nykaa); c != nil {
		return c
	}
	if c := jsonLDPrice(page.HTML(), sites.Nykaa); c != nil {
		return c
	}
	return n.rupeeScan(page, set)
}

// rupeeScan collects every ₹-bearing element. A parent carrying the
// selling-price class wins immediately; otherwise the highest amount is
// taken (the MRP strikethrough on Nykaa renders below the selling price,
// which the class filters in firstBySelectors already excluded).
func (nykaaExtractor) rupeeScan(page browser.Page, set *sites.SelectorSet) *Candidate {
	sellingClass := ""
	if len(set.PriceSelectors) > 0 {
		sellingClass = strings.TrimPrefix(set.PriceSelectors[0], ".")
	}

	snap := browser.NewStaticPage(page.HTML(), page.CurrentURL())
	var cands []*Candidate
	for _, el := range snap.QueryAll("span, div") {
		text := el.Text()
		if !strings.Contains(text, "₹") || len(text) > 40 {
			continue
		}
		amount, ok := ParsePrice(text)
		if !ok || !Plausible(amount, sites.Nykaa) {
			continue
		}
		c := newCandidate(amount, SourceTextPattern, "rupee-scan")
		if parent := el.Parent(); parent != nil && sellingClass != "" &&
			strings.Contains(parent.Attr("class"), sellingClass) {
			c.Locator = "." + sellingClass
			return c
		}
		cands = append(cands, c)
	}
	return highest(cands)
}
