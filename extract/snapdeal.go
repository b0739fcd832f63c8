package extract

import (
	"github.com/paisawise/pricewatch/browser"
	"github.com/paisawise/pricewatch/sites"
)

// snapdealExtractor is a straight selector cascade; Snapdeal's payBlkBig
// has been stable for years.
type snapdealExtractor struct{}

func (snapdealExtractor) Site() sites.Tag { return sites.Snapdeal }

func (snapdealExtractor) ExtractPrice(page browser.Page, set *sites.SelectorSet) *Candidate {
	if c := firstBySelectors(page, set.PriceSelectors, sites.Snapdeal); c != nil {
		c.Container = "pdp"
		return c
	}
	return jsonLDPrice(page.HTML(), sites.Snapdeal)
}

// shopcluesExtractor runs the catalog's selectors with standard
// validation, then the structured-data probes.
type shopcluesExtractor struct{}

func (shopcluesExtractor) Site() sites.Tag { return sites.Shopclues }

func (shopcluesExtractor) ExtractPrice(page browser.Page, set *sites.SelectorSet) *Candidate {
	if c := firstBySelectors(page, set.PriceSelectors, sites.Shopclues); c != nil {
		return c
	}
	if c := metaPrice(page, sites.Shopclues); c != nil {
		return c
	}
	return jsonLDPrice(page.HTML(), sites.Shopclues)
}
