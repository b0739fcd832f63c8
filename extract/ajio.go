package extract

import (
	"strings"

	"github.com/paisawise/pricewatch/browser"
	"github.com/paisawise/pricewatch/sites"
)

// ajioExtractor reads the selling-price element and explicitly ignores
// the base-price MRP. When the priority selectors miss, the median of all
// plausible prices under the price section is the least-wrong answer.
type ajioExtractor struct{}

func (ajioExtractor) Site() sites.Tag { return sites.Ajio }

func (ajioExtractor) ExtractPrice(page browser.Page, set *sites.SelectorSet) *Candidate {
	if c := firstBySelectors(page, set.PriceSelectors, sites.Ajio); c != nil {
		c.Container = "pdp"
		return c
	}

	var cands []*Candidate
	for _, container := range set.ContainerSelectors {
		for _, el := range page.QueryAll(container + " span") {
			if isAjioBasePrice(el) {
				continue
			}
			amount, ok := ParsePrice(el.Text())
			if !ok || !Plausible(amount, sites.Ajio) {
				continue
			}
			if strickenParent(el) {
				continue
			}
			cands = append(cands, newCandidate(amount, SourceDOMSelector, container))
		}
		if len(cands) > 0 {
			break
		}
	}
	return median(cands)
}

func isAjioBasePrice(el browser.Element) bool {
	if strings.Contains(el.Attr("class"), "prod-base-price") {
		return true
	}
	if parent := el.Parent(); parent != nil {
		return strings.Contains(parent.Attr("class"), "prod-base-price")
	}
	return false
}
