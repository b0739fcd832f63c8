package extract

import (
	"strings"

	"github.com/paisawise/pricewatch/browser"
	"github.com/paisawise/pricewatch/sites"
)

// amazonExtractor probes the buybox in tiers: the hidden cart input, the
// priority offscreen/whole-part selectors, the legacy priceblock ids, and
// finally a sweep of everything inside the buybox containers.
type amazonExtractor struct{}

func (amazonExtractor) Site() sites.Tag { return sites.Amazon }

// anchorPrice is the suspicious amount Amazon renders for accessory and
// variant anchors. A lone 500 is accepted; a 500 next to a larger buybox
// sibling is not the selling price.
const anchorPrice = 500

func (amazonExtractor) ExtractPrice(page browser.Page, set *sites.SelectorSet) *Candidate {
	if c := amazonHiddenInput(page); c != nil {
		return amazonAnchorRule(page, set, c)
	}
	if c := firstBySelectors(page, set.PriceSelectors, sites.Amazon); c != nil {
		return amazonAnchorRule(page, set, c)
	}
	if c := highest(buyboxSweep(page, set)); c != nil {
		return amazonAnchorRule(page, set, c)
	}
	return nil
}

// amazonHiddenInput looks for the hidden cart inputs whose value is the
// customer-visible price. These survive most page-layout experiments.
func amazonHiddenInput(page browser.Page) *Candidate {
	for _, el := range page.QueryAll(`input[type="hidden"]`) {
		name := strings.ToLower(el.Attr("name"))
		if !strings.Contains(name, "customervisibleprice") && !strings.Contains(name, "displayedprice") {
			continue
		}
		amount, ok := ParsePrice(el.Attr("value"))
		if !ok || !Plausible(amount, sites.Amazon) {
			continue
		}
		c := newCandidate(amount, SourceHiddenInput, el.Attr("name"))
		c.Container = "buybox"
		return c
	}
	if el := page.Query("#attach-base-product-price"); el != nil {
		if amount, ok := ParsePrice(el.Attr("value")); ok && Plausible(amount, sites.Amazon) {
			c := newCandidate(amount, SourceHiddenInput, "#attach-base-product-price")
			c.Container = "buybox"
			return c
		}
	}
	return nil
}

// amazonAnchorRule demotes a candidate of exactly 500 when any larger
// plausible price exists in the buybox. 500 with no larger sibling stands.
func amazonAnchorRule(page browser.Page, set *sites.SelectorSet, chosen *Candidate) *Candidate {
	if chosen.Amount != anchorPrice {
		return chosen
	}
	var larger []*Candidate
	for _, c := range buyboxSweep(page, set) {
		if c.Amount > anchorPrice {
			larger = append(larger, c)
		}
	}
	if best := highest(larger); best != nil {
		return best
	}
	return chosen
}

// buyboxSweep enumerates every span under the buybox containers and
// collects all plausible non-strikethrough prices.
func buyboxSweep(page browser.Page, set *sites.SelectorSet) []*Candidate {
	var out []*Candidate
	for _, container := range set.ContainerSelectors {
		for _, el := range page.QueryAll(container + " span") {
			amount, ok := ParsePrice(el.Text())
			if !ok || !Plausible(amount, sites.Amazon) {
				continue
			}
			if strickenParent(el) {
				continue
			}
			c := newCandidate(amount, SourceDOMSelector, container)
			c.Container = "buybox"
			out = append(out, c)
		}
		if len(out) > 0 {
			break
		}
	}
	return out
}
