package extract

import (
	"math"

	"github.com/paisawise/pricewatch/browser"
	"github.com/paisawise/pricewatch/sites"
)

// hyugalifeExtractor reconciles the rendered DOM with the hydration JSON.
// The JSON's base price and discount are trustworthy arithmetic; its stock
// flags are not (see the stock detector).
type hyugalifeExtractor struct{}

func (hyugalifeExtractor) Site() sites.Tag { return sites.Hyugalife }

func (hyugalifeExtractor) ExtractPrice(page browser.Page, set *sites.SelectorSet) *Candidate {
	cands := hyugaDOMCandidates(page, set)
	state := scanProductBlobs(page.HTML())

	if !state.HasBase {
		if len(cands) > 0 {
			return cands[0]
		}
		return nil
	}

	// Candidates above the base price are render glitches or bundles.
	var atOrBelow []*Candidate
	for _, c := range cands {
		if c.Amount <= state.BasePrice {
			atOrBelow = append(atOrBelow, c)
		}
	}

	// A clean candidate within 100 of the base is the discounted selling
	// price. Stricken candidates are excluded: the struck base is always
	// within 100 of itself.
	for _, c := range atOrBelow {
		if !c.Strikethrough && state.BasePrice-c.Amount <= 100 {
			return c
		}
	}

	if state.HasDiscount {
		final := state.BasePrice - state.Discount
		for _, c := range atOrBelow {
			if math.Abs(c.Amount-final) < 1 {
				return c
			}
		}
		if Plausible(final, sites.Hyugalife) {
			return newCandidate(final, SourceJSONBlob, "base_price-discount")
		}
	}

	return highest(atOrBelow)
}

// hyugaDOMCandidates collects prices under the product containers,
// non-strikethrough elements first.
func hyugaDOMCandidates(page browser.Page, set *sites.SelectorSet) []*Candidate {
	var clean, stricken []*Candidate
	for _, sel := range set.PriceSelectors {
		for _, el := range page.QueryAll(sel) {
			amount, ok := ParsePrice(el.Text())
			if !ok || !Plausible(amount, sites.Hyugalife) {
				continue
			}
			c := newCandidate(amount, SourceDOMSelector, sel)
			c.Container = "pdp"
			if strickenParent(el) {
				c.Strikethrough = true
				stricken = append(stricken, c)
			} else {
				clean = append(clean, c)
			}
		}
	}
	return append(clean, stricken...)
}
