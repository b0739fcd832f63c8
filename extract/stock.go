package extract

import (
	"strings"

	"github.com/paisawise/pricewatch/browser"
	"github.com/paisawise/pricewatch/models"
	"github.com/paisawise/pricewatch/sites"
)

// notifyPhrases on a visible button mean the product cannot be bought.
var notifyPhrases = []string{"notify me", "notify when available"}

// DetectStock decides availability for a page. Signals run in order
// (structured JSON, scoped DOM probe, guarded text scan) and
// short-circuit on the first definitive out-of-stock. It never influences which price is
// extracted; the dispatcher reconciles the two afterwards.
func DetectStock(site sites.Tag, page browser.Page, set *sites.SelectorSet) models.StockStatus {
	pageHTML := page.HTML()

	// 1. Structured JSON, where the storefront ships it.
	if site == sites.Hyugalife {
		if state := scanProductBlobs(pageHTML); state.InStock != nil {
			if *state.InStock {
				return models.StockStatus{State: models.StockInStock, Message: state.Evidence}
			}
			return models.StockStatus{State: models.StockOutOfStock, Message: state.Evidence}
		}
	}

	// 2. Scoped DOM probe.
	if verdict, found := containerProbe(page, set); found {
		return verdict
	}
	if site == sites.Flipkart {
		if verdict, found := visibleNotifyButton(page); found {
			return verdict
		}
	}

	// 3. Guarded text scan.
	switch site {
	case sites.Nykaa:
		return nykaaTagScan(pageHTML, set)
	case sites.Flipkart:
		return flipkartProximityScan(pageHTML, set)
	default:
		return plainTextScan(pageHTML, set)
	}
}

// containerProbe checks each container selector's text for the site's
// out-of-stock phrases.
func containerProbe(page browser.Page, set *sites.SelectorSet) (models.StockStatus, bool) {
	for _, container := range set.ContainerSelectors {
		el := page.Query(container)
		if el == nil {
			continue
		}
		text := strings.ToLower(el.Text())
		for _, phrase := range set.OutOfStockPhrases {
			if strings.Contains(text, phrase) {
				return models.StockStatus{State: models.StockOutOfStock, Message: phrase}, true
			}
		}
	}
	return models.StockStatus{}, false
}

// visibleNotifyButton enumerates visible buttons; Flipkart's sold-out
// layout replaces Add-to-Cart with a "Notify Me" button.
func visibleNotifyButton(page browser.Page) (models.StockStatus, bool) {
	for _, el := range page.QueryAll("button") {
		if !el.Visible() {
			continue
		}
		text := strings.ToLower(el.Text())
		for _, phrase := range notifyPhrases {
			if strings.Contains(text, phrase) {
				return models.StockStatus{State: models.StockOutOfStock, Message: "visible button: " + phrase}, true
			}
		}
	}
	return models.StockStatus{}, false
}

// nykaaTagScan requires an out-of-stock phrase to be an element's own
// text. Nykaa ships review snippets ("went out of stock last week") that
// poison naive body-text scans.
func nykaaTagScan(pageHTML string, set *sites.SelectorSet) models.StockStatus {
	snap := browser.NewStaticPage(pageHTML, "")
	for _, el := range snap.QueryAll("button, span, div, p, h2, h3") {
		text := strings.ToLower(el.Text())
		if len(text) > 60 {
			continue
		}
		for _, phrase := range set.OutOfStockPhrases {
			if strings.Contains(text, phrase) {
				return models.StockStatus{State: models.StockOutOfStock, Message: phrase}
			}
		}
	}
	return models.StockStatus{State: models.StockUnknown}
}

// flipkartProximityScan scans whole-page text only when the phrase sits
// near a rupee amount, so unrelated banners don't flip the verdict.
func flipkartProximityScan(pageHTML string, set *sites.SelectorSet) models.StockStatus {
	snap := browser.NewStaticPage(pageHTML, "")
	for _, el := range snap.QueryAll("span, div, button") {
		text := strings.ToLower(el.Text())
		if len(text) > 80 {
			continue
		}
		for _, phrase := range set.OutOfStockPhrases {
			if !strings.Contains(text, phrase) {
				continue
			}
			if ancestorMentionsPrice(el, 4) {
				return models.StockStatus{State: models.StockOutOfStock, Message: phrase}
			}
		}
	}
	return models.StockStatus{State: models.StockUnknown}
}

func ancestorMentionsPrice(el browser.Element, depth int) bool {
	node := el.Parent()
	for i := 0; i < depth && node != nil; i++ {
		if strings.Contains(node.Text(), "₹") {
			return true
		}
		node = node.Parent()
	}
	return false
}

// plainTextScan is the default: case-insensitive page-text search.
func plainTextScan(pageHTML string, set *sites.SelectorSet) models.StockStatus {
	snap := browser.NewStaticPage(pageHTML, "")
	var text string
	if body := snap.Query("body"); body != nil {
		text = strings.ToLower(body.Text())
	}
	for _, phrase := range set.OutOfStockPhrases {
		if strings.Contains(text, phrase) {
			return models.StockStatus{State: models.StockOutOfStock, Message: phrase}
		}
	}
	return models.StockStatus{State: models.StockUnknown}
}
