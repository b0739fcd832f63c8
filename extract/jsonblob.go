package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blobState is what the embedded JSON blobs on hyugalife expose about a
// product. The storefront ships its hydration state in script tags, which
// is often fresher than the rendered DOM but stale on stock.
type blobState struct {
	BasePrice   float64
	HasBase     bool
	Discount    float64
	HasDiscount bool
	// InStock is nil when the blobs carry no stock verdict.
	InStock *bool
	// Evidence names the JSON key the stock verdict came from, in its
	// canonical lowercase form regardless of how the blob spells it.
	Evidence string
}

// scanProductBlobs walks every JSON script blob in the page and pulls out
// price, discount and stock fields wherever they occur.
func scanProductBlobs(pageHTML string) blobState {
	var state blobState
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return state
	}
	doc.Find(`script[type="application/json"], script#__NEXT_DATA__, script[type="application/ld+json"]`).
		Each(func(_ int, s *goquery.Selection) {
			var node any
			if err := json.Unmarshal([]byte(s.Text()), &node); err != nil {
				return
			}
			walkBlob(node, &state)
		})
	return state
}

func walkBlob(node any, state *blobState) {
	switch v := node.(type) {
	case map[string]any:
		for key, val := range v {
			switch strings.ToLower(key) {
			case "base_price", "baseprice", "mrp":
				if amount, ok := blobNumber(val); ok && !state.HasBase {
					state.BasePrice = amount
					state.HasBase = true
				}
			case "discount", "discount_amount":
				if amount, ok := blobNumber(val); ok && !state.HasDiscount {
					state.Discount = amount
					state.HasDiscount = true
				}
			case "stock_status":
				if state.InStock == nil {
					if b, ok := blobBool(val); ok {
						in := b
						state.InStock = &in
						state.Evidence = "stock_status"
					}
				}
			case "inventory_is_in_stock":
				if state.InStock == nil {
					if b, ok := blobBool(val); ok {
						in := b
						state.InStock = &in
						state.Evidence = "inventory_is_in_stock"
					}
				}
			}
			walkBlob(val, state)
		}
	case []any:
		for _, item := range v {
			walkBlob(item, state)
		}
	}
}

func blobNumber(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, v > 0
	case string:
		return ParsePrice(v)
	}
	return 0, false
}

func blobBool(val any) (bool, bool) {
	switch v := val.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(v) {
		case "in_stock", "instock", "true":
			return true, true
		case "out_of_stock", "outofstock", "false":
			return false, true
		}
	}
	return false, false
}
