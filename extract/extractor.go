package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/paisawise/pricewatch/browser"
	"github.com/paisawise/pricewatch/sites"
)

// Extractor is one storefront's price-selection strategy. Implementations
// return at most one candidate; nil means no plausible price on the page.
type Extractor interface {
	Site() sites.Tag
	ExtractPrice(page browser.Page, set *sites.SelectorSet) *Candidate
}

var registry = map[sites.Tag]Extractor{
	sites.Amazon:    amazonExtractor{},
	sites.Flipkart:  flipkartExtractor{},
	sites.Myntra:    myntraExtractor{},
	sites.Nykaa:     nykaaExtractor{},
	sites.Ajio:      ajioExtractor{},
	sites.Meesho:    meeshoExtractor{},
	sites.Snapdeal:  snapdealExtractor{},
	sites.Shopclues: shopcluesExtractor{},
	sites.Hyugalife: hyugalifeExtractor{},
	sites.Generic:   genericExtractor{},
}

// For returns the extractor for a tag; unknown tags get the generic one.
func For(tag sites.Tag) Extractor {
	if e, ok := registry[tag]; ok {
		return e
	}
	return registry[sites.Generic]
}

// firstBySelectors returns the first plausible candidate in selector
// priority order, skipping strikethrough elements.
func firstBySelectors(page browser.Page, selectors []string, site sites.Tag) *Candidate {
	for _, sel := range selectors {
		for _, el := range page.QueryAll(sel) {
			amount, ok := ParsePrice(el.Text())
			if !ok || !Plausible(amount, site) {
				continue
			}
			if strickenParent(el) {
				continue
			}
			return newCandidate(amount, SourceDOMSelector, sel)
		}
	}
	return nil
}

// strikeMarkers are class fragments that flag a crossed-out MRP, on the
// element or its parent. Flipkart rotates obfuscated class names; yhyocc
// and krYCnD are the known MRP wrappers.
var strikeMarkers = []string{"strike", "mrp", "yhyocc", "krycnd"}

func strickenParent(el browser.Element) bool {
	if classHasMarker(el.Attr("class")) {
		return true
	}
	if parent := el.Parent(); parent != nil {
		return classHasMarker(parent.Attr("class"))
	}
	return false
}

func classHasMarker(class string) bool {
	class = strings.ToLower(class)
	for _, marker := range strikeMarkers {
		if strings.Contains(class, marker) {
			return true
		}
	}
	return false
}

// metaPrice probes the product price meta tags most storefronts emit.
func metaPrice(page browser.Page, site sites.Tag) *Candidate {
	for _, sel := range []string{
		`meta[property="product:price:amount"]`,
		`meta[property="og:price:amount"]`,
	} {
		el := page.Query(sel)
		if el == nil {
			continue
		}
		amount, ok := ParsePrice(el.Attr("content"))
		if ok && Plausible(amount, site) {
			return newCandidate(amount, SourceDOMSelector, sel)
		}
	}
	return nil
}

// jsonLDPrice walks the page's application/ld+json blocks looking for
// offers.price. Structured data survives class-name churn, so it is a
// reliable secondary probe on sites that ship it.
func jsonLDPrice(pageHTML string, site sites.Tag) *Candidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil
	}
	var found *Candidate
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var node any
		if err := json.Unmarshal([]byte(s.Text()), &node); err != nil {
			return true
		}
		if amount, ok := offersPrice(node); ok && Plausible(amount, site) {
			found = newCandidate(amount, SourceJSONLD, "offers.price")
			return false
		}
		return true
	})
	return found
}

// offersPrice digs offers.price (or offers[0].price) out of a decoded
// JSON-LD node, tolerating both string and numeric price values.
func offersPrice(node any) (float64, bool) {
	obj, ok := node.(map[string]any)
	if !ok {
		if arr, isArr := node.([]any); isArr {
			for _, item := range arr {
				if amount, found := offersPrice(item); found {
					return amount, true
				}
			}
		}
		return 0, false
	}
	offers, ok := obj["offers"]
	if !ok {
		return 0, false
	}
	switch v := offers.(type) {
	case map[string]any:
		return numericField(v, "price")
	case []any:
		for _, item := range v {
			if offer, isObj := item.(map[string]any); isObj {
				if amount, found := numericField(offer, "price"); found {
					return amount, true
				}
			}
		}
	}
	return 0, false
}

func numericField(obj map[string]any, key string) (float64, bool) {
	switch v := obj[key].(type) {
	case float64:
		return v, v > 0
	case string:
		return ParsePrice(v)
	}
	return 0, false
}

// TitleAndImage best-effort extracts the product title and image using the
// catalog's selectors with og: meta fallbacks. Either result may be "".
func TitleAndImage(page browser.Page, set *sites.SelectorSet) (string, string) {
	var title string
	for _, sel := range set.NameSelectors {
		if el := page.Query(sel); el != nil {
			if text := el.Text(); text != "" {
				title = text
				break
			}
		}
	}
	if title == "" {
		if el := page.Query(`meta[property="og:title"]`); el != nil {
			title = el.Attr("content")
		}
	}

	var image string
	for _, sel := range set.ImageSelectors {
		if el := page.Query(sel); el != nil {
			src := el.Attr("src")
			if src == "" {
				src = el.Attr("data-src")
			}
			if src != "" {
				image = src
				break
			}
		}
	}
	if image == "" {
		if el := page.Query(`meta[property="og:image"]`); el != nil {
			image = el.Attr("content")
		}
	}
	return title, CleanImageURL(image)
}
