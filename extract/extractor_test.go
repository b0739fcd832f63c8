package extract

import (
	"testing"

	"github.com/paisawise/pricewatch/browser"
	"github.com/paisawise/pricewatch/sites"
)

func TestMetaPrice(t *testing.T) {
	page := browser.NewStaticPage(`
		<html><head>
			<meta property="product:price:amount" content="1499.00">
		</head><body></body></html>`, "")

	c := metaPrice(page, sites.Generic)
	if c == nil || c.Amount != 1499 {
		t.Fatalf("candidate = %+v, want 1499", c)
	}
}

func TestJSONLDPrice(t *testing.T) {
	pageHTML := `
		<html><body>
			<script type="application/ld+json">
				{"@type":"Product","name":"Widget","offers":{"@type":"Offer","price":"2499","priceCurrency":"INR"}}
			</script>
		</body></html>`

	c := jsonLDPrice(pageHTML, sites.Generic)
	if c == nil || c.Amount != 2499 {
		t.Fatalf("candidate = %+v, want 2499", c)
	}
	if c.Source != SourceJSONLD {
		t.Errorf("source = %q", c.Source)
	}
}

func TestJSONLDPrice_OfferArrayAndGraph(t *testing.T) {
	pageHTML := `
		<script type="application/ld+json">
			[{"@type":"BreadcrumbList"},
			 {"@type":"Product","offers":[{"price":799.5}]}]
		</script>`

	c := jsonLDPrice(pageHTML, sites.Generic)
	if c == nil || c.Amount != 799.5 {
		t.Fatalf("candidate = %+v, want 799.5", c)
	}
}

func TestJSONLDPrice_MalformedBlockSkipped(t *testing.T) {
	pageHTML := `
		<script type="application/ld+json">{not json</script>
		<script type="application/ld+json">{"offers":{"price":"599"}}</script>`

	c := jsonLDPrice(pageHTML, sites.Generic)
	if c == nil || c.Amount != 599 {
		t.Fatalf("candidate = %+v, want 599", c)
	}
}

func TestGeneric_DataPriceAttribute(t *testing.T) {
	page := browser.NewStaticPage(`
		<html><body><div data-price="349" class="buy-widget">Buy now</div></body></html>`, "")
	set := &sites.SelectorSet{PriceSelectors: []string{".price"}}

	c := For(sites.Generic).ExtractPrice(page, set)
	if c == nil || c.Amount != 349 {
		t.Fatalf("candidate = %+v, want 349", c)
	}
}

func TestMyntra_RequiresProductPage(t *testing.T) {
	set := &sites.SelectorSet{
		PriceSelectors:     []string{".pdp-price"},
		ContainerSelectors: []string{".pdp-price-info"},
	}

	// A listing page full of prices but no PDP container yields nothing.
	listing := browser.NewStaticPage(`
		<html><body>
			<div class="pdp-price">₹999</div>
			<div class="pdp-price">₹1,299</div>
		</body></html>`, "")
	if c := For(sites.Myntra).ExtractPrice(listing, set); c != nil {
		t.Errorf("listing page produced candidate %+v", c)
	}

	pdp := browser.NewStaticPage(`
		<html><body>
			<div class="pdp-price-info"><span class="pdp-price">₹1,299</span></div>
		</body></html>`, "")
	c := For(sites.Myntra).ExtractPrice(pdp, set)
	if c == nil || c.Amount != 1299 {
		t.Fatalf("candidate = %+v, want 1299", c)
	}
}

func TestNykaa_RupeeScanPrefersSellingClass(t *testing.T) {
	set := &sites.SelectorSet{PriceSelectors: []string{".css-1jczs19"}}

	// The priority selector is absent (class churn), but a span parented
	// by the selling class still wins over a larger unrelated amount.
	page := browser.NewStaticPage(`
		<html><body>
			<div class="css-1jczs19x-wrapped"><span>₹549</span></div>
			<div class="recommendation"><span>₹2,199</span></div>
		</body></html>`, "")

	c := For(sites.Nykaa).ExtractPrice(page, set)
	if c == nil {
		t.Fatal("expected a candidate")
	}
	if c.Amount != 549 {
		t.Errorf("amount = %v, want 549 (selling-class parent wins)", c.Amount)
	}
}

func TestMeesho_FirstRupeeH4(t *testing.T) {
	set := &sites.SelectorSet{PriceSelectors: []string{"h4"}}
	page := browser.NewStaticPage(`
		<html><body>
			<h4>Product Details</h4>
			<h4>₹259</h4>
			<h4>₹499</h4>
		</body></html>`, "")

	c := For(sites.Meesho).ExtractPrice(page, set)
	if c == nil || c.Amount != 259 {
		t.Fatalf("candidate = %+v, want 259 (first rupee h4)", c)
	}
}

func TestAjio_MedianLastResort(t *testing.T) {
	set := &sites.SelectorSet{
		PriceSelectors:     []string{".prod-sp"},
		ContainerSelectors: []string{".prod-price-section"},
	}
	// No .prod-sp; the section mixes MRP, selling price and an offer
	// price. The median is the selling price.
	page := browser.NewStaticPage(`
		<html><body><div class="prod-price-section">
			<span>₹2,995</span>
			<span>₹1,499</span>
			<span>₹1,199</span>
		</div></body></html>`, "")

	c := For(sites.Ajio).ExtractPrice(page, set)
	if c == nil || c.Amount != 1499 {
		t.Fatalf("candidate = %+v, want 1499 (median)", c)
	}
}

func TestAjio_BasePriceIgnored(t *testing.T) {
	set := &sites.SelectorSet{
		PriceSelectors:     []string{".prod-sp"},
		ContainerSelectors: []string{".prod-price-section"},
	}
	page := browser.NewStaticPage(`
		<html><body><div class="prod-price-section">
			<span class="prod-base-price">₹2,995</span>
			<span>₹1,199</span>
		</div></body></html>`, "")

	c := For(sites.Ajio).ExtractPrice(page, set)
	if c == nil || c.Amount != 1199 {
		t.Fatalf("candidate = %+v, want 1199 (base price excluded)", c)
	}
}

func TestSnapdeal_SelectorThenJSONLD(t *testing.T) {
	set := &sites.SelectorSet{PriceSelectors: []string{".payBlkBig"}}

	page := browser.NewStaticPage(`
		<html><body><span class="payBlkBig">1,099</span></body></html>`, "")
	c := For(sites.Snapdeal).ExtractPrice(page, set)
	if c == nil || c.Amount != 1099 {
		t.Fatalf("candidate = %+v, want 1099", c)
	}

	// Selector missing: structured data carries it.
	page = browser.NewStaticPage(`
		<html><body>
			<script type="application/ld+json">{"offers":{"price":"899"}}</script>
		</body></html>`, "")
	c = For(sites.Snapdeal).ExtractPrice(page, set)
	if c == nil || c.Amount != 899 {
		t.Fatalf("candidate = %+v, want 899", c)
	}
}

func TestFor_UnknownTagFallsBack(t *testing.T) {
	if For(sites.Tag("nosuchsite")).Site() != sites.Generic {
		t.Error("unknown tags should use the generic extractor")
	}
}

func TestTitleAndImage(t *testing.T) {
	set := &sites.SelectorSet{
		NameSelectors:  []string{"#productTitle"},
		ImageSelectors: []string{"#landingImage"},
	}
	page := browser.NewStaticPage(`
		<html><body>
			<span id="productTitle">  Acme Widget 500g  </span>
			<img id="landingImage" src="https://m.media-amazon.com/images/I/71abc._SX300_.jpg">
		</body></html>`, "")

	title, image := TitleAndImage(page, set)
	if title != "Acme Widget 500g" {
		t.Errorf("title = %q", title)
	}
	if image != "https://m.media-amazon.com/images/I/71abc.jpg" {
		t.Errorf("image = %q, want resize suffix stripped", image)
	}
}

func TestTitleAndImage_OGFallback(t *testing.T) {
	page := browser.NewStaticPage(`
		<html><head>
			<meta property="og:title" content="Fallback Widget">
			<meta property="og:image" content="https://cdn.example.com/p.jpg">
		</head><body></body></html>`, "")

	title, image := TitleAndImage(page, &sites.SelectorSet{})
	if title != "Fallback Widget" {
		t.Errorf("title = %q", title)
	}
	if image != "https://cdn.example.com/p.jpg" {
		t.Errorf("image = %q", image)
	}
}
