package sites

import (
	"testing"
)

func TestLoad_EmbeddedCatalog(t *testing.T) {
	catalog, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	for _, tag := range All {
		set := catalog.For(tag)
		if set == nil {
			t.Errorf("For(%q) returned nil", tag)
			continue
		}
		if len(set.PriceSelectors) == 0 {
			t.Errorf("site %q has no price selectors", tag)
		}
	}
}

func TestLoad_StealthOnlySites(t *testing.T) {
	catalog, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	stealthOnly := []Tag{Myntra, Nykaa, Ajio, Meesho}
	for _, tag := range stealthOnly {
		if !catalog.StealthOnly(tag) {
			t.Errorf("site %q should be stealth-only", tag)
		}
	}
	for _, tag := range []Tag{Amazon, Flipkart, Snapdeal, Hyugalife, Generic} {
		if catalog.StealthOnly(tag) {
			t.Errorf("site %q should not be stealth-only", tag)
		}
	}
}

func TestParse_ObjectForm(t *testing.T) {
	doc := []byte(`{
		"amazon": {
			"price_selectors": [".a-price .a-offscreen"],
			"container_selectors": ["#buybox"],
			"name_selectors": ["#productTitle"],
			"out_of_stock": ["currently unavailable"]
		},
		"generic": {"price_selectors": [".price"]}
	}`)

	catalog, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}

	set := catalog.For(Amazon)
	if len(set.PriceSelectors) != 1 || set.PriceSelectors[0] != ".a-price .a-offscreen" {
		t.Errorf("price selectors = %v", set.PriceSelectors)
	}
	if len(set.OutOfStockPhrases) != 1 {
		t.Errorf("out of stock phrases = %v", set.OutOfStockPhrases)
	}
}

func TestParse_LegacyArrayForm(t *testing.T) {
	doc := []byte(`{
		"flipkart": [".Nx9bqj", "._30jeq3"],
		"generic": [".price"]
	}`)

	catalog, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}

	set := catalog.For(Flipkart)
	if len(set.PriceSelectors) != 2 {
		t.Fatalf("expected 2 price selectors, got %v", set.PriceSelectors)
	}
	if set.BlockedByFast {
		t.Error("legacy entries must not be stealth-only")
	}
}

func TestParse_DropsInvalidSelector(t *testing.T) {
	doc := []byte(`{
		"generic": {"price_selectors": [".ok", "[[broken", ".also-ok"]}
	}`)

	catalog, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}

	set := catalog.For(Generic)
	if len(set.PriceSelectors) != 2 {
		t.Fatalf("expected invalid selector dropped, got %v", set.PriceSelectors)
	}
	for _, sel := range set.PriceSelectors {
		if sel == "[[broken" {
			t.Error("invalid selector survived parsing")
		}
	}
}

func TestParse_MissingGenericEntry(t *testing.T) {
	if _, err := Parse([]byte(`{"amazon": [".price"]}`)); err == nil {
		t.Error("expected error for a document without a generic entry")
	}
}

func TestCatalog_ForUnknownTagFallsBack(t *testing.T) {
	catalog, err := Parse([]byte(`{"generic": [".price"]}`))
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}

	set := catalog.For(Tag("nosuchsite"))
	if set == nil || len(set.PriceSelectors) != 1 {
		t.Errorf("unknown tag should fall back to generic, got %+v", set)
	}
}
