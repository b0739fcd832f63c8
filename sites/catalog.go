package sites

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/andybalholm/cascadia"
)

//go:embed selectors.json
var embedded embed.FS

// SelectorSet is everything a site extractor needs to probe a page.
// Loaded once at startup; read-only afterwards.
type SelectorSet struct {
	PriceSelectors     []string `json:"price_selectors"`
	ContainerSelectors []string `json:"container_selectors"`
	NameSelectors      []string `json:"name_selectors"`
	ImageSelectors     []string `json:"image_selectors"`
	OutOfStockPhrases  []string `json:"out_of_stock"`

	// BlockedByFast marks sites whose bot protection rejects the fast
	// backend outright (ajio, meesho, myntra, nykaa). These go straight
	// to stealth.
	BlockedByFast bool `json:"blocked_by_fast,omitempty"`
}

// Catalog maps site tags to their selector sets. Immutable after load.
type Catalog struct {
	entries map[Tag]*SelectorSet
}

// Load parses the embedded selector file.
func Load() (*Catalog, error) {
	data, err := embedded.ReadFile("selectors.json")
	if err != nil {
		return nil, fmt.Errorf("catalog: read embedded selectors: %w", err)
	}
	return Parse(data)
}

// LoadFile loads a selector file from disk, for deployments that override
// the embedded defaults.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a selector document. Each site entry is either the full
// SelectorSet object or, in the legacy form, a bare array of price
// selectors. Unknown site keys are kept so the file can ship entries ahead
// of code support; they are simply never looked up.
func Parse(data []byte) (*Catalog, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("catalog: parse selector document: %w", err)
	}

	entries := make(map[Tag]*SelectorSet, len(raw))
	for key, msg := range raw {
		set, err := parseEntry(msg)
		if err != nil {
			return nil, fmt.Errorf("catalog: site %q: %w", key, err)
		}
		set.PriceSelectors = validSelectors(key, "price", set.PriceSelectors)
		set.ContainerSelectors = validSelectors(key, "container", set.ContainerSelectors)
		set.NameSelectors = validSelectors(key, "name", set.NameSelectors)
		set.ImageSelectors = validSelectors(key, "image", set.ImageSelectors)
		entries[Tag(key)] = set
	}

	if _, ok := entries[Generic]; !ok {
		return nil, fmt.Errorf("catalog: selector document is missing the %q entry", Generic)
	}
	return &Catalog{entries: entries}, nil
}

func parseEntry(msg json.RawMessage) (*SelectorSet, error) {
	// Legacy form: ["sel1", "sel2", ...] meaning price selectors only.
	var legacy []string
	if err := json.Unmarshal(msg, &legacy); err == nil {
		return &SelectorSet{PriceSelectors: legacy}, nil
	}
	var set SelectorSet
	if err := json.Unmarshal(msg, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

// validSelectors drops selectors cascadia cannot parse. A typo in the
// selector file must not take an entire site down at request time.
func validSelectors(site, kind string, selectors []string) []string {
	out := selectors[:0]
	for _, sel := range selectors {
		if _, err := cascadia.Parse(sel); err != nil {
			slog.Warn("catalog: dropping invalid selector",
				"site", site, "kind", kind, "selector", sel, "error", err)
			continue
		}
		out = append(out, sel)
	}
	return out
}

// For returns the selector set for a tag, falling back to the generic
// entry for tags the file does not cover.
func (c *Catalog) For(tag Tag) *SelectorSet {
	if set, ok := c.entries[tag]; ok {
		return set
	}
	return c.entries[Generic]
}

// StealthOnly reports whether the tag's bot protection blocks the fast
// backend.
func (c *Catalog) StealthOnly(tag Tag) bool {
	return c.For(tag).BlockedByFast
}
