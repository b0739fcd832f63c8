package browser

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// StaticPage is a Page over an already-rendered HTML snapshot. Extractors
// use it to run selector probes against a live page's HTML() without
// round-tripping to the browser for every candidate, and tests use it in
// place of a real backend.
type StaticPage struct {
	doc *goquery.Document
	url string
}

// NewStaticPage parses an HTML snapshot. A parse failure yields a page
// whose queries all come back empty, mirroring how live pages degrade.
func NewStaticPage(rawHTML, pageURL string) *StaticPage {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		doc = nil
	}
	return &StaticPage{doc: doc, url: pageURL}
}

func (p *StaticPage) Navigate(_ context.Context, url string) error {
	p.url = url
	return nil
}

func (p *StaticPage) CurrentURL() string { return p.url }

func (p *StaticPage) Title() string {
	if p.doc == nil {
		return ""
	}
	return strings.TrimSpace(p.doc.Find("title").First().Text())
}

func (p *StaticPage) HTML() string {
	if p.doc == nil {
		return ""
	}
	out, err := p.doc.Html()
	if err != nil {
		return ""
	}
	return out
}

func (p *StaticPage) Query(selector string) Element {
	if p.doc == nil {
		return nil
	}
	sel := p.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	return &staticElement{sel: sel}
}

func (p *StaticPage) QueryAll(selector string) []Element {
	if p.doc == nil {
		return nil
	}
	var out []Element
	p.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, &staticElement{sel: s})
	})
	return out
}

// QueryXPath is not supported on static snapshots; the extractors only use
// XPath against live pages.
func (p *StaticPage) QueryXPath(string) []Element { return nil }

func (p *StaticPage) Eval(string) (string, error) { return "", nil }

func (p *StaticPage) Close() error { return nil }

// staticElement adapts a goquery selection.
type staticElement struct {
	sel *goquery.Selection
}

func (e *staticElement) Text() string {
	return strings.TrimSpace(e.sel.Text())
}

func (e *staticElement) Attr(name string) string {
	val, _ := e.sel.Attr(name)
	return val
}

// Visible approximates rendered visibility from inline markup: the hidden
// attribute, display:none and visibility:hidden on the element or any
// ancestor hide it.
func (e *staticElement) Visible() bool {
	for n := e.sel; n.Length() > 0; n = n.Parent() {
		node := n.Get(0)
		if node.Type != html.ElementNode {
			break
		}
		if _, hidden := n.Attr("hidden"); hidden {
			return false
		}
		style, _ := n.Attr("style")
		style = strings.ReplaceAll(strings.ToLower(style), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return false
		}
	}
	return true
}

func (e *staticElement) Parent() Element {
	parent := e.sel.Parent()
	if parent.Length() == 0 {
		return nil
	}
	if node := parent.Get(0); node == nil || node.Type != html.ElementNode {
		return nil
	}
	return &staticElement{sel: parent}
}

func (e *staticElement) Eval(string) string { return "" }
