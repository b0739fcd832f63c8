// Package sites maps product URLs to known storefronts and holds the
// selector catalog each storefront is scraped with.
package sites

import (
	"net/url"
	"strings"
)

// Tag identifies a supported storefront. The zero value is not valid;
// unknown domains resolve to Generic.
type Tag string

const (
	Amazon    Tag = "amazon"
	Flipkart  Tag = "flipkart"
	Myntra    Tag = "myntra"
	Nykaa     Tag = "nykaa"
	Ajio      Tag = "ajio"
	Meesho    Tag = "meesho"
	Snapdeal  Tag = "snapdeal"
	Shopclues Tag = "shopclues"
	Hyugalife Tag = "hyugalife"
	Generic   Tag = "generic"
)

// All lists every concrete storefront tag plus the generic fallback.
var All = []Tag{
	Amazon, Flipkart, Myntra, Nykaa, Ajio,
	Meesho, Snapdeal, Shopclues, Hyugalife, Generic,
}

// domainTable maps registered domains to site tags. Matching is done on
// suffix so subdomains (www., dl., m.) resolve to the same tag.
var domainTable = map[string]Tag{
	"amazon.in":     Amazon,
	"amazon.com":    Amazon,
	"amzn.to":       Amazon,
	"amzn.in":       Amazon,
	"flipkart.com":  Flipkart,
	"shopsy.in":     Flipkart,
	"fkrt.cc":       Flipkart,
	"myntra.com":    Myntra,
	"myntr.it":      Myntra,
	"nykaa.com":     Nykaa,
	"ajio.com":      Ajio,
	"ajiio.in":      Ajio,
	"meesho.com":    Meesho,
	"msho.in":       Meesho,
	"snapdeal.com":  Snapdeal,
	"shopclues.com": Shopclues,
	"hyugalife.com": Hyugalife,
	"hygulife.com":  Hyugalife,
}

// crossSiteShorteners are link shorteners that can land on any storefront.
// They identify as Generic and force a redirect-stabilization pass before
// the site is re-identified from the final URL.
var crossSiteShorteners = map[string]struct{}{
	"bitli.in": {},
	"extp.in":  {},
	"spoo.me":  {},
}

// sameSiteShorteners redirect within a single storefront but still need
// stabilization before the product page is reachable.
var sameSiteShorteners = map[string]struct{}{
	"amzn.to":  {},
	"amzn.in":  {},
	"fkrt.cc":  {},
	"myntr.it": {},
	"msho.in":  {},
}

// Identify resolves a URL to a site tag by registered-domain suffix match.
// Cross-site shortener hosts return Generic; the caller must re-identify
// after redirects settle.
func Identify(rawURL string) Tag {
	host := hostOf(rawURL)
	if host == "" {
		return Generic
	}
	if _, ok := crossSiteShorteners[host]; ok {
		return Generic
	}
	for domain, tag := range domainTable {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return tag
		}
	}
	return Generic
}

// IsShortLink reports whether the URL's host is a known shortener
// (cross-site or same-site) that must stabilize before extraction.
func IsShortLink(rawURL string) bool {
	host := hostOf(rawURL)
	if _, ok := crossSiteShorteners[host]; ok {
		return true
	}
	_, ok := sameSiteShorteners[host]
	return ok
}

// IsCrossSiteShortLink reports whether the URL may redirect to a different
// storefront than its host suggests (bitli, extp).
func IsCrossSiteShortLink(rawURL string) bool {
	_, ok := crossSiteShorteners[hostOf(rawURL)]
	return ok
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}
