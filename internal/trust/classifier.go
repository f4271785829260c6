// Package trust maps a source's origin to a trust tier. Every function here is
// pure: the result depends on the domain string alone.
package trust

import (
	"net"
	"net/url"
	"strings"

	"github.com/Harshitk-cp/veritas/internal/domain"
	"golang.org/x/net/publicsuffix"
)

// Top-level domains that are restricted to government, military, academic or
// treaty bodies.
var highTLDs = map[string]bool{
	"gov": true,
	"mil": true,
	"edu": true,
	"int": true,
}

// Second-level labels used under country codes for the same institutions,
// e.g. gov.uk, ons.gov.uk, ox.ac.uk, unimelb.edu.au, canada.gc.ca.
var highSecondLevel = map[string]bool{
	"gov":  true,
	"gob":  true,
	"gouv": true,
	"govt": true,
	"ac":   true,
	"edu":  true,
	"gc":   true,
	"mil":  true,
}

// Peer-reviewed publishers, academic indexes and intergovernmental sites that
// live under generic TLDs.
var highDomains = map[string]bool{
	"nature.com":                 true,
	"science.org":                true,
	"sciencemag.org":             true,
	"thelancet.com":              true,
	"nejm.org":                   true,
	"bmj.com":                    true,
	"jamanetwork.com":            true,
	"cell.com":                   true,
	"plos.org":                   true,
	"sciencedirect.com":          true,
	"springer.com":               true,
	"wiley.com":                  true,
	"cochranelibrary.com":        true,
	"arxiv.org":                  true,
	"pnas.org":                   true,
	"europa.eu":                  true,
	"un.org":                     true,
	"worldbank.org":              true,
	"imf.org":                    true,
	"oecd.org":                   true,
	"scholar.archive.org":        true,
	"academic.oup.com":           true,
	"royalsocietypublishing.org": true,
}

// Major news agencies, broadcasters, reference works and fact-checkers.
var mediumDomains = map[string]bool{
	"reuters.com":            true,
	"apnews.com":             true,
	"bbc.com":                true,
	"bbc.co.uk":              true,
	"nytimes.com":            true,
	"washingtonpost.com":     true,
	"theguardian.com":        true,
	"wikipedia.org":          true,
	"britannica.com":         true,
	"npr.org":                true,
	"pbs.org":                true,
	"economist.com":          true,
	"ft.com":                 true,
	"bloomberg.com":          true,
	"wsj.com":                true,
	"cnn.com":                true,
	"cbsnews.com":            true,
	"nbcnews.com":            true,
	"abcnews.go.com":         true,
	"aljazeera.com":          true,
	"dw.com":                 true,
	"france24.com":           true,
	"lemonde.fr":             true,
	"spiegel.de":             true,
	"snopes.com":             true,
	"factcheck.org":          true,
	"politifact.com":         true,
	"fullfact.org":           true,
	"scientificamerican.com": true,
	"nationalgeographic.com": true,
}

var commercialDomains = map[string]bool{
	"amazon.com":     true,
	"ebay.com":       true,
	"walmart.com":    true,
	"aliexpress.com": true,
	"alibaba.com":    true,
	"etsy.com":       true,
	"target.com":     true,
	"bestbuy.com":    true,
	"shopify.com":    true,
	"temu.com":       true,
}

var commercialMarkers = []string{"shop", "store", "deal", "coupon", "discount", "promo"}

// Host reduces a domain or URL to its lowercase host name with any scheme,
// credentials, port, path, trailing dot and leading "www." removed.
// It returns "" when nothing usable remains.
func Host(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "http://" + strings.TrimPrefix(s, "//")
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	host := strings.TrimSuffix(u.Hostname(), ".")
	host = strings.TrimPrefix(host, "www.")
	if host == "" || strings.ContainsAny(host, " \t/\\") {
		return ""
	}
	return host
}

// RegistrableDomain returns the eTLD+1 of s, e.g. "data.cdc.gov" for
// "https://data.cdc.gov/x" resolves to "cdc.gov". IP addresses and hosts that
// are themselves public suffixes are returned unchanged.
func RegistrableDomain(s string) string {
	host := Host(s)
	if host == "" {
		return ""
	}
	if net.ParseIP(host) != nil {
		return host
	}
	reg, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return reg
}

// Classify returns the trust tier of a domain or URL. Unknown and malformed
// input is low.
func Classify(s string) domain.TrustTier {
	host := Host(s)
	if host == "" || net.ParseIP(host) != nil {
		return domain.TrustLow
	}

	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return domain.TrustLow
	}
	tld := labels[len(labels)-1]
	if highTLDs[tld] {
		return domain.TrustHigh
	}
	// Covers the portals that are the suffix itself, such as gov.uk.
	if len(tld) == 2 && highSecondLevel[labels[len(labels)-2]] {
		return domain.TrustHigh
	}

	reg := RegistrableDomain(host)
	switch {
	case highDomains[reg] || matchesListed(host, highDomains):
		return domain.TrustHigh
	case mediumDomains[reg] || matchesListed(host, mediumDomains):
		return domain.TrustMedium
	}
	return domain.TrustLow
}

// matchesListed catches listed entries deeper than eTLD+1, such as
// abcnews.go.com, by checking the host and each of its parent domains.
func matchesListed(host string, list map[string]bool) bool {
	for h := host; h != ""; {
		if list[h] {
			return true
		}
		i := strings.IndexByte(h, '.')
		if i < 0 {
			break
		}
		h = h[i+1:]
	}
	return false
}

// IsCommercial reports whether a domain looks like a retailer or promotional site.
func IsCommercial(s string) bool {
	host := Host(s)
	if host == "" {
		return false
	}
	if commercialDomains[RegistrableDomain(host)] {
		return true
	}
	for _, label := range strings.Split(host, ".") {
		for _, m := range commercialMarkers {
			if strings.Contains(label, m) {
				return true
			}
		}
	}
	return false
}

// ClassifySource derives the classified form of a raw source. The URL's host
// takes precedence over the collaborator-supplied domain.
func ClassifySource(raw domain.RawSource) domain.Source {
	origin := raw.URL
	if Host(origin) == "" {
		origin = raw.Domain
	}

	display := RegistrableDomain(origin)
	if display == "" {
		display = strings.TrimSpace(raw.Domain)
	}

	return domain.Source{
		Title:      strings.TrimSpace(raw.Title),
		URL:        strings.TrimSpace(raw.URL),
		Domain:     display,
		Snippet:    strings.TrimSpace(raw.Snippet),
		Trust:      Classify(origin),
		Stance:     domain.ParseStance(raw.Stance),
		Commercial: raw.Commercial || IsCommercial(origin),
	}
}

func ClassifySources(raws []domain.RawSource) []domain.Source {
	out := make([]domain.Source, 0, len(raws))
	for _, r := range raws {
		out = append(out, ClassifySource(r))
	}
	return out
}
