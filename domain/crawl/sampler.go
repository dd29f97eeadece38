package crawl

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageKeywords is the fixed vocabulary of path fragments that mark a page as
// high-value for sampling (contact details, service descriptions, etc.).
var PageKeywords = []string{"about", "services", "contact", "locations", "service-area", "faq"}

// MaxSamplePages caps the sampled set, exclusive of the homepage.
const MaxSamplePages = 8

// SelectFromSitemap picks a bounded, keyword-first page sample from sitemap
// URLs. Query-bearing URLs are excluded entirely.
func SelectFromSitemap(urls []string) []string {
	var keyword, other []string
	for _, u := range urls {
		if strings.Contains(u, "?") {
			continue
		}
		if containsKeyword(u) {
			keyword = append(keyword, u)
		} else {
			other = append(other, u)
		}
	}
	combined := append(keyword, other...)
	if len(combined) > MaxSamplePages {
		combined = combined[:MaxSamplePages]
	}
	return combined
}

// ExtractInternalLinks pulls same-origin anchor targets out of homepage
// markup, for sites that publish no sitemap. Pseudo-links (mailto:, tel:,
// javascript:), cross-origin targets, query-bearing URLs and the root path
// itself are skipped; results are deduplicated by path and ordered
// keyword-first.
func ExtractInternalLinks(doc *goquery.Document, origin string) []string {
	base, err := url.Parse(origin)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var keyword, other []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		lower := strings.ToLower(href)
		if strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:") || strings.HasPrefix(lower, "javascript:") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme+"://"+resolved.Host != origin {
			return
		}
		if resolved.RawQuery != "" {
			return
		}

		path := strings.TrimRight(resolved.Path, "/")
		if path == "" || seen[path] {
			return
		}
		seen[path] = true

		full := origin + path
		if containsKeyword(path) {
			keyword = append(keyword, full)
		} else {
			other = append(other, full)
		}
	})

	combined := append(keyword, other...)
	if len(combined) > MaxSamplePages {
		combined = combined[:MaxSamplePages]
	}
	return combined
}

// BuildSampleSet prepends the homepage to the candidate list and
// deduplicates, producing at most MaxSamplePages+1 pages to examine.
func BuildSampleSet(homepage string, candidates []string) []string {
	pages := make([]string, 0, MaxSamplePages+1)
	pages = append(pages, homepage)
	for _, c := range candidates {
		if c == homepage {
			continue
		}
		if len(pages) == MaxSamplePages+1 {
			break
		}
		pages = append(pages, c)
	}
	return pages
}

func containsKeyword(u string) bool {
	lower := strings.ToLower(u)
	for _, kw := range PageKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
