package crawl

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// ParseSitemapURLs extracts every <loc> entry from sitemap XML. It scans the
// token stream rather than unmarshalling a fixed schema so that partially
// malformed documents still yield whatever URLs appear before the bad spot;
// it never returns an error. Only absolute http(s) URLs are kept.
func ParseSitemapURLs(body []byte) []string {
	var urls []string

	decoder := xml.NewDecoder(bytes.NewReader(body))
	decoder.Strict = false

	inLoc := false
	var loc strings.Builder
	for {
		tok, err := decoder.Token()
		if err != nil {
			// EOF or malformed markup past this point; keep what we have.
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if strings.EqualFold(t.Name.Local, "loc") {
				inLoc = true
				loc.Reset()
			}
		case xml.CharData:
			if inLoc {
				loc.Write(t)
			}
		case xml.EndElement:
			if inLoc && strings.EqualFold(t.Name.Local, "loc") {
				inLoc = false
				u := strings.TrimSpace(loc.String())
				if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
					urls = append(urls, u)
				}
			}
		}
	}

	return urls
}
