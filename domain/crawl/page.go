package crawl

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Script-shell detection thresholds: a page whose server-delivered markup
// carries almost no text but many script elements only becomes readable
// after client-side execution.
const (
	shellMaxTextLen     = 200
	shellMinScriptCount = 10
)

// AnalyzePage extracts structural and textual signals from raw markup.
// Malformed markup never fails the page: the HTML parser is tolerant, and a
// body that cannot be parsed at all yields a zero-valued sample with the
// observed status. Structured-data blocks are JSON-parsed independently, so
// one bad block does not invalidate its siblings.
func AnalyzePage(pageURL string, status int, body []byte) PageSample {
	sample := PageSample{URL: pageURL, Status: status}
	if len(body) == 0 {
		return sample
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return sample
	}

	sample.TitleLen = len(strings.TrimSpace(doc.Find("title").First().Text()))
	sample.H1Count = doc.Find("h1").Length()
	sample.H2Count = doc.Find("h2").Length()
	sample.H3Count = doc.Find("h3").Length()
	sample.ScriptCount = doc.Find("script").Length()

	doc.Find("script[type='application/ld+json']").Each(func(_ int, sel *goquery.Selection) {
		sample.Blocks = append(sample.Blocks, parseStructuredData(sel.Text()))
	})

	// Text extraction happens last because it mutates the document:
	// script/style/noscript and chrome regions are dropped before reading.
	doc.Find("script, style, noscript, nav, footer, header").Remove()
	sample.Text = collapseWhitespace(doc.Find("body").Text())
	sample.TextLen = len(sample.Text)

	sample.JSShell = sample.TextLen < shellMaxTextLen && sample.ScriptCount > shellMinScriptCount
	return sample
}

// parseStructuredData JSON-parses one embedded metadata block and collects
// any declared entity types, including one level of nested graph entries.
func parseStructuredData(raw string) StructuredDataBlock {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return StructuredDataBlock{Valid: false}
	}

	block := StructuredDataBlock{Valid: true}
	block.Types = append(block.Types, declaredTypes(parsed)...)
	if graph, ok := parsed["@graph"].([]any); ok {
		for _, entry := range graph {
			if m, ok := entry.(map[string]any); ok {
				block.Types = append(block.Types, declaredTypes(m)...)
			}
		}
	}
	return block
}

// declaredTypes reads the @type key, which may be a single string or a list.
func declaredTypes(m map[string]any) []string {
	switch t := m["@type"].(type) {
	case string:
		return []string{t}
	case []any:
		var types []string
		for _, v := range t {
			if s, ok := v.(string); ok {
				types = append(types, s)
			}
		}
		return types
	}
	return nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
