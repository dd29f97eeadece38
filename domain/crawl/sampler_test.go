package crawl

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectFromSitemap(t *testing.T) {
	t.Run("keyword pages rank first", func(t *testing.T) {
		urls := []string{
			"https://example.com/blog/post-1",
			"https://example.com/about",
			"https://example.com/blog/post-2",
			"https://example.com/contact",
		}
		got := SelectFromSitemap(urls)
		assert.Equal(t, []string{
			"https://example.com/about",
			"https://example.com/contact",
			"https://example.com/blog/post-1",
			"https://example.com/blog/post-2",
		}, got)
	})

	t.Run("query urls excluded", func(t *testing.T) {
		urls := []string{
			"https://example.com/about?utm=1",
			"https://example.com/services",
		}
		got := SelectFromSitemap(urls)
		assert.Equal(t, []string{"https://example.com/services"}, got)
	})

	t.Run("capped at max sample pages", func(t *testing.T) {
		var urls []string
		for i := 0; i < 20; i++ {
			urls = append(urls, fmt.Sprintf("https://example.com/page-%d", i))
		}
		got := SelectFromSitemap(urls)
		assert.Len(t, got, MaxSamplePages)
	})
}

func TestExtractInternalLinks(t *testing.T) {
	html := `<html><body>
		<a href="/about">About</a>
		<a href="/blog/post">Post</a>
		<a href="https://example.com/services/">Services</a>
		<a href="https://other.com/page">External</a>
		<a href="mailto:hi@example.com">Mail</a>
		<a href="tel:+15551234567">Call</a>
		<a href="javascript:void(0)">JS</a>
		<a href="/search?q=x">Search</a>
		<a href="#section">Anchor</a>
		<a href="/about">Duplicate</a>
		<a href="/">Home</a>
	</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	got := ExtractInternalLinks(doc, "https://example.com")
	assert.Equal(t, []string{
		"https://example.com/about",
		"https://example.com/services",
		"https://example.com/blog/post",
	}, got)
}

func TestBuildSampleSet(t *testing.T) {
	t.Run("homepage first and deduplicated", func(t *testing.T) {
		got := BuildSampleSet("https://example.com", []string{
			"https://example.com",
			"https://example.com/about",
		})
		assert.Equal(t, []string{"https://example.com", "https://example.com/about"}, got)
	})

	t.Run("capped including homepage", func(t *testing.T) {
		var candidates []string
		for i := 0; i < 20; i++ {
			candidates = append(candidates, fmt.Sprintf("https://example.com/p%d", i))
		}
		got := BuildSampleSet("https://example.com", candidates)
		assert.Len(t, got, MaxSamplePages+1)
		assert.Equal(t, "https://example.com", got[0])
	})
}
