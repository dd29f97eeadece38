package crawl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeRobots(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		status   int
		expected RobotsAnalysis
	}{
		{
			name:     "unreachable yields permissive defaults",
			body:     "",
			status:   404,
			expected: RobotsAnalysis{Reachable: false, StatusCode: 404},
		},
		{
			name:     "empty file is fine",
			body:     "",
			status:   200,
			expected: RobotsAnalysis{Reachable: true, StatusCode: 200},
		},
		{
			name:   "wildcard disallow all",
			body:   "User-agent: *\nDisallow: /",
			status: 200,
			expected: RobotsAnalysis{
				Reachable: true, StatusCode: 200, DisallowAll: true,
			},
		},
		{
			name:   "wildcard partial disallow is not a block",
			body:   "User-agent: *\nDisallow: /admin/",
			status: 200,
			expected: RobotsAnalysis{
				Reachable: true, StatusCode: 200,
			},
		},
		{
			name:   "named ai agents blocked",
			body:   "User-agent: GPTBot\nDisallow: /\n\nUser-agent: OAI-SearchBot\nDisallow: /\n\nUser-agent: ChatGPT-User\nDisallow: /",
			status: 200,
			expected: RobotsAnalysis{
				Reachable: true, StatusCode: 200,
				GPTBotBlocked: true, OAISearchBotBlocked: true, ChatGPTUserBlocked: true,
			},
		},
		{
			name:   "directives are case insensitive",
			body:   "USER-AGENT: gptbot\nDISALLOW: /",
			status: 200,
			expected: RobotsAnalysis{
				Reachable: true, StatusCode: 200, GPTBotBlocked: true,
			},
		},
		{
			name:   "sitemap directives collected in order",
			body:   "Sitemap: https://example.com/a.xml\nUser-agent: *\nAllow: /\nSitemap: https://example.com/b.xml",
			status: 200,
			expected: RobotsAnalysis{
				Reachable: true, StatusCode: 200,
				SitemapURLs: []string{"https://example.com/a.xml", "https://example.com/b.xml"},
			},
		},
		{
			name:   "disallow before any agent block is ignored",
			body:   "Disallow: /\nUser-agent: *\nAllow: /",
			status: 200,
			expected: RobotsAnalysis{
				Reachable: true, StatusCode: 200,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeRobots(tt.body, tt.status)
			got.RawSnippet = ""
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAnalyzeRobotsSnippetBounded(t *testing.T) {
	body := strings.Repeat("x", 2000)
	got := AnalyzeRobots(body, 200)
	assert.Len(t, got.RawSnippet, robotsSnippetLen)
}
