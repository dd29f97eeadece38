package crawl

import "strings"

// robotsSnippetLen bounds the raw excerpt kept for debugging.
const robotsSnippetLen = 500

// AnalyzeRobots interprets a robots directive file line by line. It tracks
// the current User-agent block (case-insensitive) and flags a "Disallow: /"
// under the wildcard agent or under the named AI agents. Sitemap directives
// are collected verbatim, order preserved. This function never fails: an
// unreachable file (non-200 status) simply yields permissive defaults.
func AnalyzeRobots(body string, statusCode int) RobotsAnalysis {
	analysis := RobotsAnalysis{
		Reachable:  statusCode == 200,
		StatusCode: statusCode,
		RawSnippet: snippet(body, robotsSnippetLen),
	}

	currentAgent := ""
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)

		if agent, ok := directiveValue(line, "user-agent:"); ok {
			currentAgent = strings.ToLower(agent)
			continue
		}
		if sitemapURL, ok := directiveValue(line, "sitemap:"); ok {
			if sitemapURL != "" {
				analysis.SitemapURLs = append(analysis.SitemapURLs, sitemapURL)
			}
			continue
		}
		if path, ok := directiveValue(line, "disallow:"); ok && path == "/" {
			switch currentAgent {
			case "*":
				analysis.DisallowAll = true
			case "gptbot":
				analysis.GPTBotBlocked = true
			case "oai-searchbot":
				analysis.OAISearchBotBlocked = true
			case "chatgpt-user":
				analysis.ChatGPTUserBlocked = true
			}
		}
	}

	return analysis
}

// directiveValue matches a robots directive by case-insensitive prefix and
// returns its trimmed value.
func directiveValue(line, directive string) (string, bool) {
	if len(line) < len(directive) {
		return "", false
	}
	if !strings.EqualFold(line[:len(directive)], directive) {
		return "", false
	}
	return strings.TrimSpace(line[len(directive):]), true
}

func snippet(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
