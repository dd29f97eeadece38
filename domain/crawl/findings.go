package crawl

import "fmt"

// maxFindings caps the generated list.
const maxFindings = 8

// GenerateFindings evaluates the fixed rule list against the run's signals,
// in priority order, and returns at most maxFindings entries. Titles,
// descriptions and recommendations are static templates.
func GenerateFindings(
	robots RobotsAnalysis,
	pages []PageSample,
	entity EntityClarity,
	sitemap SitemapResult,
	guidanceScore int,
	viability FetchViability,
) []Finding {
	var findings []Finding

	if robots.DisallowAll {
		findings = append(findings, Finding{
			Severity:       SeverityHigh,
			Title:          "robots.txt blocks all bots",
			Description:    "Disallow: / under User-agent: * prevents AI systems from crawling the site.",
			Recommendation: "Review robots.txt and selectively allow trusted AI agents.",
		})
	}

	if robots.GPTBotBlocked {
		findings = append(findings, Finding{
			Severity:       SeverityMed,
			Title:          "GPTBot is blocked",
			Description:    "GPTBot is explicitly disallowed in robots.txt, preventing OpenAI from accessing site content.",
			Recommendation: "Consider allowing GPTBot if you want your content discoverable by ChatGPT.",
		})
	}

	shellPages := 0
	for _, p := range pages {
		if p.JSShell {
			shellPages++
		}
	}
	if shellPages > 0 {
		findings = append(findings, Finding{
			Severity:       SeverityHigh,
			Title:          "JS-heavy pages with little raw content",
			Description:    fmt.Sprintf("%d page(s) appear to be JavaScript shells with minimal server-rendered text. AI systems that don't execute JS will see an empty page.", shellPages),
			Recommendation: "Implement server-side rendering (SSR) or static generation for key pages.",
		})
	}

	if entity.Details.StructuredData.ValidBlocks == 0 {
		findings = append(findings, Finding{
			Severity:       SeverityMed,
			Title:          "No JSON-LD structured data found",
			Description:    "No valid JSON-LD blocks were detected, making it harder for AI systems to extract business facts.",
			Recommendation: "Add JSON-LD markup (LocalBusiness, Organization, etc.) to your homepage and key pages.",
		})
	}

	facts := entity.Details.BusinessFacts.Found
	if !facts.Phone && !facts.Email {
		findings = append(findings, Finding{
			Severity:       SeverityMed,
			Title:          "Contact info not found in page text",
			Description:    "Neither a phone number nor email address was detected in visible text on key pages.",
			Recommendation: "Include contact information in visible text (not just images or JavaScript-rendered elements).",
		})
	}

	if !sitemap.Parseable {
		description := "No sitemap.xml was found."
		if sitemap.Reachable {
			description = "Sitemap was reachable but could not be parsed."
		}
		findings = append(findings, Finding{
			Severity:       SeverityLow,
			Title:          "Sitemap missing or unparseable",
			Description:    description,
			Recommendation: "Create a valid XML sitemap and reference it in robots.txt.",
		})
	}

	if guidanceScore == 0 {
		findings = append(findings, Finding{
			Severity:       SeverityLow,
			Title:          "No llms.txt found",
			Description:    "No /llms.txt or /.well-known/llms.txt was detected. This emerging standard helps AI systems understand your site.",
			Recommendation: "Consider creating an llms.txt file to provide AI-specific guidance about your site.",
		})
	}

	if viability.Score < viability.Max {
		findings = append(findings, Finding{
			Severity:       SeverityMed,
			Title:          "Some bot user-agents are blocked or challenged",
			Description:    fmt.Sprintf("Only %d/%d fetch attempts succeeded without being challenged or blocked.", viability.Successful, viability.Total),
			Recommendation: "Review firewall/CDN rules to ensure legitimate bot user-agents can access content.",
		})
	}

	if len(findings) > maxFindings {
		findings = findings[:maxFindings]
	}
	return findings
}
