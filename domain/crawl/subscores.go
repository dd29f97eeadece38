package crawl

import (
	"math"
	"regexp"
	"strings"
)

// Business-fact patterns evaluated against the concatenated visible text of
// the first few sampled pages.
var (
	phoneRe   = regexp.MustCompile(`(\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	emailRe   = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	addressRe = regexp.MustCompile(`(?i)\d{2,5}\s+[\w\s]+(?:street|st|avenue|ave|boulevard|blvd|road|rd|drive|dr|lane|ln|way|court|ct|place|pl)`)
	hoursRe   = regexp.MustCompile(`(?i)(?:mon|tue|wed|thu|fri|sat|sun|monday|tuesday|wednesday|thursday|friday|saturday|sunday)[\s\-–]+(?:fri|sun|sat|monday|friday|saturday|sunday)?[\s:]*\d{1,2}`)
)

// Stage maxima.
const (
	MaxAccessPermission = 30
	MaxExtractability   = 40
	MaxEntityClarity    = 20
	MaxAIAffordances    = 10
	MaxViability        = 15
)

// GradeFromScore maps the analyzer's 0-100 total onto a letter grade.
// These cut-offs are fixed; the administrator-tunable thresholds apply only
// to the composite overall grade.
func GradeFromScore(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// ViabilityScore converts probe outcomes into the 0-15 fetch-viability
// component. Zero attempts score zero.
func ViabilityScore(successful, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(MaxViability) * float64(successful) / float64(total)))
}

// ScoreAccessPermission computes the 0-30 Access & Permission sub-score:
// 5 points for a reachable robots file, 10 for agent rules, 15 for live
// fetch viability.
func ScoreAccessPermission(robots RobotsAnalysis, viability FetchViability) AccessPermission {
	var sub AccessPermission
	sub.Max = MaxAccessPermission

	reachableScore := 0
	if robots.Reachable {
		reachableScore = 5
	}
	sub.Details.RobotsReachable = RobotsReachableDetail{
		Score:      reachableScore,
		Max:        5,
		StatusCode: robots.StatusCode,
	}

	agentScore := 10
	if robots.DisallowAll {
		agentScore = 0
	} else {
		if robots.GPTBotBlocked {
			agentScore -= 3
		}
		if robots.OAISearchBotBlocked {
			agentScore -= 3
		}
		if robots.ChatGPTUserBlocked {
			agentScore -= 2
		}
		if agentScore < 0 {
			agentScore = 0
		}
	}
	sub.Details.AgentRules = AgentRulesDetail{
		Score:               agentScore,
		Max:                 10,
		DisallowAll:         robots.DisallowAll,
		GPTBotBlocked:       robots.GPTBotBlocked,
		OAISearchBotBlocked: robots.OAISearchBotBlocked,
		ChatGPTUserBlocked:  robots.ChatGPTUserBlocked,
	}

	sub.Details.FetchViability = viability
	sub.Score = reachableScore + agentScore + viability.Score
	return sub
}

// rawContentPoints buckets a page's visible text length.
func rawContentPoints(textLen int) int {
	switch {
	case textLen >= 2000:
		return 4
	case textLen >= 1000:
		return 3
	case textLen >= 400:
		return 2
	case textLen >= 100:
		return 1
	default:
		return 0
	}
}

// ScoreExtractability computes the 0-40 Extractability sub-score from raw
// content availability (first 5 pages), structural clarity (first 4) and
// script-shell risk (all pages).
func ScoreExtractability(pages []PageSample) Extractability {
	var sub Extractability
	sub.Max = MaxExtractability

	rawScore := 0
	rawPages := make([]RawContentPage, 0, 5)
	for _, p := range firstN(pages, 5) {
		pts := rawContentPoints(p.TextLen)
		rawScore += pts
		rawPages = append(rawPages, RawContentPage{URL: p.URL, TextLen: p.TextLen, Points: pts})
	}
	sub.Details.RawContent.Score = rawScore
	sub.Details.RawContent.Max = 20
	sub.Details.RawContent.Pages = rawPages

	structScore := 0
	structPages := make([]StructuralClarityPage, 0, 4)
	for _, p := range firstN(pages, 4) {
		pts := 0
		if p.TitleLen >= 10 && p.TitleLen <= 70 {
			pts++
		}
		if p.H1Count == 1 {
			pts++
		}
		if p.H2Count+p.H3Count >= 2 {
			pts++
		}
		structScore += pts
		structPages = append(structPages, StructuralClarityPage{
			URL:          p.URL,
			TitleLen:     p.TitleLen,
			H1Count:      p.H1Count,
			HeadingCount: p.H2Count + p.H3Count,
			Points:       pts,
		})
	}
	if structScore > 10 {
		structScore = 10
	}
	sub.Details.StructuralClarity.Score = structScore
	sub.Details.StructuralClarity.Max = 10
	sub.Details.StructuralClarity.Pages = structPages

	shellScore := 10
	flagged := []string{}
	for _, p := range pages {
		if p.JSShell {
			shellScore -= 2
			flagged = append(flagged, p.URL)
		}
	}
	if shellScore < 0 {
		shellScore = 0
	}
	sub.Details.ScriptShellRisk.Score = shellScore
	sub.Details.ScriptShellRisk.Max = 10
	sub.Details.ScriptShellRisk.FlaggedPages = flagged

	sub.Score = rawScore + structScore + shellScore
	return sub
}

// ScoreEntityClarity computes the 0-20 Entity Clarity sub-score from
// structured-data blocks and business-fact patterns on the first 4 pages.
func ScoreEntityClarity(pages []PageSample) EntityClarity {
	var sub EntityClarity
	sub.Max = MaxEntityClarity

	head := firstN(pages, 4)

	validBlocks := 0
	var types []string
	seenTypes := make(map[string]bool)
	for _, p := range head {
		for _, b := range p.Blocks {
			if !b.Valid {
				continue
			}
			validBlocks++
			for _, t := range b.Types {
				if !seenTypes[t] {
					seenTypes[t] = true
					types = append(types, t)
				}
			}
		}
	}
	blockScore := 0
	switch {
	case validBlocks >= 2:
		blockScore = 10
	case validBlocks == 1:
		blockScore = 6
	}
	sub.Details.StructuredData.Score = blockScore
	sub.Details.StructuredData.Max = 10
	sub.Details.StructuredData.ValidBlocks = validBlocks
	sub.Details.StructuredData.Types = types

	var texts []string
	for _, p := range head {
		texts = append(texts, p.Text)
	}
	combined := strings.Join(texts, " ")

	factsScore := 0
	var found FactsFound
	if phoneRe.MatchString(combined) {
		factsScore += 3
		found.Phone = true
	}
	if emailRe.MatchString(combined) {
		factsScore += 2
		found.Email = true
	}
	if addressRe.MatchString(combined) {
		factsScore += 3
		found.Address = true
	}
	if hoursRe.MatchString(combined) {
		factsScore += 2
		found.Hours = true
	}
	if factsScore > 10 {
		factsScore = 10
	}
	sub.Details.BusinessFacts.Score = factsScore
	sub.Details.BusinessFacts.Max = 10
	sub.Details.BusinessFacts.Found = found

	sub.Score = blockScore + factsScore
	return sub
}

// ScoreAIAffordances computes the 0-10 AI Affordances sub-score from sitemap
// health and the machine-guidance file probe.
func ScoreAIAffordances(sitemap SitemapResult, guidance GuidanceFile) AIAffordances {
	var sub AIAffordances
	sub.Max = MaxAIAffordances

	sitemapScore := 0
	switch {
	case sitemap.Parseable:
		sitemapScore = 5
	case sitemap.Reachable:
		sitemapScore = 2
	}
	sub.Details.Sitemap.Score = sitemapScore
	sub.Details.Sitemap.Max = 5
	sub.Details.Sitemap.Reachable = sitemap.Reachable
	sub.Details.Sitemap.Parseable = sitemap.Parseable

	guidanceScore := 0
	switch {
	case guidance.ContentLen >= 200:
		guidanceScore = 5
	case guidance.ContentLen > 0:
		guidanceScore = 2
	}
	sub.Details.GuidanceFile.Score = guidanceScore
	sub.Details.GuidanceFile.Max = 5
	sub.Details.GuidanceFile.Path = guidance.Path

	sub.Score = sitemapScore + guidanceScore
	return sub
}

// TotalScore sums the sub-scores and clamps to 100.
func TotalScore(sub Subscores) int {
	total := sub.AccessPermission.Score + sub.Extractability.Score + sub.EntityClarity.Score + sub.AIAffordances.Score
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	return total
}

func firstN(pages []PageSample, n int) []PageSample {
	if len(pages) > n {
		return pages[:n]
	}
	return pages
}
