// Package crawl contains the pure analysis core of the AI crawlability
// signal: robots directive interpretation, sitemap parsing, page sampling,
// markup signal extraction, sub-score calculators and the findings rule
// engine. Nothing in this package performs network I/O.
package crawl

// ResultVersion tags the persisted analyzer snapshot format.
const ResultVersion = "1.0"

// RobotsAnalysis captures what the robots directive file says about
// automated clients. A fetch failure yields permissive defaults with
// Reachable=false rather than an error.
type RobotsAnalysis struct {
	Reachable           bool     `json:"reachable"`
	StatusCode          int      `json:"status_code"`
	DisallowAll         bool     `json:"disallow_all"`
	GPTBotBlocked       bool     `json:"gptbot_blocked"`
	OAISearchBotBlocked bool     `json:"oai_searchbot_blocked"`
	ChatGPTUserBlocked  bool     `json:"chatgpt_user_blocked"`
	SitemapURLs         []string `json:"sitemap_urls,omitempty"`
	RawSnippet          string   `json:"-"`
}

// SitemapResult reports sitemap discovery. Reachable and Parseable are
// independent: a site can serve a 200 sitemap that yields no URLs.
type SitemapResult struct {
	Reachable bool
	Parseable bool
	URLs      []string
}

// StructuredDataBlock is one embedded machine-readable metadata block,
// JSON-parsed independently of its siblings.
type StructuredDataBlock struct {
	Valid bool
	Types []string
}

// PageSample holds the signals extracted from one sampled page. A page whose
// fetch failed is represented by a zero-valued sample (status 0, all counts 0).
type PageSample struct {
	URL         string
	Status      int
	Text        string
	TextLen     int
	TitleLen    int
	H1Count     int
	H2Count     int
	H3Count     int
	ScriptCount int
	JSShell     bool
	Blocks      []StructuredDataBlock
}

// ZeroSample returns the record used for a page that could not be fetched.
func ZeroSample(url string) PageSample {
	return PageSample{URL: url}
}

// ValidBlockCount returns how many structured-data blocks parsed cleanly.
func (p *PageSample) ValidBlockCount() int {
	n := 0
	for _, b := range p.Blocks {
		if b.Valid {
			n++
		}
	}
	return n
}

// FetchViability summarizes the multi-identity probe stage.
type FetchViability struct {
	Score      int `json:"score"`
	Max        int `json:"max"`
	Successful int `json:"successful"`
	Total      int `json:"total"`
}

// Severity levels for findings.
const (
	SeverityHigh = "high"
	SeverityMed  = "med"
	SeverityLow  = "low"
)

// Finding is one human-readable issue produced by the rule engine.
type Finding struct {
	Severity       string `json:"severity"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

// RobotsReachableDetail scores plain reachability of the directive file.
type RobotsReachableDetail struct {
	Score      int `json:"score"`
	Max        int `json:"max"`
	StatusCode int `json:"status_code"`
}

// AgentRulesDetail scores the per-agent directives.
type AgentRulesDetail struct {
	Score               int  `json:"score"`
	Max                 int  `json:"max"`
	DisallowAll         bool `json:"disallow_all"`
	GPTBotBlocked       bool `json:"gptbot_blocked"`
	OAISearchBotBlocked bool `json:"oai_searchbot_blocked"`
	ChatGPTUserBlocked  bool `json:"chatgpt_user_blocked"`
}

// AccessPermission is the 0-30 sub-score.
type AccessPermission struct {
	Score   int `json:"score"`
	Max     int `json:"max"`
	Details struct {
		RobotsReachable RobotsReachableDetail `json:"robots_reachable"`
		AgentRules      AgentRulesDetail      `json:"ai_agent_rules"`
		FetchViability  FetchViability        `json:"fetch_viability"`
	} `json:"details"`
}

// RawContentPage is the per-page raw text detail row.
type RawContentPage struct {
	URL     string `json:"url"`
	TextLen int    `json:"text_len"`
	Points  int    `json:"pts"`
}

// StructuralClarityPage is the per-page heading/title detail row.
type StructuralClarityPage struct {
	URL          string `json:"url"`
	TitleLen     int    `json:"title_len"`
	H1Count      int    `json:"h1_count"`
	HeadingCount int    `json:"heading_count"`
	Points       int    `json:"pts"`
}

// Extractability is the 0-40 sub-score.
type Extractability struct {
	Score   int `json:"score"`
	Max     int `json:"max"`
	Details struct {
		RawContent struct {
			Score int              `json:"score"`
			Max   int              `json:"max"`
			Pages []RawContentPage `json:"pages"`
		} `json:"raw_content"`
		StructuralClarity struct {
			Score int                     `json:"score"`
			Max   int                     `json:"max"`
			Pages []StructuralClarityPage `json:"pages"`
		} `json:"structural_clarity"`
		ScriptShellRisk struct {
			Score        int      `json:"score"`
			Max          int      `json:"max"`
			FlaggedPages []string `json:"flagged_pages"`
		} `json:"js_shell_risk"`
	} `json:"details"`
}

// FactsFound records which business facts appeared in visible text.
type FactsFound struct {
	Phone   bool `json:"phone"`
	Email   bool `json:"email"`
	Address bool `json:"address"`
	Hours   bool `json:"hours"`
}

// EntityClarity is the 0-20 sub-score.
type EntityClarity struct {
	Score   int `json:"score"`
	Max     int `json:"max"`
	Details struct {
		StructuredData struct {
			Score       int      `json:"score"`
			Max         int      `json:"max"`
			ValidBlocks int      `json:"valid_blocks"`
			Types       []string `json:"types"`
		} `json:"json_ld"`
		BusinessFacts struct {
			Score int        `json:"score"`
			Max   int        `json:"max"`
			Found FactsFound `json:"found"`
		} `json:"business_facts"`
	} `json:"details"`
}

// GuidanceFile is the outcome of probing for a machine-guidance file
// (/llms.txt or /.well-known/llms.txt).
type GuidanceFile struct {
	Path       *string
	ContentLen int
}

// AIAffordances is the 0-10 sub-score.
type AIAffordances struct {
	Score   int `json:"score"`
	Max     int `json:"max"`
	Details struct {
		Sitemap struct {
			Score     int  `json:"score"`
			Max       int  `json:"max"`
			Reachable bool `json:"reachable"`
			Parseable bool `json:"parseable"`
		} `json:"sitemap"`
		GuidanceFile struct {
			Score int     `json:"score"`
			Max   int     `json:"max"`
			Path  *string `json:"path"`
		} `json:"llms_txt"`
	} `json:"details"`
}

// Subscores groups the four sub-score breakdowns.
type Subscores struct {
	AccessPermission AccessPermission `json:"access_permission"`
	Extractability   Extractability   `json:"extractability"`
	EntityClarity    EntityClarity    `json:"entity_clarity"`
	AIAffordances    AIAffordances    `json:"ai_affordances"`
}

// PageSummary is the truncated per-page record kept in the persisted snapshot.
type PageSummary struct {
	URL                  string `json:"url"`
	Status               int    `json:"status"`
	TextLen              int    `json:"text_len"`
	TitleLen             int    `json:"title_len"`
	H1Count              int    `json:"h1_count"`
	HeadingCount         int    `json:"heading_count"`
	ScriptCount          int    `json:"script_count"`
	JSShell              bool   `json:"js_shell"`
	StructuredDataBlocks int    `json:"structured_data_blocks"`
}

// AnalyzerResult is the full persisted snapshot, replaced wholesale on every
// successful run.
type AnalyzerResult struct {
	Version     string        `json:"version"`
	WebsiteURL  string        `json:"website_url"`
	Score       int           `json:"score"`
	Grade       string        `json:"grade"`
	Subscores   Subscores     `json:"subscores"`
	Findings    []Finding     `json:"findings"`
	PageSamples []PageSummary `json:"page_samples"`
}

// maxPageSummaries bounds the persisted per-page list.
const maxPageSummaries = 6

// SummarizePages converts working samples into the persisted truncated list.
func SummarizePages(pages []PageSample) []PageSummary {
	out := make([]PageSummary, 0, maxPageSummaries)
	for _, p := range pages {
		if len(out) == maxPageSummaries {
			break
		}
		out = append(out, PageSummary{
			URL:                  p.URL,
			Status:               p.Status,
			TextLen:              p.TextLen,
			TitleLen:             p.TitleLen,
			H1Count:              p.H1Count,
			HeadingCount:         p.H2Count + p.H3Count,
			ScriptCount:          p.ScriptCount,
			JSShell:              p.JSShell,
			StructuredDataBlocks: len(p.Blocks),
		})
	}
	return out
}
