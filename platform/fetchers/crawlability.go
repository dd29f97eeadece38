package fetchers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"sitegrade/domain/audit"
	"sitegrade/domain/crawl"
	"sitegrade/infrastructure/webclient"
	"sitegrade/logging"
)

const (
	// pageFetchConcurrency bounds the sampled-page fan-out.
	pageFetchConcurrency = 4
	// probeConcurrency bounds the viability probe fan-out.
	probeConcurrency = 6
	// probePageCount is how many sampled pages (homepage included) get probed.
	probePageCount = 4
)

// guidancePaths are probed in order for the machine-guidance file.
var guidancePaths = []string{"/llms.txt", "/.well-known/llms.txt"}

// CrawlabilityFetcher runs the AI crawlability analyzer: robots directives,
// sitemap discovery, page sampling, multi-identity fetch probes and the
// sub-score pipeline. Only an invalid URL is a terminal error; every network
// failure inside the run degrades to a zero-scored component.
type CrawlabilityFetcher struct {
	web    *webclient.Client
	logger *logging.Logger
}

// NewCrawlabilityFetcher creates the crawlability analyzer fetcher.
func NewCrawlabilityFetcher(web *webclient.Client) *CrawlabilityFetcher {
	return &CrawlabilityFetcher{
		web:    web,
		logger: logging.Default().WithComponent("crawlability_fetcher"),
	}
}

func (f *CrawlabilityFetcher) Key() audit.SignalKey {
	return audit.SignalCrawlability
}

func (f *CrawlabilityFetcher) Fetch(ctx context.Context, websiteURL string) (*Result, error) {
	normalized, err := crawl.Normalize(websiteURL)
	if err != nil {
		return nil, err
	}
	origin, err := crawl.Origin(normalized)
	if err != nil {
		return nil, err
	}

	// Homepage and robots file are independent; fetch them together.
	var (
		homepageStatus int
		homepageBody   []byte
		robotsStatus   int
		robotsBody     []byte
	)
	var prefetch errgroup.Group
	prefetch.Go(func() error {
		if resp, err := f.web.Get(ctx, normalized); err == nil {
			homepageStatus = resp.StatusCode
			homepageBody = resp.Body
		}
		return nil
	})
	prefetch.Go(func() error {
		if resp, err := f.web.Get(ctx, origin+"/robots.txt"); err == nil {
			robotsStatus = resp.StatusCode
			robotsBody = resp.Body
		}
		return nil
	})
	prefetch.Wait()

	robots := crawl.AnalyzeRobots(string(robotsBody), robotsStatus)
	sitemap := f.resolveSitemap(ctx, origin, robots.SitemapURLs)

	var candidates []string
	if sitemap.Parseable {
		candidates = crawl.SelectFromSitemap(sitemap.URLs)
	} else if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(homepageBody)); err == nil {
		candidates = crawl.ExtractInternalLinks(doc, origin)
	}
	allPages := crawl.BuildSampleSet(normalized, candidates)

	pages := f.fetchPages(ctx, allPages, homepageStatus, homepageBody)
	viability := f.probeViability(ctx, allPages)
	guidance, guidanceScore := f.probeGuidanceFile(ctx, origin)

	subscores := crawl.Subscores{
		AccessPermission: crawl.ScoreAccessPermission(robots, viability),
		Extractability:   crawl.ScoreExtractability(pages),
		EntityClarity:    crawl.ScoreEntityClarity(pages),
		AIAffordances:    crawl.ScoreAIAffordances(sitemap, guidance),
	}
	total := crawl.TotalScore(subscores)
	grade := crawl.GradeFromScore(total)
	findings := crawl.GenerateFindings(robots, pages, subscores.EntityClarity, sitemap, guidanceScore, viability)

	snapshot := crawl.AnalyzerResult{
		Version:     crawl.ResultVersion,
		WebsiteURL:  normalized,
		Score:       total,
		Grade:       grade,
		Subscores:   subscores,
		Findings:    findings,
		PageSamples: crawl.SummarizePages(pages),
	}
	details, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analyzer result: %w", err)
	}

	f.logger.Crawl("Crawlability analysis complete",
		"website_url", normalized,
		"score", total,
		"grade", grade,
		"pages_sampled", len(pages),
		"findings", len(findings))

	return &Result{
		Score:   float64(total),
		Grade:   grade,
		Details: details,
	}, nil
}

// resolveSitemap tries each candidate location in order and keeps the first
// one that parses to at least one URL. Reachability is remembered even when
// no candidate parses.
func (f *CrawlabilityFetcher) resolveSitemap(ctx context.Context, origin string, directiveURLs []string) crawl.SitemapResult {
	var result crawl.SitemapResult

	candidates := []string{origin + "/sitemap.xml"}
	seen := map[string]bool{candidates[0]: true}
	for _, u := range directiveURLs {
		if !seen[u] {
			seen[u] = true
			candidates = append(candidates, u)
		}
	}

	for _, sitemapURL := range candidates {
		resp, err := f.web.Get(ctx, sitemapURL)
		if err != nil || resp.StatusCode != 200 {
			continue
		}
		result.Reachable = true
		if urls := crawl.ParseSitemapURLs(resp.Body); len(urls) > 0 {
			result.Parseable = true
			result.URLs = urls
			break
		}
	}
	return result
}

// fetchPages analyzes every sampled page. The homepage body was already
// fetched and is reused; the rest are fetched with bounded concurrency. A
// failed fetch yields a zero-valued sample, never an error.
func (f *CrawlabilityFetcher) fetchPages(ctx context.Context, allPages []string, homepageStatus int, homepageBody []byte) []crawl.PageSample {
	pages := make([]crawl.PageSample, len(allPages))

	var g errgroup.Group
	g.SetLimit(pageFetchConcurrency)
	for i, pageURL := range allPages {
		if i == 0 {
			pages[0] = crawl.AnalyzePage(pageURL, homepageStatus, homepageBody)
			continue
		}
		g.Go(func() error {
			resp, err := f.web.Get(ctx, pageURL)
			if err != nil {
				pages[i] = crawl.ZeroSample(pageURL)
				return nil
			}
			pages[i] = crawl.AnalyzePage(pageURL, resp.StatusCode, resp.Body)
			return nil
		})
	}
	g.Wait()

	return pages
}

// probeViability fetches the first few sampled pages under each probe
// identity and counts attempts that were neither refused nor challenged.
func (f *CrawlabilityFetcher) probeViability(ctx context.Context, allPages []string) crawl.FetchViability {
	testPages := allPages
	if len(testPages) > probePageCount {
		testPages = testPages[:probePageCount]
	}

	total := len(testPages) * len(webclient.ProbeUserAgents)
	var (
		mu         sync.Mutex
		successful int
	)

	var g errgroup.Group
	g.SetLimit(probeConcurrency)
	for _, pageURL := range testPages {
		for _, ua := range webclient.ProbeUserAgents {
			g.Go(func() error {
				resp, err := f.web.GetAs(ctx, pageURL, ua)
				if err != nil {
					return nil
				}
				if webclient.ProbeSucceeded(resp.StatusCode, resp.Body) {
					mu.Lock()
					successful++
					mu.Unlock()
				}
				return nil
			})
		}
	}
	g.Wait()

	return crawl.FetchViability{
		Score:      crawl.ViabilityScore(successful, total),
		Max:        crawl.MaxViability,
		Successful: successful,
		Total:      total,
	}
}

// probeGuidanceFile checks the well-known machine-guidance locations in order
// and scores the first hit: 5 points for substantive content, 2 for a stub.
func (f *CrawlabilityFetcher) probeGuidanceFile(ctx context.Context, origin string) (crawl.GuidanceFile, int) {
	var guidance crawl.GuidanceFile
	score := 0

	for _, path := range guidancePaths {
		resp, err := f.web.Get(ctx, origin+path)
		if err != nil || resp.StatusCode != 200 {
			continue
		}
		contentLen := len(bytes.TrimSpace(resp.Body))
		if contentLen == 0 {
			continue
		}
		p := path
		guidance.Path = &p
		guidance.ContentLen = contentLen
		if contentLen >= 200 {
			score = 5
			break
		}
		score = 2
	}

	return guidance, score
}
