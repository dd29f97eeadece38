package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"sitegrade/domain/audit"
	"sitegrade/logging"
)

// PerformanceFetcher runs the external page-speed API with the mobile
// strategy. Network-level failures get one retry; an HTTP error status is
// answered by the API and not retried.
type PerformanceFetcher struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
	executor   failsafe.Executor[*http.Response]
	logger     *logging.Logger
}

// NewPerformanceFetcher creates the performance scanner fetcher.
func NewPerformanceFetcher(apiURL, apiKey string, timeout time.Duration) *PerformanceFetcher {
	retry := retrypolicy.NewBuilder[*http.Response]().
		WithMaxRetries(1).
		HandleIf(func(resp *http.Response, err error) bool {
			return err != nil
		}).
		Build()

	return &PerformanceFetcher{
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		executor:   failsafe.With(retry),
		logger:     logging.Default().WithComponent("performance_fetcher"),
	}
}

func (f *PerformanceFetcher) Key() audit.SignalKey {
	return audit.SignalPerformance
}

func (f *PerformanceFetcher) Fetch(ctx context.Context, websiteURL string) (*Result, error) {
	if f.apiKey == "" {
		return nil, fmt.Errorf("performance API key not configured")
	}

	query := url.Values{}
	query.Set("url", websiteURL)
	query.Set("strategy", "mobile")
	query.Set("category", "performance")
	query.Set("key", f.apiKey)
	requestURL := f.apiURL + "?" + query.Encode()

	resp, err := f.executor.WithContext(ctx).Get(func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, err
		}
		return f.httpClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("performance API fetch failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read performance API response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("performance API error %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed struct {
		LighthouseResult struct {
			Categories struct {
				Performance struct {
					Score *float64 `json:"score"`
				} `json:"performance"`
			} `json:"categories"`
		} `json:"lighthouseResult"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse performance API response: %w", err)
	}

	raw := parsed.LighthouseResult.Categories.Performance.Score
	if raw == nil {
		return nil, fmt.Errorf("could not extract performance score from API response")
	}

	score := math.Round(*raw * 100)
	f.logger.Debug("Performance score fetched", "website_url", websiteURL, "score", score)

	return &Result{
		Score:    score,
		AuditURL: "https://pagespeed.web.dev/report?url=" + url.QueryEscape(websiteURL),
	}, nil
}
