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

// AccessibilityFetcher runs the external accessibility API. The provider's
// own 0-10 score is preferred when present; otherwise a logarithmic estimate
// is derived from the issue counts. Either way the result is converted to the
// 0-100 scale shared by all signals.
type AccessibilityFetcher struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
	executor   failsafe.Executor[*http.Response]
	logger     *logging.Logger
}

// NewAccessibilityFetcher creates the accessibility scanner fetcher.
func NewAccessibilityFetcher(apiURL, apiKey string, timeout time.Duration) *AccessibilityFetcher {
	retry := retrypolicy.NewBuilder[*http.Response]().
		WithMaxRetries(1).
		HandleIf(func(resp *http.Response, err error) bool {
			return err != nil
		}).
		Build()

	return &AccessibilityFetcher{
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		executor:   failsafe.With(retry),
		logger:     logging.Default().WithComponent("accessibility_fetcher"),
	}
}

func (f *AccessibilityFetcher) Key() audit.SignalKey {
	return audit.SignalAccessibility
}

func (f *AccessibilityFetcher) Fetch(ctx context.Context, websiteURL string) (*Result, error) {
	if f.apiKey == "" {
		return nil, fmt.Errorf("accessibility API key not configured")
	}

	query := url.Values{}
	query.Set("key", f.apiKey)
	query.Set("url", websiteURL)
	query.Set("reporttype", "1")
	query.Set("format", "json")
	requestURL := f.apiURL + "?" + query.Encode()

	resp, err := f.executor.WithContext(ctx).Get(func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, err
		}
		return f.httpClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("accessibility API fetch failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read accessibility API response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("accessibility API error %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed struct {
		Statistics struct {
			AIMScore *float64 `json:"AIMscore"`
		} `json:"statistics"`
		Categories map[string]struct {
			Count float64 `json:"count"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse accessibility API response: %w", err)
	}
	if parsed.Categories == nil {
		return nil, fmt.Errorf("could not extract categories from accessibility API response")
	}

	errors := parsed.Categories["error"].Count
	alerts := parsed.Categories["alert"].Count
	contrast := parsed.Categories["contrast"].Count

	var score10 float64
	if aim := parsed.Statistics.AIMScore; aim != nil && *aim >= 0 {
		score10 = math.Round(clampFloat(*aim, 1, 10)*10) / 10
	} else {
		score10 = fallbackScore(errors, alerts, contrast, parsed.Categories["structure"].Count)
		f.logger.Warn("Accessibility score estimated from issue counts",
			"website_url", websiteURL, "score", score10,
			"errors", errors, "alerts", alerts, "contrast", contrast)
	}

	return &Result{
		Score:    score10 * 10,
		AuditURL: "https://wave.webaim.org/report#/" + url.QueryEscape(websiteURL),
	}, nil
}

// fallbackScore estimates a 0-10 score from raw issue counts when the
// provider omits its own. The impact term saturates around 200, so the curve
// stays on a 10..1 range.
func fallbackScore(errors, alerts, contrast, elements float64) float64 {
	if elements < 1 {
		elements = 1
	}
	density := errors / elements
	impact := errors*3 + alerts + contrast*2 + density*1000
	raw := 10 - (math.Log1p(impact)/math.Log1p(200))*9
	return math.Round(clampFloat(raw, 1, 10)*10) / 10
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
