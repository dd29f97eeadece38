package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sitegrade/domain/audit"
	"sitegrade/infrastructure/webclient"
	"sitegrade/logging"
)

const validatorErrorSnippetLen = 120

// StructuralFetcher checks markup quality through the Nu HTML validator.
// It tries a direct URL check first; when the validator cannot reach the site
// itself it falls back to fetching the HTML and posting it for validation.
type StructuralFetcher struct {
	validatorURL string
	httpClient   *http.Client
	web          *webclient.Client
	logger       *logging.Logger
}

// NewStructuralFetcher creates the structural validator fetcher.
func NewStructuralFetcher(validatorURL string, timeout time.Duration, web *webclient.Client) *StructuralFetcher {
	return &StructuralFetcher{
		validatorURL: strings.TrimRight(validatorURL, "/") + "/",
		httpClient:   &http.Client{Timeout: timeout},
		web:          web,
		logger:       logging.Default().WithComponent("structural_fetcher"),
	}
}

func (f *StructuralFetcher) Key() audit.SignalKey {
	return audit.SignalStructural
}

func (f *StructuralFetcher) Fetch(ctx context.Context, websiteURL string) (*Result, error) {
	issueCount, err1 := f.checkByURL(ctx, websiteURL)
	if err1 != nil {
		f.logger.Warn("Direct validator check failed, falling back to POST",
			"website_url", websiteURL, "error", err1)

		var err2 error
		issueCount, err2 = f.checkByUpload(ctx, websiteURL)
		if err2 != nil {
			return nil, fmt.Errorf("attempt 1: %s. attempt 2: %s",
				truncate(err1.Error(), validatorErrorSnippetLen),
				truncate(err2.Error(), validatorErrorSnippetLen))
		}
	}

	return &Result{
		IssueCount: &issueCount,
		AuditURL:   f.validatorURL + "?doc=" + url.QueryEscape(websiteURL),
	}, nil
}

// checkByURL asks the validator to fetch and validate the page itself.
func (f *StructuralFetcher) checkByURL(ctx context.Context, websiteURL string) (int64, error) {
	checkURL := f.validatorURL + "?doc=" + url.QueryEscape(websiteURL) + "&out=json"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, checkURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build validator request: %w", err)
	}
	req.Header.Set("User-Agent", webclient.DefaultUserAgent)
	req.Header.Set("Accept", "application/json")

	return f.readIssueCount(req)
}

// checkByUpload fetches the page HTML and posts it to the validator.
func (f *StructuralFetcher) checkByUpload(ctx context.Context, websiteURL string) (int64, error) {
	page, err := f.web.Get(ctx, websiteURL)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch website HTML: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		f.validatorURL+"?out=json", strings.NewReader(string(page.Body)))
	if err != nil {
		return 0, fmt.Errorf("failed to build validator POST request: %w", err)
	}
	req.Header.Set("User-Agent", webclient.DefaultUserAgent)
	req.Header.Set("Content-Type", "text/html; charset=utf-8")

	return f.readIssueCount(req)
}

func (f *StructuralFetcher) readIssueCount(req *http.Request) (int64, error) {
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("validator request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read validator response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("validator returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed struct {
		Messages []struct {
			Type    string `json:"type"`
			SubType string `json:"subType"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("unexpected validator response format: %w", err)
	}
	if parsed.Messages == nil {
		return 0, fmt.Errorf("unexpected validator response format: missing messages")
	}

	// Issues are errors plus info/warning messages.
	var count int64
	for _, m := range parsed.Messages {
		if m.Type == "error" || (m.Type == "info" && m.SubType == "warning") {
			count++
		}
	}
	return count, nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
