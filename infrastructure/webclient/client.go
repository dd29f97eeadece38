// Package webclient provides the bounded HTTP fetch primitive shared by the
// signal fetchers: per-request timeout, configurable user agent and a hard
// cap on how much of a response body is read.
package webclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultUserAgent is the browser-like identity used for ordinary fetches.
const DefaultUserAgent = "Mozilla/5.0 (compatible; SiteGradeBot/1.0)"

// ProbeUserAgents are the identities exercised by the fetch-viability stage.
var ProbeUserAgents = []string{
	DefaultUserAgent,
	"GPTBot/1.0",
	"OAI-SearchBot/1.0",
}

// challengeMarkers are lowercase substrings that indicate a bot-challenge
// page rather than real content.
var challengeMarkers = []string{
	"captcha",
	"cloudflare",
	"attention required",
	"verify you are human",
	"enable javascript",
	"just a moment",
}

// Response is a fully read, size-capped HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client wraps http.Client with the analyzer's fetch discipline.
type Client struct {
	httpClient  *http.Client
	timeout     time.Duration
	maxBodySize int64
}

// New creates a client with the given per-request timeout and body size cap.
func New(timeout time.Duration, maxBodySize int64) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		timeout:     timeout,
		maxBodySize: maxBodySize,
	}
}

// Get fetches a URL with the default user agent.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.GetAs(ctx, url, DefaultUserAgent)
}

// GetAs fetches a URL presenting the given user agent. The body is read up to
// the configured cap and the connection is always drained or closed.
func (c *Client) GetAs(ctx context.Context, url, userAgent string) (*Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", url, err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// IsChallenge reports whether a response body looks like a bot-challenge page.
func IsChallenge(body []byte) bool {
	lower := strings.ToLower(string(body))
	for _, marker := range challengeMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// IsBlockedStatus reports whether a status code indicates the request was
// refused rather than answered.
func IsBlockedStatus(status int) bool {
	switch status {
	case http.StatusForbidden, http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return true
	}
	return false
}

// ProbeSucceeded applies the viability rule: the attempt counts as successful
// when the status is not a refusal and the body is not a challenge page.
func ProbeSucceeded(status int, body []byte) bool {
	return !IsBlockedStatus(status) && !IsChallenge(body)
}
