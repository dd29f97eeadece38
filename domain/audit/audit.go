package audit

import "time"

// Audit is one record per site under review. Report authoring creates it
// once; each signal fetcher then mutates its own sub-state independently.
// The record is deleted as a unit, never partially.
type Audit struct {
	ID          string
	CompanyName string
	WebsiteURL  string

	// Structural validator signal (markup issue count from the validator).
	W3C           Signal
	W3CIssueCount *int64
	W3CAuditURL   string

	// Performance scanner signal (mobile strategy).
	PSI         Signal
	PSIAuditURL string

	// Accessibility scanner signal. Score is stored on the same 0-100 scale
	// as every other signal; the fetcher converts at the boundary.
	Accessibility         Signal
	AccessibilityAuditURL string

	// Crawlability analyzer signal. Details holds the full AnalyzerResult
	// snapshot as JSON, replaced wholesale on every successful run.
	Crawlability        Signal
	CrawlabilityDetails []byte

	// Manually entered design review score.
	DesignScore *float64
	DesignGrade string

	// Computed by the aggregate scorer.
	OverallScore *float64
	OverallGrade string

	IsDeleted bool
	CreatedAt time.Time
}

// SignalByKey returns a pointer to the sub-state for the given signal key,
// or nil for an unknown key.
func (a *Audit) SignalByKey(key SignalKey) *Signal {
	switch key {
	case SignalStructural:
		return &a.W3C
	case SignalPerformance:
		return &a.PSI
	case SignalAccessibility:
		return &a.Accessibility
	case SignalCrawlability:
		return &a.Crawlability
	}
	return nil
}

// SignalScore returns the signal's score for aggregation, using 0 for any
// signal that is not currently in the success state.
func (a *Audit) SignalScore(key SignalKey) float64 {
	s := a.SignalByKey(key)
	if s == nil || s.Status != SignalStatusSuccess || s.Score == nil {
		return 0
	}
	return *s.Score
}
