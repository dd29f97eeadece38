package audit

import (
	"fmt"
	"time"
)

// SignalStatus represents the lifecycle state of one externally fetched signal.
type SignalStatus string

const (
	SignalStatusIdle     SignalStatus = "idle"
	SignalStatusFetching SignalStatus = "fetching"
	SignalStatusSuccess  SignalStatus = "success"
	SignalStatusError    SignalStatus = "error"
)

// SignalKey identifies one of the independently fetched technical signals.
type SignalKey string

const (
	SignalStructural    SignalKey = "w3c"
	SignalPerformance   SignalKey = "psi"
	SignalAccessibility SignalKey = "wave"
	SignalCrawlability  SignalKey = "ai"
)

// AllSignals lists every signal in the order the authoring flow triggers them.
var AllSignals = []SignalKey{
	SignalStructural,
	SignalPerformance,
	SignalAccessibility,
	SignalCrawlability,
}

// maxErrorLen bounds persisted error messages; every fetcher truncates to this.
const maxErrorLen = 500

// Valid reports whether the key names a known signal.
func (k SignalKey) Valid() bool {
	switch k {
	case SignalStructural, SignalPerformance, SignalAccessibility, SignalCrawlability:
		return true
	}
	return false
}

// Signal holds the per-signal sub-state persisted on the audit record.
type Signal struct {
	Status    SignalStatus
	Score     *float64
	Grade     string
	LastError string
	FetchedAt *time.Time
}

// CanRetry reports whether a user-initiated retry may re-enter fetching.
// Fetching is re-enterable too: there is no server-side mutual exclusion and
// concurrent runs resolve by last write wins.
func (s *Signal) CanRetry() bool {
	return true
}

// MarkFetching transitions the signal to fetching, clearing any prior error
// and timestamp. Prior scores are left in place until the run resolves.
func (s *Signal) MarkFetching() {
	s.Status = SignalStatusFetching
	s.LastError = ""
	s.FetchedAt = nil
}

// MarkSuccess records a completed run. Score, grade and fetched-at are set
// together so a success state is never observed partially populated.
func (s *Signal) MarkSuccess(score float64, grade string, at time.Time) {
	s.Status = SignalStatusSuccess
	s.Score = &score
	s.Grade = grade
	s.LastError = ""
	s.FetchedAt = &at
}

// MarkError records a failed run. Any previously persisted score and grade
// survive: a failed retry must not erase an earlier success.
func (s *Signal) MarkError(err error) {
	s.Status = SignalStatusError
	s.LastError = TruncateError(err)
}

// Validate checks the success/error invariants on the signal sub-state.
func (s *Signal) Validate() error {
	switch s.Status {
	case SignalStatusSuccess:
		if s.Score == nil || s.Grade == "" || s.FetchedAt == nil {
			return fmt.Errorf("success signal missing score, grade or fetched_at")
		}
	case SignalStatusError:
		if s.LastError == "" {
			return fmt.Errorf("error signal missing last_error")
		}
	case SignalStatusIdle, SignalStatusFetching:
		// No completion fields required.
	default:
		return fmt.Errorf("unknown signal status: %q", s.Status)
	}
	return nil
}

// TruncateError renders an error as a bounded human-readable message.
func TruncateError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if len(msg) > maxErrorLen {
		msg = msg[:maxErrorLen]
	}
	return msg
}
