// Package application orchestrates the domain: audit authoring, the
// per-signal status machine, aggregate scoring and report copy assembly.
package application

import (
	"context"
	"fmt"
	"time"

	"sitegrade/domain/audit"
	"sitegrade/domain/contracts"
	"sitegrade/domain/scoring"
	"sitegrade/logging"
	"sitegrade/platform/events"
	"sitegrade/platform/fetchers"
)

// RunOutcome is the advisory response of a synchronous signal run. The
// persisted audit record remains the ground truth; callers must not treat a
// lost or failed response as meaning nothing was stored.
type RunOutcome struct {
	Success bool     `json:"success"`
	Score   *float64 `json:"score,omitempty"`
	Grade   string   `json:"grade,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// SignalService drives the per-signal status machine: idle/error -> fetching
// -> success or error. There is no server-side mutual exclusion; concurrent
// runs of the same signal resolve by last write wins.
type SignalService struct {
	audits   contracts.AuditRepository
	settings contracts.SettingsRepository
	registry *fetchers.Registry
	bus      *events.SignalEventBus
	logger   *logging.Logger
}

// NewSignalService creates the signal orchestration service.
func NewSignalService(
	audits contracts.AuditRepository,
	settings contracts.SettingsRepository,
	registry *fetchers.Registry,
	bus *events.SignalEventBus,
) *SignalService {
	return &SignalService{
		audits:   audits,
		settings: settings,
		registry: registry,
		bus:      bus,
		logger:   logging.Default().WithComponent("signal_service"),
	}
}

// Run executes one signal fetch synchronously. A fetch failure is not an
// error return: it resolves the run to the error status and reports the
// outcome. Error returns are reserved for unknown audits/signals and
// persistence failures.
func (s *SignalService) Run(ctx context.Context, auditID string, key audit.SignalKey) (*RunOutcome, error) {
	if !key.Valid() {
		return nil, fmt.Errorf("unknown signal: %q", key)
	}
	fetcher, err := s.registry.Get(key)
	if err != nil {
		return nil, err
	}

	a, err := s.audits.GetByID(ctx, auditID)
	if err != nil {
		return nil, err
	}

	if err := s.audits.SetSignalFetching(ctx, auditID, key); err != nil {
		return nil, err
	}
	s.logger.Signal("Signal fetch started", string(key), auditID, "website_url", a.WebsiteURL)

	started := time.Now()
	result, fetchErr := s.fetchSafely(ctx, fetcher, a.WebsiteURL)
	if fetchErr != nil {
		message := audit.TruncateError(fetchErr)
		if err := s.audits.SetSignalError(ctx, auditID, key, message); err != nil {
			return nil, err
		}
		s.logger.SignalError("Signal fetch failed", fetchErr, string(key), auditID)
		s.bus.PublishSignalFailed(events.SignalFailedEvent{AuditID: auditID, Key: key, Error: message})
		return &RunOutcome{Success: false, Error: message}, nil
	}

	score, grade := s.resolve(ctx, key, result)
	success := contracts.SignalSuccess{
		Score:      score,
		Grade:      grade,
		FetchedAt:  time.Now().UTC(),
		IssueCount: result.IssueCount,
		AuditURL:   result.AuditURL,
		Details:    result.Details,
	}
	if err := s.audits.SetSignalSuccess(ctx, auditID, key, success); err != nil {
		return nil, err
	}

	s.logger.Signal("Signal fetch succeeded", string(key), auditID,
		"score", score, "grade", grade, "duration_ms", time.Since(started).Milliseconds())
	s.bus.PublishSignalCompleted(events.SignalCompletedEvent{
		AuditID: auditID,
		Key:     key,
		Score:   score,
		Grade:   grade,
	})

	return &RunOutcome{Success: true, Score: &score, Grade: grade}, nil
}

// TriggerAll starts every signal fetch in the background. The runs outlive
// the caller's request context but still inherit its values.
func (s *SignalService) TriggerAll(ctx context.Context, auditID string) {
	bgCtx := context.WithoutCancel(ctx)
	for _, key := range audit.AllSignals {
		go func(k audit.SignalKey) {
			if _, err := s.Run(bgCtx, auditID, k); err != nil {
				s.logger.SignalError("Background signal run failed", err, string(k), auditID)
			}
		}(key)
	}
}

// fetchSafely invokes the fetcher and converts a panic into an error so a
// misbehaving fetcher resolves the status machine instead of wedging it in
// the fetching state.
func (s *SignalService) fetchSafely(ctx context.Context, fetcher fetchers.SignalFetcher, websiteURL string) (result *fetchers.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("signal fetcher panicked: %v", r)
		}
	}()
	return fetcher.Fetch(ctx, websiteURL)
}

// resolve turns a raw fetch result into the persisted score and grade. The
// structural validator reports an issue count that is scored with the active
// penalty; signals without a fixed grading scale are graded with the active
// thresholds.
func (s *SignalService) resolve(ctx context.Context, key audit.SignalKey, result *fetchers.Result) (float64, string) {
	settings := s.activeSettings(ctx)

	score := result.Score
	if key == audit.SignalStructural && result.IssueCount != nil {
		score = settings.StructuralScore(*result.IssueCount)
	}

	grade := result.Grade
	if grade == "" {
		grade = settings.Grade(score)
	}
	return score, grade
}

func (s *SignalService) activeSettings(ctx context.Context) *scoring.Settings {
	settings, err := s.settings.GetActive(ctx)
	if err != nil {
		s.logger.Warn("Falling back to default scoring settings", "error", err)
		return scoring.DefaultSettings()
	}
	return settings
}
