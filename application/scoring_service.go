package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sitegrade/domain/audit"
	"sitegrade/domain/contracts"
	"sitegrade/domain/scoring"
	"sitegrade/logging"
)

// ScoringService computes the weighted overall score and manages the scoring
// configuration. Recomputation is idempotent and independent of signal
// completion order: signals that have not succeeded contribute zero.
type ScoringService struct {
	audits   contracts.AuditRepository
	settings contracts.SettingsRepository
	logger   *logging.Logger
}

// NewScoringService creates the aggregate scoring service.
func NewScoringService(audits contracts.AuditRepository, settings contracts.SettingsRepository) *ScoringService {
	return &ScoringService{
		audits:   audits,
		settings: settings,
		logger:   logging.Default().WithComponent("scoring_service"),
	}
}

// Recompute recalculates and persists the overall score and grade for one audit.
func (s *ScoringService) Recompute(ctx context.Context, auditID string) (float64, string, error) {
	a, err := s.audits.GetByID(ctx, auditID)
	if err != nil {
		return 0, "", err
	}

	settings, err := s.settings.GetActive(ctx)
	if err != nil {
		s.logger.Warn("Falling back to default scoring settings", "error", err)
		settings = scoring.DefaultSettings()
	}

	design := 0.0
	if a.DesignScore != nil {
		design = *a.DesignScore
	}

	overall := settings.Overall(scoring.SignalScores{
		W3C:           a.SignalScore(audit.SignalStructural),
		PSIMobile:     a.SignalScore(audit.SignalPerformance),
		Accessibility: a.SignalScore(audit.SignalAccessibility),
		AI:            a.SignalScore(audit.SignalCrawlability),
		Design:        design,
	})
	grade := settings.Grade(overall)

	if err := s.audits.SetOverall(ctx, auditID, overall, grade); err != nil {
		return 0, "", err
	}

	s.logger.Debug("Overall score recomputed", "audit_id", auditID, "score", overall, "grade", grade)
	return overall, grade, nil
}

// SetDesignScore stores a manual design review score and refreshes the
// overall score.
func (s *ScoringService) SetDesignScore(ctx context.Context, auditID string, score float64) error {
	if score < 0 || score > 100 {
		return fmt.Errorf("design score must be between 0 and 100, got %g", score)
	}

	settings, err := s.settings.GetActive(ctx)
	if err != nil {
		settings = scoring.DefaultSettings()
	}
	if err := s.audits.SetDesignScore(ctx, auditID, score, settings.Grade(score)); err != nil {
		return err
	}

	_, _, err = s.Recompute(ctx, auditID)
	return err
}

// GetSettings returns the active scoring configuration, or the shipped
// defaults when no row has been activated yet.
func (s *ScoringService) GetSettings(ctx context.Context) (*scoring.Settings, error) {
	settings, err := s.settings.GetActive(ctx)
	if errors.Is(err, contracts.ErrNoActiveSettings) {
		return scoring.DefaultSettings(), nil
	}
	return settings, err
}

// UpdateSettings validates and activates a new scoring configuration.
// Existing audit records are not rescored automatically; use RecalculateAll.
func (s *ScoringService) UpdateSettings(ctx context.Context, settings *scoring.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if settings.ID == "" {
		settings.ID = uuid.NewString()
	}
	settings.IsActive = true
	settings.UpdatedAt = time.Now().UTC()

	if err := s.settings.Update(ctx, settings); err != nil {
		return err
	}

	s.logger.Info("Scoring settings updated", "settings_id", settings.ID, "updated_by", settings.UpdatedBy)
	return nil
}

// RecalculateAll recomputes the overall score for every live audit created in
// the last sinceDays days. Individual failures are logged and skipped; the
// count of successfully rescored audits is returned.
func (s *ScoringService) RecalculateAll(ctx context.Context, sinceDays int) (int, error) {
	if sinceDays <= 0 {
		sinceDays = 90
	}
	since := time.Now().UTC().AddDate(0, 0, -sinceDays)

	audits, err := s.audits.ListScoredSince(ctx, since)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, a := range audits {
		if _, _, err := s.Recompute(ctx, a.ID); err != nil {
			s.logger.Error("Failed to recompute audit during bulk recalculation",
				"audit_id", a.ID, "error", err)
			continue
		}
		updated++
	}

	s.logger.Info("Bulk recalculation complete", "updated", updated, "total", len(audits))
	return updated, nil
}
