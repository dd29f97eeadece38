package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sitegrade/database"
	"sitegrade/domain/contracts"
	"sitegrade/domain/scoring"
)

// SqlSettingsRepository implements contracts.SettingsRepository. Updates
// deactivate the previous row and insert the new one atomically so the
// single-active-row invariant holds even under concurrent edits.
type SqlSettingsRepository struct {
	*BaseRepository
}

// NewSettingsRepository creates a scoring settings repository.
func NewSettingsRepository(db *database.Database) *SqlSettingsRepository {
	return &SqlSettingsRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *SqlSettingsRepository) GetActive(ctx context.Context) (*scoring.Settings, error) {
	row := r.ReadDB().QueryRowContext(ctx, `
		SELECT id,
		       weight_w3c, weight_psi_mobile, weight_accessibility, weight_design, weight_ai,
		       w3c_issue_penalty,
		       grade_a_min, grade_b_min, grade_c_min, grade_d_min,
		       is_active, updated_at, updated_by
		FROM scoring_settings
		WHERE is_active = 1`)

	var s scoring.Settings
	err := row.Scan(
		&s.ID,
		&s.WeightW3C, &s.WeightPSIMobile, &s.WeightAccessibility, &s.WeightDesign, &s.WeightAI,
		&s.W3CIssuePenalty,
		&s.GradeAMin, &s.GradeBMin, &s.GradeCMin, &s.GradeDMin,
		&s.IsActive, &s.UpdatedAt, &s.UpdatedBy,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, contracts.ErrNoActiveSettings
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active scoring settings: %w", err)
	}
	return &s, nil
}

func (r *SqlSettingsRepository) Update(ctx context.Context, s *scoring.Settings) error {
	return r.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"UPDATE scoring_settings SET is_active = 0 WHERE is_active = 1",
		); err != nil {
			return fmt.Errorf("failed to deactivate scoring settings: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO scoring_settings (
				id,
				weight_w3c, weight_psi_mobile, weight_accessibility, weight_design, weight_ai,
				w3c_issue_penalty,
				grade_a_min, grade_b_min, grade_c_min, grade_d_min,
				is_active, updated_at, updated_by
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
			s.ID,
			s.WeightW3C, s.WeightPSIMobile, s.WeightAccessibility, s.WeightDesign, s.WeightAI,
			s.W3CIssuePenalty,
			s.GradeAMin, s.GradeBMin, s.GradeCMin, s.GradeDMin,
			s.UpdatedAt, s.UpdatedBy,
		); err != nil {
			return fmt.Errorf("failed to insert scoring settings: %w", err)
		}

		return nil
	})
}
