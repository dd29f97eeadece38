package contracts

import (
	"context"

	"sitegrade/domain/scoring"
)

// SettingsRepository persists the scoring configuration. Exactly one row is
// active at a time; Update deactivates the previous row and inserts the new
// one in a single transaction.
type SettingsRepository interface {
	GetActive(ctx context.Context) (*scoring.Settings, error)
	Update(ctx context.Context, s *scoring.Settings) error
}
