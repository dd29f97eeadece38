package contracts

import (
	"context"

	"sitegrade/domain/content"
)

// TemplateRepository persists named copy templates.
type TemplateRepository interface {
	GetByName(ctx context.Context, name string) (*content.CopyTemplate, error)
	List(ctx context.Context) ([]*content.CopyTemplate, error)
	Upsert(ctx context.Context, t *content.CopyTemplate) error
}
