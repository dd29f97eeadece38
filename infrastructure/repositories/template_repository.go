package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sitegrade/database"
	"sitegrade/domain/content"
	"sitegrade/domain/contracts"
)

// SqlTemplateRepository implements contracts.TemplateRepository.
type SqlTemplateRepository struct {
	*BaseRepository
}

// NewTemplateRepository creates a copy template repository.
func NewTemplateRepository(db *database.Database) *SqlTemplateRepository {
	return &SqlTemplateRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *SqlTemplateRepository) GetByName(ctx context.Context, name string) (*content.CopyTemplate, error) {
	row := r.ReadDB().QueryRowContext(ctx,
		"SELECT name, content, updated_at FROM copy_templates WHERE name = ?", name)

	var t content.CopyTemplate
	err := row.Scan(&t.Name, &t.Content, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, contracts.ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get copy template %q: %w", name, err)
	}
	return &t, nil
}

func (r *SqlTemplateRepository) List(ctx context.Context) ([]*content.CopyTemplate, error) {
	rows, err := r.ReadDB().QueryContext(ctx,
		"SELECT name, content, updated_at FROM copy_templates ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list copy templates: %w", err)
	}
	defer rows.Close()

	var templates []*content.CopyTemplate
	for rows.Next() {
		var t content.CopyTemplate
		if err := rows.Scan(&t.Name, &t.Content, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan copy template row: %w", err)
		}
		templates = append(templates, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate copy template rows: %w", err)
	}
	return templates, nil
}

func (r *SqlTemplateRepository) Upsert(ctx context.Context, t *content.CopyTemplate) error {
	_, err := r.WriteDB().ExecContext(ctx, `
		INSERT INTO copy_templates (name, content, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		t.Name, t.Content, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert copy template %q: %w", t.Name, err)
	}
	return nil
}
