package application

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"sitegrade/domain/content"
	"sitegrade/domain/contracts"
	"sitegrade/logging"
)

const (
	copyCacheTTL     = 10 * time.Minute
	copyCacheCleanup = 30 * time.Minute
)

// CopyService serves report copy templates through a read-through cache.
// Writes go straight to storage and invalidate the cache, so stale copy is
// bounded by the TTL only when edits happen out of band.
type CopyService struct {
	templates contracts.TemplateRepository
	cache     *cache.Cache
	logger    *logging.Logger
}

// NewCopyService creates the copy template service.
func NewCopyService(templates contracts.TemplateRepository) *CopyService {
	return &CopyService{
		templates: templates,
		cache:     cache.New(copyCacheTTL, copyCacheCleanup),
		logger:    logging.Default().WithComponent("copy_service"),
	}
}

// Get returns one template, from cache when warm.
func (s *CopyService) Get(ctx context.Context, name string) (*content.CopyTemplate, error) {
	if cached, found := s.cache.Get(name); found {
		return cached.(*content.CopyTemplate), nil
	}

	t, err := s.templates.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	s.cache.Set(name, t, cache.DefaultExpiration)
	return t, nil
}

// Render resolves a template and substitutes placeholders from vars.
func (s *CopyService) Render(ctx context.Context, name string, vars map[string]string) (string, error) {
	t, err := s.Get(ctx, name)
	if err != nil {
		return "", err
	}
	return t.Render(vars), nil
}

// List returns every stored template, bypassing the cache.
func (s *CopyService) List(ctx context.Context) ([]*content.CopyTemplate, error) {
	return s.templates.List(ctx)
}

// Update stores a template and drops its cache entry.
func (s *CopyService) Update(ctx context.Context, t *content.CopyTemplate) error {
	t.UpdatedAt = time.Now().UTC()
	if err := s.templates.Upsert(ctx, t); err != nil {
		return err
	}
	s.cache.Delete(t.Name)
	return nil
}

// Invalidate drops every cached template.
func (s *CopyService) Invalidate() {
	s.cache.Flush()
	s.logger.Debug("Copy template cache invalidated")
}
