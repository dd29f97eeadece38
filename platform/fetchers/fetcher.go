// Package fetchers contains the four signal fetchers: the structural
// validator, the performance scanner, the accessibility scanner and the AI
// crawlability analyzer. Each implements SignalFetcher and runs through the
// same status machine in the application layer.
package fetchers

import (
	"context"
	"fmt"
	"sync"

	"sitegrade/domain/audit"
)

// Result is the raw outcome of one signal run. Score is on the 0-100 scale.
// Grade is set only by fetchers with a fixed grading scale; when empty the
// caller grades the score with the active scoring settings. IssueCount,
// AuditURL and Details apply only to the signals that produce them.
type Result struct {
	Score      float64
	Grade      string
	IssueCount *int64
	AuditURL   string
	Details    []byte
}

// SignalFetcher runs one external signal check against a website.
type SignalFetcher interface {
	Key() audit.SignalKey
	Fetch(ctx context.Context, websiteURL string) (*Result, error)
}

// Registry manages the set of registered signal fetchers. This keeps the
// application layer decoupled from concrete fetcher construction.
type Registry struct {
	mu       sync.RWMutex
	fetchers map[audit.SignalKey]SignalFetcher
}

// NewRegistry creates an empty fetcher registry.
func NewRegistry() *Registry {
	return &Registry{
		fetchers: make(map[audit.SignalKey]SignalFetcher),
	}
}

// Register adds a fetcher under its own key.
func (r *Registry) Register(f SignalFetcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchers[f.Key()] = f
}

// Get retrieves the fetcher for a signal key.
// Returns an error if no fetcher is registered for the given key.
func (r *Registry) Get(key audit.SignalKey) (SignalFetcher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, exists := r.fetchers[key]
	if !exists {
		return nil, fmt.Errorf("no fetcher registered for signal: %s", key)
	}
	return f, nil
}

// Keys returns all registered signal keys.
func (r *Registry) Keys() []audit.SignalKey {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]audit.SignalKey, 0, len(r.fetchers))
	for key := range r.fetchers {
		keys = append(keys, key)
	}
	return keys
}
