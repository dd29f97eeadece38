package contracts

import (
	"context"
	"time"

	"sitegrade/domain/audit"
)

// SignalSuccess carries everything a fetcher persists for a completed run.
// Optional fields apply only to the signals that produce them: IssueCount and
// AuditURL for the structural validator, AuditURL for the performance and
// accessibility scanners, Details (the JSON snapshot) for the crawlability
// analyzer.
type SignalSuccess struct {
	Score      float64
	Grade      string
	FetchedAt  time.Time
	IssueCount *int64
	AuditURL   string
	Details    []byte
}

// AuditRepository defines the interface for audit record persistence.
// Per-signal writers touch only their own column group so concurrent fetchers
// never clobber each other's state.
type AuditRepository interface {
	Create(ctx context.Context, a *audit.Audit) error
	GetByID(ctx context.Context, id string) (*audit.Audit, error)
	List(ctx context.Context, includeDeleted bool) ([]*audit.Audit, error)
	ListScoredSince(ctx context.Context, since time.Time) ([]*audit.Audit, error)

	SoftDelete(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error

	// Signal state transitions
	SetSignalFetching(ctx context.Context, id string, key audit.SignalKey) error
	SetSignalSuccess(ctx context.Context, id string, key audit.SignalKey, result SignalSuccess) error
	SetSignalError(ctx context.Context, id string, key audit.SignalKey, message string) error

	// Aggregate fields
	SetDesignScore(ctx context.Context, id string, score float64, grade string) error
	SetOverall(ctx context.Context, id string, score float64, grade string) error
}
