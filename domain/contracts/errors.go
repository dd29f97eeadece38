package contracts

import "errors"

// Common errors for domain contracts
var (
	// ErrAuditNotFound occurs when no audit record exists for the requested ID
	ErrAuditNotFound = errors.New("audit not found")

	// ErrTemplateNotFound occurs when no copy template exists for the requested name
	ErrTemplateNotFound = errors.New("copy template not found")

	// ErrNoActiveSettings occurs when the scoring settings table has no active row
	ErrNoActiveSettings = errors.New("no active scoring settings")
)
