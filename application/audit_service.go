package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"sitegrade/domain/audit"
	"sitegrade/domain/contracts"
	"sitegrade/domain/crawl"
	"sitegrade/logging"
)

// AuditService is the authoring boundary for audit records.
type AuditService struct {
	audits  contracts.AuditRepository
	signals *SignalService
	logger  *logging.Logger
}

// NewAuditService creates the audit authoring service.
func NewAuditService(audits contracts.AuditRepository, signals *SignalService) *AuditService {
	return &AuditService{
		audits:  audits,
		signals: signals,
		logger:  logging.Default().WithComponent("audit_service"),
	}
}

// Create stores a new audit record and kicks off every signal fetch in the
// background. The record is returned immediately with all signals idle or
// already fetching; callers observe progress by re-reading it.
func (s *AuditService) Create(ctx context.Context, companyName, websiteURL string) (*audit.Audit, error) {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return nil, fmt.Errorf("company name is required")
	}

	normalized, err := crawl.Normalize(websiteURL)
	if err != nil {
		return nil, err
	}

	a := &audit.Audit{
		ID:          uuid.NewString(),
		CompanyName: companyName,
		WebsiteURL:  normalized,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.audits.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("Audit created", "audit_id", a.ID, "company", companyName, "website_url", normalized)
	s.signals.TriggerAll(ctx, a.ID)

	return s.audits.GetByID(ctx, a.ID)
}

// Get returns one audit record.
func (s *AuditService) Get(ctx context.Context, id string) (*audit.Audit, error) {
	return s.audits.GetByID(ctx, id)
}

// List returns all live audit records, newest first.
func (s *AuditService) List(ctx context.Context) ([]*audit.Audit, error) {
	return s.audits.List(ctx, false)
}

// Delete removes an audit record. The default is a soft delete that keeps the
// row recoverable; hard removes it permanently. Either way the record and all
// its signal sub-states go as a unit.
func (s *AuditService) Delete(ctx context.Context, id string, hard bool) error {
	if hard {
		return s.audits.HardDelete(ctx, id)
	}
	return s.audits.SoftDelete(ctx, id)
}
