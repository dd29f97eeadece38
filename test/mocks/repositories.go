// Package mocks provides testify mocks for the repository contracts.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"sitegrade/domain/audit"
	"sitegrade/domain/content"
	"sitegrade/domain/contracts"
	"sitegrade/domain/scoring"
)

// MockAuditRepository implements AuditRepository for testing
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, a *audit.Audit) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAuditRepository) GetByID(ctx context.Context, id string) (*audit.Audit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.Audit), args.Error(1)
}

func (m *MockAuditRepository) List(ctx context.Context, includeDeleted bool) ([]*audit.Audit, error) {
	args := m.Called(ctx, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.Audit), args.Error(1)
}

func (m *MockAuditRepository) ListScoredSince(ctx context.Context, since time.Time) ([]*audit.Audit, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.Audit), args.Error(1)
}

func (m *MockAuditRepository) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAuditRepository) HardDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAuditRepository) SetSignalFetching(ctx context.Context, id string, key audit.SignalKey) error {
	args := m.Called(ctx, id, key)
	return args.Error(0)
}

func (m *MockAuditRepository) SetSignalSuccess(ctx context.Context, id string, key audit.SignalKey, result contracts.SignalSuccess) error {
	args := m.Called(ctx, id, key, result)
	return args.Error(0)
}

func (m *MockAuditRepository) SetSignalError(ctx context.Context, id string, key audit.SignalKey, message string) error {
	args := m.Called(ctx, id, key, message)
	return args.Error(0)
}

func (m *MockAuditRepository) SetDesignScore(ctx context.Context, id string, score float64, grade string) error {
	args := m.Called(ctx, id, score, grade)
	return args.Error(0)
}

func (m *MockAuditRepository) SetOverall(ctx context.Context, id string, score float64, grade string) error {
	args := m.Called(ctx, id, score, grade)
	return args.Error(0)
}

// MockSettingsRepository implements SettingsRepository for testing
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetActive(ctx context.Context) (*scoring.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scoring.Settings), args.Error(1)
}

func (m *MockSettingsRepository) Update(ctx context.Context, s *scoring.Settings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// MockTemplateRepository implements TemplateRepository for testing
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) GetByName(ctx context.Context, name string) (*content.CopyTemplate, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.CopyTemplate), args.Error(1)
}

func (m *MockTemplateRepository) List(ctx context.Context) ([]*content.CopyTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*content.CopyTemplate), args.Error(1)
}

func (m *MockTemplateRepository) Upsert(ctx context.Context, t *content.CopyTemplate) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}
