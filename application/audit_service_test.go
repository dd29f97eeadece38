package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sitegrade/domain/audit"
	"sitegrade/domain/contracts"
	"sitegrade/platform/events"
	"sitegrade/platform/fetchers"
	"sitegrade/test/mocks"
)

func newAuditServiceFixture() (*AuditService, *mocks.MockAuditRepository) {
	auditRepo := new(mocks.MockAuditRepository)
	settingsRepo := new(mocks.MockSettingsRepository)

	// Empty registry: background signal runs resolve immediately with an
	// unknown-fetcher error and never touch the repositories.
	signals := NewSignalService(auditRepo, settingsRepo, fetchers.NewRegistry(), events.NewSignalEventBus())
	return NewAuditService(auditRepo, signals), auditRepo
}

func TestCreateAudit(t *testing.T) {
	t.Run("normalizes url and persists", func(t *testing.T) {
		service, auditRepo := newAuditServiceFixture()

		var createdID string
		auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *audit.Audit) bool {
			createdID = a.ID
			return a.CompanyName == "Acme Plumbing" &&
				a.WebsiteURL == "https://example.com" &&
				a.ID != "" &&
				!a.CreatedAt.IsZero()
		})).Return(nil)
		auditRepo.On("GetByID", mock.Anything, mock.Anything).Return(testAudit(), nil)

		got, err := service.Create(context.Background(), "  Acme Plumbing  ", "example.com/")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.NotEmpty(t, createdID)
		auditRepo.AssertExpectations(t)
	})

	t.Run("company name required", func(t *testing.T) {
		service, auditRepo := newAuditServiceFixture()
		_, err := service.Create(context.Background(), "   ", "example.com")
		assert.Error(t, err)
		auditRepo.AssertNotCalled(t, "Create")
	})

	t.Run("invalid url rejected", func(t *testing.T) {
		service, auditRepo := newAuditServiceFixture()
		_, err := service.Create(context.Background(), "Acme", "")
		assert.Error(t, err)
		auditRepo.AssertNotCalled(t, "Create")
	})
}

func TestGetAudit(t *testing.T) {
	service, auditRepo := newAuditServiceFixture()
	auditRepo.On("GetByID", mock.Anything, "audit-1").Return(testAudit(), nil)

	got, err := service.Get(context.Background(), "audit-1")
	require.NoError(t, err)
	assert.Equal(t, "audit-1", got.ID)
}

func TestListAudits(t *testing.T) {
	service, auditRepo := newAuditServiceFixture()
	auditRepo.On("List", mock.Anything, false).Return([]*audit.Audit{testAudit()}, nil)

	got, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestDeleteAudit(t *testing.T) {
	t.Run("soft by default", func(t *testing.T) {
		service, auditRepo := newAuditServiceFixture()
		auditRepo.On("SoftDelete", mock.Anything, "audit-1").Return(nil)

		require.NoError(t, service.Delete(context.Background(), "audit-1", false))
		auditRepo.AssertNotCalled(t, "HardDelete")
	})

	t.Run("hard on request", func(t *testing.T) {
		service, auditRepo := newAuditServiceFixture()
		auditRepo.On("HardDelete", mock.Anything, "audit-1").Return(nil)

		require.NoError(t, service.Delete(context.Background(), "audit-1", true))
		auditRepo.AssertNotCalled(t, "SoftDelete")
	})

	t.Run("missing audit surfaces", func(t *testing.T) {
		service, auditRepo := newAuditServiceFixture()
		auditRepo.On("SoftDelete", mock.Anything, "missing").Return(contracts.ErrAuditNotFound)

		err := service.Delete(context.Background(), "missing", false)
		assert.ErrorIs(t, err, contracts.ErrAuditNotFound)
	})
}
