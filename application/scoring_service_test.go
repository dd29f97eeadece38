package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sitegrade/domain/audit"
	"sitegrade/domain/contracts"
	"sitegrade/domain/scoring"
	"sitegrade/test/mocks"
)

func newScoringServiceFixture() (*ScoringService, *mocks.MockAuditRepository, *mocks.MockSettingsRepository) {
	auditRepo := new(mocks.MockAuditRepository)
	settingsRepo := new(mocks.MockSettingsRepository)
	return NewScoringService(auditRepo, settingsRepo), auditRepo, settingsRepo
}

func TestRecompute(t *testing.T) {
	now := time.Now().UTC()

	t.Run("all signals and design present", func(t *testing.T) {
		service, auditRepo, settingsRepo := newScoringServiceFixture()

		a := testAudit()
		a.W3C.MarkSuccess(90, "A", now)
		a.PSI.MarkSuccess(70, "C", now)
		a.Accessibility.MarkSuccess(80, "B", now)
		a.Crawlability.MarkSuccess(50, "F", now)
		design := 0.0
		a.DesignScore = &design

		auditRepo.On("GetByID", mock.Anything, "audit-1").Return(a, nil)
		settingsRepo.On("GetActive", mock.Anything).Return(scoring.DefaultSettings(), nil)
		// 90*.27 + 70*.27 + 80*.18 + 0*.18 + 50*.10 = 62.6 -> 63 -> D
		auditRepo.On("SetOverall", mock.Anything, "audit-1", 63.0, "D").Return(nil)

		score, grade, err := service.Recompute(context.Background(), "audit-1")
		require.NoError(t, err)
		assert.Equal(t, 63.0, score)
		assert.Equal(t, "D", grade)
		auditRepo.AssertExpectations(t)
	})

	t.Run("non-success signals contribute zero", func(t *testing.T) {
		service, auditRepo, settingsRepo := newScoringServiceFixture()

		a := testAudit()
		a.W3C.MarkSuccess(100, "A", now)
		a.PSI.MarkFetching()
		a.Accessibility.MarkError(errors.New("down"))

		auditRepo.On("GetByID", mock.Anything, "audit-1").Return(a, nil)
		settingsRepo.On("GetActive", mock.Anything).Return(scoring.DefaultSettings(), nil)
		auditRepo.On("SetOverall", mock.Anything, "audit-1", 27.0, "F").Return(nil)

		score, _, err := service.Recompute(context.Background(), "audit-1")
		require.NoError(t, err)
		assert.Equal(t, 27.0, score)
	})

	t.Run("order independence", func(t *testing.T) {
		// The same final states yield the same score no matter which signal
		// resolved last.
		service, auditRepo, settingsRepo := newScoringServiceFixture()

		a := testAudit()
		a.Crawlability.MarkSuccess(100, "A", now)
		a.W3C.MarkSuccess(100, "A", now)

		auditRepo.On("GetByID", mock.Anything, "audit-1").Return(a, nil)
		settingsRepo.On("GetActive", mock.Anything).Return(scoring.DefaultSettings(), nil)
		auditRepo.On("SetOverall", mock.Anything, "audit-1", 37.0, "F").Return(nil)

		score, _, err := service.Recompute(context.Background(), "audit-1")
		require.NoError(t, err)
		assert.Equal(t, 37.0, score)
	})

	t.Run("settings failure falls back to defaults", func(t *testing.T) {
		service, auditRepo, settingsRepo := newScoringServiceFixture()

		a := testAudit()
		a.W3C.MarkSuccess(100, "A", now)

		auditRepo.On("GetByID", mock.Anything, "audit-1").Return(a, nil)
		settingsRepo.On("GetActive", mock.Anything).Return(nil, errors.New("db down"))
		auditRepo.On("SetOverall", mock.Anything, "audit-1", 27.0, "F").Return(nil)

		_, _, err := service.Recompute(context.Background(), "audit-1")
		assert.NoError(t, err)
	})

	t.Run("unknown audit", func(t *testing.T) {
		service, auditRepo, _ := newScoringServiceFixture()
		auditRepo.On("GetByID", mock.Anything, "missing").Return(nil, contracts.ErrAuditNotFound)

		_, _, err := service.Recompute(context.Background(), "missing")
		assert.ErrorIs(t, err, contracts.ErrAuditNotFound)
	})
}

func TestSetDesignScore(t *testing.T) {
	t.Run("stores grade and recomputes", func(t *testing.T) {
		service, auditRepo, settingsRepo := newScoringServiceFixture()

		a := testAudit()
		design := 85.0
		a.DesignScore = &design

		settingsRepo.On("GetActive", mock.Anything).Return(scoring.DefaultSettings(), nil)
		auditRepo.On("SetDesignScore", mock.Anything, "audit-1", 85.0, "B").Return(nil)
		auditRepo.On("GetByID", mock.Anything, "audit-1").Return(a, nil)
		// 85*.18 = 15.3 -> 15
		auditRepo.On("SetOverall", mock.Anything, "audit-1", 15.0, "F").Return(nil)

		err := service.SetDesignScore(context.Background(), "audit-1", 85)
		require.NoError(t, err)
		auditRepo.AssertExpectations(t)
	})

	t.Run("range validation", func(t *testing.T) {
		service, _, _ := newScoringServiceFixture()
		assert.Error(t, service.SetDesignScore(context.Background(), "audit-1", -1))
		assert.Error(t, service.SetDesignScore(context.Background(), "audit-1", 101))
	})
}

func TestGetSettings(t *testing.T) {
	t.Run("returns active row", func(t *testing.T) {
		service, _, settingsRepo := newScoringServiceFixture()
		active := scoring.DefaultSettings()
		active.ID = "row-1"
		settingsRepo.On("GetActive", mock.Anything).Return(active, nil)

		got, err := service.GetSettings(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "row-1", got.ID)
	})

	t.Run("defaults when nothing active", func(t *testing.T) {
		service, _, settingsRepo := newScoringServiceFixture()
		settingsRepo.On("GetActive", mock.Anything).Return(nil, contracts.ErrNoActiveSettings)

		got, err := service.GetSettings(context.Background())
		require.NoError(t, err)
		assert.Equal(t, scoring.DefaultSettings(), got)
	})
}

func TestUpdateSettings(t *testing.T) {
	t.Run("validates before storing", func(t *testing.T) {
		service, _, settingsRepo := newScoringServiceFixture()

		bad := scoring.DefaultSettings()
		bad.WeightAI = 0.9
		err := service.UpdateSettings(context.Background(), bad)
		assert.Error(t, err)
		settingsRepo.AssertNotCalled(t, "Update")
	})

	t.Run("assigns id and activates", func(t *testing.T) {
		service, _, settingsRepo := newScoringServiceFixture()

		settings := scoring.DefaultSettings()
		settings.IsActive = false
		settingsRepo.On("Update", mock.Anything, settings).Return(nil)

		err := service.UpdateSettings(context.Background(), settings)
		require.NoError(t, err)
		assert.NotEmpty(t, settings.ID)
		assert.True(t, settings.IsActive)
		assert.False(t, settings.UpdatedAt.IsZero())
	})
}

func TestRecalculateAll(t *testing.T) {
	service, auditRepo, settingsRepo := newScoringServiceFixture()

	now := time.Now().UTC()
	a1 := testAudit()
	a1.W3C.MarkSuccess(100, "A", now)
	a2 := &audit.Audit{ID: "audit-2", CompanyName: "Beta", WebsiteURL: "https://beta.example"}

	auditRepo.On("ListScoredSince", mock.Anything, mock.Anything).Return([]*audit.Audit{a1, a2}, nil)
	settingsRepo.On("GetActive", mock.Anything).Return(scoring.DefaultSettings(), nil)

	auditRepo.On("GetByID", mock.Anything, "audit-1").Return(a1, nil)
	auditRepo.On("SetOverall", mock.Anything, "audit-1", 27.0, "F").Return(nil)

	// The second audit fails mid-recompute and is skipped, not fatal.
	auditRepo.On("GetByID", mock.Anything, "audit-2").Return(nil, errors.New("row vanished"))

	updated, err := service.RecalculateAll(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
}
