package application

import (
	"context"
	"errors"
	"strings"
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

// stubFetcher returns a canned result or error, or panics on demand.
type stubFetcher struct {
	key      audit.SignalKey
	result   *fetchers.Result
	err      error
	panicMsg string
}

func (f *stubFetcher) Key() audit.SignalKey { return f.key }

func (f *stubFetcher) Fetch(ctx context.Context, websiteURL string) (*fetchers.Result, error) {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.result, f.err
}

func newSignalServiceFixture(fetcher fetchers.SignalFetcher) (*SignalService, *mocks.MockAuditRepository, *mocks.MockSettingsRepository) {
	auditRepo := new(mocks.MockAuditRepository)
	settingsRepo := new(mocks.MockSettingsRepository)

	registry := fetchers.NewRegistry()
	if fetcher != nil {
		registry.Register(fetcher)
	}

	service := NewSignalService(auditRepo, settingsRepo, registry, events.NewSignalEventBus())
	return service, auditRepo, settingsRepo
}

func testAudit() *audit.Audit {
	return &audit.Audit{
		ID:          "audit-1",
		CompanyName: "Acme",
		WebsiteURL:  "https://example.com",
	}
}

func TestRunUnknownSignal(t *testing.T) {
	service, _, _ := newSignalServiceFixture(nil)
	_, err := service.Run(context.Background(), "audit-1", "lighthouse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown signal")
}

func TestRunUnknownAudit(t *testing.T) {
	fetcher := &stubFetcher{key: audit.SignalPerformance}
	service, auditRepo, _ := newSignalServiceFixture(fetcher)

	auditRepo.On("GetByID", mock.Anything, "missing").Return(nil, contracts.ErrAuditNotFound)

	_, err := service.Run(context.Background(), "missing", audit.SignalPerformance)
	assert.ErrorIs(t, err, contracts.ErrAuditNotFound)
}

func TestRunSuccess(t *testing.T) {
	fetcher := &stubFetcher{
		key:    audit.SignalPerformance,
		result: &fetchers.Result{Score: 85, AuditURL: "https://pagespeed.web.dev/report?url=x"},
	}
	service, auditRepo, settingsRepo := newSignalServiceFixture(fetcher)

	auditRepo.On("GetByID", mock.Anything, "audit-1").Return(testAudit(), nil)
	auditRepo.On("SetSignalFetching", mock.Anything, "audit-1", audit.SignalPerformance).Return(nil)
	settingsRepo.On("GetActive", mock.Anything).Return(nil, contracts.ErrNoActiveSettings)
	auditRepo.On("SetSignalSuccess", mock.Anything, "audit-1", audit.SignalPerformance,
		mock.MatchedBy(func(s contracts.SignalSuccess) bool {
			return s.Score == 85 && s.Grade == "B" && !s.FetchedAt.IsZero()
		})).Return(nil)

	outcome, err := service.Run(context.Background(), "audit-1", audit.SignalPerformance)
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	require.NotNil(t, outcome.Score)
	assert.Equal(t, 85.0, *outcome.Score)
	assert.Equal(t, "B", outcome.Grade)

	auditRepo.AssertExpectations(t)
}

func TestRunScoresStructuralFromIssueCount(t *testing.T) {
	issues := int64(10)
	fetcher := &stubFetcher{
		key:    audit.SignalStructural,
		result: &fetchers.Result{IssueCount: &issues},
	}
	service, auditRepo, settingsRepo := newSignalServiceFixture(fetcher)

	auditRepo.On("GetByID", mock.Anything, "audit-1").Return(testAudit(), nil)
	auditRepo.On("SetSignalFetching", mock.Anything, "audit-1", audit.SignalStructural).Return(nil)
	settingsRepo.On("GetActive", mock.Anything).Return(nil, contracts.ErrNoActiveSettings)
	auditRepo.On("SetSignalSuccess", mock.Anything, "audit-1", audit.SignalStructural,
		mock.MatchedBy(func(s contracts.SignalSuccess) bool {
			// 100 - 10*2.0 with the default penalty.
			return s.Score == 80 && s.Grade == "B" && s.IssueCount != nil && *s.IssueCount == 10
		})).Return(nil)

	outcome, err := service.Run(context.Background(), "audit-1", audit.SignalStructural)
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	auditRepo.AssertExpectations(t)
}

func TestRunKeepsFetcherGrade(t *testing.T) {
	fetcher := &stubFetcher{
		key:    audit.SignalCrawlability,
		result: &fetchers.Result{Score: 62, Grade: "D", Details: []byte(`{"version":"1.0"}`)},
	}
	service, auditRepo, settingsRepo := newSignalServiceFixture(fetcher)

	auditRepo.On("GetByID", mock.Anything, "audit-1").Return(testAudit(), nil)
	auditRepo.On("SetSignalFetching", mock.Anything, "audit-1", audit.SignalCrawlability).Return(nil)
	settingsRepo.On("GetActive", mock.Anything).Return(nil, contracts.ErrNoActiveSettings)
	auditRepo.On("SetSignalSuccess", mock.Anything, "audit-1", audit.SignalCrawlability,
		mock.MatchedBy(func(s contracts.SignalSuccess) bool {
			return s.Grade == "D" && len(s.Details) > 0
		})).Return(nil)

	outcome, err := service.Run(context.Background(), "audit-1", audit.SignalCrawlability)
	require.NoError(t, err)
	assert.Equal(t, "D", outcome.Grade)
}

func TestRunFetchFailureResolvesToErrorStatus(t *testing.T) {
	fetcher := &stubFetcher{
		key: audit.SignalAccessibility,
		err: errors.New("accessibility API error 503"),
	}
	service, auditRepo, _ := newSignalServiceFixture(fetcher)

	auditRepo.On("GetByID", mock.Anything, "audit-1").Return(testAudit(), nil)
	auditRepo.On("SetSignalFetching", mock.Anything, "audit-1", audit.SignalAccessibility).Return(nil)
	auditRepo.On("SetSignalError", mock.Anything, "audit-1", audit.SignalAccessibility,
		"accessibility API error 503").Return(nil)

	outcome, err := service.Run(context.Background(), "audit-1", audit.SignalAccessibility)
	require.NoError(t, err, "a fetch failure is an outcome, not an error")
	assert.False(t, outcome.Success)
	assert.Equal(t, "accessibility API error 503", outcome.Error)
	assert.Nil(t, outcome.Score)

	auditRepo.AssertExpectations(t)
}

func TestRunTruncatesLongErrors(t *testing.T) {
	fetcher := &stubFetcher{
		key: audit.SignalPerformance,
		err: errors.New(strings.Repeat("x", 600)),
	}
	service, auditRepo, _ := newSignalServiceFixture(fetcher)

	auditRepo.On("GetByID", mock.Anything, "audit-1").Return(testAudit(), nil)
	auditRepo.On("SetSignalFetching", mock.Anything, "audit-1", audit.SignalPerformance).Return(nil)
	auditRepo.On("SetSignalError", mock.Anything, "audit-1", audit.SignalPerformance,
		mock.MatchedBy(func(msg string) bool { return len(msg) == 500 })).Return(nil)

	outcome, err := service.Run(context.Background(), "audit-1", audit.SignalPerformance)
	require.NoError(t, err)
	assert.Len(t, outcome.Error, 500)
}

func TestRunRecoversFetcherPanic(t *testing.T) {
	fetcher := &stubFetcher{
		key:      audit.SignalCrawlability,
		panicMsg: "nil pointer somewhere",
	}
	service, auditRepo, _ := newSignalServiceFixture(fetcher)

	auditRepo.On("GetByID", mock.Anything, "audit-1").Return(testAudit(), nil)
	auditRepo.On("SetSignalFetching", mock.Anything, "audit-1", audit.SignalCrawlability).Return(nil)
	auditRepo.On("SetSignalError", mock.Anything, "audit-1", audit.SignalCrawlability,
		mock.MatchedBy(func(msg string) bool {
			return strings.Contains(msg, "signal fetcher panicked")
		})).Return(nil)

	outcome, err := service.Run(context.Background(), "audit-1", audit.SignalCrawlability)
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Error, "nil pointer somewhere")
}

func TestRunPersistenceFailureIsAnError(t *testing.T) {
	fetcher := &stubFetcher{
		key:    audit.SignalPerformance,
		result: &fetchers.Result{Score: 85},
	}
	service, auditRepo, settingsRepo := newSignalServiceFixture(fetcher)

	dbErr := errors.New("database is locked")
	auditRepo.On("GetByID", mock.Anything, "audit-1").Return(testAudit(), nil)
	auditRepo.On("SetSignalFetching", mock.Anything, "audit-1", audit.SignalPerformance).Return(nil)
	settingsRepo.On("GetActive", mock.Anything).Return(nil, contracts.ErrNoActiveSettings)
	auditRepo.On("SetSignalSuccess", mock.Anything, "audit-1", audit.SignalPerformance, mock.Anything).Return(dbErr)

	_, err := service.Run(context.Background(), "audit-1", audit.SignalPerformance)
	assert.ErrorIs(t, err, dbErr)
}

func TestRunCompletionPublishesEvent(t *testing.T) {
	fetcher := &stubFetcher{
		key:    audit.SignalPerformance,
		result: &fetchers.Result{Score: 90},
	}

	auditRepo := new(mocks.MockAuditRepository)
	settingsRepo := new(mocks.MockSettingsRepository)
	registry := fetchers.NewRegistry()
	registry.Register(fetcher)
	bus := events.NewSignalEventBus()

	received := make(chan events.SignalCompletedEvent, 1)
	bus.OnSignalCompleted(func(e events.SignalCompletedEvent) { received <- e })

	service := NewSignalService(auditRepo, settingsRepo, registry, bus)

	auditRepo.On("GetByID", mock.Anything, "audit-1").Return(testAudit(), nil)
	auditRepo.On("SetSignalFetching", mock.Anything, "audit-1", audit.SignalPerformance).Return(nil)
	settingsRepo.On("GetActive", mock.Anything).Return(nil, contracts.ErrNoActiveSettings)
	auditRepo.On("SetSignalSuccess", mock.Anything, "audit-1", audit.SignalPerformance, mock.Anything).Return(nil)

	_, err := service.Run(context.Background(), "audit-1", audit.SignalPerformance)
	require.NoError(t, err)

	event := <-received
	assert.Equal(t, "audit-1", event.AuditID)
	assert.Equal(t, 90.0, event.Score)
	assert.Equal(t, "A", event.Grade)
}
