package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sitegrade/domain/content"
	"sitegrade/domain/contracts"
	"sitegrade/test/mocks"
)

func introTemplate() *content.CopyTemplate {
	return &content.CopyTemplate{
		Name:      "report_intro",
		Content:   "Hello {{company_name}}",
		UpdatedAt: time.Now().UTC(),
	}
}

func TestCopyServiceGetCachesReads(t *testing.T) {
	templateRepo := new(mocks.MockTemplateRepository)
	service := NewCopyService(templateRepo)

	templateRepo.On("GetByName", mock.Anything, "report_intro").Return(introTemplate(), nil).Once()

	for i := 0; i < 3; i++ {
		got, err := service.Get(context.Background(), "report_intro")
		require.NoError(t, err)
		assert.Equal(t, "report_intro", got.Name)
	}

	templateRepo.AssertNumberOfCalls(t, "GetByName", 1)
}

func TestCopyServiceGetMissingTemplate(t *testing.T) {
	templateRepo := new(mocks.MockTemplateRepository)
	service := NewCopyService(templateRepo)

	templateRepo.On("GetByName", mock.Anything, "nope").Return(nil, contracts.ErrTemplateNotFound)

	_, err := service.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, contracts.ErrTemplateNotFound)
}

func TestCopyServiceRender(t *testing.T) {
	templateRepo := new(mocks.MockTemplateRepository)
	service := NewCopyService(templateRepo)

	templateRepo.On("GetByName", mock.Anything, "report_intro").Return(introTemplate(), nil)

	rendered, err := service.Render(context.Background(), "report_intro", map[string]string{"company_name": "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Acme", rendered)
}

func TestCopyServiceUpdateInvalidatesCacheEntry(t *testing.T) {
	templateRepo := new(mocks.MockTemplateRepository)
	service := NewCopyService(templateRepo)

	stale := introTemplate()
	templateRepo.On("GetByName", mock.Anything, "report_intro").Return(stale, nil).Once()
	_, err := service.Get(context.Background(), "report_intro")
	require.NoError(t, err)

	updated := &content.CopyTemplate{Name: "report_intro", Content: "Hi {{company_name}}"}
	templateRepo.On("Upsert", mock.Anything, updated).Return(nil)
	require.NoError(t, service.Update(context.Background(), updated))
	assert.False(t, updated.UpdatedAt.IsZero())

	// The next read goes back to storage and sees the new content.
	templateRepo.On("GetByName", mock.Anything, "report_intro").Return(updated, nil).Once()
	got, err := service.Get(context.Background(), "report_intro")
	require.NoError(t, err)
	assert.Equal(t, "Hi {{company_name}}", got.Content)

	templateRepo.AssertNumberOfCalls(t, "GetByName", 2)
}

func TestCopyServiceInvalidateFlushesAll(t *testing.T) {
	templateRepo := new(mocks.MockTemplateRepository)
	service := NewCopyService(templateRepo)

	templateRepo.On("GetByName", mock.Anything, "report_intro").Return(introTemplate(), nil).Twice()

	_, err := service.Get(context.Background(), "report_intro")
	require.NoError(t, err)

	service.Invalidate()

	_, err = service.Get(context.Background(), "report_intro")
	require.NoError(t, err)

	templateRepo.AssertNumberOfCalls(t, "GetByName", 2)
}

func TestCopyServiceList(t *testing.T) {
	templateRepo := new(mocks.MockTemplateRepository)
	service := NewCopyService(templateRepo)

	templateRepo.On("List", mock.Anything).Return([]*content.CopyTemplate{introTemplate()}, nil)

	got, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
