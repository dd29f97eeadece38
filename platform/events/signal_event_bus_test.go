package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sitegrade/domain/audit"
)

func TestPublishSignalCompleted(t *testing.T) {
	bus := NewSignalEventBus()

	var wg sync.WaitGroup
	wg.Add(2)

	var mu sync.Mutex
	var received []SignalCompletedEvent

	handler := func(e SignalCompletedEvent) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
		wg.Done()
	}
	bus.OnSignalCompleted(handler)
	bus.OnSignalCompleted(handler)

	bus.PublishSignalCompleted(SignalCompletedEvent{
		AuditID: "audit-1",
		Key:     audit.SignalPerformance,
		Score:   88,
		Grade:   "B",
	})

	waitOrFail(t, &wg)
	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, received, 2)
	assert.Equal(t, "audit-1", received[0].AuditID)
	assert.Equal(t, audit.SignalPerformance, received[0].Key)
}

func TestPublishSignalFailed(t *testing.T) {
	bus := NewSignalEventBus()

	var wg sync.WaitGroup
	wg.Add(1)

	var got SignalFailedEvent
	bus.OnSignalFailed(func(e SignalFailedEvent) {
		got = e
		wg.Done()
	})

	bus.PublishSignalFailed(SignalFailedEvent{
		AuditID: "audit-2",
		Key:     audit.SignalCrawlability,
		Error:   "upstream timeout",
	})

	waitOrFail(t, &wg)
	assert.Equal(t, "audit-2", got.AuditID)
	assert.Equal(t, "upstream timeout", got.Error)
}

func TestPanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewSignalEventBus()

	var wg sync.WaitGroup
	wg.Add(1)

	bus.OnSignalCompleted(func(e SignalCompletedEvent) {
		panic("handler bug")
	})
	bus.OnSignalCompleted(func(e SignalCompletedEvent) {
		wg.Done()
	})

	bus.PublishSignalCompleted(SignalCompletedEvent{AuditID: "audit-3", Key: audit.SignalStructural})
	waitOrFail(t, &wg)
}

func TestPublishWithNoHandlers(t *testing.T) {
	bus := NewSignalEventBus()
	assert.NotPanics(t, func() {
		bus.PublishSignalCompleted(SignalCompletedEvent{AuditID: "audit-4"})
		bus.PublishSignalFailed(SignalFailedEvent{AuditID: "audit-4"})
	})
}

func waitOrFail(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event handlers")
	}
}
