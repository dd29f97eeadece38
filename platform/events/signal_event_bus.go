// Package events provides the in-process event bus connecting signal fetch
// completion to aggregate score recomputation.
package events

import (
	"sync"

	"sitegrade/domain/audit"
	"sitegrade/logging"
)

// SignalCompletedEvent fires after a signal run resolves to success and its
// result has been persisted.
type SignalCompletedEvent struct {
	AuditID string
	Key     audit.SignalKey
	Score   float64
	Grade   string
}

// SignalFailedEvent fires after a signal run resolves to error.
type SignalFailedEvent struct {
	AuditID string
	Key     audit.SignalKey
	Error   string
}

// SignalEventBus provides type-safe event publishing and subscription for signal lifecycle events
type SignalEventBus struct {
	mu     sync.RWMutex
	logger *logging.Logger

	completedHandlers []func(SignalCompletedEvent)
	failedHandlers    []func(SignalFailedEvent)
}

// NewSignalEventBus creates a new typed signal event bus
func NewSignalEventBus() *SignalEventBus {
	return &SignalEventBus{
		logger:            logging.Default().WithComponent("signal_event_bus"),
		completedHandlers: make([]func(SignalCompletedEvent), 0),
		failedHandlers:    make([]func(SignalFailedEvent), 0),
	}
}

func (bus *SignalEventBus) OnSignalCompleted(handler func(SignalCompletedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.completedHandlers = append(bus.completedHandlers, handler)
}

func (bus *SignalEventBus) OnSignalFailed(handler func(SignalFailedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.failedHandlers = append(bus.failedHandlers, handler)
}

// PublishSignalCompleted dispatches to all completion handlers.
// Handlers run asynchronously so a slow subscriber never blocks the fetcher.
func (bus *SignalEventBus) PublishSignalCompleted(event SignalCompletedEvent) {
	bus.mu.RLock()
	handlers := make([]func(SignalCompletedEvent), len(bus.completedHandlers))
	copy(handlers, bus.completedHandlers)
	bus.mu.RUnlock()

	for _, handler := range handlers {
		go func(h func(SignalCompletedEvent)) {
			defer func() {
				if r := recover(); r != nil {
					bus.logger.Error("Event handler panicked in SignalCompleted",
						"audit_id", event.AuditID,
						"signal", string(event.Key),
						"panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}

// PublishSignalFailed dispatches to all failure handlers.
func (bus *SignalEventBus) PublishSignalFailed(event SignalFailedEvent) {
	bus.mu.RLock()
	handlers := make([]func(SignalFailedEvent), len(bus.failedHandlers))
	copy(handlers, bus.failedHandlers)
	bus.mu.RUnlock()

	for _, handler := range handlers {
		go func(h func(SignalFailedEvent)) {
			defer func() {
				if r := recover(); r != nil {
					bus.logger.Error("Event handler panicked in SignalFailed",
						"audit_id", event.AuditID,
						"signal", string(event.Key),
						"panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}
