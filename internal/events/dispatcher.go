package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher fans published events out to subscribers.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
	SubscribeAll(handler EventHandler)
}

// inMemoryDispatcher runs handlers synchronously on the publisher's goroutine.
type inMemoryDispatcher struct {
	mu       sync.RWMutex
	byType   map[EventType][]EventHandler
	wildcard []EventHandler
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{byType: make(map[EventType][]EventHandler)}
}

// Publish invokes type subscribers, then catch-all subscribers. Every handler runs even when
// an earlier one fails or panics; the failures are joined.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := make([]EventHandler, 0, len(d.byType[event.Type])+len(d.wildcard))
	handlers = append(handlers, d.byType[event.Type]...)
	handlers = append(handlers, d.wildcard...)
	d.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := invoke(ctx, handler, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Subscribe registers a handler for one event type.
func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byType[eventType] = append(d.byType[eventType], handler)
}

// SubscribeAll registers a handler for every event type.
func (d *inMemoryDispatcher) SubscribeAll(handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.wildcard = append(d.wildcard, handler)
}

func invoke(ctx context.Context, handler EventHandler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler for %s panicked: %v", event.Type, r)
		}
	}()
	return handler(ctx, event)
}
