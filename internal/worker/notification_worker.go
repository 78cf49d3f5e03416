package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/art-gallery-service/internal/events"
)

// ErrQueueFull is returned when the worker cannot accept more events.
var ErrQueueFull = errors.New("notification queue full")

// Deliverer sends a single notification.
type Deliverer interface {
	Deliver(ctx context.Context, event events.Event) error
}

// NotificationWorker delivers notifications off the request path.
type NotificationWorker struct {
	deliverer Deliverer
	logger    *zap.Logger
	queue     chan events.Event
	wg        sync.WaitGroup
}

// NewNotificationWorker builds a worker with a bounded queue.
func NewNotificationWorker(deliverer Deliverer, logger *zap.Logger, buffer int) *NotificationWorker {
	if buffer <= 0 {
		buffer = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		deliverer: deliverer,
		logger:    logger,
		queue:     make(chan events.Event, buffer),
	}
}

// Enqueue is an events.EventHandler. It never blocks the publisher.
func (w *NotificationWorker) Enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
		return nil
	default:
		w.logger.Warn("dropping notification", zap.String("event_type", string(event.Type)), zap.String("event_id", event.ID))
		return ErrQueueFull
	}
}

// Start runs the delivery loop until ctx is cancelled. Queued events are drained before returning.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case event := <-w.queue:
				w.deliver(ctx, event)
			case <-ctx.Done():
				w.drain()
				return
			}
		}
	}()
}

// Wait blocks until the delivery loop has exited.
func (w *NotificationWorker) Wait() {
	w.wg.Wait()
}

func (w *NotificationWorker) drain() {
	for {
		select {
		case event := <-w.queue:
			w.deliver(context.Background(), event)
		default:
			return
		}
	}
}

func (w *NotificationWorker) deliver(ctx context.Context, event events.Event) {
	if err := w.deliverer.Deliver(ctx, event); err != nil {
		w.logger.Warn("notification delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
	}
}

// StartNotificationWorker subscribes the worker to every event and starts it.
func StartNotificationWorker(ctx context.Context, dispatcher events.Dispatcher, deliverer Deliverer, logger *zap.Logger) *NotificationWorker {
	w := NewNotificationWorker(deliverer, logger, 0)
	dispatcher.SubscribeAll(w.Enqueue)
	w.Start(ctx)
	return w
}
