package bus

import (
	"context"
	"sync"

	"softball-scorebook/internal/domain/event"

	"go.uber.org/zap"
)

// AsyncEventBus implements EventBus with asynchronous publishing. Used for
// subscribers that must never slow down command handling, such as the
// notification relay.
type AsyncEventBus struct {
	handlers map[string][]EventHandler
	logger   *zap.Logger
	mu       sync.RWMutex
	wg       sync.WaitGroup
	errorCh  chan error
}

// NewAsyncEventBus creates a new async event bus
func NewAsyncEventBus(logger *zap.Logger) *AsyncEventBus {
	return &AsyncEventBus{
		handlers: make(map[string][]EventHandler),
		logger:   logger,
		errorCh:  make(chan error, 100),
	}
}

// Subscribe registers a handler for a specific event type
func (b *AsyncEventBus) Subscribe(eventType string, handler EventHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// Start initializes the event bus and its error monitor
func (b *AsyncEventBus) Start(ctx context.Context) error {
	b.startErrorMonitor(ctx)
	return nil
}

// Stop waits for in-flight handlers and shuts the bus down
func (b *AsyncEventBus) Stop() error {
	b.wg.Wait()
	close(b.errorCh)
	return nil
}

// Publish publishes an event asynchronously to all subscribed handlers
func (b *AsyncEventBus) Publish(ctx context.Context, evt event.DomainEvent) error {
	b.mu.RLock()
	handlers, exists := b.handlers[evt.EventType()]
	b.mu.RUnlock()

	if !exists || len(handlers) == 0 {
		return nil
	}

	b.wg.Add(len(handlers))
	for _, handler := range handlers {
		go b.publishToHandler(ctx, handler, evt)
	}

	return nil
}

// PublishBatch publishes multiple events asynchronously
func (b *AsyncEventBus) PublishBatch(ctx context.Context, events []event.DomainEvent) error {
	for _, evt := range events {
		if err := b.Publish(ctx, evt); err != nil {
			return err
		}
	}
	return nil
}

// Wait blocks until all async event handlers have completed
func (b *AsyncEventBus) Wait() {
	b.wg.Wait()
}

func (b *AsyncEventBus) publishToHandler(ctx context.Context, handler EventHandler, evt event.DomainEvent) {
	defer b.wg.Done()

	if err := handler.Handle(ctx, evt); err != nil {
		b.logger.Warn("async event handler failed",
			zap.String("event_type", evt.EventType()),
			zap.Error(err))

		select {
		case b.errorCh <- err:
		default:
			// channel full, error already logged above
		}
	}
}

func (b *AsyncEventBus) startErrorMonitor(ctx context.Context) {
	go func() {
		for {
			select {
			case err, ok := <-b.errorCh:
				if !ok {
					return
				}
				b.logger.Error("async event handler error", zap.Error(err))
			case <-ctx.Done():
				return
			}
		}
	}()
}

var _ EventBus = (*AsyncEventBus)(nil)
