package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// AllEvents subscribes a handler to every event type
const AllEvents = "*"

// ===============================
// EVENT INTERFACE
// ===============================

// Event represents a domain event
type Event interface {
	GetEventID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event functionality
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

func newBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventID:   GenerateEventID(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
	}
}

// GetEventID returns the event ID
func (e *BaseEvent) GetEventID() string {
	return e.EventID
}

// GetEventType returns the event type
func (e *BaseEvent) GetEventType() string {
	return e.EventType
}

// GetTimestamp returns the event timestamp
func (e *BaseEvent) GetTimestamp() time.Time {
	return e.Timestamp
}

// GenerateEventID returns a random event id
func GenerateEventID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return fmt.Sprintf("evt_%d", time.Now().UnixNano())
	}
	return "evt_" + id.String()
}

// ===============================
// EVENT BUS INTERFACE
// ===============================

// EventBus defines the event publishing and subscription interface
type EventBus interface {
	Publish(ctx context.Context, event Event) error
	PublishAsync(ctx context.Context, event Event) error
	Subscribe(eventType string, handler EventHandler) error

	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Stats() *EventBusStats
}

// EventHandler represents an event handler
type EventHandler interface {
	Handle(ctx context.Context, event Event) error
	GetHandlerID() string
}

// EventHandlerFunc adapts a function to EventHandler
type EventHandlerFunc struct {
	ID   string
	Func func(ctx context.Context, event Event) error
}

// Handle implements EventHandler
func (f EventHandlerFunc) Handle(ctx context.Context, event Event) error {
	return f.Func(ctx, event)
}

// GetHandlerID implements EventHandler
func (f EventHandlerFunc) GetHandlerID() string {
	return f.ID
}

// EventBusStats represents event bus statistics
type EventBusStats struct {
	EventsPublished int64 `json:"events_published"`
	EventsProcessed int64 `json:"events_processed"`
	EventsFailed    int64 `json:"events_failed"`
	HandlersCount   int   `json:"handlers_count"`
	QueueDepth      int   `json:"queue_depth"`
}

// EventBusConfig holds configuration for the event bus
type EventBusConfig struct {
	BufferSize     int           `yaml:"buffer_size"`
	WorkerCount    int           `yaml:"worker_count"`
	HandlerTimeout time.Duration `yaml:"handler_timeout"`
	RetryAttempts  int           `yaml:"retry_attempts"`
	RetryDelay     time.Duration `yaml:"retry_delay"`
}

// DefaultEventBusConfig returns default configuration
func DefaultEventBusConfig() *EventBusConfig {
	return &EventBusConfig{
		BufferSize:     256,
		WorkerCount:    2,
		HandlerTimeout: 10 * time.Second,
		RetryAttempts:  2,
		RetryDelay:     100 * time.Millisecond,
	}
}

// ===============================
// IN-MEMORY EVENT BUS
// ===============================

type inMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler

	// stateMu orders queue sends against Stop so nothing is queued after
	// the workers begin their final drain
	stateMu sync.RWMutex
	closed  bool
	queue   chan eventMessage
	config  EventBusConfig
	logger  *zap.Logger

	published atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type eventMessage struct {
	ctx   context.Context
	event Event
}

// NewInMemoryEventBus creates an in-process event bus. Asynchronous events
// are delivered by worker goroutines between Start and Stop.
func NewInMemoryEventBus(config *EventBusConfig, logger *zap.Logger) EventBus {
	if config == nil {
		config = DefaultEventBusConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := *config
	if cfg.BufferSize < 1 {
		cfg.BufferSize = 1
	}
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &inMemoryEventBus{
		handlers: make(map[string][]EventHandler),
		queue:    make(chan eventMessage, cfg.BufferSize),
		config:   cfg,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Publish delivers an event synchronously
func (b *inMemoryEventBus) Publish(ctx context.Context, event Event) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	b.published.Add(1)
	return b.processEvent(ctx, event)
}

// PublishAsync queues an event for the workers. The request context is
// detached so delivery outlives the request.
func (b *inMemoryEventBus) PublishAsync(ctx context.Context, event Event) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	b.stateMu.RLock()
	defer b.stateMu.RUnlock()
	if b.closed {
		return fmt.Errorf("event bus is stopped")
	}

	select {
	case b.queue <- eventMessage{ctx: context.WithoutCancel(ctx), event: event}:
		b.published.Add(1)
		return nil
	default:
		return fmt.Errorf("event queue is full")
	}
}

// Subscribe registers handler for eventType, or for every type with AllEvents
func (b *inMemoryEventBus) Subscribe(eventType string, handler EventHandler) error {
	if eventType == "" {
		return fmt.Errorf("event type cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)

	b.logger.Debug("Handler subscribed",
		zap.String("event_type", eventType),
		zap.String("handler_id", handler.GetHandlerID()),
	)
	return nil
}

// Start starts the workers
func (b *inMemoryEventBus) Start(ctx context.Context) error {
	b.logger.Info("Starting event bus", zap.Int("worker_count", b.config.WorkerCount))
	for i := 0; i < b.config.WorkerCount; i++ {
		b.wg.Add(1)
		go b.worker(i)
	}
	return nil
}

// Stop stops accepting events and waits for the queue to drain
func (b *inMemoryEventBus) Stop(ctx context.Context) error {
	b.logger.Info("Stopping event bus")
	b.stateMu.Lock()
	b.closed = true
	b.stateMu.Unlock()
	b.cancel()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		b.logger.Warn("Event bus stop timeout", zap.Int("queue_depth", len(b.queue)))
		return ctx.Err()
	}
}

// Stats returns a snapshot of the counters
func (b *inMemoryEventBus) Stats() *EventBusStats {
	b.mu.RLock()
	handlers := 0
	for _, hs := range b.handlers {
		handlers += len(hs)
	}
	b.mu.RUnlock()

	return &EventBusStats{
		EventsPublished: b.published.Load(),
		EventsProcessed: b.processed.Load(),
		EventsFailed:    b.failed.Load(),
		HandlersCount:   handlers,
		QueueDepth:      len(b.queue),
	}
}

func (b *inMemoryEventBus) worker(workerID int) {
	defer b.wg.Done()

	for {
		select {
		case msg := <-b.queue:
			b.deliver(workerID, msg)
		case <-b.ctx.Done():
			// Drain what was accepted before Stop
			for {
				select {
				case msg := <-b.queue:
					b.deliver(workerID, msg)
				default:
					return
				}
			}
		}
	}
}

func (b *inMemoryEventBus) deliver(workerID int, msg eventMessage) {
	if err := b.processEvent(msg.ctx, msg.event); err != nil {
		b.logger.Error("Failed to process event",
			zap.Int("worker_id", workerID),
			zap.String("event_id", msg.event.GetEventID()),
			zap.String("event_type", msg.event.GetEventType()),
			zap.Error(err),
		)
	}
}

func (b *inMemoryEventBus) processEvent(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := make([]EventHandler, 0, len(b.handlers[event.GetEventType()])+len(b.handlers[AllEvents]))
	handlers = append(handlers, b.handlers[event.GetEventType()]...)
	handlers = append(handlers, b.handlers[AllEvents]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := b.runHandler(ctx, handler, event); err != nil {
			b.failed.Add(1)
			errs = append(errs, fmt.Errorf("handler %s: %w", handler.GetHandlerID(), err))
			continue
		}
		b.processed.Add(1)
	}
	return errors.Join(errs...)
}

// runHandler retries a failing handler a bounded number of times
func (b *inMemoryEventBus) runHandler(ctx context.Context, handler EventHandler, event Event) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(b.config.RetryDelay), uint64(max(b.config.RetryAttempts, 0))),
		ctx,
	)

	return backoff.Retry(func() error {
		hctx := ctx
		if b.config.HandlerTimeout > 0 {
			var cancel context.CancelFunc
			hctx, cancel = context.WithTimeout(ctx, b.config.HandlerTimeout)
			defer cancel()
		}
		return handler.Handle(hctx, event)
	}, policy)
}
