// Package outbox queues roster change events and delivers them to Kafka.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"example.com/mergington/internal/domain"
	"example.com/mergington/internal/events"
)

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

var _ domain.EventPublisher = (*Dispatcher)(nil)

// Config tunes the dispatcher queue and flush cadence.
type Config struct {
	Topic         string
	BufferSize    int
	BatchSize     int
	FlushInterval time.Duration
}

// Dispatcher buffers roster events in memory and publishes them in batches.
// Roster operations never wait on the broker; a full queue or a stopped
// dispatcher drops the event.
type Dispatcher struct {
	producer         messageWriter
	logger           *zap.Logger
	cfg              Config
	queue            chan events.RosterChanged
	shutdownComplete chan struct{}

	// mu orders Publish against shutdown: once closed is set under the write
	// lock nothing else enters the queue, so the final drain sees every event.
	mu     sync.RWMutex
	closed bool
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(producer messageWriter, cfg Config, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}
	return &Dispatcher{
		producer:         producer,
		logger:           logger,
		cfg:              cfg,
		queue:            make(chan events.RosterChanged, cfg.BufferSize),
		shutdownComplete: make(chan struct{}),
	}
}

// Publish enqueues evt without blocking.
func (d *Dispatcher) Publish(_ context.Context, evt events.RosterChanged) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(evt, "dispatcher stopped")
		return
	}
	select {
	case d.queue <- evt:
	default:
		d.drop(evt, "queue full")
	}
}

func (d *Dispatcher) drop(evt events.RosterChanged, reason string) {
	droppedCounter.Inc()
	d.logger.Warn("roster event dropped",
		zap.String("reason", reason),
		zap.String("event_type", evt.EventType),
		zap.String("activity", evt.Activity))
}

// Start runs the flush loop until ctx is cancelled. It should be called in a goroutine.
func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.FlushInterval)
	defer func() {
		ticker.Stop()
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()
		d.drain()
		close(d.shutdownComplete)
	}()

	batch := make([]events.RosterChanged, 0, d.cfg.BatchSize)
	for {
		select {
		case <-ctx.Done():
			d.flush(context.Background(), batch)
			return
		case evt := <-d.queue:
			batch = append(batch, evt)
			if len(batch) >= d.cfg.BatchSize {
				d.flush(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			d.flush(ctx, batch)
			batch = batch[:0]
		}
	}
}

// Wait waits until the dispatcher stops.
func (d *Dispatcher) Wait() {
	<-d.shutdownComplete
}

func (d *Dispatcher) drain() {
	batch := make([]events.RosterChanged, 0, d.cfg.BatchSize)
	for {
		select {
		case evt := <-d.queue:
			batch = append(batch, evt)
			if len(batch) >= d.cfg.BatchSize {
				d.flush(context.Background(), batch)
				batch = batch[:0]
			}
		default:
			d.flush(context.Background(), batch)
			return
		}
	}
}

func (d *Dispatcher) flush(ctx context.Context, batch []events.RosterChanged) {
	if len(batch) == 0 {
		return
	}
	start := time.Now()
	defer func() { batchDuration.Observe(time.Since(start).Seconds()) }()

	messages := make([]kafka.Message, 0, len(batch))
	for _, evt := range batch {
		msg, err := encode(evt)
		if err != nil {
			failedCounter.Inc()
			d.logger.Error("roster event encode failed", zap.String("event_id", evt.EventID), zap.Error(err))
			continue
		}
		messages = append(messages, msg)
	}
	if len(messages) == 0 {
		return
	}

	if err := d.producer.WriteMessages(ctx, d.cfg.Topic, messages...); err != nil {
		failedCounter.Add(float64(len(messages)))
		d.logger.Error("roster event delivery failed",
			zap.String("topic", d.cfg.Topic),
			zap.Int("count", len(messages)),
			zap.Error(err))
		return
	}
	deliveredCounter.Add(float64(len(messages)))
}

func encode(evt events.RosterChanged) (kafka.Message, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal %s: %w", evt.EventType, err)
	}
	return kafka.Message{
		Key:   []byte(evt.Activity),
		Value: payload,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.EventType)},
			{Key: "event_id", Value: []byte(evt.EventID)},
		},
	}, nil
}
