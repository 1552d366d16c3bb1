package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the outbox needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Outbox queues events in memory and flushes them to kafka on a ticker,
// so request handlers never wait on the broker. A batch the broker refuses
// is kept and retried first on the next tick. Delivery is best effort: the
// queue lives in memory, and events still undelivered after the shutdown
// flush are lost.
type Outbox struct {
	queue     chan Event
	writer    MessageWriter
	flushTick time.Duration
	batchSize int
	timeout   time.Duration

	// pending is the last failed batch. Only the Run goroutine touches it.
	pending []Event
}

func NewKafkaWriter(topic string, brokers ...string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

func NewOutbox(writer MessageWriter, capacity int) *Outbox {
	return &Outbox{
		queue:     make(chan Event, capacity),
		writer:    writer,
		flushTick: time.Second,
		batchSize: 100,
		timeout:   5 * time.Second,
	}
}

// Publish never blocks. A full queue drops the event.
func (o *Outbox) Publish(ctx context.Context, e Event) {
	select {
	case o.queue <- e:
	default:
		slog.WarnContext(ctx, "event outbox full, dropping event", "type", e.Type, "id", e.ID)
	}
}

func (o *Outbox) Run(ctx context.Context) {
	ticker := time.NewTicker(o.flushTick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			o.flush(ctx)
		case <-ctx.Done():
			// last attempt with a fresh deadline
			drainCtx, cancel := context.WithTimeout(context.Background(), o.timeout)
			o.flush(drainCtx)
			cancel()
			if n := len(o.pending) + len(o.queue); n > 0 {
				slog.Warn("dropping undelivered events on shutdown", "count", n)
			}
			if err := o.writer.Close(); err != nil {
				slog.Warn("close kafka writer failed", "err", err)
			}
			return
		}
	}
}

func (o *Outbox) flush(ctx context.Context) {
	for {
		batch := o.take()
		if len(batch) == 0 {
			return
		}
		msgs := make([]kafka.Message, 0, len(batch))
		for _, e := range batch {
			value, err := json.Marshal(e)
			if err != nil {
				slog.Warn("marshal event failed", "id", e.ID, "err", err)
				continue
			}
			msgs = append(msgs, kafka.Message{
				Key:   []byte(e.AggregateID),
				Value: value,
				Headers: []kafka.Header{
					{Key: "event_type", Value: []byte(e.Type)},
				},
			})
		}

		writeCtx, cancel := context.WithTimeout(ctx, o.timeout)
		err := o.writer.WriteMessages(writeCtx, msgs...)
		cancel()
		if err != nil {
			slog.Warn("publish events failed, retrying next tick", "count", len(msgs), "err", err)
			o.pending = batch
			return
		}
		if len(batch) < o.batchSize {
			return
		}
	}
}

func (o *Outbox) take() []Event {
	batch := o.pending
	o.pending = nil
	for len(batch) < o.batchSize {
		select {
		case e := <-o.queue:
			batch = append(batch, e)
		default:
			return batch
		}
	}
	return batch
}
