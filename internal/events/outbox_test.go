package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type WriterMock struct {
	mu       sync.Mutex
	messages []kafka.Message
	calls    int
	err      error
	closed   bool
}

func (w *WriterMock) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *WriterMock) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *WriterMock) snapshot() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.messages...)
}

func TestOutbox_FlushWritesKeyedMessages(t *testing.T) {
	w := &WriterMock{}
	o := NewOutbox(w, 10)

	o.Publish(context.Background(), New(PaymentSubmitted, "ORD-7", "operator", map[string]any{"jumlahBayar": 50000}))
	o.flush(context.Background())

	msgs := w.snapshot()
	require.Len(t, msgs, 1)
	assert.Equal(t, "ORD-7", string(msgs[0].Key))
	assert.Equal(t, "event_type", msgs[0].Headers[0].Key)
	assert.Equal(t, PaymentSubmitted, string(msgs[0].Headers[0].Value))

	var e Event
	require.NoError(t, json.Unmarshal(msgs[0].Value, &e))
	assert.Equal(t, "operator", e.Actor)
	assert.NotEmpty(t, e.ID)
}

func TestOutbox_FullQueueDrops(t *testing.T) {
	w := &WriterMock{}
	o := NewOutbox(w, 2)

	for i := 0; i < 5; i++ {
		o.Publish(context.Background(), New(OrderLineCreated, "x", "", nil))
	}
	o.flush(context.Background())

	assert.Len(t, w.snapshot(), 2)
}

func TestOutbox_FlushBatches(t *testing.T) {
	w := &WriterMock{}
	o := NewOutbox(w, 500)
	o.batchSize = 100

	for i := 0; i < 250; i++ {
		o.Publish(context.Background(), New(OrderLineCreated, "x", "", nil))
	}
	o.flush(context.Background())

	assert.Len(t, w.snapshot(), 250)
	assert.Equal(t, 3, w.calls)
}

func TestOutbox_WriteErrorStopsFlush(t *testing.T) {
	w := &WriterMock{err: errors.New("broker down")}
	o := NewOutbox(w, 10)
	o.Publish(context.Background(), New(OrderLineCreated, "x", "", nil))

	o.flush(context.Background())

	assert.Equal(t, 1, w.calls)
	assert.Empty(t, w.snapshot())
}

func TestOutbox_FailedBatchRetriedFirst(t *testing.T) {
	w := &WriterMock{err: errors.New("broker down")}
	o := NewOutbox(w, 10)
	o.Publish(context.Background(), New(OrderLineCreated, "ORD-1", "", nil))
	o.flush(context.Background())
	require.Len(t, o.pending, 1)

	w.mu.Lock()
	w.err = nil
	w.mu.Unlock()
	o.Publish(context.Background(), New(OrderLineCreated, "ORD-2", "", nil))
	o.flush(context.Background())

	msgs := w.snapshot()
	require.Len(t, msgs, 2)
	assert.Equal(t, "ORD-1", string(msgs[0].Key))
	assert.Equal(t, "ORD-2", string(msgs[1].Key))
	assert.Empty(t, o.pending)
}

func TestOutbox_RunDrainsOnShutdown(t *testing.T) {
	w := &WriterMock{}
	o := NewOutbox(w, 10)
	o.flushTick = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		o.Run(ctx)
		close(done)
	}()

	o.Publish(context.Background(), New(PaymentValidated, "ORD-1", "admin", nil))
	cancel()
	<-done

	assert.Len(t, w.snapshot(), 1)
	assert.True(t, w.closed)
}
