// Package events publishes user activity (orders, payments, validations)
// to kafka for downstream consumers.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	OrderLineCreated = "order.line.created"
	PaymentSubmitted = "payment.submitted"
	PaymentValidated = "payment.validated"
)

type Event struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	AggregateID string         `json:"aggregate_id"`
	Actor       string         `json:"actor,omitempty"`
	At          time.Time      `json:"at"`
	Payload     map[string]any `json:"payload,omitempty"`
}

func New(eventType, aggregateID, actor string, payload map[string]any) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		AggregateID: aggregateID,
		Actor:       actor,
		At:          time.Now().UTC(),
		Payload:     payload,
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
