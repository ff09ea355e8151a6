package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
)

const defaultPublishTimeout = 10 * time.Second

// Envelope is the stable wire structure for every published event.
type Envelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	Type       Type            `json:"type"`
	Source     string          `json:"source"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

type publisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(context.Context) (string, error)
}

// Bus publishes domain events and product work-queue messages.
type Bus struct {
	source   string
	events   publisher
	products publisher
}

// BusParams carries the publisher handles the bus wraps.
type BusParams struct {
	Source            string
	EventsPublisher   *gcppubsub.Publisher
	ProductsPublisher *gcppubsub.Publisher
}

// NewBus validates the handles and returns an event bus.
func NewBus(params BusParams) (*Bus, error) {
	if params.Source == "" {
		return nil, errors.New("event source is required")
	}
	if params.EventsPublisher == nil {
		return nil, errors.New("events publisher is required")
	}
	if params.ProductsPublisher == nil {
		return nil, errors.New("products publisher is required")
	}
	return &Bus{
		source:   params.Source,
		events:   newGCPPublisher(params.EventsPublisher),
		products: newGCPPublisher(params.ProductsPublisher),
	}, nil
}

// Publish wraps payload in an envelope and publishes it on the domain topic.
func (b *Bus) Publish(ctx context.Context, eventType Type, payload any) (string, error) {
	if b == nil || b.events == nil {
		return "", errors.New("event bus not initialized")
	}
	envelope, err := b.buildEnvelope(eventType, payload)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("marshaling envelope: %w", err)
	}

	msg := &gcppubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event_id":    envelope.EventID,
			"event_type":  string(eventType),
			"source":      b.source,
			"occurred_at": envelope.OccurredAt.Format(time.RFC3339Nano),
		},
	}
	if err := b.send(ctx, b.events, msg); err != nil {
		return "", err
	}
	return envelope.EventID, nil
}

// EnqueueProduct drops a product payload on the work queue consumed by the worker.
func (b *Bus) EnqueueProduct(ctx context.Context, payload ProductCreatedEvent) error {
	if b == nil || b.products == nil {
		return errors.New("event bus not initialized")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling product payload: %w", err)
	}
	msg := &gcppubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"product_id": payload.ProductID,
			"source":     b.source,
		},
	}
	return b.send(ctx, b.products, msg)
}

func (b *Bus) buildEnvelope(eventType Type, payload any) (Envelope, error) {
	if eventType == "" {
		return Envelope{}, errors.New("event type is required")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshaling payload: %w", err)
	}
	return Envelope{
		Version:    1,
		EventID:    uuid.NewString(),
		Type:       eventType,
		Source:     b.source,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}, nil
}

func (b *Bus) send(ctx context.Context, pub publisher, msg *gcppubsub.Message) error {
	publishCtx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
	defer cancel()

	result := pub.Publish(publishCtx, msg)
	if result == nil {
		return errors.New("publisher returned nil result")
	}
	if _, err := result.Get(publishCtx); err != nil {
		return fmt.Errorf("publishing message: %w", err)
	}
	return nil
}

func newGCPPublisher(p *gcppubsub.Publisher) publisher {
	if p == nil {
		return nil
	}
	return &gcpPublisher{Publisher: p}
}

type gcpPublisher struct {
	*gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	if p == nil || p.Publisher == nil {
		return nil
	}
	return &gcpPublishResult{PublishResult: p.Publisher.Publish(ctx, msg)}
}

type gcpPublishResult struct {
	*gcppubsub.PublishResult
}

func (r *gcpPublishResult) Get(ctx context.Context) (string, error) {
	if r == nil || r.PublishResult == nil {
		return "", errors.New("publish result is nil")
	}
	return r.PublishResult.Get(ctx)
}
