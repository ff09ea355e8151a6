package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
)

type stubResult struct {
	id  string
	err error
}

func (r stubResult) Get(context.Context) (string, error) { return r.id, r.err }

type stubPublisher struct {
	messages []*gcppubsub.Message
	err      error
}

func (p *stubPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	p.messages = append(p.messages, msg)
	return stubResult{id: "msg-1", err: p.err}
}

func TestPublishWrapsEnvelope(t *testing.T) {
	t.Parallel()

	pub := &stubPublisher{}
	bus := &Bus{source: "padeliver", events: pub, products: &stubPublisher{}}

	payload := OrderPlacedEvent{
		OrderID:      "ORD-1700000000",
		CustomerName: "reyna",
		ItemCount:    2,
		PlacedAt:     time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC),
	}
	eventID, err := bus.Publish(context.Background(), TypeOrderPlaced, payload)
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if eventID == "" {
		t.Fatal("expected event id")
	}
	if len(pub.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(pub.messages))
	}

	msg := pub.messages[0]
	if msg.Attributes["event_type"] != string(TypeOrderPlaced) {
		t.Fatalf("unexpected event_type attribute %q", msg.Attributes["event_type"])
	}
	if msg.Attributes["source"] != "padeliver" {
		t.Fatalf("unexpected source attribute %q", msg.Attributes["source"])
	}

	var envelope Envelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Version != 1 || envelope.Type != TypeOrderPlaced || envelope.EventID != eventID {
		t.Fatalf("unexpected envelope %+v", envelope)
	}

	var decoded OrderPlacedEvent
	if err := json.Unmarshal(envelope.Data, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.OrderID != payload.OrderID || decoded.ItemCount != 2 {
		t.Fatalf("unexpected payload %+v", decoded)
	}
}

func TestPublishRequiresType(t *testing.T) {
	t.Parallel()

	bus := &Bus{source: "padeliver", events: &stubPublisher{}, products: &stubPublisher{}}
	if _, err := bus.Publish(context.Background(), "", struct{}{}); err == nil {
		t.Fatal("expected error for empty event type")
	}
}

func TestPublishSurfacesResultError(t *testing.T) {
	t.Parallel()

	pub := &stubPublisher{err: errors.New("deadline")}
	bus := &Bus{source: "padeliver", events: pub, products: &stubPublisher{}}
	if _, err := bus.Publish(context.Background(), TypeProductCreated, ProductCreatedEvent{ProductID: "p1"}); err == nil {
		t.Fatal("expected error when result fails")
	}
}

func TestEnqueueProduct(t *testing.T) {
	t.Parallel()

	pub := &stubPublisher{}
	bus := &Bus{source: "padeliver", events: &stubPublisher{}, products: pub}

	payload := ProductCreatedEvent{ProductID: "pd-1", Item: "burger", Price: "120.50"}
	if err := bus.EnqueueProduct(context.Background(), payload); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if len(pub.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(pub.messages))
	}
	if pub.messages[0].Attributes["product_id"] != "pd-1" {
		t.Fatalf("unexpected attributes %+v", pub.messages[0].Attributes)
	}

	var decoded ProductCreatedEvent
	if err := json.Unmarshal(pub.messages[0].Data, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.Item != "burger" {
		t.Fatalf("unexpected payload %+v", decoded)
	}
}
