package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/rcvillanueva/padeliver-backend/pkg/events"
	"github.com/rcvillanueva/padeliver-backend/pkg/logger"
)

// Consumer drains product-created messages from the products queue. The
// original pipeline fanned these out to downstream caches; here the processed
// payload is logged so operators can follow catalog churn.
type Consumer struct {
	subscription *pubsub.Subscriber
	logg         *logger.Logger
}

// NewConsumer constructs a consumer that watches the provided subscription.
func NewConsumer(subscription *pubsub.Subscriber, logg *logger.Logger) (*Consumer, error) {
	if subscription == nil {
		return nil, errors.New("products subscription is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Consumer{subscription: subscription, logg: logg}, nil
}

// Run processes messages until the context is canceled or the subscription errors.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		c.process(ctx, msg.ID, msg.Attributes, msg.Data)
		msg.Ack()
	})
}

// process logs one queue message. Malformed messages are logged and dropped;
// the queue is advisory and must never wedge on bad input.
func (c *Consumer) process(ctx context.Context, msgID string, attrs map[string]string, data []byte) {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msgID,
		"source":     attrs["source"],
	})

	var payload events.ProductCreatedEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		c.logg.Error(logCtx, "failed to unmarshal product payload", err)
		return
	}
	if strings.TrimSpace(payload.ProductID) == "" {
		c.logg.Error(logCtx, "product payload missing product_id", errors.New("empty product_id"))
		return
	}
	if attrID := attrs["product_id"]; attrID != "" && attrID != payload.ProductID {
		c.logg.Warn(logCtx, "attribute product_id differs from payload")
	}

	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"product_id": payload.ProductID,
		"item":       payload.Item,
		"brand":      payload.Brand,
	})
	c.logg.Info(logCtx, "product created")
}
