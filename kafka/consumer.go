package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/pharmadistrib/internal/store"
	"github.com/tair/pharmadistrib/pkg/logger"
)

var errMissingEventType = errors.New("message without event_type header")

// EventHandler handles one store event
type EventHandler func(ctx context.Context, event store.Event) error

// Consumer dispatches store events read from Kafka to the handler registered
// for their event type. Events nobody registered for are skipped.
type Consumer struct {
	group   sarama.ConsumerGroup
	groupID string
	topics  []string

	mu       sync.RWMutex
	handlers map[string]EventHandler

	wg sync.WaitGroup
}

// NewConsumer joins groupID on brokers. Consumption begins with Start.
func NewConsumer(brokers []string, groupID string, topics []string) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_6_0_0
	config.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Str("group_id", groupID).
		Strs("topics", topics).
		Msg("Kafka consumer initialized")

	c := newConsumer(groupID, topics)
	c.group = group
	return c, nil
}

func newConsumer(groupID string, topics []string) *Consumer {
	return &Consumer{
		groupID:  groupID,
		topics:   topics,
		handlers: make(map[string]EventHandler),
	}
}

// RegisterHandler routes eventType to handler, replacing any previous one
func (c *Consumer) RegisterHandler(eventType string, handler EventHandler) {
	c.mu.Lock()
	c.handlers[eventType] = handler
	c.mu.Unlock()

	logger.Logger.Debug().
		Str("event_type", eventType).
		Msg("Event handler registered")
}

func (c *Consumer) handler(eventType string) (EventHandler, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.handlers[eventType]
	return h, ok
}

// Start consumes in the background until ctx is cancelled or Close is called
func (c *Consumer) Start(ctx context.Context) error {
	if c.group == nil {
		return errors.New("kafka consumer is not connected")
	}

	c.wg.Add(2)
	go c.consumeLoop(ctx)
	go c.errorLoop()

	logger.Logger.Info().
		Strs("topics", c.topics).
		Str("group_id", c.groupID).
		Msg("Kafka consumer started")
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()
	handler := &consumerGroupHandler{consumer: c}

	// Consume returns on every rebalance and must be called again
	for ctx.Err() == nil {
		err := c.group.Consume(ctx, c.topics, handler)
		if errors.Is(err, sarama.ErrClosedConsumerGroup) {
			return
		}
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Error from consumer")
		}
	}
	logger.Logger.Info().Msg("Consumer context cancelled, stopping...")
}

func (c *Consumer) errorLoop() {
	defer c.wg.Done()
	for err := range c.group.Errors() {
		logger.Logger.Error().Err(err).Msg("Consumer error")
	}
}

// Close leaves the group and waits for the background loops
func (c *Consumer) Close() error {
	if c.group == nil {
		return nil
	}
	err := c.group.Close()
	c.wg.Wait()
	return err
}

// dispatch decodes payload and hands it to the handler for eventType
func (c *Consumer) dispatch(ctx context.Context, eventType string, payload []byte) (store.Event, error) {
	var event store.Event
	if eventType == "" {
		return event, errMissingEventType
	}
	handle, ok := c.handler(eventType)
	if !ok {
		return event, nil
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return event, fmt.Errorf("failed to unmarshal %s event: %w", eventType, err)
	}
	if err := handle(ctx, event); err != nil {
		return event, fmt.Errorf("handler for %s failed: %w", eventType, err)
	}
	return event, nil
}

// consumerGroupHandler implements sarama.ConsumerGroupHandler
type consumerGroupHandler struct {
	consumer *Consumer
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		h.handleMessage(session.Context(), message)
		// Failed events are logged and skipped, never redelivered
		session.MarkMessage(message, "")
	}
	return nil
}

func (h *consumerGroupHandler) handleMessage(ctx context.Context, message *sarama.ConsumerMessage) {
	ctx = otel.GetTextMapPropagator().Extract(ctx, traceCarrier(message.Headers))
	eventType := headerValue(message.Headers, HeaderEventType)

	ctx, span := otel.Tracer("kafka-consumer").Start(ctx, "kafka.consume."+message.Topic,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.source", message.Topic),
			attribute.Int("messaging.kafka.partition", int(message.Partition)),
			attribute.Int64("messaging.kafka.offset", message.Offset),
			attribute.String("event.type", eventType),
			attribute.String("event.id", headerValue(message.Headers, HeaderEventID)),
		),
	)
	defer span.End()

	event, err := h.consumer.dispatch(ctx, eventType, message.Value)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error(ctx).
			Err(err).
			Str("topic", message.Topic).
			Int64("offset", message.Offset).
			Msg("Dropped Kafka message")
		return
	}

	span.SetAttributes(
		attribute.String("store.collection", event.Collection),
		attribute.String("store.entity_id", event.EntityID),
	)
	logger.Debug(ctx).
		Str("event_type", eventType).
		Str("event_id", event.EventID).
		Str("entity_id", event.EntityID).
		Msg("Event handled")
}

func headerValue(headers []*sarama.RecordHeader, key string) string {
	for _, h := range headers {
		if string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}

// traceCarrier collects the W3C trace context headers of a message
func traceCarrier(headers []*sarama.RecordHeader) propagation.MapCarrier {
	carrier := propagation.MapCarrier{}
	for _, key := range []string{"traceparent", "tracestate"} {
		if v := headerValue(headers, key); v != "" {
			carrier[key] = v
		}
	}
	return carrier
}
