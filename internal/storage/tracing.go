package storage

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("pharmadistrib-storage")

// TracingSlot wraps a Slot with spans
type TracingSlot struct {
	Slot
	backend string
}

// NewTracingSlot wraps slot; backend becomes the storage.backend span attribute
func NewTracingSlot(slot Slot, backend string) *TracingSlot {
	return &TracingSlot{Slot: slot, backend: backend}
}

// Load with tracing
func (s *TracingSlot) Load(ctx context.Context, key string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "storage.Load",
		trace.WithAttributes(
			attribute.String("storage.backend", s.backend),
			attribute.String("storage.key", key),
		),
	)
	defer span.End()

	data, err := s.Slot.Load(ctx, key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("storage.found", err == nil),
		attribute.Int("storage.bytes", len(data)),
	)
	return data, err
}

// Save with tracing
func (s *TracingSlot) Save(ctx context.Context, key string, data []byte) error {
	ctx, span := tracer.Start(ctx, "storage.Save",
		trace.WithAttributes(
			attribute.String("storage.backend", s.backend),
			attribute.String("storage.key", key),
			attribute.Int("storage.bytes", len(data)),
		),
	)
	defer span.End()

	if err := s.Slot.Save(ctx, key, data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
