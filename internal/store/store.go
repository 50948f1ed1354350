// Package store owns the application state. Every change is a Command
// executed by Store.Execute, one at a time: the command runs against a
// private copy, the copy is persisted, and only then does it replace the
// live state.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/pharmadistrib/internal/domain"
	"github.com/tair/pharmadistrib/internal/storage"
	"github.com/tair/pharmadistrib/pkg/logger"
)

// DefaultKey is the slot key holding the whole-store blob
const DefaultKey = "pharma-data-store"

var tracer = otel.Tracer("pharmadistrib-store")

// Errors returned by Execute
var (
	ErrPersist         = errors.New("store: failed to persist state")
	ErrEmptyCart       = errors.New("Panier vide")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidPatch    = errors.New("invalid update")
	ErrUserNotFound    = errors.New("user not found")
)

// IsInputError reports whether err was caused by the command's arguments
// rather than by the store itself
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidPatch) ||
		errors.Is(err, ErrUserNotFound)
}

// EventPublisher receives events after their command has been committed
type EventPublisher interface {
	Publish(ctx context.Context, events []Event) error
}

// Store is the single writer over domain.State
type Store struct {
	mu        sync.RWMutex
	state     domain.State
	slot      storage.Slot
	key       string
	ids       IDGenerator
	clock     func() time.Time
	publisher EventPublisher
	metrics   *Metrics
}

// Option configures a Store
type Option func(*Store)

// WithKey overrides the slot key
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithIDGenerator replaces the UUID generator
func WithIDGenerator(ids IDGenerator) Option {
	return func(s *Store) { s.ids = ids }
}

// WithClock replaces time.Now
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithPublisher sets the post-commit event sink
func WithPublisher(p EventPublisher) Option {
	return func(s *Store) { s.publisher = p }
}

// WithMetrics enables prometheus instrumentation
func WithMetrics(m *Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// Open rehydrates the store from slot. An empty slot yields the seed data; so
// does an unreadable snapshot, which is logged and discarded. Only a failure
// to reach the slot is returned as an error.
func Open(ctx context.Context, slot storage.Slot, opts ...Option) (*Store, error) {
	s := &Store{
		slot:  slot,
		key:   DefaultKey,
		ids:   UUIDGenerator,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	ctx, span := tracer.Start(ctx, "store.Open", trace.WithAttributes(attribute.String("store.key", s.key)))
	defer span.End()

	data, err := slot.Load(ctx, s.key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		logger.Info(ctx).Str("key", s.key).Msg("No persisted state, starting from seed data")
		s.state = domain.Seed()
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to load state: %w", err)
	default:
		state, decodeErr := Decode(data)
		if decodeErr != nil {
			logger.Warn(ctx).Err(decodeErr).Str("key", s.key).Msg("Persisted state is unreadable, resetting to seed data")
			span.AddEvent("snapshot discarded")
			state = domain.Seed()
		}
		s.state = state
	}

	s.metrics.observeState(s.state)
	return s, nil
}

// State returns a deep copy of the current state
func (s *Store) State() domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// View runs fn against a snapshot of the state. The snapshot is a copy, so
// fn may keep or modify it freely.
func (s *Store) View(ctx context.Context, fn func(domain.State) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(s.State())
}

// Execute runs cmd and commits its result. When the command fails or the
// new state cannot be persisted, the live state is left untouched and the
// error is returned.
func (s *Store) Execute(ctx context.Context, cmd Command) error {
	ctx, span := tracer.Start(ctx, "store."+cmd.Name(),
		trace.WithAttributes(attribute.String("store.command", cmd.Name())),
	)
	defer span.End()

	start := time.Now()
	events, err := s.execute(ctx, cmd)
	s.metrics.observeCommand(cmd.Name(), err, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		event := logger.Error(ctx)
		if IsInputError(err) {
			event = logger.Warn(ctx)
		}
		event.Err(err).Str("command", cmd.Name()).Msg("Store command failed")
		return err
	}

	span.SetAttributes(attribute.Int("store.events", len(events)))
	logger.Debug(ctx).Str("command", cmd.Name()).Int("events", len(events)).Msg("Store command committed")

	s.publish(ctx, events)
	return nil
}

func (s *Store) execute(ctx context.Context, cmd Command) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{
		State: s.state.Clone(),
		now:   s.clock(),
		ids:   s.ids,
	}
	if err := cmd.Apply(tx); err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	if !tx.dirty {
		return nil, nil
	}

	tx.State.Normalize()
	data, err := Encode(tx.State)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersist, err)
	}

	persistStart := time.Now()
	err = s.slot.Save(ctx, s.key, data)
	s.metrics.observePersist(time.Since(persistStart), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	s.state = tx.State
	s.metrics.observeState(s.state)
	return tx.events, nil
}

// SetPublisher replaces the post-commit event sink, for sinks that
// themselves depend on the store
func (s *Store) SetPublisher(p EventPublisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publisher = p
}

func (s *Store) publish(ctx context.Context, events []Event) {
	s.mu.RLock()
	publisher := s.publisher
	s.mu.RUnlock()

	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events); err != nil {
		logger.Warn(ctx).Err(err).Int("events", len(events)).Msg("Failed to publish store events")
	}
}
