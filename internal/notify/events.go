package notify

import (
	"context"
	"fmt"

	"github.com/tair/pharmadistrib/internal/domain"
	"github.com/tair/pharmadistrib/internal/store"
	"github.com/tair/pharmadistrib/pkg/logger"
)

// Store is what the event notifier needs from the store
type Store interface {
	Executor
	State() domain.State
}

// Event types the notifier reacts to
const (
	EventOrderCreated   = "order.created"
	EventProductUpdated = "product.updated"
)

// EventNotifier turns store events into notifications for one recipient
type EventNotifier struct {
	store       Store
	recipientID string
}

// NewEventNotifier creates a notifier addressing recipientID
func NewEventNotifier(s Store, recipientID string) *EventNotifier {
	return &EventNotifier{store: s, recipientID: recipientID}
}

// EventTypes lists the events Handle acts on
func (n *EventNotifier) EventTypes() []string {
	return []string{EventOrderCreated, EventProductUpdated}
}

// Handle reacts to one event. Unrelated events and vanished entities are ignored.
func (n *EventNotifier) Handle(ctx context.Context, event store.Event) error {
	var notification *domain.Notification

	switch event.EventType {
	case EventOrderCreated:
		notification = n.orderCreated(event.EntityID)
	case EventProductUpdated:
		notification = n.productUpdated(event.EntityID)
	default:
		return nil
	}
	if notification == nil {
		return nil
	}

	if err := n.store.Execute(ctx, store.AddNotification(*notification)); err != nil {
		return fmt.Errorf("failed to notify %s: %w", event.EventType, err)
	}
	logger.Debug(ctx).
		Str("event_type", event.EventType).
		Str("entity_id", event.EntityID).
		Str("title", notification.Title).
		Msg("Notification raised from store event")
	return nil
}

func (n *EventNotifier) orderCreated(orderID string) *domain.Notification {
	for _, o := range n.store.State().Orders {
		if o.ID != orderID {
			continue
		}
		return &domain.Notification{
			UserID:  n.recipientID,
			Title:   "Nouvelle commande",
			Message: fmt.Sprintf("Commande #%s reçue de %s", o.ID, o.ClientName),
			Type:    domain.NotificationInfo,
		}
	}
	return nil
}

func (n *EventNotifier) productUpdated(productID string) *domain.Notification {
	p, ok := domain.FindProduct(n.store.State().Products, productID)
	if !ok || !p.IsLowStock() {
		return nil
	}
	return &domain.Notification{
		UserID:  n.recipientID,
		Title:   "Stock faible",
		Message: fmt.Sprintf("%s - Stock critique (%d unités restantes)", p.Name, p.Stock),
		Type:    domain.NotificationWarning,
	}
}

// DirectPublisher hands committed events straight to the notifier, for
// deployments without a broker
type DirectPublisher struct {
	Notifier *EventNotifier
}

// Publish implements store.EventPublisher
func (p DirectPublisher) Publish(ctx context.Context, events []store.Event) error {
	for _, e := range events {
		if err := p.Notifier.Handle(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
