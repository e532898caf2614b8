package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-storefront/internal/store"
)

// EventStore defines the persistence operation required by the event bus.
type EventStore interface {
	InsertDomainEvent(ctx context.Context, topic string, aggregateID uuid.UUID, payload []byte) (store.DomainEvent, error)
}

// Notifier reacts to emitted events (email enqueue, metrics, etc.).
type Notifier interface {
	Notify(ctx context.Context, event store.DomainEvent) error
}

// Bus persists domain events and fans them out to downstream handlers. The
// event is durable once Emit returns a non-error row; notifier failures are
// joined and reported but never undo the persisted event.
type Bus struct {
	Store     EventStore
	Notifiers []Notifier
}

// Emit records the event and dispatches it to all configured handlers.
func (b *Bus) Emit(ctx context.Context, topic string, aggregateID uuid.UUID, payload any) (store.DomainEvent, error) {
	if b == nil || b.Store == nil {
		return store.DomainEvent{}, errors.New("events: store not configured")
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return store.DomainEvent{}, errors.New("events: topic is required")
	}
	if aggregateID == uuid.Nil {
		return store.DomainEvent{}, errors.New("events: aggregate id is required")
	}
	encoded, err := encodePayload(payload)
	if err != nil {
		return store.DomainEvent{}, fmt.Errorf("events: encode payload: %w", err)
	}
	ev, err := b.Store.InsertDomainEvent(ctx, topic, aggregateID, encoded)
	if err != nil {
		return store.DomainEvent{}, fmt.Errorf("events: persist event: %w", err)
	}
	var joined error
	for _, notifier := range b.Notifiers {
		if notifier == nil {
			continue
		}
		if notifyErr := notifier.Notify(ctx, ev); notifyErr != nil {
			joined = errors.Join(joined, fmt.Errorf("events: notifier: %w", notifyErr))
		}
	}
	return ev, joined
}

func encodePayload(payload any) ([]byte, error) {
	if payload == nil {
		return []byte("{}"), nil
	}
	if raw, ok := payload.([]byte); ok {
		if len(raw) == 0 {
			return []byte("{}"), nil
		}
		return raw, nil
	}
	return json.Marshal(payload)
}
