package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-storefront/internal/events"
	"github.com/noah-isme/backend-storefront/internal/store"
)

type stubStore struct {
	lastTopic   string
	lastPayload []byte
	err         error
}

func (s *stubStore) InsertDomainEvent(_ context.Context, topic string, aggregateID uuid.UUID, payload []byte) (store.DomainEvent, error) {
	if s.err != nil {
		return store.DomainEvent{}, s.err
	}
	s.lastTopic = topic
	s.lastPayload = payload
	return store.DomainEvent{
		ID:          uuid.New(),
		Topic:       topic,
		AggregateID: aggregateID,
		Payload:     payload,
		OccurredAt:  time.Now(),
	}, nil
}

type captureNotifier struct {
	events []store.DomainEvent
	err    error
}

func (c *captureNotifier) Notify(_ context.Context, event store.DomainEvent) error {
	c.events = append(c.events, event)
	return c.err
}

func TestEmitPersistsAndFansOut(t *testing.T) {
	st := &stubStore{}
	notifier := &captureNotifier{}
	bus := events.Bus{Store: st, Notifiers: []events.Notifier{notifier}}

	aggregate := uuid.New()
	ev, err := bus.Emit(context.Background(), events.TopicOrderPlaced, aggregate, map[string]any{"orderId": aggregate.String()})
	require.NoError(t, err)
	require.Equal(t, events.TopicOrderPlaced, st.lastTopic)
	require.Len(t, notifier.events, 1)
	require.Equal(t, ev.ID, notifier.events[0].ID)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(ev.Payload, &decoded))
	require.Equal(t, aggregate.String(), decoded["orderId"])
}

func TestEmitValidatesInput(t *testing.T) {
	bus := events.Bus{Store: &stubStore{}}
	_, err := bus.Emit(context.Background(), "  ", uuid.New(), nil)
	require.Error(t, err)
	_, err = bus.Emit(context.Background(), events.TopicOrderPlaced, uuid.Nil, nil)
	require.Error(t, err)
}

func TestEmitNotifierFailureKeepsEvent(t *testing.T) {
	st := &stubStore{}
	notifier := &captureNotifier{err: errors.New("smtp down")}
	bus := events.Bus{Store: st, Notifiers: []events.Notifier{notifier}}

	ev, err := bus.Emit(context.Background(), events.TopicOrderPlaced, uuid.New(), nil)
	require.Error(t, err, "notifier failure must surface")
	require.NotEqual(t, uuid.Nil, ev.ID, "event must still be persisted")
}
