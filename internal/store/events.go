package store

import (
	"context"

	"github.com/google/uuid"
)

// InsertDomainEvent records a domain event row.
func (q *Queries) InsertDomainEvent(ctx context.Context, topic string, aggregateID uuid.UUID, payload []byte) (DomainEvent, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO domain_events (topic, aggregate_id, payload)
		 VALUES ($1, $2, $3)
		 RETURNING id, topic, aggregate_id, payload, occurred_at`,
		topic, aggregateID, payload)
	var ev DomainEvent
	err := row.Scan(&ev.ID, &ev.Topic, &ev.AggregateID, &ev.Payload, &ev.OccurredAt)
	return ev, err
}
