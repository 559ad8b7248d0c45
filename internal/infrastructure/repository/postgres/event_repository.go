package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/padelista/padel-stats/internal/domain/event"
	qb "github.com/padelista/padel-stats/internal/platform/querybuilder"
)

const eventColumns = "id, match_id, player_id, event_type, observer_id, payload, recorded_at"

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Append persists one observation. The timestamp is assigned by the database
// so the log stays ordered under concurrent recorders.
func (r *EventRepository) Append(ctx context.Context, e event.Event) (event.Event, error) {
	payload, err := event.EncodePayload(e.Detail)
	if err != nil {
		return event.Event{}, fmt.Errorf("encode event payload: %w", err)
	}

	query, args, err := qb.InsertInto("match_events").
		Columns("id", "match_id", "player_id", "event_type", "observer_id", "payload").
		Values(e.ID, e.MatchID, e.PlayerID, string(e.Type), e.ObserverID, payload).
		Suffix("RETURNING recorded_at").
		ToSQL()
	if err != nil {
		return event.Event{}, fmt.Errorf("build insert event query: %w", err)
	}

	var recordedAt time.Time
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&recordedAt); err != nil {
		return event.Event{}, fmt.Errorf("insert event: %w", err)
	}

	e.Timestamp = recordedAt
	return e, nil
}

func (r *EventRepository) ListByMatch(ctx context.Context, matchID string) ([]event.Event, error) {
	query, args, err := qb.Select(eventColumns).From("match_events").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("recorded_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list events query: %w", err)
	}

	var rows []eventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	out := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		e, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
