package postgres

import (
	"fmt"
	"time"

	"github.com/padelista/padel-stats/internal/domain/event"
)

type eventTableModel struct {
	ID         string    `db:"id"`
	MatchID    string    `db:"match_id"`
	PlayerID   string    `db:"player_id"`
	EventType  string    `db:"event_type"`
	ObserverID string    `db:"observer_id"`
	Payload    []byte    `db:"payload"`
	RecordedAt time.Time `db:"recorded_at"`
}

func (m eventTableModel) toDomain() (event.Event, error) {
	detail, err := event.DecodePayload(event.Type(m.EventType), m.Payload)
	if err != nil {
		return event.Event{}, fmt.Errorf("decode payload of event %s: %w", m.ID, err)
	}

	return event.Event{
		ID:         m.ID,
		MatchID:    m.MatchID,
		PlayerID:   m.PlayerID,
		Type:       event.Type(m.EventType),
		ObserverID: m.ObserverID,
		Timestamp:  m.RecordedAt,
		Detail:     detail,
	}, nil
}
