package memory

import (
	"context"
	"sync"
	"time"

	"github.com/padelista/padel-stats/internal/domain/event"
)

type EventRepository struct {
	mu      sync.Mutex
	byMatch map[string][]event.Event
	lastTS  map[string]time.Time
}

func NewEventRepository() *EventRepository {
	return &EventRepository{
		byMatch: make(map[string][]event.Event),
		lastTS:  make(map[string]time.Time),
	}
}

func (r *EventRepository) Append(_ context.Context, e event.Event) (event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Timestamps are non-decreasing within a match so the log stays ordered.
	now := time.Now().UTC()
	if last, ok := r.lastTS[e.MatchID]; ok && !now.After(last) {
		now = last.Add(time.Microsecond)
	}
	r.lastTS[e.MatchID] = now
	e.Timestamp = now

	r.byMatch[e.MatchID] = append(r.byMatch[e.MatchID], e)
	return e, nil
}

func (r *EventRepository) ListByMatch(_ context.Context, matchID string) ([]event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.byMatch[matchID]
	out := make([]event.Event, len(items))
	copy(out, items)
	return out, nil
}
