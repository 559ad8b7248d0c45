package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/padelista/padel-stats/internal/domain/event"
	"github.com/padelista/padel-stats/internal/domain/match"
	"github.com/padelista/padel-stats/internal/domain/stats"
	"github.com/padelista/padel-stats/internal/platform/cache"
	idgen "github.com/padelista/padel-stats/internal/platform/id"
	"github.com/padelista/padel-stats/internal/platform/logging"
	"github.com/padelista/padel-stats/internal/platform/resilience"
)

type EventService struct {
	events   event.Repository
	matches  match.Repository
	stats    stats.Repository
	ids      idgen.Generator
	notifier Notifier
	logger   *logging.Logger

	// rosterCache holds match rosters. Assignments never change while a match
	// exists; the match service evicts the entry on delete.
	rosterCache *cache.Store
	// updateLocks serializes the read-modify-write of one player's aggregate;
	// two concurrent events for the same (match, player) would otherwise lose
	// an update.
	updateLocks keyedMutex
	// recomputeFlight collapses concurrent batch recomputations per match.
	recomputeFlight resilience.SingleFlight
}

func NewEventService(
	events event.Repository,
	matches match.Repository,
	statsRepo stats.Repository,
	ids idgen.Generator,
	notifier Notifier,
	rosterCache *cache.Store,
	logger *logging.Logger,
) *EventService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &EventService{
		events:      events,
		matches:     matches,
		stats:       statsRepo,
		ids:         ids,
		notifier:    notifier,
		rosterCache: rosterCache,
		logger:      logger,
	}
}

type RecordEventInput struct {
	MatchID    string
	PlayerID   string
	Type       event.Type
	ObserverID string
	Detail     event.Detail
}

type RecordedEvent struct {
	Event event.Event
	Stats stats.PlayerStats
}

// RecordEvent appends one observation and applies its delta to the player's
// running aggregate. All preconditions are checked before any mutation:
// recording against a missing match fails with not-found, against a completed
// match with the match-closed condition, and neither persists anything.
func (s *EventService) RecordEvent(ctx context.Context, input RecordEventInput) (RecordedEvent, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.RecordEvent")
	defer span.End()

	m, exists, err := s.matches.GetByID(ctx, input.MatchID)
	if err != nil {
		return RecordedEvent{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return RecordedEvent{}, fmt.Errorf("%w: match %s", ErrNotFound, input.MatchID)
	}
	if err := m.EnsureRecordable(); err != nil {
		return RecordedEvent{}, fmt.Errorf("%w: cannot record events for completed match %s", ErrMatchCompleted, input.MatchID)
	}
	if !onRoster(m, input.PlayerID) {
		return RecordedEvent{}, fmt.Errorf("%w: player %s is not assigned to match %s", ErrInvalidInput, input.PlayerID, input.MatchID)
	}

	eventID, err := s.ids.NewID()
	if err != nil {
		return RecordedEvent{}, fmt.Errorf("generate event id: %w", err)
	}

	persisted, err := s.events.Append(ctx, event.Event{
		ID:         eventID,
		MatchID:    input.MatchID,
		PlayerID:   input.PlayerID,
		Type:       input.Type,
		ObserverID: input.ObserverID,
		Detail:     input.Detail,
	})
	if err != nil {
		return RecordedEvent{}, fmt.Errorf("append event: %w", err)
	}

	updated, err := s.applyIncrement(ctx, input)
	if err != nil {
		return RecordedEvent{}, err
	}

	recorded := RecordedEvent{Event: persisted, Stats: stats.Finalize(updated)}
	s.notifier.Publish(ctx, input.MatchID, map[string]any{
		"kind":    "event-recorded",
		"matchId": input.MatchID,
		"event":   eventMessage(persisted),
	})

	return recorded, nil
}

// applyIncrement runs the read-modify-write under the per-(match, player)
// lock. A missing aggregate starts from zero rather than failing.
func (s *EventService) applyIncrement(ctx context.Context, input RecordEventInput) (stats.PlayerStats, error) {
	unlock := s.updateLocks.Lock(input.MatchID + "/" + input.PlayerID)
	defer unlock()

	current, exists, err := s.stats.GetByMatchAndPlayer(ctx, input.MatchID, input.PlayerID)
	if err != nil {
		return stats.PlayerStats{}, fmt.Errorf("get player stats: %w", err)
	}
	if !exists {
		current = stats.Zero(input.MatchID, input.PlayerID)
	}

	updated := stats.Apply(current, input.Type, input.Detail)
	if err := s.stats.Upsert(ctx, updated); err != nil {
		return stats.PlayerStats{}, fmt.Errorf("upsert player stats: %w", err)
	}

	return updated, nil
}

func (s *EventService) GetMatchEvents(ctx context.Context, matchID string) ([]event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.GetMatchEvents")
	defer span.End()

	if _, err := s.roster(ctx, matchID); err != nil {
		return nil, err
	}

	items, err := s.events.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match events: %w", err)
	}

	return items, nil
}

// GetMatchStats returns the cached aggregates with derived percentages, one
// entry per assigned player in roster order; players without events yet show
// a zero aggregate.
func (s *EventService) GetMatchStats(ctx context.Context, matchID string) ([]stats.PlayerStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.GetMatchStats")
	defer span.End()

	roster, err := s.roster(ctx, matchID)
	if err != nil {
		return nil, err
	}

	rows, err := s.stats.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list player stats: %w", err)
	}

	byPlayer := make(map[string]stats.PlayerStats, len(rows))
	for _, row := range rows {
		byPlayer[row.PlayerID] = row
	}

	out := make([]stats.PlayerStats, 0, len(roster))
	for _, playerID := range roster {
		row, ok := byPlayer[playerID]
		if !ok {
			row = stats.Zero(matchID, playerID)
		}
		out = append(out, stats.Finalize(row))
	}

	return out, nil
}

// RecomputeMatchStats rebuilds every aggregate from the full event log,
// bypassing the cached rows. Concurrent calls for the same match share one
// recomputation.
func (s *EventService) RecomputeMatchStats(ctx context.Context, matchID string) ([]stats.PlayerStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.RecomputeMatchStats")
	defer span.End()

	result, err, _ := s.recomputeFlight.Do("recompute:"+matchID, func() (any, error) {
		roster, err := s.roster(ctx, matchID)
		if err != nil {
			return nil, err
		}

		events, err := s.events.ListByMatch(ctx, matchID)
		if err != nil {
			return nil, fmt.Errorf("list match events: %w", err)
		}

		byPlayer := stats.Recompute(events, roster)
		out := make([]stats.PlayerStats, 0, len(roster))
		for _, playerID := range roster {
			out = append(out, byPlayer[playerID])
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]stats.PlayerStats), nil
}

// rosterCacheKey is shared with the match service, which evicts the entry
// when the match is deleted.
func rosterCacheKey(matchID string) string {
	return "roster:" + matchID
}

// roster resolves the assigned player ids for a match. Assignments never
// change while the match exists, so positive lookups are safe to cache.
func (s *EventService) roster(ctx context.Context, matchID string) ([]string, error) {
	load := func(ctx context.Context) (any, error) {
		m, exists, err := s.matches.GetByID(ctx, matchID)
		if err != nil {
			return nil, fmt.Errorf("get match: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
		}
		return m.RosterPlayerIDs(), nil
	}

	if s.rosterCache == nil {
		roster, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return roster.([]string), nil
	}

	roster, err := s.rosterCache.GetOrLoad(ctx, rosterCacheKey(matchID), load)
	if err != nil {
		return nil, err
	}
	return roster.([]string), nil
}

func onRoster(m match.Match, playerID string) bool {
	for _, assignment := range m.Players {
		if assignment.UserID == playerID {
			return true
		}
	}
	return false
}

func eventMessage(e event.Event) map[string]any {
	return map[string]any{
		"id":        e.ID,
		"matchId":   e.MatchID,
		"playerId":  e.PlayerID,
		"eventType": string(e.Type),
		"timestamp": e.Timestamp,
	}
}

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	k.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
