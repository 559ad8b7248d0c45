package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/padelista/padel-stats/internal/domain/match"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Match
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{items: make(map[string]match.Match)}
}

func (r *MatchRepository) Create(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	r.items[m.ID] = m
	return nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[matchID]
	return m, ok, nil
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(match.Match) bool { return true }), nil
}

func (r *MatchRepository) ListByStatus(_ context.Context, status match.Status) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(m match.Match) bool { return m.Status == status }), nil
}

func (r *MatchRepository) ListByType(_ context.Context, matchType match.MatchType) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(m match.Match) bool { return m.Type == matchType }), nil
}

func (r *MatchRepository) UpdateStatus(_ context.Context, matchID string, status match.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[matchID]
	if !ok {
		return nil
	}
	m.Status = status
	r.items[matchID] = m
	return nil
}

func (r *MatchRepository) UpdateDetails(_ context.Context, matchID string, matchType match.MatchType, phase match.Phase, tournamentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[matchID]
	if !ok {
		return nil
	}
	m.Type = matchType
	m.Phase = phase
	m.TournamentID = tournamentID
	r.items[matchID] = m
	return nil
}

func (r *MatchRepository) Delete(_ context.Context, matchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, matchID)
	return nil
}

// filter is called with the lock held; newest matches come first, matching
// the postgres ordering.
func (r *MatchRepository) filter(keep func(match.Match) bool) []match.Match {
	out := make([]match.Match, 0, len(r.items))
	for _, m := range r.items {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
