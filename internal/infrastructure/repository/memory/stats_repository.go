package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/padelista/padel-stats/internal/domain/stats"
)

type StatsRepository struct {
	mu    sync.RWMutex
	items map[string]stats.PlayerStats
}

func NewStatsRepository() *StatsRepository {
	return &StatsRepository{items: make(map[string]stats.PlayerStats)}
}

func statsKey(matchID, playerID string) string {
	return matchID + "/" + playerID
}

func (r *StatsRepository) GetByMatchAndPlayer(_ context.Context, matchID, playerID string) (stats.PlayerStats, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[statsKey(matchID, playerID)]
	return s, ok, nil
}

func (r *StatsRepository) ListByMatch(_ context.Context, matchID string) ([]stats.PlayerStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stats.PlayerStats, 0, len(r.items))
	for _, s := range r.items {
		if s.MatchID == matchID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PlayerID < out[j].PlayerID
	})
	return out, nil
}

func (r *StatsRepository) Upsert(_ context.Context, s stats.PlayerStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[statsKey(s.MatchID, s.PlayerID)] = s
	return nil
}
