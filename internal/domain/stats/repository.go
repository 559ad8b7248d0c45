package stats

import "context"

type Repository interface {
	GetByMatchAndPlayer(ctx context.Context, matchID, playerID string) (PlayerStats, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]PlayerStats, error)
	Upsert(ctx context.Context, s PlayerStats) error
}
