package match

import "context"

type Repository interface {
	// Create persists the match and its four player assignments atomically:
	// either all rows land or none do.
	Create(ctx context.Context, m Match) error
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	List(ctx context.Context) ([]Match, error)
	ListByStatus(ctx context.Context, status Status) ([]Match, error)
	ListByType(ctx context.Context, matchType MatchType) ([]Match, error)
	UpdateStatus(ctx context.Context, matchID string, status Status) error
	// UpdateDetails changes the descriptive fields of a match. Status and the
	// roster are immutable through this path.
	UpdateDetails(ctx context.Context, matchID string, matchType MatchType, phase Phase, tournamentID string) error
	// Delete removes the match and cascades to assignments, events and stats.
	Delete(ctx context.Context, matchID string) error
}
