package usecase

import (
	"context"
	"fmt"

	"github.com/padelista/padel-stats/internal/domain/match"
	"github.com/padelista/padel-stats/internal/domain/user"
	"github.com/padelista/padel-stats/internal/platform/cache"
	idgen "github.com/padelista/padel-stats/internal/platform/id"
	"github.com/padelista/padel-stats/internal/platform/logging"
)

// Notifier publishes a best-effort message to every viewer of a match room.
// Delivery is at-most-once and never affects the authoritative write.
type Notifier interface {
	Publish(ctx context.Context, matchID string, message any)
}

// NopNotifier is used where live broadcast is not wired, e.g. in tests.
type NopNotifier struct{}

func (NopNotifier) Publish(context.Context, string, any) {}

const matchRosterSize = 4

type MatchService struct {
	matches  match.Repository
	users    user.Repository
	ids      idgen.Generator
	notifier Notifier
	// rosterCache is the same store the event service reads rosters from;
	// deleting a match must evict its entry or stale reads outlive the match.
	rosterCache *cache.Store
	logger      *logging.Logger
}

func NewMatchService(
	matches match.Repository,
	users user.Repository,
	ids idgen.Generator,
	notifier Notifier,
	rosterCache *cache.Store,
	logger *logging.Logger,
) *MatchService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		matches:     matches,
		users:       users,
		ids:         ids,
		notifier:    notifier,
		rosterCache: rosterCache,
		logger:      logger,
	}
}

type CreateMatchInput struct {
	Type         match.MatchType
	Phase        match.Phase
	PlayerIDs    []string
	TournamentID string
}

// CreateMatch validates the roster before any mutation: a wrong player count,
// a duplicate id or an id that does not resolve to an existing user fails the
// whole request and persists nothing.
func (s *MatchService) CreateMatch(ctx context.Context, input CreateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.CreateMatch")
	defer span.End()

	if _, ok := match.AllTypes[input.Type]; !ok {
		return match.Match{}, fmt.Errorf("%w: unknown match type %q", ErrInvalidInput, input.Type)
	}
	if input.Phase != "" {
		if _, ok := match.AllPhases[input.Phase]; !ok {
			return match.Match{}, fmt.Errorf("%w: unknown tournament phase %q", ErrInvalidInput, input.Phase)
		}
	}
	if len(input.PlayerIDs) != matchRosterSize {
		return match.Match{}, fmt.Errorf("%w: a match needs exactly %d players, got %d", ErrInvalidInput, matchRosterSize, len(input.PlayerIDs))
	}

	seen := make(map[string]struct{}, matchRosterSize)
	for _, playerID := range input.PlayerIDs {
		if playerID == "" {
			return match.Match{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
		}
		if _, dup := seen[playerID]; dup {
			return match.Match{}, fmt.Errorf("%w: duplicate player %s", ErrInvalidInput, playerID)
		}
		seen[playerID] = struct{}{}
	}

	resolved, err := s.users.ListByIDs(ctx, input.PlayerIDs)
	if err != nil {
		return match.Match{}, fmt.Errorf("resolve players: %w", err)
	}
	if len(resolved) != matchRosterSize {
		return match.Match{}, fmt.Errorf("%w: all %d players must be existing users", ErrInvalidInput, matchRosterSize)
	}

	matchID, err := s.ids.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}

	m := match.Match{
		ID:           matchID,
		Type:         input.Type,
		Phase:        input.Phase,
		Status:       match.StatusInProgress,
		TournamentID: input.TournamentID,
		Players:      rosterAssignments(matchID, input.PlayerIDs),
	}
	if err := s.matches.Create(ctx, m); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}

	s.logger.InfoContext(ctx, "match created", "match_id", m.ID, "type", m.Type)
	return m, nil
}

// rosterAssignments seats ids[0..1] as team 1 and ids[2..3] as team 2, each
// in positions 1 and 2.
func rosterAssignments(matchID string, playerIDs []string) []match.PlayerAssignment {
	out := make([]match.PlayerAssignment, 0, len(playerIDs))
	for i, playerID := range playerIDs {
		out = append(out, match.PlayerAssignment{
			MatchID:  matchID,
			UserID:   playerID,
			Team:     i/2 + 1,
			Position: i%2 + 1,
		})
	}
	return out
}

func (s *MatchService) GetMatch(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetMatch")
	defer span.End()

	m, exists, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}

	return m, nil
}

func (s *MatchService) ListMatches(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListMatches")
	defer span.End()

	items, err := s.matches.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	return items, nil
}

func (s *MatchService) ListMatchesByStatus(ctx context.Context, status match.Status) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListMatchesByStatus")
	defer span.End()

	if _, ok := match.AllStatuses[status]; !ok {
		return nil, fmt.Errorf("%w: unknown match status %q", ErrInvalidInput, status)
	}

	items, err := s.matches.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list matches by status: %w", err)
	}

	return items, nil
}

func (s *MatchService) ListMatchesByType(ctx context.Context, matchType match.MatchType) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListMatchesByType")
	defer span.End()

	if _, ok := match.AllTypes[matchType]; !ok {
		return nil, fmt.Errorf("%w: unknown match type %q", ErrInvalidInput, matchType)
	}

	items, err := s.matches.ListByType(ctx, matchType)
	if err != nil {
		return nil, fmt.Errorf("list matches by type: %w", err)
	}

	return items, nil
}

// CompleteMatch performs the one-way lifecycle transition and notifies the
// match room. Completing an already completed match fails without touching
// state.
func (s *MatchService) CompleteMatch(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.CompleteMatch")
	defer span.End()

	m, exists, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}

	completed, err := m.Complete()
	if err != nil {
		return match.Match{}, fmt.Errorf("%w: match %s", ErrMatchCompleted, matchID)
	}

	if err := s.matches.UpdateStatus(ctx, matchID, completed.Status); err != nil {
		return match.Match{}, fmt.Errorf("update match status: %w", err)
	}

	s.notifier.Publish(ctx, matchID, map[string]any{
		"kind":    "match-completed",
		"matchId": matchID,
	})
	s.logger.InfoContext(ctx, "match completed", "match_id", matchID)

	return completed, nil
}

func (s *MatchService) DeleteMatch(ctx context.Context, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.DeleteMatch")
	defer span.End()

	_, exists, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}

	if err := s.matches.Delete(ctx, matchID); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	if s.rosterCache != nil {
		s.rosterCache.Delete(ctx, rosterCacheKey(matchID))
	}

	s.logger.InfoContext(ctx, "match deleted", "match_id", matchID)
	return nil
}

type UpdateMatchInput struct {
	Type         *match.MatchType
	Phase        *match.Phase
	TournamentID *string
}

// UpdateMatch changes the descriptive fields of a match. Absent fields keep
// their current value; the status and the roster are not reachable through
// this path, so the one-way lifecycle holds.
func (s *MatchService) UpdateMatch(ctx context.Context, matchID string, input UpdateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.UpdateMatch")
	defer span.End()

	m, exists, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}

	if input.Type != nil {
		if _, ok := match.AllTypes[*input.Type]; !ok {
			return match.Match{}, fmt.Errorf("%w: unknown match type %q", ErrInvalidInput, *input.Type)
		}
		m.Type = *input.Type
	}
	if input.Phase != nil {
		if *input.Phase != "" {
			if _, ok := match.AllPhases[*input.Phase]; !ok {
				return match.Match{}, fmt.Errorf("%w: unknown tournament phase %q", ErrInvalidInput, *input.Phase)
			}
		}
		m.Phase = *input.Phase
	}
	if input.TournamentID != nil {
		m.TournamentID = *input.TournamentID
	}

	if err := s.matches.UpdateDetails(ctx, matchID, m.Type, m.Phase, m.TournamentID); err != nil {
		return match.Match{}, fmt.Errorf("update match details: %w", err)
	}

	s.logger.InfoContext(ctx, "match updated", "match_id", matchID)
	return m, nil
}
