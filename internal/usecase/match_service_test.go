package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padelista/padel-stats/internal/domain/match"
	"github.com/padelista/padel-stats/internal/domain/user"
	"github.com/padelista/padel-stats/internal/infrastructure/repository/memory"
	"github.com/padelista/padel-stats/internal/platform/cache"
	idgen "github.com/padelista/padel-stats/internal/platform/id"
	"github.com/padelista/padel-stats/internal/platform/logging"
)

func seedUsers(ids ...string) *memory.UserRepository {
	users := make([]user.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, user.User{ID: id, Username: "user-" + id, Email: id + "@padel.test"})
	}
	return memory.NewUserRepository(users...)
}

func newMatchService(users *memory.UserRepository) (*MatchService, *memory.MatchRepository, *spyNotifier) {
	matches := memory.NewMatchRepository()
	spy := &spyNotifier{}
	service := NewMatchService(matches, users, idgen.NewRandomGenerator(), spy, nil, logging.NewNop())
	return service, matches, spy
}

func TestMatchService_CreateMatch(t *testing.T) {
	t.Parallel()

	service, _, _ := newMatchService(seedUsers("a", "b", "c", "d"))

	created, err := service.CreateMatch(context.Background(), CreateMatchInput{
		Type:      match.TypeTournament,
		Phase:     match.PhaseSemifinal,
		PlayerIDs: []string{"a", "b", "c", "d"},
	})
	require.NoError(t, err)

	assert.Equal(t, match.StatusInProgress, created.Status)
	require.Len(t, created.Players, 4)
	assert.Equal(t, match.PlayerAssignment{MatchID: created.ID, UserID: "a", Team: 1, Position: 1}, created.Players[0])
	assert.Equal(t, match.PlayerAssignment{MatchID: created.ID, UserID: "b", Team: 1, Position: 2}, created.Players[1])
	assert.Equal(t, match.PlayerAssignment{MatchID: created.ID, UserID: "c", Team: 2, Position: 1}, created.Players[2])
	assert.Equal(t, match.PlayerAssignment{MatchID: created.ID, UserID: "d", Team: 2, Position: 2}, created.Players[3])
}

func TestMatchService_CreateMatchWrongPlayerCount(t *testing.T) {
	t.Parallel()

	service, matches, _ := newMatchService(seedUsers("a", "b", "c", "d"))

	_, err := service.CreateMatch(context.Background(), CreateMatchInput{
		Type:      match.TypeFriendly,
		PlayerIDs: []string{"a", "b", "c"},
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	persisted, err := matches.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, persisted, "a failed create must persist nothing")
}

func TestMatchService_CreateMatchUnknownPlayer(t *testing.T) {
	t.Parallel()

	service, matches, _ := newMatchService(seedUsers("a", "b", "c"))

	_, err := service.CreateMatch(context.Background(), CreateMatchInput{
		Type:      match.TypeFriendly,
		PlayerIDs: []string{"a", "b", "c", "ghost"},
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	persisted, err := matches.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestMatchService_CreateMatchDuplicatePlayer(t *testing.T) {
	t.Parallel()

	service, _, _ := newMatchService(seedUsers("a", "b", "c", "d"))

	_, err := service.CreateMatch(context.Background(), CreateMatchInput{
		Type:      match.TypeFriendly,
		PlayerIDs: []string{"a", "a", "b", "c"},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestMatchService_CreateMatchUnknownPhase(t *testing.T) {
	t.Parallel()

	service, _, _ := newMatchService(seedUsers("a", "b", "c", "d"))

	_, err := service.CreateMatch(context.Background(), CreateMatchInput{
		Type:      match.TypeTournament,
		Phase:     match.Phase("GROUP_STAGE"),
		PlayerIDs: []string{"a", "b", "c", "d"},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestMatchService_CompleteMatchOnce(t *testing.T) {
	t.Parallel()

	service, matches, spy := newMatchService(seedUsers("a", "b", "c", "d"))
	ctx := context.Background()

	created, err := service.CreateMatch(ctx, CreateMatchInput{
		Type:      match.TypeFriendly,
		PlayerIDs: []string{"a", "b", "c", "d"},
	})
	require.NoError(t, err)

	completed, err := service.CompleteMatch(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusCompleted, completed.Status)
	assert.Equal(t, 1, spy.count(), "completion should notify the match room")

	_, err = service.CompleteMatch(ctx, created.ID)
	require.ErrorIs(t, err, ErrMatchCompleted)

	stored, exists, err := matches.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, match.StatusCompleted, stored.Status, "second completion must not alter state")
}

func TestMatchService_CompleteMatchNotFound(t *testing.T) {
	t.Parallel()

	service, _, _ := newMatchService(seedUsers())
	_, err := service.CompleteMatch(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMatchService_ListByStatusValidation(t *testing.T) {
	t.Parallel()

	service, _, _ := newMatchService(seedUsers("a", "b", "c", "d"))
	ctx := context.Background()

	_, err := service.ListMatchesByStatus(ctx, match.Status("PAUSED"))
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.CreateMatch(ctx, CreateMatchInput{
		Type:      match.TypeFriendly,
		PlayerIDs: []string{"a", "b", "c", "d"},
	})
	require.NoError(t, err)

	inProgress, err := service.ListMatchesByStatus(ctx, match.StatusInProgress)
	require.NoError(t, err)
	assert.Len(t, inProgress, 1)

	completed, err := service.ListMatchesByStatus(ctx, match.StatusCompleted)
	require.NoError(t, err)
	assert.Empty(t, completed)
}

func TestMatchService_UpdateMatch(t *testing.T) {
	t.Parallel()

	service, matches, _ := newMatchService(seedUsers("a", "b", "c", "d"))
	ctx := context.Background()

	created, err := service.CreateMatch(ctx, CreateMatchInput{
		Type:      match.TypeTournament,
		Phase:     match.PhaseSemifinal,
		PlayerIDs: []string{"a", "b", "c", "d"},
	})
	require.NoError(t, err)

	phase := match.PhaseFinal
	tournamentID := "t-42"
	updated, err := service.UpdateMatch(ctx, created.ID, UpdateMatchInput{
		Phase:        &phase,
		TournamentID: &tournamentID,
	})
	require.NoError(t, err)

	assert.Equal(t, match.PhaseFinal, updated.Phase)
	assert.Equal(t, "t-42", updated.TournamentID)
	assert.Equal(t, match.TypeTournament, updated.Type, "absent fields keep their value")
	assert.Equal(t, match.StatusInProgress, updated.Status, "update must not touch the status")

	stored, exists, err := matches.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, match.PhaseFinal, stored.Phase)
	assert.Equal(t, "t-42", stored.TournamentID)
	assert.Len(t, stored.Players, 4, "update must not touch the roster")
}

func TestMatchService_UpdateMatchValidation(t *testing.T) {
	t.Parallel()

	service, _, _ := newMatchService(seedUsers("a", "b", "c", "d"))
	ctx := context.Background()

	created, err := service.CreateMatch(ctx, CreateMatchInput{
		Type:      match.TypeFriendly,
		PlayerIDs: []string{"a", "b", "c", "d"},
	})
	require.NoError(t, err)

	badType := match.MatchType("EXHIBITION")
	_, err = service.UpdateMatch(ctx, created.ID, UpdateMatchInput{Type: &badType})
	require.ErrorIs(t, err, ErrInvalidInput)

	badPhase := match.Phase("GROUP_STAGE")
	_, err = service.UpdateMatch(ctx, created.ID, UpdateMatchInput{Phase: &badPhase})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.UpdateMatch(ctx, "ghost", UpdateMatchInput{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMatchService_UpdateMatchClearsPhase(t *testing.T) {
	t.Parallel()

	service, _, _ := newMatchService(seedUsers("a", "b", "c", "d"))
	ctx := context.Background()

	created, err := service.CreateMatch(ctx, CreateMatchInput{
		Type:      match.TypeTournament,
		Phase:     match.PhaseQuarterfinal,
		PlayerIDs: []string{"a", "b", "c", "d"},
	})
	require.NoError(t, err)

	empty := match.Phase("")
	updated, err := service.UpdateMatch(ctx, created.ID, UpdateMatchInput{Phase: &empty})
	require.NoError(t, err)
	assert.Empty(t, updated.Phase)
}

func TestMatchService_DeleteMatch(t *testing.T) {
	t.Parallel()

	service, matches, _ := newMatchService(seedUsers("a", "b", "c", "d"))
	ctx := context.Background()

	created, err := service.CreateMatch(ctx, CreateMatchInput{
		Type:      match.TypeFriendly,
		PlayerIDs: []string{"a", "b", "c", "d"},
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteMatch(ctx, created.ID))

	_, exists, err := matches.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.ErrorIs(t, service.DeleteMatch(ctx, created.ID), ErrNotFound)
}

func TestMatchService_DeleteMatchEvictsRosterCache(t *testing.T) {
	t.Parallel()

	users := seedUsers("a", "b", "c", "d")
	matches := memory.NewMatchRepository()
	rosterCache := cache.NewStore(time.Minute)
	ids := idgen.NewRandomGenerator()

	matchSvc := NewMatchService(matches, users, ids, nil, rosterCache, logging.NewNop())
	eventSvc := NewEventService(memory.NewEventRepository(), matches, memory.NewStatsRepository(), ids, nil, rosterCache, logging.NewNop())
	ctx := context.Background()

	created, err := matchSvc.CreateMatch(ctx, CreateMatchInput{
		Type:      match.TypeFriendly,
		PlayerIDs: []string{"a", "b", "c", "d"},
	})
	require.NoError(t, err)

	// Warm the roster cache through a stats read.
	warm, err := eventSvc.GetMatchStats(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, warm, 4)

	require.NoError(t, matchSvc.DeleteMatch(ctx, created.ID))

	// The cached roster must not outlive the match.
	_, err = eventSvc.GetMatchStats(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = eventSvc.GetMatchEvents(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
