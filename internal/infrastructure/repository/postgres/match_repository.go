package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/padelista/padel-stats/internal/domain/match"
	qb "github.com/padelista/padel-stats/internal/platform/querybuilder"
)

const matchColumns = "id, match_type, phase, status, tournament_id, created_at"

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Create inserts the match and its player assignments in one transaction.
func (r *MatchRepository) Create(ctx context.Context, m match.Match) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	matchQuery, matchArgs, err := qb.InsertInto("matches").
		Columns("id", "match_type", "phase", "status", "tournament_id", "created_at").
		Values(m.ID, string(m.Type), nullString(string(m.Phase)), string(m.Status), nullString(m.TournamentID), m.CreatedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}

	playersBuilder := qb.InsertInto("match_players").
		Columns("match_id", "user_id", "team", "position")
	for _, p := range m.Players {
		playersBuilder.Values(p.MatchID, p.UserID, p.Team, p.Position)
	}
	playersQuery, playersArgs, err := playersBuilder.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert match players query: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create match tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, matchQuery, matchArgs...); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	if _, err := tx.ExecContext(ctx, playersQuery, playersArgs...); err != nil {
		return fmt.Errorf("insert match players: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create match tx: %w", err)
	}
	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select(matchColumns).From("matches").
		Where(
			qb.Eq("id", matchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}

	players, err := r.playersByMatch(ctx, []string{matchID})
	if err != nil {
		return match.Match{}, false, err
	}

	return row.toDomain(players[matchID]), true, nil
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	return r.list(ctx)
}

func (r *MatchRepository) ListByStatus(ctx context.Context, status match.Status) ([]match.Match, error) {
	return r.list(ctx, qb.Eq("status", string(status)))
}

func (r *MatchRepository) ListByType(ctx context.Context, matchType match.MatchType) ([]match.Match, error) {
	return r.list(ctx, qb.Eq("match_type", string(matchType)))
}

func (r *MatchRepository) list(ctx context.Context, conditions ...qb.Condition) ([]match.Match, error) {
	conditions = append(conditions, qb.IsNull("deleted_at"))

	query, args, err := qb.Select(matchColumns).From("matches").
		Where(conditions...).
		OrderBy("created_at DESC", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	matchIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		matchIDs = append(matchIDs, row.ID)
	}
	players, err := r.playersByMatch(ctx, matchIDs)
	if err != nil {
		return nil, err
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain(players[row.ID]))
	}
	return out, nil
}

func (r *MatchRepository) playersByMatch(ctx context.Context, matchIDs []string) (map[string][]matchPlayerTableModel, error) {
	values := make([]any, 0, len(matchIDs))
	for _, id := range matchIDs {
		values = append(values, id)
	}

	query, args, err := qb.Select("match_id", "user_id", "team", "position").From("match_players").
		Where(qb.In("match_id", values)).
		OrderBy("match_id", "team", "position").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list match players query: %w", err)
	}

	var rows []matchPlayerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list match players: %w", err)
	}

	out := make(map[string][]matchPlayerTableModel, len(matchIDs))
	for _, row := range rows {
		out[row.MatchID] = append(out[row.MatchID], row)
	}
	return out, nil
}

func (r *MatchRepository) UpdateStatus(ctx context.Context, matchID string, status match.Status) error {
	query, args, err := qb.Update("matches").
		Set("status", string(status)).
		Where(
			qb.Eq("id", matchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match status query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update match status: %w", err)
	}
	return nil
}

func (r *MatchRepository) UpdateDetails(ctx context.Context, matchID string, matchType match.MatchType, phase match.Phase, tournamentID string) error {
	query, args, err := qb.Update("matches").
		Set("match_type", string(matchType)).
		Set("phase", nullString(string(phase))).
		Set("tournament_id", nullString(tournamentID)).
		Where(
			qb.Eq("id", matchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match details query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update match details: %w", err)
	}
	return nil
}

// Delete soft-deletes the match row and hard-deletes its dependents. A
// soft-deleted match is invisible to every read path, so the event log and
// aggregates must not survive it.
func (r *MatchRepository) Delete(ctx context.Context, matchID string) error {
	matchQuery, matchArgs, err := qb.Update("matches").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("id", matchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete match query: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete match tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"player_stats", "match_events", "match_players"} {
		query, args, err := qb.DeleteFrom(table).
			Where(qb.Eq("match_id", matchID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build delete %s query: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx, matchQuery, matchArgs...); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete match tx: %w", err)
	}
	return nil
}
