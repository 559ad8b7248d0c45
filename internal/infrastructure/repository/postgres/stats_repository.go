package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/padelista/padel-stats/internal/domain/stats"
	qb "github.com/padelista/padel-stats/internal/platform/querybuilder"
)

const statsColumns = "match_id, player_id, first_serves_in, first_serves_out, " +
	"points_won_first_serve, points_won_second_serve, points_won_return, " +
	"points_won_exit34, points_lost_exit34, unforced_errors, forced_errors, " +
	"net_errors, return_errors, smash_errors, lob_errors"

const statsUpsertSuffix = `ON CONFLICT (match_id, player_id) DO UPDATE SET
	first_serves_in = EXCLUDED.first_serves_in,
	first_serves_out = EXCLUDED.first_serves_out,
	points_won_first_serve = EXCLUDED.points_won_first_serve,
	points_won_second_serve = EXCLUDED.points_won_second_serve,
	points_won_return = EXCLUDED.points_won_return,
	points_won_exit34 = EXCLUDED.points_won_exit34,
	points_lost_exit34 = EXCLUDED.points_lost_exit34,
	unforced_errors = EXCLUDED.unforced_errors,
	forced_errors = EXCLUDED.forced_errors,
	net_errors = EXCLUDED.net_errors,
	return_errors = EXCLUDED.return_errors,
	smash_errors = EXCLUDED.smash_errors,
	lob_errors = EXCLUDED.lob_errors`

type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) GetByMatchAndPlayer(ctx context.Context, matchID, playerID string) (stats.PlayerStats, bool, error) {
	query, args, err := qb.Select(statsColumns).From("player_stats").
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("player_id", playerID),
		).
		ToSQL()
	if err != nil {
		return stats.PlayerStats{}, false, fmt.Errorf("build get player stats query: %w", err)
	}

	var row playerStatsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return stats.PlayerStats{}, false, nil
		}
		return stats.PlayerStats{}, false, fmt.Errorf("get player stats: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *StatsRepository) ListByMatch(ctx context.Context, matchID string) ([]stats.PlayerStats, error) {
	query, args, err := qb.Select(statsColumns).From("player_stats").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player stats query: %w", err)
	}

	var rows []playerStatsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player stats: %w", err)
	}

	out := make([]stats.PlayerStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *StatsRepository) Upsert(ctx context.Context, s stats.PlayerStats) error {
	query, args, err := qb.InsertModel("player_stats", statsModelFromDomain(s), statsUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert player stats query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert player stats: %w", err)
	}
	return nil
}
