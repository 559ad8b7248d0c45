package postgres

import (
	"database/sql"
	"time"

	"github.com/padelista/padel-stats/internal/domain/match"
)

type matchTableModel struct {
	ID           string         `db:"id"`
	MatchType    string         `db:"match_type"`
	Phase        sql.NullString `db:"phase"`
	Status       string         `db:"status"`
	TournamentID sql.NullString `db:"tournament_id"`
	CreatedAt    time.Time      `db:"created_at"`
}

type matchPlayerTableModel struct {
	MatchID  string `db:"match_id"`
	UserID   string `db:"user_id"`
	Team     int    `db:"team"`
	Position int    `db:"position"`
}

func (m matchTableModel) toDomain(players []matchPlayerTableModel) match.Match {
	assignments := make([]match.PlayerAssignment, 0, len(players))
	for _, p := range players {
		assignments = append(assignments, match.PlayerAssignment{
			MatchID:  p.MatchID,
			UserID:   p.UserID,
			Team:     p.Team,
			Position: p.Position,
		})
	}

	return match.Match{
		ID:           m.ID,
		Type:         match.MatchType(m.MatchType),
		Phase:        match.Phase(nullStringToString(m.Phase)),
		Status:       match.Status(m.Status),
		TournamentID: nullStringToString(m.TournamentID),
		CreatedAt:    m.CreatedAt,
		Players:      assignments,
	}
}
