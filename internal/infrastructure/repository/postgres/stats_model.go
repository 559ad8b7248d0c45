package postgres

import (
	"github.com/padelista/padel-stats/internal/domain/stats"
)

// playerStatsTableModel stores counters only. The first-serve percentage is
// derived at read time and never hits the table.
type playerStatsTableModel struct {
	MatchID  string `db:"match_id"`
	PlayerID string `db:"player_id"`

	FirstServesIn  int `db:"first_serves_in"`
	FirstServesOut int `db:"first_serves_out"`

	PointsWonFirstServe  int `db:"points_won_first_serve"`
	PointsWonSecondServe int `db:"points_won_second_serve"`
	PointsWonReturn      int `db:"points_won_return"`
	PointsWonExit34      int `db:"points_won_exit34"`
	PointsLostExit34     int `db:"points_lost_exit34"`

	UnforcedErrors int `db:"unforced_errors"`
	ForcedErrors   int `db:"forced_errors"`
	NetErrors      int `db:"net_errors"`
	ReturnErrors   int `db:"return_errors"`
	SmashErrors    int `db:"smash_errors"`
	LobErrors      int `db:"lob_errors"`
}

func (m playerStatsTableModel) toDomain() stats.PlayerStats {
	return stats.PlayerStats{
		MatchID:              m.MatchID,
		PlayerID:             m.PlayerID,
		FirstServesIn:        m.FirstServesIn,
		FirstServesOut:       m.FirstServesOut,
		PointsWonFirstServe:  m.PointsWonFirstServe,
		PointsWonSecondServe: m.PointsWonSecondServe,
		PointsWonReturn:      m.PointsWonReturn,
		PointsWonExit34:      m.PointsWonExit34,
		PointsLostExit34:     m.PointsLostExit34,
		UnforcedErrors:       m.UnforcedErrors,
		ForcedErrors:         m.ForcedErrors,
		NetErrors:            m.NetErrors,
		ReturnErrors:         m.ReturnErrors,
		SmashErrors:          m.SmashErrors,
		LobErrors:            m.LobErrors,
	}
}

func statsModelFromDomain(s stats.PlayerStats) playerStatsTableModel {
	return playerStatsTableModel{
		MatchID:              s.MatchID,
		PlayerID:             s.PlayerID,
		FirstServesIn:        s.FirstServesIn,
		FirstServesOut:       s.FirstServesOut,
		PointsWonFirstServe:  s.PointsWonFirstServe,
		PointsWonSecondServe: s.PointsWonSecondServe,
		PointsWonReturn:      s.PointsWonReturn,
		PointsWonExit34:      s.PointsWonExit34,
		PointsLostExit34:     s.PointsLostExit34,
		UnforcedErrors:       s.UnforcedErrors,
		ForcedErrors:         s.ForcedErrors,
		NetErrors:            s.NetErrors,
		ReturnErrors:         s.ReturnErrors,
		SmashErrors:          s.SmashErrors,
		LobErrors:            s.LobErrors,
	}
}
