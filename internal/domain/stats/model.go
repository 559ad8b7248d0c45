package stats

// PlayerStats is the per-(player, match) aggregate derived from the event log.
// Every field is a plain counter except FirstServePct, which is derived from
// the serve counters and never stored: the legacy incremental formula divided
// serves-in by itself and was structurally 100% whenever nonzero, so the
// percentage is now computed only at read/finalize time from in/(in+out).
type PlayerStats struct {
	PlayerID string
	MatchID  string

	FirstServesIn  int
	FirstServesOut int
	FirstServePct  float64

	PointsWonFirstServe  int
	PointsWonSecondServe int
	PointsWonReturn      int
	PointsWonExit34      int
	PointsLostExit34     int

	UnforcedErrors int
	ForcedErrors   int
	NetErrors      int
	ReturnErrors   int
	SmashErrors    int
	LobErrors      int
}

// Zero returns a fresh aggregate for a player who has no recorded events yet.
func Zero(matchID, playerID string) PlayerStats {
	return PlayerStats{PlayerID: playerID, MatchID: matchID}
}

// Finalize derives the ratio fields from the accumulated counters. It is the
// single authoritative source for the first-serve percentage on both the
// incremental read path and the batch path.
func Finalize(s PlayerStats) PlayerStats {
	attempts := s.FirstServesIn + s.FirstServesOut
	if attempts > 0 {
		s.FirstServePct = float64(s.FirstServesIn) / float64(attempts) * 100
	} else {
		s.FirstServePct = 0
	}
	return s
}
