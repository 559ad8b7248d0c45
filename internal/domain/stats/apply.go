package stats

import "github.com/padelista/padel-stats/internal/domain/event"

// Apply folds a single event into the aggregate and returns the updated copy.
// It is a pure function of (prior aggregate, event): callers replay the same
// sequence and get the same result. Tags outside the mapping below leave the
// aggregate untouched, which is the forward-compatibility policy for events
// recorded by newer clients.
func Apply(s PlayerStats, t event.Type, detail event.Detail) PlayerStats {
	switch t {
	case event.TypeFirstServeIn:
		s.FirstServesIn++
	case event.TypeFirstServeOut:
		s.FirstServesOut++
	case event.TypePointWon:
		if won, ok := detail.(event.PointWonDetail); ok {
			// Independent flags: one event may bump several counters.
			switch won.Serve {
			case event.ServeFirst:
				s.PointsWonFirstServe++
			case event.ServeSecond:
				s.PointsWonSecondServe++
			}
			if won.Exit34 {
				s.PointsWonExit34++
			}
			if won.ReturnPoint {
				s.PointsWonReturn++
			}
		}
	case event.TypePointLost:
		if lost, ok := detail.(event.PointLostDetail); ok && lost.Exit34 {
			s.PointsLostExit34++
		}
	case event.TypeUnforcedError:
		s.UnforcedErrors++
	case event.TypeForcedError:
		s.ForcedErrors++
	case event.TypeNetError:
		s.NetErrors++
	case event.TypeReturnError:
		s.ReturnErrors++
	case event.TypeSmashError:
		s.SmashErrors++
	case event.TypeLobError:
		s.LobErrors++
	}

	return s
}
