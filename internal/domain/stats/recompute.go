package stats

import (
	"sort"

	"github.com/padelista/padel-stats/internal/domain/event"
)

// Recompute rebuilds every roster player's aggregate from the full event log.
// The result carries one finalized entry per roster player even when the log
// is empty, and events for players off the roster are skipped rather than
// synthesizing aggregates for unknown ids. The reduction is total and
// referentially transparent: repeated calls over the same log are identical.
func Recompute(events []event.Event, rosterPlayerIDs []string) map[string]PlayerStats {
	matchID := ""
	if len(events) > 0 {
		matchID = events[0].MatchID
	}

	out := make(map[string]PlayerStats, len(rosterPlayerIDs))
	for _, playerID := range rosterPlayerIDs {
		out[playerID] = Zero(matchID, playerID)
	}

	ordered := make([]event.Event, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	for _, e := range ordered {
		s, ok := out[e.PlayerID]
		if !ok {
			continue
		}
		out[e.PlayerID] = Apply(s, e.Type, e.Detail)
	}

	for playerID, s := range out {
		out[playerID] = Finalize(s)
	}

	return out
}
