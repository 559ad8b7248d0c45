package match

import "time"

type MatchType string

const (
	TypeTournament MatchType = "TOURNAMENT"
	TypeFriendly   MatchType = "FRIENDLY"
)

var AllTypes = map[MatchType]struct{}{
	TypeTournament: {},
	TypeFriendly:   {},
}

// Phase is the optional tournament bracket stage of a match.
type Phase string

const (
	PhaseRoundOf16    Phase = "ROUND_OF_16"
	PhaseQuarterfinal Phase = "QUARTERFINAL"
	PhaseSemifinal    Phase = "SEMIFINAL"
	PhaseFinal        Phase = "FINAL"
)

var AllPhases = map[Phase]struct{}{
	PhaseRoundOf16:    {},
	PhaseQuarterfinal: {},
	PhaseSemifinal:    {},
	PhaseFinal:        {},
}

type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

var AllStatuses = map[Status]struct{}{
	StatusInProgress: {},
	StatusCompleted:  {},
}

// Match is one four-player contest. Exactly four assignments exist per match,
// two per team, positions 1-2 unique within a team; they are written atomically
// with the match row and never mutated afterwards.
type Match struct {
	ID           string
	Type         MatchType
	Phase        Phase
	Status       Status
	TournamentID string
	CreatedAt    time.Time
	Players      []PlayerAssignment
}

// PlayerAssignment links a user to a match slot.
type PlayerAssignment struct {
	MatchID  string
	UserID   string
	Team     int
	Position int
}

// RosterPlayerIDs returns the assigned player ids in team/position order.
func (m Match) RosterPlayerIDs() []string {
	out := make([]string, 0, len(m.Players))
	for _, p := range m.Players {
		out = append(out, p.UserID)
	}
	return out
}
