package event

import "time"

// Type tags one recordable observation during a match. The set is closed on the
// server side, but unknown tags are still accepted and stored so that newer
// clients can record categories this version does not aggregate yet.
type Type string

const (
	TypeFirstServeIn       Type = "FIRST_SERVE_IN"
	TypeFirstServeOut      Type = "FIRST_SERVE_OUT"
	TypeSecondServeIn      Type = "SECOND_SERVE_IN"
	TypeSecondServeOut     Type = "SECOND_SERVE_OUT"
	TypePointWon           Type = "POINT_WON"
	TypePointWonFirstServe Type = "POINT_WON_FIRST_SERVE"
	TypePointWonReturn     Type = "POINT_WON_RETURN"
	TypePointLost          Type = "POINT_LOST"
	TypeUnforcedError      Type = "UNFORCED_ERROR"
	TypeForcedError        Type = "FORCED_ERROR"
	TypeNetError           Type = "NET_ERROR"
	TypeReturnError        Type = "RETURN_ERROR"
	TypeSmashError         Type = "SMASH_ERROR"
	TypeLobError           Type = "LOB_ERROR"
	TypeExitBy3            Type = "EXIT_BY_3"
	TypeExitBy4            Type = "EXIT_BY_4"
	TypePointWonExit34     Type = "POINT_WON_EXIT_3_4"
)

// AllTypes is the closed taxonomy this version aggregates.
var AllTypes = map[Type]struct{}{
	TypeFirstServeIn:       {},
	TypeFirstServeOut:      {},
	TypeSecondServeIn:      {},
	TypeSecondServeOut:     {},
	TypePointWon:           {},
	TypePointWonFirstServe: {},
	TypePointWonReturn:     {},
	TypePointLost:          {},
	TypeUnforcedError:      {},
	TypeForcedError:        {},
	TypeNetError:           {},
	TypeReturnError:        {},
	TypeSmashError:         {},
	TypeLobError:           {},
	TypeExitBy3:            {},
	TypeExitBy4:            {},
	TypePointWonExit34:     {},
}

func (t Type) Known() bool {
	_, ok := AllTypes[t]
	return ok
}

// Event is one immutable append-only observation. Timestamp is assigned at
// write time and is non-decreasing within a match, which makes it the ordering
// key for batch recomputation.
type Event struct {
	ID         string
	MatchID    string
	PlayerID   string
	Type       Type
	ObserverID string
	Timestamp  time.Time
	Detail     Detail
}
