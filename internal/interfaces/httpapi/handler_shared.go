package httpapi

import (
	"encoding/json"
	"time"

	"github.com/padelista/padel-stats/internal/domain/event"
	"github.com/padelista/padel-stats/internal/domain/match"
	"github.com/padelista/padel-stats/internal/domain/stats"
	"github.com/padelista/padel-stats/internal/domain/user"
)

type registerRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"omitempty,max=100"`
	LastName  string `json:"last_name" validate:"omitempty,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type createMatchRequest struct {
	MatchType    string   `json:"match_type" validate:"required"`
	Phase        string   `json:"phase" validate:"omitempty"`
	TournamentID string   `json:"tournament_id" validate:"omitempty,max=100"`
	PlayerIDs    []string `json:"player_ids" validate:"required,len=4,dive,required"`
}

// updateMatchRequest uses pointers so an absent field keeps the stored value
// while an explicit empty string clears it.
type updateMatchRequest struct {
	MatchType    *string `json:"match_type" validate:"omitempty"`
	Phase        *string `json:"phase" validate:"omitempty"`
	TournamentID *string `json:"tournament_id" validate:"omitempty,max=100"`
}

type recordEventRequest struct {
	MatchID   string          `json:"match_id" validate:"required"`
	PlayerID  string          `json:"player_id" validate:"required"`
	EventType string          `json:"event_type" validate:"required"`
	Payload   json.RawMessage `json:"payload" validate:"omitempty"`
}

type userDTO struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName,omitempty"`
	LastName    string    `json:"lastName,omitempty"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

type authDTO struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

type tokenValidationDTO struct {
	Valid bool    `json:"valid"`
	User  userDTO `json:"user"`
}

type playerAssignmentDTO struct {
	UserID   string `json:"userId"`
	Team     int    `json:"team"`
	Position int    `json:"position"`
}

type matchDTO struct {
	ID           string                `json:"id"`
	MatchType    string                `json:"matchType"`
	Phase        string                `json:"phase,omitempty"`
	Status       string                `json:"status"`
	TournamentID string                `json:"tournamentId,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
	Players      []playerAssignmentDTO `json:"players"`
}

type eventDTO struct {
	ID        string          `json:"id"`
	MatchID   string          `json:"matchId"`
	PlayerID  string          `json:"playerId"`
	EventType string          `json:"eventType"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type playerStatsDTO struct {
	MatchID  string `json:"matchId"`
	PlayerID string `json:"playerId"`

	FirstServesIn  int     `json:"firstServesIn"`
	FirstServesOut int     `json:"firstServesOut"`
	FirstServePct  float64 `json:"firstServePct"`

	PointsWonFirstServe  int `json:"pointsWonFirstServe"`
	PointsWonSecondServe int `json:"pointsWonSecondServe"`
	PointsWonReturn      int `json:"pointsWonReturn"`
	PointsWonExit34      int `json:"pointsWonExit34"`
	PointsLostExit34     int `json:"pointsLostExit34"`

	UnforcedErrors int `json:"unforcedErrors"`
	ForcedErrors   int `json:"forcedErrors"`
	NetErrors      int `json:"netErrors"`
	ReturnErrors   int `json:"returnErrors"`
	SmashErrors    int `json:"smashErrors"`
	LobErrors      int `json:"lobErrors"`
}

type recordedEventDTO struct {
	Event eventDTO       `json:"event"`
	Stats playerStatsDTO `json:"stats"`
}

func userToDTO(u user.User) userDTO {
	return userDTO{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DisplayName: u.DisplayName(),
		CreatedAt:   u.CreatedAt,
	}
}

func matchToDTO(m match.Match) matchDTO {
	players := make([]playerAssignmentDTO, 0, len(m.Players))
	for _, p := range m.Players {
		players = append(players, playerAssignmentDTO{
			UserID:   p.UserID,
			Team:     p.Team,
			Position: p.Position,
		})
	}

	return matchDTO{
		ID:           m.ID,
		MatchType:    string(m.Type),
		Phase:        string(m.Phase),
		Status:       string(m.Status),
		TournamentID: m.TournamentID,
		CreatedAt:    m.CreatedAt,
		Players:      players,
	}
}

func matchesToDTOs(items []match.Match) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, m := range items {
		out = append(out, matchToDTO(m))
	}
	return out
}

func eventToDTO(e event.Event) eventDTO {
	// Encoding a detail that was decoded from storage cannot fail.
	payload, _ := event.EncodePayload(e.Detail)

	return eventDTO{
		ID:        e.ID,
		MatchID:   e.MatchID,
		PlayerID:  e.PlayerID,
		EventType: string(e.Type),
		Timestamp: e.Timestamp,
		Payload:   payload,
	}
}

func statsToDTO(s stats.PlayerStats) playerStatsDTO {
	return playerStatsDTO{
		MatchID:              s.MatchID,
		PlayerID:             s.PlayerID,
		FirstServesIn:        s.FirstServesIn,
		FirstServesOut:       s.FirstServesOut,
		FirstServePct:        s.FirstServePct,
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

func statsToDTOs(items []stats.PlayerStats) []playerStatsDTO {
	out := make([]playerStatsDTO, 0, len(items))
	for _, s := range items {
		out = append(out, statsToDTO(s))
	}
	return out
}
