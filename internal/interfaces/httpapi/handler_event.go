package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/padelista/padel-stats/internal/domain/event"
	"github.com/padelista/padel-stats/internal/usecase"
)

func (h *Handler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordEvent")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req recordEventRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	detail, err := event.DecodePayload(event.Type(req.EventType), req.Payload)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	recorded, err := h.eventService.RecordEvent(ctx, usecase.RecordEventInput{
		MatchID:    req.MatchID,
		PlayerID:   req.PlayerID,
		Type:       event.Type(req.EventType),
		ObserverID: principal.UserID,
		Detail:     detail,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record event failed",
			"match_id", req.MatchID,
			"player_id", req.PlayerID,
			"event_type", req.EventType,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, recordedEventDTO{
		Event: eventToDTO(recorded.Event),
		Stats: statsToDTO(recorded.Stats),
	})
}

func (h *Handler) ListMatchEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchEvents")
	defer span.End()

	matchID := r.PathValue("matchID")
	items, err := h.eventService.GetMatchEvents(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list match events failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]eventDTO, 0, len(items))
	for _, e := range items {
		out = append(out, eventToDTO(e))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetMatchStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchStats")
	defer span.End()

	matchID := r.PathValue("matchID")
	items, err := h.eventService.GetMatchStats(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match stats failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statsToDTOs(items))
}

// GetLiveMatchStats serves the batch path: aggregates rebuilt from the full
// event log instead of the cached rows.
func (h *Handler) GetLiveMatchStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLiveMatchStats")
	defer span.End()

	matchID := r.PathValue("matchID")
	items, err := h.eventService.RecomputeMatchStats(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "recompute match stats failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statsToDTOs(items))
}
