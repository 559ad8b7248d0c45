package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAuthRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.HandleFunc("POST /v1/auth/register", handler.Register)
	mux.HandleFunc("POST /v1/auth/login", handler.Login)
	mux.Handle("GET /v1/auth/me", RequireAuth(verifier, http.HandlerFunc(handler.CurrentUser)))
	mux.Handle("GET /v1/auth/validate", RequireAuth(verifier, http.HandlerFunc(handler.ValidateToken)))
	mux.Handle("POST /v1/auth/change-password", RequireAuth(verifier, http.HandlerFunc(handler.ChangePassword)))
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/matches", RequireAuth(verifier, http.HandlerFunc(handler.CreateMatch)))
	mux.Handle("GET /v1/matches", RequireAuth(verifier, http.HandlerFunc(handler.ListMatches)))
	mux.Handle("GET /v1/matches/status/{status}", RequireAuth(verifier, http.HandlerFunc(handler.ListMatchesByStatus)))
	mux.Handle("GET /v1/matches/type/{matchType}", RequireAuth(verifier, http.HandlerFunc(handler.ListMatchesByType)))
	mux.Handle("GET /v1/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.GetMatch)))
	mux.Handle("PUT /v1/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateMatch)))
	mux.Handle("PATCH /v1/matches/{matchID}/complete", RequireAuth(verifier, http.HandlerFunc(handler.CompleteMatch)))
	mux.Handle("DELETE /v1/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteMatch)))
}

func registerEventRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/events", RequireAuth(verifier, http.HandlerFunc(handler.RecordEvent)))
	mux.Handle("GET /v1/matches/{matchID}/events", RequireAuth(verifier, http.HandlerFunc(handler.ListMatchEvents)))
	mux.Handle("GET /v1/matches/{matchID}/stats", RequireAuth(verifier, http.HandlerFunc(handler.GetMatchStats)))
	mux.Handle("GET /v1/matches/{matchID}/stats/live", RequireAuth(verifier, http.HandlerFunc(handler.GetLiveMatchStats)))
}

func registerLiveRoutes(mux *http.ServeMux, liveHandler http.Handler) {
	if liveHandler == nil {
		return
	}
	// Browsers cannot set headers on websocket upgrades, so the live room
	// endpoint authenticates with a query token inside the handler itself.
	mux.Handle("GET /v1/matches/{matchID}/live", liveHandler)
}
