package httpapi

import "net/http"

func registerRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, internalJobToken string) {
	mux.HandleFunc("GET /healthz", handler.Healthz)

	// Public read surface.
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{externalID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{externalID}/quality", handler.MatchQuality)
	mux.HandleFunc("GET /v1/matches/{externalID}/dominance", handler.MatchDominance)

	// Admin surface, bearer-token protected.
	mux.Handle("POST /v1/admin/sync", RequireAuth(verifier, http.HandlerFunc(handler.SyncAll)))
	mux.Handle("POST /v1/admin/sync/selective", RequireAuth(verifier, http.HandlerFunc(handler.SelectiveSync)))
	mux.Handle("POST /v1/admin/sync/resync-incomplete", RequireAuth(verifier, http.HandlerFunc(handler.ResyncIncomplete)))
	mux.Handle("POST /v1/admin/sync/{kind}", RequireAuth(verifier, http.HandlerFunc(handler.SyncByKind)))
	mux.Handle("GET /v1/admin/analytics/completeness", RequireAuth(verifier, http.HandlerFunc(handler.DataCompleteness)))
	mux.Handle("GET /v1/admin/matches/counts", RequireAuth(verifier, http.HandlerFunc(handler.MatchCounts)))
	mux.Handle("PATCH /v1/admin/matches/{externalID}", RequireAuth(verifier, http.HandlerFunc(handler.AdminUpdateMatch)))
	mux.Handle("DELETE /v1/admin/matches/{externalID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteMatch)))

	// Internal job surface for the scheduler, shared-secret protected.
	mux.Handle("POST /v1/internal/jobs/sync-full", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SyncAll)))
	mux.Handle("POST /v1/internal/jobs/resync-incomplete", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ResyncIncomplete)))
}
