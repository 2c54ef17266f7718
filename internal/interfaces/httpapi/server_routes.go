package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

// registerMatchRoutes must stay more specific than the catalog wildcards.
func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{id}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{id}/analysis", handler.GetMatchAnalysis)
	mux.HandleFunc("GET /v1/matches/{id}/lineup", handler.GetMatchLineup)
	mux.HandleFunc("GET /v1/seasons/{id}/standings", handler.GetSeasonStandings)
}

func registerCatalogRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/{resource}", handler.ListCatalog)
	mux.HandleFunc("GET /v1/{resource}/{id}", handler.GetCatalog)
}

func registerSyncRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.HandleFunc("GET /v1/sync/states", handler.ListSyncStates)
	mux.Handle("POST /v1/sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SyncAll)))
	mux.Handle("POST /v1/sync/{resource}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SyncResource)))
}
