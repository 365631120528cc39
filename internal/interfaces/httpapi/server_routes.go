package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players/search", handler.SearchPlayers)
	mux.HandleFunc("GET /v1/players/discover", handler.DiscoverPlayer)
	mux.HandleFunc("GET /v1/players/{playerID}/profile", handler.GetPlayerProfile)
	mux.HandleFunc("POST /v1/players/lookup", handler.LookupPlayers)
}

func registerClubRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/clubs/search", handler.SearchClubs)
	mux.HandleFunc("GET /v1/clubs/{clubID}", handler.GetClub)
	mux.HandleFunc("GET /v1/clubs/{clubID}/players", handler.ListClubPlayers)
}

func registerDiscoveryRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/discovery/stats", handler.GetDiscoveryStats)
	mux.HandleFunc("DELETE /v1/discovery/jobs", handler.WithdrawDiscoveryJob)
}
