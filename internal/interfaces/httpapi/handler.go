package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/badminton-stats/internal/discovery"
	"github.com/riskibarqy/badminton-stats/internal/domain/player"
	"github.com/riskibarqy/badminton-stats/internal/platform/logging"
	"github.com/riskibarqy/badminton-stats/internal/usecase"
)

// DiscoveryQueue is the part of discovery.Queue the API exposes.
type DiscoveryQueue interface {
	Stats() discovery.Stats
	Withdraw(name, club string) bool
}

type Handler struct {
	searchService  *usecase.PlayerSearchService
	profileService *usecase.ProfileService
	clubService    *usecase.ClubService
	lookupService  *usecase.MatchLookupService
	discovery      DiscoveryQueue
	logger         *logging.Logger
	validator      *validator.Validate
}

// NewHandler accepts a nil discovery queue when discovery is disabled.
func NewHandler(
	searchService *usecase.PlayerSearchService,
	profileService *usecase.ProfileService,
	clubService *usecase.ClubService,
	lookupService *usecase.MatchLookupService,
	discoveryQueue DiscoveryQueue,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		searchService:  searchService,
		profileService: profileService,
		clubService:    clubService,
		lookupService:  lookupService,
		discovery:      discoveryQueue,
		logger:         logger.Named("handler"),
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchPlayers")
	defer span.End()

	query := r.URL.Query()
	name := strings.TrimSpace(query.Get("q"))
	club := strings.TrimSpace(query.Get("club"))

	players, err := h.searchService.Search(ctx, name, club)
	if err != nil {
		h.logger.WarnContext(ctx, "search players failed", "q", name, "club", club, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

// DiscoverPlayer resolves a name synchronously. A pending background job for the same
// pair is withdrawn first, since this request does the same work.
func (h *Handler) DiscoverPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DiscoverPlayer")
	defer span.End()

	query := r.URL.Query()
	name := strings.TrimSpace(query.Get("name"))
	club := strings.TrimSpace(query.Get("club"))

	if h.discovery != nil && name != "" && h.discovery.Withdraw(name, club) {
		h.logger.DebugContext(ctx, "withdrew pending discovery job", "name", name, "club", club)
	}

	id, err := h.searchService.ResolvePlayerID(ctx, name, club)
	if err != nil {
		h.logger.WarnContext(ctx, "discover player failed", "name", name, "club", club, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, discoverResultDTO{ID: id})
}

func (h *Handler) GetPlayerProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerProfile")
	defer span.End()

	playerID, err := parseIDParam(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	profile, err := h.profileService.BuildProfile(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "build profile failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, profileToDTO(profile))
}

func (h *Handler) LookupPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LookupPlayers")
	defer span.End()

	var req lookupPlayersRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	lookups := make([]player.Lookup, 0, len(req.Players))
	for _, item := range req.Players {
		lookups = append(lookups, player.Lookup{Name: item.Name, Club: item.Club})
	}
	results, err := h.lookupService.ResolvePlayerIDs(ctx, lookups)
	if err != nil {
		h.logger.WarnContext(ctx, "lookup players failed", "count", len(lookups), "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]lookupResultDTO, 0, len(results))
	for _, res := range results {
		items = append(items, lookupResultDTO{Name: res.Name, Club: res.Club, ID: res.ID, Resolved: res.ID > 0})
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) SearchClubs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchClubs")
	defer span.End()

	name := strings.TrimSpace(r.URL.Query().Get("q"))
	clubs, err := h.clubService.Search(ctx, name)
	if err != nil {
		h.logger.WarnContext(ctx, "search clubs failed", "q", name, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]clubDTO, 0, len(clubs))
	for _, c := range clubs {
		items = append(items, clubDTO{ID: c.ID, Name: c.Name})
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetClub(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetClub")
	defer span.End()

	clubID, err := parseIDParam(r, "clubID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	c, err := h.clubService.Get(ctx, clubID)
	if err != nil {
		h.logger.WarnContext(ctx, "get club failed", "club_id", clubID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, clubDTO{ID: c.ID, Name: c.Name})
}

func (h *Handler) ListClubPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListClubPlayers")
	defer span.End()

	clubID, err := parseIDParam(r, "clubID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	players, err := h.clubService.ListPlayers(ctx, clubID)
	if err != nil {
		h.logger.WarnContext(ctx, "list club players failed", "club_id", clubID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetDiscoveryStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDiscoveryStats")
	defer span.End()

	if h.discovery == nil {
		writeSuccess(ctx, w, http.StatusOK, discoveryStatsDTO{Enabled: false})
		return
	}
	writeSuccess(ctx, w, http.StatusOK, discoveryStatsDTO{Enabled: true, Stats: h.discovery.Stats()})
}

func (h *Handler) WithdrawDiscoveryJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.WithdrawDiscoveryJob")
	defer span.End()

	query := r.URL.Query()
	name := strings.TrimSpace(query.Get("name"))
	club := strings.TrimSpace(query.Get("club"))
	if name == "" {
		writeError(ctx, w, fmt.Errorf("%w: name is required", usecase.ErrInvalidInput))
		return
	}
	if h.discovery == nil {
		writeError(ctx, w, fmt.Errorf("%w: discovery is disabled", usecase.ErrDependencyUnavailable))
		return
	}
	writeSuccess(ctx, w, http.StatusOK, withdrawResultDTO{Withdrawn: h.discovery.Withdraw(name, club)})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return id, nil
}
