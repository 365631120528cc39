package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/badminton-stats/internal/discovery"
	"github.com/riskibarqy/badminton-stats/internal/domain/match"
	"github.com/riskibarqy/badminton-stats/internal/domain/player"
	"github.com/riskibarqy/badminton-stats/internal/domain/standing"
	"github.com/riskibarqy/badminton-stats/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/badminton-stats/internal/platform/logging"
	"github.com/riskibarqy/badminton-stats/internal/usecase"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	performance usecase.Performance
}

func (g *stubGateway) GetPlayer(context.Context, int64) (player.Player, bool, error) {
	return player.Player{}, false, nil
}

func (g *stubGateway) SearchPlayer(context.Context, string, string) ([]player.Player, error) {
	return nil, errors.New("federation offline")
}

func (g *stubGateway) GetPerformance(context.Context, int64) (usecase.Performance, error) {
	return g.performance, nil
}

func (g *stubGateway) GetMatch(_ context.Context, id int64) (match.TeamMatch, error) {
	return match.TeamMatch{}, errors.New("no match pages in tests")
}

type syncSubmitter struct{}

func (syncSubmitter) Submit(ctx context.Context, _ string, fn func(context.Context) error) {
	_ = fn(ctx)
}

type stubQueue struct {
	mu        sync.Mutex
	withdrawn []string
	stats     discovery.Stats
}

func (q *stubQueue) Stats() discovery.Stats { return q.stats }

func (q *stubQueue) Withdraw(name, club string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.withdrawn = append(q.withdrawn, name+"|"+club)
	return true
}

func newTestRouter(t *testing.T, queue DiscoveryQueue) http.Handler {
	t.Helper()

	points := 1520
	gateway := &stubGateway{performance: usecase.Performance{
		SeasonStartPoints: 1400,
		Standings:         []standing.Standing{{Category: "HS", Tier: "M", Points: &points, Rank: 12}},
	}}

	clubs := memory.NewClubRepository(memory.SeedClubs())
	players := memory.NewPlayerRepository(memory.SeedPlayers())
	standings := memory.NewStandingRepository()
	games := memory.NewGameRepository()
	tournaments := memory.NewTournamentRepository()
	logger := logging.NewNop()

	persister := usecase.NewPersister(clubs, players, games, tournaments, syncSubmitter{}, logger)
	search := usecase.NewPlayerSearchService(players, gateway, persister, logger)
	attribution := usecase.NewClubAttributionService(players, logger)
	profiles := usecase.NewProfileService(usecase.ProfileServiceConfig{}, players, standings, games, gateway, attribution, persister, nil, logger)
	handler := NewHandler(
		search,
		profiles,
		usecase.NewClubService(clubs, players),
		usecase.NewMatchLookupService(players, search, 2, logger),
		queue,
		logger,
	)
	return NewRouter(handler, logger, []string{"*"})
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response body %q: %v", rec.Body.String(), err)
	}
	return rec, envelope
}

func TestHandler_SearchPlayersRanksStoreHits(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	rec, body := doRequest(t, router, http.MethodGet, "/v1/players/search?q=Anders+Jensen", "")
	require.Equal(t, http.StatusOK, rec.Code)

	items, ok := body["data"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, items)
	first := items[0].(map[string]any)
	require.Equal(t, "Anders Jensen", first["name"])
}

func TestHandler_SearchPlayersRequiresQuery(t *testing.T) {
	t.Parallel()

	rec, _ := doRequest(t, newTestRouter(t, nil), http.MethodGet, "/v1/players/search", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_GetPlayerProfile(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	rec, body := doRequest(t, router, http.MethodGet, "/v1/players/50001/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]any)
	require.Equal(t, float64(1400), data["season_start_points"])
	standings := data["standings"].([]any)
	require.Len(t, standings, 1)
	require.Equal(t, "HS", standings[0].(map[string]any)["category"])

	rec, _ = doRequest(t, router, http.MethodGet, "/v1/players/abc/profile", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doRequest(t, router, http.MethodGet, "/v1/players/99999/profile", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_LookupPlayers(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	rec, body := doRequest(t, router, http.MethodPost, "/v1/players/lookup",
		`{"players":[{"name":"Anders Jensen","club":"Skovbakken 2"},{"name":"Jonas Berg","club":"Højbjerg"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	items := body["data"].([]any)
	require.Len(t, items, 2)
	require.Equal(t, float64(50021), items[0].(map[string]any)["id"])
	require.Equal(t, float64(50011), items[1].(map[string]any)["id"])

	rec, _ = doRequest(t, router, http.MethodPost, "/v1/players/lookup", `{"players":[]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doRequest(t, router, http.MethodPost, "/v1/players/lookup", `{"players":[{"name":""}]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doRequest(t, router, http.MethodPost, "/v1/players/lookup", `{"unknown":true}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Clubs(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)

	rec, body := doRequest(t, router, http.MethodGet, "/v1/clubs/search?q=vejlby", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body["data"].([]any), 1)

	rec, body = doRequest(t, router, http.MethodGet, "/v1/clubs/1001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Vejlby IK", body["data"].(map[string]any)["name"])

	rec, body = doRequest(t, router, http.MethodGet, "/v1/clubs/1001/players", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body["data"].([]any), 3)

	rec, _ = doRequest(t, router, http.MethodGet, "/v1/clubs/424242", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_DiscoverWithdrawsPendingJob(t *testing.T) {
	t.Parallel()

	queue := &stubQueue{}
	router := newTestRouter(t, queue)

	rec, body := doRequest(t, router, http.MethodGet, "/v1/players/discover?name=Jonas+Berg&club=H%C3%B8jbjerg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(50011), body["data"].(map[string]any)["id"])
	require.Equal(t, []string{"Jonas Berg|Højbjerg"}, queue.withdrawn)

	rec, _ = doRequest(t, router, http.MethodGet, "/v1/players/discover?name=Nobody+Known", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_DiscoveryStatsAndWithdraw(t *testing.T) {
	t.Parallel()

	queue := &stubQueue{stats: discovery.Stats{Pending: 2, Processed: 5}}
	router := newTestRouter(t, queue)

	rec, body := doRequest(t, router, http.MethodGet, "/v1/discovery/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	require.Equal(t, true, data["enabled"])
	require.Equal(t, float64(2), data["pending"])

	rec, body = doRequest(t, router, http.MethodDelete, "/v1/discovery/jobs?name=Mette+Holm&club=Vejlby+IK", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["data"].(map[string]any)["withdrawn"])

	rec, _ = doRequest(t, router, http.MethodDelete, "/v1/discovery/jobs", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_DiscoveryDisabled(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	rec, body := doRequest(t, router, http.MethodGet, "/v1/discovery/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, false, body["data"].(map[string]any)["enabled"])

	rec, _ = doRequest(t, router, http.MethodDelete, "/v1/discovery/jobs?name=Mette+Holm", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
