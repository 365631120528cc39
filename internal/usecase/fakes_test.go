package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/badminton-stats/internal/domain/match"
	"github.com/riskibarqy/badminton-stats/internal/domain/player"
)

type fakeGateway struct {
	mu sync.Mutex

	players      map[int64]player.Player
	playerErr    error
	searchResult []player.Player
	searchErr    error
	performance  map[int64]Performance
	perfErr      error
	matches      map[int64]match.TeamMatch

	searchCalls []string
	matchCalls  []int64
}

func (g *fakeGateway) GetPlayer(_ context.Context, id int64) (player.Player, bool, error) {
	if g.playerErr != nil {
		return player.Player{}, false, g.playerErr
	}
	p, ok := g.players[id]
	return p, ok, nil
}

func (g *fakeGateway) SearchPlayer(_ context.Context, name, club string) ([]player.Player, error) {
	g.mu.Lock()
	g.searchCalls = append(g.searchCalls, name+"|"+club)
	g.mu.Unlock()
	if g.searchErr != nil {
		return nil, g.searchErr
	}
	return append([]player.Player(nil), g.searchResult...), nil
}

func (g *fakeGateway) GetPerformance(_ context.Context, id int64) (Performance, error) {
	if g.perfErr != nil {
		return Performance{}, g.perfErr
	}
	perf, ok := g.performance[id]
	if !ok {
		return Performance{}, fmt.Errorf("no performance page for %d", id)
	}
	return perf, nil
}

func (g *fakeGateway) GetMatch(_ context.Context, id int64) (match.TeamMatch, error) {
	g.mu.Lock()
	g.matchCalls = append(g.matchCalls, id)
	g.mu.Unlock()
	m, ok := g.matches[id]
	if !ok {
		return match.TeamMatch{}, fmt.Errorf("match %d not found", id)
	}
	return m, nil
}

// inlineSubmitter runs write-behind tasks synchronously so tests can assert on them.
type inlineSubmitter struct {
	mu    sync.Mutex
	names []string
	errs  []error
}

func (s *inlineSubmitter) Submit(ctx context.Context, name string, fn func(context.Context) error) {
	err := fn(ctx)
	s.mu.Lock()
	s.names = append(s.names, name)
	s.errs = append(s.errs, err)
	s.mu.Unlock()
}

type recordingDiscoverer struct {
	mu       sync.Mutex
	matches  []int64
	excluded [][]string
}

func (d *recordingDiscoverer) EnqueueMatch(m match.TeamMatch, exclude ...string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.matches = append(d.matches, m.ID)
	d.excluded = append(d.excluded, exclude)
	return len(m.Games)
}
