package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/badminton-stats/internal/domain/match"
)

type GameRepository struct {
	mu      sync.RWMutex
	byMatch map[int64]map[string]match.Game
}

func NewGameRepository() *GameRepository {
	return &GameRepository{byMatch: make(map[int64]map[string]match.Game)}
}

func (r *GameRepository) ListGamesByMatch(_ context.Context, matchID int64) ([]match.Game, error) {
	r.mu.RLock()
	rows := r.byMatch[matchID]
	out := make([]match.Game, 0, len(rows))
	for _, g := range rows {
		out = append(out, cloneGame(g))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (r *GameRepository) UpsertGame(_ context.Context, matchID int64, g match.Game) error {
	if err := g.Validate(); err != nil {
		return err
	}
	g.Category = strings.TrimSpace(g.Category)

	r.mu.Lock()
	defer r.mu.Unlock()

	rows, ok := r.byMatch[matchID]
	if !ok {
		rows = make(map[string]match.Game)
		r.byMatch[matchID] = rows
	}
	rows[g.Category] = cloneGame(g)
	return nil
}

func cloneGame(g match.Game) match.Game {
	if g.Date != nil {
		d := *g.Date
		g.Date = &d
	}
	g.Sets = append([]match.Set(nil), g.Sets...)
	return g
}
