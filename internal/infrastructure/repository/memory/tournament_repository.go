package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/badminton-stats/internal/domain/tournament"
)

type TournamentRepository struct {
	mu       sync.RWMutex
	byPlayer map[int64]map[int64]tournament.Tournament
}

func NewTournamentRepository() *TournamentRepository {
	return &TournamentRepository{byPlayer: make(map[int64]map[int64]tournament.Tournament)}
}

func (r *TournamentRepository) ListByPlayer(_ context.Context, playerID int64) ([]tournament.Tournament, error) {
	r.mu.RLock()
	rows := r.byPlayer[playerID]
	out := make([]tournament.Tournament, 0, len(rows))
	for _, item := range rows {
		out = append(out, item)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	tournament.SortByDateDesc(out)
	return out, nil
}

func (r *TournamentRepository) Upsert(_ context.Context, items []tournament.Tournament) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		rows, ok := r.byPlayer[item.PlayerID]
		if !ok {
			rows = make(map[int64]tournament.Tournament)
			r.byPlayer[item.PlayerID] = rows
		}
		rows[item.ID] = item
	}
	return nil
}
