package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/badminton-stats/internal/domain/standing"
)

type StandingRepository struct {
	mu       sync.RWMutex
	byPlayer map[int64]map[string]standing.Standing
}

func NewStandingRepository() *StandingRepository {
	return &StandingRepository{byPlayer: make(map[int64]map[string]standing.Standing)}
}

func (r *StandingRepository) ListUpdatedSince(_ context.Context, playerID int64, since time.Time) ([]standing.Standing, error) {
	r.mu.RLock()
	rows := r.byPlayer[playerID]
	out := make([]standing.Standing, 0, len(rows))
	for _, item := range rows {
		if !item.UpdatedAt.Before(since) {
			out = append(out, cloneStanding(item))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// Upsert replaces rows keyed by (player, category); writing the same batch twice leaves one row each.
func (r *StandingRepository) Upsert(_ context.Context, items []standing.Standing) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		item.Category = strings.TrimSpace(item.Category)
		rows, ok := r.byPlayer[item.PlayerID]
		if !ok {
			rows = make(map[string]standing.Standing)
			r.byPlayer[item.PlayerID] = rows
		}
		rows[item.Category] = cloneStanding(item)
	}
	return nil
}

func cloneStanding(s standing.Standing) standing.Standing {
	if s.Points != nil {
		v := *s.Points
		s.Points = &v
	}
	if s.Matches != nil {
		v := *s.Matches
		s.Matches = &v
	}
	return s
}
