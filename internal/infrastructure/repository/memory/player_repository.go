package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/badminton-stats/internal/domain/club"
	"github.com/riskibarqy/badminton-stats/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players map[int64]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	index := make(map[int64]player.Player, len(players))
	for _, p := range players {
		index[p.ID] = clonePlayer(p.Normalized())
	}

	return &PlayerRepository{players: index}
}

func (r *PlayerRepository) GetByID(_ context.Context, id int64) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[id]
	if !ok {
		return player.Player{}, false, nil
	}
	return clonePlayer(p), true, nil
}

func (r *PlayerRepository) SearchByName(_ context.Context, tsquery string, limit int) ([]player.Player, error) {
	matcher := parseTSQuery(tsquery)

	r.mu.RLock()
	out := make([]player.Player, 0)
	for _, p := range r.players {
		if matcher.Match(p.Name) {
			out = append(out, clonePlayer(p))
		}
	}
	r.mu.RUnlock()

	sortPlayersByID(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *PlayerRepository) ListByNames(_ context.Context, names []string) ([]player.Player, error) {
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			wanted[n] = struct{}{}
		}
	}

	r.mu.RLock()
	out := make([]player.Player, 0, len(wanted))
	for _, p := range r.players {
		if _, ok := wanted[p.Name]; ok {
			out = append(out, clonePlayer(p))
		}
	}
	r.mu.RUnlock()

	sortPlayersByID(out)
	return out, nil
}

func (r *PlayerRepository) ListByClub(_ context.Context, clubID int64) ([]player.Player, error) {
	r.mu.RLock()
	out := make([]player.Player, 0)
	for _, p := range r.players {
		if p.ClubID == clubID {
			out = append(out, clonePlayer(p))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *PlayerRepository) Upsert(_ context.Context, p player.Player) error {
	p = p.Normalized()
	if err := p.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.players[p.ID] = clonePlayer(p)
	return nil
}

// LookupIDs matches names case-insensitively and accepts team names in place of club names.
func (r *PlayerRepository) LookupIDs(_ context.Context, lookups []player.Lookup) ([]player.LookupResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.LookupResult, 0, len(lookups))
	for _, l := range lookups {
		clubName := club.NameFromTeam(l.Club)
		var best int64
		for _, p := range r.players {
			if !sameFold(p.Name, l.Name) || !sameFold(p.ClubName, clubName) {
				continue
			}
			if best == 0 || p.ID < best {
				best = p.ID
			}
		}
		if best != 0 {
			out = append(out, player.LookupResult{Name: l.Name, Club: l.Club, ID: best})
		}
	}
	return out, nil
}

func clonePlayer(p player.Player) player.Player {
	if p.BirthDate != nil {
		born := *p.BirthDate
		p.BirthDate = &born
	}
	return p
}

func sortPlayersByID(items []player.Player) {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
}
