package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/badminton-stats/internal/domain/club"
)

type ClubRepository struct {
	mu    sync.RWMutex
	clubs map[int64]club.Club
}

func NewClubRepository(clubs []club.Club) *ClubRepository {
	index := make(map[int64]club.Club, len(clubs))
	for _, item := range clubs {
		item.Name = strings.TrimSpace(item.Name)
		index[item.ID] = item
	}

	return &ClubRepository{clubs: index}
}

func (r *ClubRepository) GetByID(_ context.Context, id int64) (club.Club, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.clubs[id]
	return item, ok, nil
}

func (r *ClubRepository) Search(_ context.Context, tsquery string, limit int) ([]club.Club, error) {
	matcher := parseTSQuery(tsquery)

	r.mu.RLock()
	out := make([]club.Club, 0)
	for _, item := range r.clubs {
		if matcher.Match(item.Name) {
			out = append(out, item)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ClubRepository) Upsert(_ context.Context, item club.Club) error {
	item.Name = strings.TrimSpace(item.Name)
	if err := item.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.clubs[item.ID] = item
	return nil
}
