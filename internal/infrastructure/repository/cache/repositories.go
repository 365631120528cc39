package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/badminton-stats/internal/domain/club"
	basecache "github.com/riskibarqy/badminton-stats/internal/platform/cache"
)

// ClubRepository fronts the club store with a read-through cache. Clubs change rarely
// and are read on every profile and search, so reads are served from memory until
// the TTL lapses or an upsert touches the club.
type ClubRepository struct {
	next   club.Repository
	byID   *basecache.Store[cachedClubByID]
	search *basecache.Store[[]club.Club]
}

type cachedClubByID struct {
	value  club.Club
	exists bool
}

func NewClubRepository(next club.Repository, ttl time.Duration) *ClubRepository {
	return &ClubRepository{
		next:   next,
		byID:   basecache.NewStore[cachedClubByID](ttl),
		search: basecache.NewStore[[]club.Club](ttl),
	}
}

func (r *ClubRepository) GetByID(ctx context.Context, id int64) (club.Club, bool, error) {
	cached, err := r.byID.GetOrLoad(ctx, clubIDKey(id), func(ctx context.Context) (cachedClubByID, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return cachedClubByID{}, err
		}
		return cachedClubByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return club.Club{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *ClubRepository) Search(ctx context.Context, tsquery string, limit int) ([]club.Club, error) {
	key := "club:search:" + strconv.Itoa(limit) + ":" + tsquery
	items, err := r.search.GetOrLoad(ctx, key, func(ctx context.Context) ([]club.Club, error) {
		items, err := r.next.Search(ctx, tsquery, limit)
		if err != nil {
			return nil, err
		}
		return append([]club.Club(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]club.Club(nil), items...), nil
}

func (r *ClubRepository) Upsert(ctx context.Context, c club.Club) error {
	if err := r.next.Upsert(ctx, c); err != nil {
		return err
	}
	r.byID.Delete(ctx, clubIDKey(c.ID))
	r.search.DeletePrefix(ctx, "club:search:")
	return nil
}

func clubIDKey(id int64) string {
	return "club:id:" + strconv.FormatInt(id, 10)
}
