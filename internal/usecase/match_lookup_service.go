package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/badminton-stats/internal/domain/player"
	"github.com/riskibarqy/badminton-stats/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultLookupConcurrency = 5
	maxLookupBatch           = 200
)

// MatchLookupService resolves the (name, club) pairs of a match sheet to player IDs.
type MatchLookupService struct {
	players     player.Repository
	search      *PlayerSearchService
	logger      *logging.Logger
	concurrency int
}

func NewMatchLookupService(players player.Repository, search *PlayerSearchService, concurrency int, logger *logging.Logger) *MatchLookupService {
	if logger == nil {
		logger = logging.Default()
	}
	if concurrency <= 0 {
		concurrency = DefaultLookupConcurrency
	}
	return &MatchLookupService{
		players:     players,
		search:      search,
		logger:      logger.Named("match_lookup"),
		concurrency: concurrency,
	}
}

// ResolvePlayerIDs answers in input order. The store resolves what it can in one call;
// the rest go through name search with bounded fan-out. Unresolved pairs carry ID 0.
func (s *MatchLookupService) ResolvePlayerIDs(ctx context.Context, lookups []player.Lookup) ([]player.LookupResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchLookupService.ResolvePlayerIDs", attribute.Int("lookups", len(lookups)))
	defer span.End()

	if len(lookups) == 0 {
		return nil, fmt.Errorf("%w: at least one player is required", ErrInvalidInput)
	}
	if len(lookups) > maxLookupBatch {
		return nil, fmt.Errorf("%w: at most %d players per lookup", ErrInvalidInput, maxLookupBatch)
	}

	normalized := make([]player.Lookup, 0, len(lookups))
	for i, l := range lookups {
		l.Name = strings.TrimSpace(l.Name)
		l.Club = strings.TrimSpace(l.Club)
		if l.Name == "" {
			return nil, fmt.Errorf("%w: players[%d].name is required", ErrInvalidInput, i)
		}
		normalized = append(normalized, l)
	}

	resolved := make(map[player.Lookup]int64, len(normalized))
	stored, err := s.players.LookupIDs(ctx, normalized)
	if err != nil {
		s.logger.WarnContext(ctx, "store id lookup failed, resolving by search", "error", err)
	}
	for _, r := range stored {
		if r.ID > 0 {
			resolved[player.Lookup{Name: r.Name, Club: r.Club}] = r.ID
		}
	}

	pending := make([]player.Lookup, 0)
	queued := make(map[player.Lookup]struct{})
	for _, l := range normalized {
		if _, ok := resolved[l]; ok {
			continue
		}
		if _, ok := queued[l]; ok {
			continue
		}
		queued[l] = struct{}{}
		pending = append(pending, l)
	}

	if len(pending) > 0 {
		p := pool.NewWithResults[player.LookupResult]().WithMaxGoroutines(s.concurrency)
		for _, l := range pending {
			l := l
			p.Go(func() player.LookupResult {
				id, err := s.search.ResolvePlayerID(ctx, l.Name, l.Club)
				if err != nil && !errors.Is(err, ErrNotFound) {
					s.logger.WarnContext(ctx, "resolve player id failed", "name", l.Name, "club", l.Club, "error", err)
				}
				return player.LookupResult{Name: l.Name, Club: l.Club, ID: id}
			})
		}
		for _, r := range p.Wait() {
			if r.ID > 0 {
				resolved[player.Lookup{Name: r.Name, Club: r.Club}] = r.ID
			}
		}
	}

	out := make([]player.LookupResult, 0, len(normalized))
	for _, l := range normalized {
		out = append(out, player.LookupResult{Name: l.Name, Club: l.Club, ID: resolved[l]})
	}
	return out, nil
}
