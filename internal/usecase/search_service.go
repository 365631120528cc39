package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/badminton-stats/internal/domain/player"
	"github.com/riskibarqy/badminton-stats/internal/platform/logging"
	"github.com/riskibarqy/badminton-stats/internal/platform/textmatch"
	"github.com/sourcegraph/conc"
	"go.opentelemetry.io/otel/attribute"
)

const defaultSearchLimit = 50

// PlayerSearchService resolves free-text player names against the store and the federation.
type PlayerSearchService struct {
	players   player.Repository
	gateway   SourceGateway
	persister *Persister
	logger    *logging.Logger
	limit     int
}

func NewPlayerSearchService(players player.Repository, gateway SourceGateway, persister *Persister, logger *logging.Logger) *PlayerSearchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayerSearchService{
		players:   players,
		gateway:   gateway,
		persister: persister,
		logger:    logger.Named("player_search"),
		limit:     defaultSearchLimit,
	}
}

// Search returns candidates for name ranked by Jaro-Winkler similarity, best first.
// Store hits come before federation hits when merging; the club filter only narrows the
// federation search. Federation hits the store did not know are persisted in the background.
func (s *PlayerSearchService) Search(ctx context.Context, name, club string) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerSearchService.Search",
		attribute.String("player.name", name),
		attribute.String("player.club", club),
	)
	defer span.End()

	name = strings.TrimSpace(name)
	club = strings.TrimSpace(club)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	var (
		stored, remote       []player.Player
		storeErr, gatewayErr error
		wg                   conc.WaitGroup
	)
	wg.Go(func() {
		query := NameQuery(name)
		if query == "" {
			return
		}
		stored, storeErr = s.players.SearchByName(ctx, query, s.limit)
	})
	wg.Go(func() {
		remote, gatewayErr = s.gateway.SearchPlayer(ctx, name, club)
	})
	wg.Wait()

	if storeErr != nil && gatewayErr != nil {
		err := fmt.Errorf("%w: search player name=%q: %w", ErrDependencyUnavailable, name, errors.Join(storeErr, gatewayErr))
		recordSpanError(span, err)
		return nil, err
	}
	if storeErr != nil {
		s.logger.WarnContext(ctx, "store player search failed, using federation only", "name", name, "error", storeErr)
	}
	if gatewayErr != nil {
		s.logger.WarnContext(ctx, "federation player search failed, using store only", "name", name, "error", gatewayErr)
	}

	seen := make(map[int64]struct{}, len(stored)+len(remote))
	candidates := make([]player.Player, 0, len(stored)+len(remote))
	for _, p := range stored {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		candidates = append(candidates, p.Normalized())
	}
	for _, p := range remote {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		p = p.Normalized()
		candidates = append(candidates, p)
		s.persister.PersistPlayer(ctx, p)
	}

	rankBySimilarity(name, candidates)
	span.SetAttributes(attribute.Int("player.candidates", len(candidates)))
	return candidates, nil
}

// ResolvePlayerID returns the best-ranked candidate's ID.
func (s *PlayerSearchService) ResolvePlayerID(ctx context.Context, name, club string) (int64, error) {
	candidates, err := s.Search(ctx, name, club)
	if err != nil {
		return 0, err
	}
	if len(candidates) == 0 {
		return 0, fmt.Errorf("%w: player name=%q club=%q", ErrNotFound, name, club)
	}
	return candidates[0].ID, nil
}

func rankBySimilarity(query string, candidates []player.Player) {
	scores := make(map[int64]float64, len(candidates))
	for _, c := range candidates {
		scores[c.ID] = textmatch.Similarity(query, c.Name)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return scores[candidates[i].ID] > scores[candidates[j].ID]
	})
}

// NameQuery turns free text into a to_tsquery disjunction: "Anders  Jensen" -> "anders | jensen".
// Characters with tsquery meaning are dropped from each token.
func NameQuery(name string) string {
	tokens := strings.Fields(name)
	parts := make([]string, 0, len(tokens))
	for _, token := range tokens {
		cleaned := strings.Map(func(r rune) rune {
			switch r {
			case '&', '|', '!', '(', ')', ':', '*', '\'', '\\', '<', '>', '.', ',':
				return -1
			}
			return r
		}, token)
		if cleaned == "" {
			continue
		}
		parts = append(parts, strings.ToLower(cleaned))
	}
	return strings.Join(parts, " | ")
}
