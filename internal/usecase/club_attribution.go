package usecase

import (
	"context"
	"strings"

	"github.com/riskibarqy/badminton-stats/internal/domain/player"
	"github.com/riskibarqy/badminton-stats/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// UnknownClub is reported when no name in a match side resolves to a stored player.
const UnknownClub = "unknown"

// ClubAttributionService guesses the club of a match side from the names that played for it.
type ClubAttributionService struct {
	players player.Repository
	logger  *logging.Logger
}

func NewClubAttributionService(players player.Repository, logger *logging.Logger) *ClubAttributionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ClubAttributionService{
		players: players,
		logger:  logger.Named("club_attribution"),
	}
}

// InferClub looks all names up in one query and returns the most common club among the hits.
// Ties go to the club seen first.
func (s *ClubAttributionService) InferClub(ctx context.Context, names []string) string {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClubAttributionService.InferClub", attribute.Int("names", len(names)))
	defer span.End()

	lookup := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if !player.IsPresent(n) {
			continue
		}
		n = strings.TrimSpace(n)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		lookup = append(lookup, n)
	}
	if len(lookup) == 0 {
		return UnknownClub
	}

	found, err := s.players.ListByNames(ctx, lookup)
	if err != nil {
		recordSpanError(span, err)
		s.logger.WarnContext(ctx, "list players by names failed", "names", lookup, "error", err)
		return UnknownClub
	}

	return mostCommonClub(found)
}

func mostCommonClub(players []player.Player) string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, p := range players {
		name := strings.TrimSpace(p.ClubName)
		if name == "" {
			continue
		}
		if _, ok := counts[name]; !ok {
			order = append(order, name)
		}
		counts[name]++
	}

	best, bestCount := UnknownClub, 0
	for _, name := range order {
		if counts[name] > bestCount {
			best, bestCount = name, counts[name]
		}
	}
	return best
}
