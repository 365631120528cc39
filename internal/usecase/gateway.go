package usecase

import (
	"context"

	"github.com/riskibarqy/badminton-stats/internal/domain/match"
	"github.com/riskibarqy/badminton-stats/internal/domain/player"
	"github.com/riskibarqy/badminton-stats/internal/domain/standing"
	"github.com/riskibarqy/badminton-stats/internal/domain/tournament"
)

// NoSeasonStartPoints marks a performance page without an entry-level table.
const NoSeasonStartPoints = -1

// Performance is everything the federation's player profile page reports about a player.
// Standings and tournaments carry no player ID; callers attach it.
type Performance struct {
	SeasonStartPoints int
	Standings         []standing.Standing
	Matches           []match.MatchMeta
	Tournaments       []tournament.Tournament
}

// SourceGateway reads from the federation website.
type SourceGateway interface {
	// GetPlayer returns false when the federation has no player with that ID.
	GetPlayer(ctx context.Context, id int64) (player.Player, bool, error)
	// SearchPlayer filters by club name (case-insensitive) when club is non-empty.
	SearchPlayer(ctx context.Context, name, club string) ([]player.Player, error)
	GetPerformance(ctx context.Context, id int64) (Performance, error)
	GetMatch(ctx context.Context, id int64) (match.TeamMatch, error)
}

// MatchDiscoverer receives freshly scraped matches so unknown players in them get looked up.
type MatchDiscoverer interface {
	EnqueueMatch(m match.TeamMatch, exclude ...string) int
}
