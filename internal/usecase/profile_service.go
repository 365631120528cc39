package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/badminton-stats/internal/domain/match"
	"github.com/riskibarqy/badminton-stats/internal/domain/player"
	"github.com/riskibarqy/badminton-stats/internal/domain/standing"
	"github.com/riskibarqy/badminton-stats/internal/domain/tournament"
	"github.com/riskibarqy/badminton-stats/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultStandingsFreshness = 24 * time.Hour
	defaultMatchConcurrency   = 4
)

// Profile is the aggregated view of one player.
type Profile struct {
	Player            player.Player
	SeasonStartPoints int
	Standings         []standing.Standing
	Matches           []match.TeamMatch
	Games             []match.Game
	Tournaments       []tournament.Tournament
}

func (p Profile) GamesByRankingList() map[string][]match.Game {
	return match.GroupGamesByRankingList(p.Games)
}

func (p Profile) MatchesByDivision() [][]match.TeamMatch {
	return match.GroupByDivision(p.Matches)
}

type ProfileServiceConfig struct {
	StandingsFreshness time.Duration
	MatchConcurrency   int
}

// ProfileService assembles a Profile from the store, falling back to the federation
// for anything the store lacks or holds stale.
type ProfileService struct {
	players    player.Repository
	standings  standing.Repository
	games      match.Repository
	gateway    SourceGateway
	clubs      *ClubAttributionService
	persister  *Persister
	discoverer MatchDiscoverer
	logger     *logging.Logger

	freshness        time.Duration
	matchConcurrency int
	now              func() time.Time
}

func NewProfileService(
	cfg ProfileServiceConfig,
	players player.Repository,
	standings standing.Repository,
	games match.Repository,
	gateway SourceGateway,
	clubs *ClubAttributionService,
	persister *Persister,
	discoverer MatchDiscoverer,
	logger *logging.Logger,
) *ProfileService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.StandingsFreshness <= 0 {
		cfg.StandingsFreshness = DefaultStandingsFreshness
	}
	if cfg.MatchConcurrency <= 0 {
		cfg.MatchConcurrency = defaultMatchConcurrency
	}
	return &ProfileService{
		players:          players,
		standings:        standings,
		games:            games,
		gateway:          gateway,
		clubs:            clubs,
		persister:        persister,
		discoverer:       discoverer,
		logger:           logger.Named("profile"),
		freshness:        cfg.StandingsFreshness,
		matchConcurrency: cfg.MatchConcurrency,
		now:              time.Now,
	}
}

// BuildProfile fails only when the player or the performance page cannot be found.
// Every other section degrades to empty and is logged.
func (s *ProfileService) BuildProfile(ctx context.Context, playerID int64) (Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.BuildProfile", attribute.Int64("player.id", playerID))
	defer span.End()

	if playerID <= 0 {
		return Profile{}, fmt.Errorf("%w: player id must be positive", ErrInvalidInput)
	}

	subject, err := s.findPlayer(ctx, playerID)
	if err != nil {
		recordSpanError(span, err)
		return Profile{}, err
	}

	perf, err := s.gateway.GetPerformance(ctx, playerID)
	if err != nil {
		err = fmt.Errorf("%w: performance player=%d: %w", ErrNotFound, playerID, err)
		recordSpanError(span, err)
		return Profile{}, err
	}

	standings := s.findStandings(ctx, playerID, perf.Standings)
	matches := s.findTeamMatches(ctx, subject, perf.Matches)
	games := match.GamesFor(matches, subject.Name)
	tournaments := s.findTournaments(ctx, playerID, perf.Tournaments)

	s.logger.DebugContext(ctx, "profile built",
		"player_id", playerID,
		"standings", len(standings),
		"matches", len(matches),
		"games", len(games),
		"tournaments", len(tournaments),
	)

	return Profile{
		Player:            subject,
		SeasonStartPoints: perf.SeasonStartPoints,
		Standings:         standings,
		Matches:           matches,
		Games:             games,
		Tournaments:       tournaments,
	}, nil
}

func (s *ProfileService) findPlayer(ctx context.Context, playerID int64) (player.Player, error) {
	stored, exists, storeErr := s.players.GetByID(ctx, playerID)
	if storeErr == nil && exists {
		return stored.Normalized(), nil
	}
	if storeErr != nil {
		s.logger.WarnContext(ctx, "store player lookup failed", "player_id", playerID, "error", storeErr)
	}

	remote, exists, gatewayErr := s.gateway.GetPlayer(ctx, playerID)
	if gatewayErr != nil {
		if storeErr != nil {
			return player.Player{}, fmt.Errorf("%w: get player=%d: %w", ErrDependencyUnavailable, playerID, gatewayErr)
		}
		s.logger.WarnContext(ctx, "federation player lookup failed", "player_id", playerID, "error", gatewayErr)
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}

	remote = remote.Normalized()
	s.persister.PersistPlayer(ctx, remote)
	return remote, nil
}

func (s *ProfileService) findStandings(ctx context.Context, playerID int64, fromPerformance []standing.Standing) []standing.Standing {
	now := s.now()

	stored, err := s.standings.ListUpdatedSince(ctx, playerID, now.Add(-s.freshness))
	if err != nil {
		s.logger.WarnContext(ctx, "list fresh standings failed", "player_id", playerID, "error", err)
	}
	if len(stored) > 0 {
		standing.SortByCategoryDesc(stored)
		return stored
	}

	if len(fromPerformance) == 0 {
		return nil
	}

	fresh := make([]standing.Standing, 0, len(fromPerformance))
	for _, st := range fromPerformance {
		st.PlayerID = playerID
		st.UpdatedAt = now
		fresh = append(fresh, st)
	}
	if err := s.standings.Upsert(ctx, fresh); err != nil {
		s.logger.WarnContext(ctx, "upsert standings failed", "player_id", playerID, "error", err)
	}

	standing.SortByCategoryDesc(fresh)
	return fresh
}

type orderedMatch struct {
	match   match.TeamMatch
	ordinal int
	ok      bool
}

func (s *ProfileService) findTeamMatches(ctx context.Context, subject player.Player, metas []match.MatchMeta) []match.TeamMatch {
	if len(metas) == 0 {
		return nil
	}

	p := pool.NewWithResults[orderedMatch]().WithMaxGoroutines(s.matchConcurrency)
	for _, meta := range metas {
		meta := meta
		p.Go(func() orderedMatch {
			m, ok := s.loadTeamMatch(ctx, subject, meta)
			return orderedMatch{match: m, ordinal: meta.Ordinal, ok: ok}
		})
	}
	results := p.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ordinal > results[j].ordinal
	})

	matches := make([]match.TeamMatch, 0, len(results))
	for _, r := range results {
		if r.ok {
			matches = append(matches, r.match)
		}
	}
	return matches
}

func (s *ProfileService) loadTeamMatch(ctx context.Context, subject player.Player, meta match.MatchMeta) (match.TeamMatch, bool) {
	var m match.TeamMatch

	stored, err := s.games.ListGamesByMatch(ctx, meta.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "list stored games failed", "match_id", meta.ID, "error", err)
	}

	if len(stored) > 0 {
		match.SortGamesByCategory(stored)
		m = match.TeamMatch{
			ID:       meta.ID,
			Date:     meta.Date,
			Division: strings.TrimSpace(meta.Division),
			Games:    stored,
		}
	} else {
		m, err = s.gateway.GetMatch(ctx, meta.ID)
		if err != nil {
			s.logger.WarnContext(ctx, "fetch team match failed", "match_id", meta.ID, "error", err)
			return match.TeamMatch{}, false
		}
		for _, g := range m.Games {
			s.persister.PersistGame(ctx, meta.ID, g)
		}
		if s.discoverer != nil {
			queued := s.discoverer.EnqueueMatch(m, subject.Name)
			s.logger.DebugContext(ctx, "queued match players for discovery", "match_id", meta.ID, "queued", queued)
		}
	}

	s.orient(ctx, &m, subject, meta)
	return m, true
}

// orient names the teams and clubs from the subject's perspective. Team1 of the meta row is
// always the subject's team; the side the subject played on decides whether it is home.
func (s *ProfileService) orient(ctx context.Context, m *match.TeamMatch, subject player.Player, meta match.MatchMeta) {
	home, away := m.Players()

	if containsName(home, subject.Name) {
		m.HomeTeam, m.AwayTeam = meta.Team1, meta.Team2
		m.HomeClub = subject.ClubName
		m.AwayClub = s.clubs.InferClub(ctx, away)
		return
	}

	m.HomeTeam, m.AwayTeam = meta.Team2, meta.Team1
	m.HomeClub = s.clubs.InferClub(ctx, home)
	m.AwayClub = subject.ClubName
}

func (s *ProfileService) findTournaments(ctx context.Context, playerID int64, fromPerformance []tournament.Tournament) []tournament.Tournament {
	if len(fromPerformance) == 0 {
		return nil
	}

	items := make([]tournament.Tournament, 0, len(fromPerformance))
	for _, t := range fromPerformance {
		t.PlayerID = playerID
		items = append(items, t)
	}
	s.persister.PersistTournaments(ctx, playerID, items)

	tournament.SortByDateDesc(items)
	return items
}

func containsName(names []string, name string) bool {
	name = strings.TrimSpace(name)
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
