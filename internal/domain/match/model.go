package match

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/badminton-stats/internal/domain/player"
)

// Side identifies the home or away half of a game or team match.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Set is one set of a game.
type Set struct {
	Number     int
	HomePoints int
	AwayPoints int
}

// Game is one discipline inside a team match, e.g. "1. HS". Empty player names are absent slots.
type Game struct {
	Date        *time.Time
	Category    string
	Sets        []Set
	HomePlayer1 string
	HomePlayer2 string
	AwayPlayer1 string
	AwayPlayer2 string
}

func (g Game) Validate() error {
	if strings.TrimSpace(g.Category) == "" {
		return fmt.Errorf("game category is required")
	}
	for i, s := range g.Sets {
		if s.HomePoints < 0 || s.AwayPoints < 0 {
			return fmt.Errorf("set %d has negative points", i+1)
		}
	}
	return nil
}

func (g Game) HomePlayers() []string {
	return presentNames(g.HomePlayer1, g.HomePlayer2)
}

func (g Game) AwayPlayers() []string {
	return presentNames(g.AwayPlayer1, g.AwayPlayer2)
}

// Contains reports whether name occupies any of the four player slots.
func (g Game) Contains(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	for _, slot := range []string{g.HomePlayer1, g.HomePlayer2, g.AwayPlayer1, g.AwayPlayer2} {
		if strings.TrimSpace(slot) == name {
			return true
		}
	}
	return false
}

// WonBy reports whether name played on the winning side.
func (g Game) WonBy(name string) bool {
	name = strings.TrimSpace(name)
	if g.Winner() == SideHome {
		return name == strings.TrimSpace(g.HomePlayer1) || name == strings.TrimSpace(g.HomePlayer2)
	}
	return name == strings.TrimSpace(g.AwayPlayer1) || name == strings.TrimSpace(g.AwayPlayer2)
}

// MatchMeta points at a team match from a player's performance page.
// Team1 is always the subject player's team.
type MatchMeta struct {
	ID       int64
	Ordinal  int
	Date     *time.Time
	Division string
	Team1    string
	Team2    string
}

// TeamMatch is a club-versus-club fixture made up of several games.
type TeamMatch struct {
	ID       int64
	Date     *time.Time
	Division string
	Games    []Game
	HomeTeam string
	AwayTeam string
	HomeClub string
	AwayClub string
	Location string
}

// HomePoints counts games won by the home side.
func (m TeamMatch) HomePoints() int {
	return m.countWins(SideHome)
}

func (m TeamMatch) AwayPoints() int {
	return m.countWins(SideAway)
}

// Winner awards the match to the side with more game wins; ties go to away.
func (m TeamMatch) Winner() Side {
	if m.HomePoints() > m.AwayPoints() {
		return SideHome
	}
	return SideAway
}

// Players lists the distinct present player names per side, in first-seen order.
func (m TeamMatch) Players() (home []string, away []string) {
	seenHome := map[string]struct{}{}
	seenAway := map[string]struct{}{}
	for _, g := range m.Games {
		home = appendDistinct(home, seenHome, g.HomePlayers()...)
		away = appendDistinct(away, seenAway, g.AwayPlayers()...)
	}
	return home, away
}

// OnWinningTeam reports whether name was on the side that won the team match.
// Without a match date the result is undecided, so membership of the side that fielded
// players is used instead.
func (m TeamMatch) OnWinningTeam(name string) bool {
	name = strings.TrimSpace(name)
	home, away := m.Players()
	if m.Date == nil {
		if len(home) > 0 {
			return contains(home, name)
		}
		return contains(away, name)
	}
	if m.Winner() == SideHome {
		return contains(home, name)
	}
	return contains(away, name)
}

func (m TeamMatch) countWins(side Side) int {
	n := 0
	for _, g := range m.Games {
		if g.Winner() == side {
			n++
		}
	}
	return n
}

func presentNames(names ...string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if player.IsPresent(n) {
			out = append(out, strings.TrimSpace(n))
		}
	}
	return out
}

func appendDistinct(dst []string, seen map[string]struct{}, names ...string) []string {
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		dst = append(dst, n)
	}
	return dst
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
