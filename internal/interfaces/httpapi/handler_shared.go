package httpapi

import (
	"sort"
	"time"

	"github.com/riskibarqy/badminton-stats/internal/discovery"
	"github.com/riskibarqy/badminton-stats/internal/domain/match"
	"github.com/riskibarqy/badminton-stats/internal/domain/player"
	"github.com/riskibarqy/badminton-stats/internal/domain/standing"
	"github.com/riskibarqy/badminton-stats/internal/domain/tournament"
	"github.com/riskibarqy/badminton-stats/internal/usecase"
)

const dateLayout = "2006-01-02"

type lookupPlayersRequest struct {
	Players []lookupPlayerItem `json:"players" validate:"required,min=1,max=200,dive"`
}

type lookupPlayerItem struct {
	Name string `json:"name" validate:"required,max=200"`
	Club string `json:"club" validate:"omitempty,max=200"`
}

type lookupResultDTO struct {
	Name     string `json:"name"`
	Club     string `json:"club"`
	ID       int64  `json:"id,omitempty"`
	Resolved bool   `json:"resolved"`
}

type discoverResultDTO struct {
	ID int64 `json:"id"`
}

type withdrawResultDTO struct {
	Withdrawn bool `json:"withdrawn"`
}

type discoveryStatsDTO struct {
	Enabled bool `json:"enabled"`
	discovery.Stats
}

type clubDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type playerDTO struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	ClubID    int64   `json:"club_id,omitempty"`
	ClubName  string  `json:"club_name,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"`
	Age       *int    `json:"age,omitempty"`
}

type standingDTO struct {
	Category  string    `json:"category"`
	Tier      string    `json:"tier"`
	Points    *int      `json:"points"`
	Matches   *int      `json:"matches"`
	Rank      int       `json:"rank"`
	Ranked    bool      `json:"ranked"`
	UpdatedAt time.Time `json:"updated_at"`
}

type setDTO struct {
	Number     int `json:"number"`
	HomePoints int `json:"home_points"`
	AwayPoints int `json:"away_points"`
}

type gameDTO struct {
	Date        *time.Time `json:"date,omitempty"`
	Category    string     `json:"category"`
	Sets        []setDTO   `json:"sets"`
	HomePlayer1 string     `json:"home_player1,omitempty"`
	HomePlayer2 string     `json:"home_player2,omitempty"`
	AwayPlayer1 string     `json:"away_player1,omitempty"`
	AwayPlayer2 string     `json:"away_player2,omitempty"`
	Winner      string     `json:"winner"`
}

type teamMatchDTO struct {
	ID         int64      `json:"id"`
	Date       *time.Time `json:"date,omitempty"`
	Division   string     `json:"division"`
	HomeTeam   string     `json:"home_team"`
	AwayTeam   string     `json:"away_team"`
	HomeClub   string     `json:"home_club"`
	AwayClub   string     `json:"away_club"`
	Location   string     `json:"location,omitempty"`
	HomePoints int        `json:"home_points"`
	AwayPoints int        `json:"away_points"`
	Winner     string     `json:"winner"`
	Games      []gameDTO  `json:"games"`
}

type tournamentDTO struct {
	ID       int64  `json:"id"`
	HostClub string `json:"host_club"`
	Level    string `json:"level"`
	Date     string `json:"date"`
}

type divisionDTO struct {
	Division string  `json:"division"`
	MatchIDs []int64 `json:"match_ids"`
}

type rankingListDTO struct {
	RankingList string    `json:"ranking_list"`
	Games       []gameDTO `json:"games"`
}

type profileDTO struct {
	Player            playerDTO        `json:"player"`
	SeasonStartPoints *int             `json:"season_start_points"`
	Standings         []standingDTO    `json:"standings"`
	Matches           []teamMatchDTO   `json:"matches"`
	Games             []gameDTO        `json:"games"`
	Tournaments       []tournamentDTO  `json:"tournaments"`
	RankingLists      []rankingListDTO `json:"ranking_lists"`
	Divisions         []divisionDTO    `json:"divisions"`
}

func playerToDTO(p player.Player) playerDTO {
	out := playerDTO{
		ID:       p.ID,
		Name:     p.Name,
		ClubID:   p.ClubID,
		ClubName: p.ClubName,
	}
	if p.BirthDate != nil {
		born := p.BirthDate.Format(dateLayout)
		out.BirthDate = &born
	}
	if age, ok := p.Age(time.Now()); ok {
		out.Age = &age
	}
	return out
}

func standingToDTO(s standing.Standing) standingDTO {
	return standingDTO{
		Category:  s.Category,
		Tier:      s.Tier,
		Points:    s.Points,
		Matches:   s.Matches,
		Rank:      s.Rank,
		Ranked:    s.Ranked(),
		UpdatedAt: s.UpdatedAt,
	}
}

func gameToDTO(g match.Game) gameDTO {
	sets := make([]setDTO, 0, len(g.Sets))
	for _, s := range g.Sets {
		sets = append(sets, setDTO{Number: s.Number, HomePoints: s.HomePoints, AwayPoints: s.AwayPoints})
	}
	return gameDTO{
		Date:        g.Date,
		Category:    g.Category,
		Sets:        sets,
		HomePlayer1: g.HomePlayer1,
		HomePlayer2: g.HomePlayer2,
		AwayPlayer1: g.AwayPlayer1,
		AwayPlayer2: g.AwayPlayer2,
		Winner:      string(g.Winner()),
	}
}

func gamesToDTO(games []match.Game) []gameDTO {
	out := make([]gameDTO, 0, len(games))
	for _, g := range games {
		out = append(out, gameToDTO(g))
	}
	return out
}

func teamMatchToDTO(m match.TeamMatch) teamMatchDTO {
	return teamMatchDTO{
		ID:         m.ID,
		Date:       m.Date,
		Division:   m.Division,
		HomeTeam:   m.HomeTeam,
		AwayTeam:   m.AwayTeam,
		HomeClub:   m.HomeClub,
		AwayClub:   m.AwayClub,
		Location:   m.Location,
		HomePoints: m.HomePoints(),
		AwayPoints: m.AwayPoints(),
		Winner:     string(m.Winner()),
		Games:      gamesToDTO(m.Games),
	}
}

func tournamentToDTO(t tournament.Tournament) tournamentDTO {
	return tournamentDTO{
		ID:       t.ID,
		HostClub: t.HostClub,
		Level:    t.Level,
		Date:     t.Date.Format(dateLayout),
	}
}

func profileToDTO(p usecase.Profile) profileDTO {
	out := profileDTO{
		Player:       playerToDTO(p.Player),
		Standings:    make([]standingDTO, 0, len(p.Standings)),
		Matches:      make([]teamMatchDTO, 0, len(p.Matches)),
		Games:        gamesToDTO(p.Games),
		Tournaments:  make([]tournamentDTO, 0, len(p.Tournaments)),
		RankingLists: make([]rankingListDTO, 0),
		Divisions:    make([]divisionDTO, 0),
	}
	if p.SeasonStartPoints != usecase.NoSeasonStartPoints {
		points := p.SeasonStartPoints
		out.SeasonStartPoints = &points
	}
	for _, s := range p.Standings {
		out.Standings = append(out.Standings, standingToDTO(s))
	}
	for _, m := range p.Matches {
		out.Matches = append(out.Matches, teamMatchToDTO(m))
	}
	for _, t := range p.Tournaments {
		out.Tournaments = append(out.Tournaments, tournamentToDTO(t))
	}

	byList := p.GamesByRankingList()
	lists := make([]string, 0, len(byList))
	for list := range byList {
		lists = append(lists, list)
	}
	sort.Strings(lists)
	for _, list := range lists {
		out.RankingLists = append(out.RankingLists, rankingListDTO{RankingList: list, Games: gamesToDTO(byList[list])})
	}

	for _, group := range p.MatchesByDivision() {
		if len(group) == 0 {
			continue
		}
		ids := make([]int64, 0, len(group))
		for _, m := range group {
			ids = append(ids, m.ID)
		}
		out.Divisions = append(out.Divisions, divisionDTO{Division: group[0].Division, MatchIDs: ids})
	}
	return out
}
