package postgres

import (
	"database/sql"
	"fmt"

	"github.com/riskibarqy/badminton-stats/internal/domain/match"
)

type gameTableModel struct {
	MatchID     int64        `db:"match_id"`
	Category    string       `db:"category"`
	PlayedAt    sql.NullTime `db:"played_at"`
	HomePlayer1 string       `db:"home_player1"`
	HomePlayer2 string       `db:"home_player2"`
	AwayPlayer1 string       `db:"away_player1"`
	AwayPlayer2 string       `db:"away_player2"`
	Sets        string       `db:"sets"`
}

func gameModelFromDomain(matchID int64, g match.Game) (gameTableModel, error) {
	sets, err := encodeSets(g.Sets)
	if err != nil {
		return gameTableModel{}, fmt.Errorf("encode sets: %w", err)
	}
	return gameTableModel{
		MatchID:     matchID,
		Category:    g.Category,
		PlayedAt:    nullTime(g.Date),
		HomePlayer1: g.HomePlayer1,
		HomePlayer2: g.HomePlayer2,
		AwayPlayer1: g.AwayPlayer1,
		AwayPlayer2: g.AwayPlayer2,
		Sets:        sets,
	}, nil
}

func (m gameTableModel) toDomain() (match.Game, error) {
	sets, err := decodeSets(m.Sets)
	if err != nil {
		return match.Game{}, fmt.Errorf("decode sets of match=%d category=%s: %w", m.MatchID, m.Category, err)
	}
	return match.Game{
		Date:        timePtrFromNull(m.PlayedAt),
		Category:    m.Category,
		Sets:        sets,
		HomePlayer1: m.HomePlayer1,
		HomePlayer2: m.HomePlayer2,
		AwayPlayer1: m.AwayPlayer1,
		AwayPlayer2: m.AwayPlayer2,
	}, nil
}
