package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/badminton-stats/internal/domain/standing"
)

type standingTableModel struct {
	PlayerID  int64         `db:"player_id"`
	Category  string        `db:"category"`
	Tier      string        `db:"tier"`
	Points    sql.NullInt64 `db:"points"`
	Matches   sql.NullInt64 `db:"matches"`
	Rank      int           `db:"rank"`
	UpdatedAt time.Time     `db:"updated_at"`
}

func standingModelFromDomain(s standing.Standing) standingTableModel {
	return standingTableModel{
		PlayerID:  s.PlayerID,
		Category:  s.Category,
		Tier:      s.Tier,
		Points:    nullIntPtr(s.Points),
		Matches:   nullIntPtr(s.Matches),
		Rank:      s.Rank,
		UpdatedAt: s.UpdatedAt,
	}
}

func (m standingTableModel) toDomain() standing.Standing {
	return standing.Standing{
		PlayerID:  m.PlayerID,
		Category:  m.Category,
		Tier:      m.Tier,
		Points:    intPtrFromNull(m.Points),
		Matches:   intPtrFromNull(m.Matches),
		Rank:      m.Rank,
		UpdatedAt: m.UpdatedAt,
	}
}
