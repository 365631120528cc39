package postgres

import (
	"database/sql"
	"strings"

	"github.com/riskibarqy/badminton-stats/internal/domain/player"
)

type playerTableModel struct {
	ID        int64         `db:"id"`
	Name      string        `db:"name"`
	ClubID    sql.NullInt64 `db:"club_id"`
	BirthDate sql.NullTime  `db:"birth_date"`
}

// playerRow is a player joined with its club name.
type playerRow struct {
	playerTableModel
	ClubName sql.NullString `db:"club_name"`
}

func (r playerRow) toDomain() player.Player {
	return player.Player{
		ID:        r.ID,
		Name:      strings.TrimSpace(r.Name),
		ClubID:    r.ClubID.Int64,
		ClubName:  strings.TrimSpace(r.ClubName.String),
		BirthDate: timePtrFromNull(r.BirthDate),
	}
}

type lookupRow struct {
	Name     string `db:"lookup_name"`
	Club     string `db:"lookup_club"`
	PlayerID int64  `db:"player_id"`
}
