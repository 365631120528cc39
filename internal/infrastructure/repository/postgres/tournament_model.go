package postgres

import "time"

type tournamentTableModel struct {
	PlayerID     int64     `db:"player_id"`
	TournamentID int64     `db:"tournament_id"`
	HostClub     string    `db:"host_club"`
	Level        string    `db:"level"`
	PlayedOn     time.Time `db:"played_on"`
}
