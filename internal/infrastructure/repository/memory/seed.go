package memory

import (
	"time"

	"github.com/riskibarqy/badminton-stats/internal/domain/club"
	"github.com/riskibarqy/badminton-stats/internal/domain/player"
)

// Seed data for STORE_DRIVER=memory so the API answers something before the first scrape.
const (
	ClubIDVejlby     int64 = 1001
	ClubIDHojbjerg   int64 = 1002
	ClubIDSkovbakken int64 = 1003
)

func SeedClubs() []club.Club {
	return []club.Club{
		{ID: ClubIDVejlby, Name: "Vejlby IK"},
		{ID: ClubIDHojbjerg, Name: "Højbjerg"},
		{ID: ClubIDSkovbakken, Name: "Skovbakken"},
	}
}

func SeedPlayers() []player.Player {
	born := func(year int, month time.Month, day int) *time.Time {
		t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		return &t
	}

	return []player.Player{
		{ID: 50001, Name: "Anders Jensen", ClubID: ClubIDVejlby, ClubName: "Vejlby IK", BirthDate: born(1994, time.March, 14)},
		{ID: 50002, Name: "Peter Lund", ClubID: ClubIDVejlby, ClubName: "Vejlby IK", BirthDate: born(1991, time.October, 2)},
		{ID: 50003, Name: "Mette Holm", ClubID: ClubIDVejlby, ClubName: "Vejlby IK"},
		{ID: 50011, Name: "Jonas Berg", ClubID: ClubIDHojbjerg, ClubName: "Højbjerg", BirthDate: born(1998, time.June, 21)},
		{ID: 50012, Name: "Sofie Lund", ClubID: ClubIDHojbjerg, ClubName: "Højbjerg"},
		{ID: 50021, Name: "Anders Jensen", ClubID: ClubIDSkovbakken, ClubName: "Skovbakken", BirthDate: born(2003, time.January, 9)},
	}
}
