package match

import "testing"

func TestGameWinner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		game Game
		want Side
	}{
		{
			name: "three sets home wins two",
			game: Game{
				Category:    "1. HS",
				HomePlayer1: "Anders Jensen",
				AwayPlayer1: "Mikkel Holm",
				Sets:        []Set{{1, 21, 15}, {2, 18, 21}, {3, 21, 19}},
			},
			want: SideHome,
		},
		{
			name: "away no-show in singles",
			game: Game{
				Category:    "2. HS",
				HomePlayer1: "Anders Jensen",
				AwayPlayer1: "Ikke fremmødt",
			},
			want: SideHome,
		},
		{
			name: "home absent entirely",
			game: Game{
				Category:    "1. DS",
				AwayPlayer1: "Sofie Lund",
				Sets:        []Set{{1, 21, 0}},
			},
			want: SideAway,
		},
		{
			name: "both sides absent goes away",
			game: Game{Category: "1. DD"},
			want: SideAway,
		},
		{
			name: "home short a player in doubles loses despite sets",
			game: Game{
				Category:    "1. HD",
				HomePlayer1: "Anders Jensen",
				HomePlayer2: "Ikke fremmødt",
				AwayPlayer1: "Mikkel Holm",
				AwayPlayer2: "Jonas Berg",
				Sets:        []Set{{1, 21, 10}, {2, 21, 10}},
			},
			want: SideAway,
		},
		{
			name: "away short a player in doubles",
			game: Game{
				Category:    "MD",
				HomePlayer1: "Anders Jensen",
				HomePlayer2: "Sofie Lund",
				AwayPlayer1: "Mikkel Holm",
			},
			want: SideHome,
		},
		{
			name: "tied sets go away",
			game: Game{
				Category:    "1. HS",
				HomePlayer1: "Anders Jensen",
				AwayPlayer1: "Mikkel Holm",
				Sets:        []Set{{1, 21, 15}, {2, 15, 21}},
			},
			want: SideAway,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.game.Winner(); got != tc.want {
				t.Fatalf("Winner()=%s, want %s", got, tc.want)
			}
		})
	}
}

func TestGameWonBy(t *testing.T) {
	t.Parallel()

	g := Game{
		Category:    "1. HD",
		HomePlayer1: "Anders Jensen",
		HomePlayer2: "Jonas Berg",
		AwayPlayer1: "Mikkel Holm",
		AwayPlayer2: "Emil Dahl",
		Sets:        []Set{{1, 21, 19}, {2, 21, 17}},
	}
	if !g.WonBy("Jonas Berg") {
		t.Fatalf("expected home player to have won")
	}
	if g.WonBy("Mikkel Holm") {
		t.Fatalf("expected away player to have lost")
	}
}

func TestTeamMatchPointsAndWinningTeam(t *testing.T) {
	t.Parallel()

	date := mustDate(t, "2025-11-08T10:00:00Z")
	m := TeamMatch{
		ID:   123,
		Date: &date,
		Games: []Game{
			{Category: "1. HS", HomePlayer1: "A", AwayPlayer1: "X", Sets: []Set{{1, 21, 10}, {2, 21, 10}}},
			{Category: "2. HS", HomePlayer1: "B", AwayPlayer1: "Y", Sets: []Set{{1, 10, 21}, {2, 10, 21}}},
			{Category: "1. DS", HomePlayer1: "C", AwayPlayer1: "Ikke fremmødt"},
		},
	}

	if m.HomePoints() != 2 || m.AwayPoints() != 1 {
		t.Fatalf("points=%d-%d, want 2-1", m.HomePoints(), m.AwayPoints())
	}
	if m.Winner() != SideHome {
		t.Fatalf("expected home to win the match")
	}
	if !m.OnWinningTeam("B") {
		t.Fatalf("B lost a game but was on the winning team")
	}
	if m.OnWinningTeam("Y") {
		t.Fatalf("Y was on the losing team")
	}

	home, away := m.Players()
	if len(home) != 3 || len(away) != 2 {
		t.Fatalf("unexpected players home=%v away=%v", home, away)
	}
}
