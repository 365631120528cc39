package match

import "testing"

func TestGroupByDivision(t *testing.T) {
	t.Parallel()

	matches := []TeamMatch{
		{ID: 1, Division: "Serie 1"},
		{ID: 2, Division: "Serie 1 "},
		{ID: 3, Division: "Danmarksserien"},
		{ID: 4, Division: "Serie 1"},
	}
	groups := GroupByDivision(matches)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if len(groups[0]) != 2 || groups[0][1].ID != 2 {
		t.Fatalf("unexpected first group %+v", groups[0])
	}
	if groups[2][0].ID != 4 {
		t.Fatalf("reappearing division should open a new group")
	}
}

func TestGamesFor(t *testing.T) {
	t.Parallel()

	older := mustDate(t, "2025-10-01T10:00:00Z")
	newer := mustDate(t, "2025-11-01T10:00:00Z")
	matches := []TeamMatch{
		{Games: []Game{
			{Category: "1. HS", Date: &older, HomePlayer1: "Anders Jensen"},
			{Category: "2. HS", Date: &older, HomePlayer1: "Mikkel Holm"},
		}},
		{Games: []Game{
			{Category: "1. HD", Date: &newer, AwayPlayer2: "Anders Jensen "},
			{Category: "MD", HomePlayer1: "Anders Jensen"},
		}},
	}

	games := GamesFor(matches, " Anders Jensen")
	if len(games) != 2 {
		t.Fatalf("expected 2 dated games, got %d", len(games))
	}
	if games[0].Category != "1. HD" {
		t.Fatalf("expected newest game first, got %s", games[0].Category)
	}
}
