package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, raw string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return v
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw        string
		ordinal    int
		discipline string
	}{
		{"1.HS", 1, "HS"},
		{"2. MD", 2, "MD"},
		{"MD", 0, "MD"},
		{" 10. dd ", 10, "DD"},
		{"", 0, ""},
	}
	for _, tc := range cases {
		ordinal, discipline := ParseCategory(tc.raw)
		if ordinal != tc.ordinal || discipline != tc.discipline {
			t.Fatalf("ParseCategory(%q)=(%d,%q), want (%d,%q)", tc.raw, ordinal, discipline, tc.ordinal, tc.discipline)
		}
	}
}

func TestSortGamesByCategory(t *testing.T) {
	t.Parallel()

	games := []Game{
		{Category: "2. HS"},
		{Category: "1. DD"},
		{Category: "XX"},
		{Category: "1. HS"},
		{Category: "2. MD"},
		{Category: "1. DS"},
		{Category: "1. MD"},
		{Category: "1. HD"},
	}
	SortGamesByCategory(games)

	got := make([]string, 0, len(games))
	for _, g := range games {
		got = append(got, g.Category)
	}
	require.Equal(t, []string{"1. MD", "2. MD", "1. DS", "1. HS", "2. HS", "1. DD", "1. HD", "XX"}, got)
}

func TestGroupGamesByRankingList(t *testing.T) {
	t.Parallel()

	games := []Game{
		{Category: "1. HS"},
		{Category: "1. DS"},
		{Category: "MD"},
		{Category: "1. HD"},
		{Category: "1. D"},
		{Category: "1. S"},
	}
	grouped := GroupGamesByRankingList(games)

	require.Len(t, grouped, 3)
	require.Len(t, grouped[RankingListSingle], 2)
	require.Len(t, grouped[RankingListMix], 1)
	require.Len(t, grouped[RankingListDouble], 2)
}

func TestGroupGamesByRankingList_BareDoubleFallsToWomen(t *testing.T) {
	t.Parallel()

	grouped := GroupGamesByRankingList([]Game{{Category: "1. D"}, {Category: "2. D"}})
	require.Len(t, grouped[RankingListDouble], 2)
}
