package match

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Discipline codes used in game categories.
const (
	MixedDouble  = "MD"
	WomenSingle  = "DS"
	MenSingle    = "HS"
	WomenDouble  = "DD"
	MenDouble    = "HD"
	Single       = "S"
	Double       = "D"
	unknownOrder = 1 << 10
)

// Ranking lists a game counts towards.
const (
	RankingListSingle = "Rangliste Single"
	RankingListMix    = "Rangliste Mix"
	RankingListDouble = "Rangliste Double"
)

var disciplineOrder = map[string]int{
	MixedDouble: 0,
	WomenSingle: 1,
	MenSingle:   2,
	WomenDouble: 3,
	MenDouble:   4,
	Single:      5,
	Double:      6,
}

var rankingListByDiscipline = map[string]string{
	MenSingle:   RankingListSingle,
	WomenSingle: RankingListSingle,
	MixedDouble: RankingListMix,
	MenDouble:   RankingListDouble,
	WomenDouble: RankingListDouble,
}

// ParseCategory splits "1.HS", "2. MD" or "MD" into its leading ordinal (0 when absent)
// and its discipline code.
func ParseCategory(category string) (ordinal int, discipline string) {
	category = strings.TrimSpace(category)
	i := 0
	for i < len(category) && category[i] >= '0' && category[i] <= '9' {
		i++
	}
	if i > 0 {
		ordinal, _ = strconv.Atoi(category[:i])
	}
	discipline = strings.TrimFunc(category[i:], func(r rune) bool {
		return r == '.' || unicode.IsSpace(r)
	})
	return ordinal, strings.ToUpper(discipline)
}

// Discipline returns the discipline code of a category, e.g. "HS" for "3. HS".
func Discipline(category string) string {
	_, d := ParseCategory(category)
	return d
}

// SortGamesByCategory orders games MD, DS, HS, DD, HD, S, D with unknown disciplines last,
// then by leading ordinal.
func SortGamesByCategory(games []Game) {
	sort.SliceStable(games, func(i, j int) bool {
		oi, di := ParseCategory(games[i].Category)
		oj, dj := ParseCategory(games[j].Category)
		ri, rj := disciplineRank(di), disciplineRank(dj)
		if ri != rj {
			return ri < rj
		}
		return oi < oj
	})
}

func disciplineRank(discipline string) int {
	if r, ok := disciplineOrder[discipline]; ok {
		return r
	}
	return unknownOrder
}

// GroupGamesByRankingList buckets games by the ranking list they count towards.
// Bare double games ("D") join men's doubles when present, otherwise women's doubles.
// Games of unmapped disciplines are dropped.
func GroupGamesByRankingList(games []Game) map[string][]Game {
	byDiscipline := make(map[string][]Game)
	for _, g := range games {
		d := Discipline(g.Category)
		byDiscipline[d] = append(byDiscipline[d], g)
	}

	if bare, ok := byDiscipline[Double]; ok {
		if _, hasMen := byDiscipline[MenDouble]; hasMen {
			byDiscipline[MenDouble] = append(byDiscipline[MenDouble], bare...)
		} else {
			byDiscipline[WomenDouble] = append(byDiscipline[WomenDouble], bare...)
		}
		delete(byDiscipline, Double)
	}

	out := make(map[string][]Game)
	for _, d := range []string{MenSingle, WomenSingle, MixedDouble, MenDouble, WomenDouble} {
		items, ok := byDiscipline[d]
		if !ok {
			continue
		}
		list := rankingListByDiscipline[d]
		out[list] = append(out[list], items...)
	}
	return out
}
