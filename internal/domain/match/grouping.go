package match

import (
	"sort"
	"strings"
)

// GroupByDivision splits matches into runs of consecutive matches sharing a division.
// Order is preserved; a division that reappears later starts a new run.
func GroupByDivision(matches []TeamMatch) [][]TeamMatch {
	var (
		groups  [][]TeamMatch
		current []TeamMatch
		prev    string
	)
	for i, m := range matches {
		division := strings.TrimSpace(m.Division)
		if i > 0 && division == prev {
			current = append(current, m)
			continue
		}
		if len(current) > 0 {
			groups = append(groups, current)
		}
		current = []TeamMatch{m}
		prev = division
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

// GamesFor flattens the dated games name played in, newest first.
func GamesFor(matches []TeamMatch, name string) []Game {
	name = strings.TrimSpace(name)
	var games []Game
	for _, m := range matches {
		for _, g := range m.Games {
			if g.Date == nil || !g.Contains(name) {
				continue
			}
			games = append(games, g)
		}
	}
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].Date.After(*games[j].Date)
	})
	return games
}
