package match

// Winner decides the game. In order:
//  1. a side that fielded nobody loses;
//  2. a side with one player against a full pair loses;
//  3. otherwise the side that won more sets wins, with ties going to away.
//
// Names carrying the no-show marker count as absent.
func (g Game) Winner() Side {
	home := len(g.HomePlayers())
	away := len(g.AwayPlayers())

	switch {
	case home == 0:
		return SideAway
	case away == 0:
		return SideHome
	case home == 2 && away == 1:
		return SideHome
	case away == 2 && home == 1:
		return SideAway
	}

	var homeSets, awaySets int
	for _, s := range g.Sets {
		switch {
		case s.HomePoints > s.AwayPoints:
			homeSets++
		case s.AwayPoints > s.HomePoints:
			awaySets++
		}
	}
	if homeSets > awaySets {
		return SideHome
	}
	return SideAway
}
