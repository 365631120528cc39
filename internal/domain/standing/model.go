package standing

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Unranked is the rank of a player who holds no placement in a ranking list.
const Unranked = -1

// Standing is a player's position in one ranking list category.
type Standing struct {
	PlayerID  int64
	Category  string
	Tier      string
	Points    *int
	Matches   *int
	Rank      int
	UpdatedAt time.Time
}

func (s Standing) Validate() error {
	if s.PlayerID <= 0 {
		return fmt.Errorf("standing player id must be positive")
	}
	if strings.TrimSpace(s.Category) == "" {
		return fmt.Errorf("standing category is required")
	}
	if s.Rank < Unranked {
		return fmt.Errorf("standing rank must be >= %d", Unranked)
	}
	return nil
}

func (s Standing) Ranked() bool {
	return s.Rank != Unranked
}

// SortByCategoryDesc orders standings by category name, descending.
func SortByCategoryDesc(items []Standing) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Category > items[j].Category
	})
}
