package tournament

import (
	"fmt"
	"sort"
	"time"
)

// Tournament is an individual tournament a player has entered.
type Tournament struct {
	ID       int64
	PlayerID int64
	HostClub string
	Level    string
	Date     time.Time
}

func (t Tournament) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("tournament id must be positive")
	}
	if t.PlayerID <= 0 {
		return fmt.Errorf("tournament player id must be positive")
	}
	return nil
}

// SortByDateDesc orders tournaments newest first.
func SortByDateDesc(items []Tournament) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
}
