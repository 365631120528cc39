package player

import (
	"fmt"
	"strings"
	"time"
)

// NoShowMarker is written in place of a player name when the player did not turn up.
const NoShowMarker = "Ikke fremmødt"

// Player is a federation-registered player. ID is the federation's own player ID.
type Player struct {
	ID        int64
	Name      string
	ClubID    int64
	ClubName  string
	BirthDate *time.Time
}

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id must be positive")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if p.ClubID < 0 {
		return fmt.Errorf("player club id must not be negative")
	}
	return nil
}

// Normalized returns a copy with surrounding whitespace removed from text fields.
func (p Player) Normalized() Player {
	p.Name = strings.TrimSpace(p.Name)
	p.ClubName = strings.TrimSpace(p.ClubName)
	return p
}

// Age returns the completed years at now; false when the birth date is unknown.
func (p Player) Age(now time.Time) (int, bool) {
	if p.BirthDate == nil {
		return 0, false
	}
	born := *p.BirthDate
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return age, true
}

// IsPresent reports whether a name slot in a game refers to a player who actually played.
func IsPresent(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && !strings.Contains(name, NoShowMarker)
}

// Lookup is a (name, club) pair to resolve to a player ID.
type Lookup struct {
	Name string
	Club string
}

type LookupResult struct {
	Name string
	Club string
	ID   int64
}
