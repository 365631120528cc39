package club

import (
	"fmt"
	"regexp"
	"strings"
)

// Club is a federation member club.
type Club struct {
	ID   int64
	Name string
}

func (c Club) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("club id must be positive")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("club name is required")
	}
	return nil
}

var teamNumberSuffix = regexp.MustCompile(`^(.*?)(?:\s\d+)?$`)

// NameFromTeam strips a trailing team number: "Vejlby IK 2" becomes "Vejlby IK".
func NameFromTeam(team string) string {
	team = strings.TrimSpace(team)
	if m := teamNumberSuffix.FindStringSubmatch(team); m != nil {
		return strings.TrimSpace(m[1])
	}
	return team
}
