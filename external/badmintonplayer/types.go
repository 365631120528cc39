package badmintonplayer

import (
	"strconv"
	"strings"
)

// The web service wraps every answer in {"d": ...} (ASP.NET ScriptService convention).

type profileEnvelope struct {
	D profilePayload `json:"d"`
}

type profilePayload struct {
	PlayerName   string  `json:"playername"`
	ClubID       flexInt `json:"clubid"`
	ClubName     string  `json:"clubname"`
	PlayerNumber string  `json:"playernumber"`
	HTML         string  `json:"Html"`
}

type searchEnvelope struct {
	D searchPayload `json:"d"`
}

type searchPayload struct {
	HTML string `json:"Html"`
}

type profileRequest struct {
	CallbackContextKey string `json:"callbackcontextkey"`
	SeasonID           string `json:"seasonid"`
	PlayerID           string `json:"playerid"`
	GetPlayerData      bool   `json:"getplayerdata"`
	ShowUserProfile    bool   `json:"showUserProfile"`
	ShowHeader         bool   `json:"showheader"`
}

type searchRequest struct {
	CallbackContextKey string `json:"callbackcontextkey"`
	SelectFunction     string `json:"selectfunction"`
	Name               string `json:"name"`
	ClubID             string `json:"clubid"`
	PlayerNumber       string `json:"playernumber"`
	Gender             string `json:"gender"`
	AgeGroupID         string `json:"agegroupid"`
	SearchTeam         bool   `json:"searchteam"`
	LicenseOnly        bool   `json:"licenseonly"`
	AgeGroupContext    int    `json:"agegroupcontext"`
	TournamentDate     string `json:"tournamentdate"`
}

// flexInt accepts 1666, "1666", "" and null.
type flexInt int64

func (f *flexInt) UnmarshalJSON(raw []byte) error {
	text := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	text = strings.TrimSpace(text)
	if text == "" || text == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return err
	}
	*f = flexInt(v)
	return nil
}
