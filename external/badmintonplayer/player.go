package badmintonplayer

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/badminton-stats/internal/domain/player"
)

const searchSelectFunction = "SPSel1"

func (c *Client) GetPlayer(ctx context.Context, id int64) (player.Player, bool, error) {
	payload, err := c.profile(ctx, id)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, err
	}
	if strings.TrimSpace(payload.PlayerName) == "" {
		return player.Player{}, false, nil
	}

	return player.Player{
		ID:        id,
		Name:      strings.TrimSpace(payload.PlayerName),
		ClubID:    int64(payload.ClubID),
		ClubName:  strings.TrimSpace(payload.ClubName),
		BirthDate: parseBirthDate(payload.PlayerNumber),
	}.Normalized(), true, nil
}

// profile fetches the GetPlayerProfile payload. It backs both GetPlayer and GetPerformance,
// so one upstream call serves both within the performance TTL.
func (c *Client) profile(ctx context.Context, id int64) (profilePayload, error) {
	key := strconv.FormatInt(id, 10)
	return c.profiles.GetOrLoad(ctx, key, func(ctx context.Context) (profilePayload, error) {
		contextKey, err := c.contextKey(ctx)
		if err != nil {
			return profilePayload{}, err
		}

		var envelope profileEnvelope
		err = c.postJSON(ctx, profilePath, profileRequest{
			CallbackContextKey: contextKey,
			SeasonID:           "",
			PlayerID:           key,
			GetPlayerData:      true,
			ShowUserProfile:    true,
			ShowHeader:         false,
		}, &envelope)
		if err != nil {
			return profilePayload{}, crerr.Wrapf(err, "get player profile id=%d", id)
		}
		return envelope.D, nil
	})
}

func (c *Client) SearchPlayer(ctx context.Context, name, club string) ([]player.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	contextKey, err := c.contextKey(ctx)
	if err != nil {
		return nil, err
	}

	var envelope searchEnvelope
	err = c.postJSON(ctx, searchPath, searchRequest{
		CallbackContextKey: contextKey,
		SelectFunction:     searchSelectFunction,
		Name:               name,
	}, &envelope)
	if err != nil {
		return nil, crerr.Wrapf(err, "search player name=%q", name)
	}

	players, err := parseSearchResults(envelope.D.HTML, club)
	if err != nil {
		return nil, err
	}
	c.logger.DebugContext(ctx, "player search finished", "name", name, "club", club, "hits", len(players))
	return players, nil
}

// parseSearchResults reads the result table. Each row's onclick handler carries
// 'id','birth','name','clubid' in that order.
func parseSearchResults(html, club string) ([]player.Player, error) {
	if strings.TrimSpace(html) == "" {
		return nil, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, crerr.Wrap(err, "parse search results")
	}

	club = strings.TrimSpace(club)
	out := make([]player.Player, 0)
	doc.Find("table").First().Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}
		clubName := cellText(cells.Eq(3))
		if club != "" && !strings.EqualFold(clubName, club) {
			return
		}

		onclick, _ := row.Attr("onclick")
		if onclick == "" {
			onclick, _ = row.Find("[onclick]").First().Attr("onclick")
		}
		values := quotedValueRegex.FindAllStringSubmatch(onclick, -1)
		if len(values) < 4 {
			return
		}
		id, err := strconv.ParseInt(strings.TrimSpace(values[0][1]), 10, 64)
		if err != nil || id <= 0 {
			return
		}
		clubID, err := strconv.ParseInt(strings.TrimSpace(values[3][1]), 10, 64)
		if err != nil || clubID <= 0 {
			return
		}

		out = append(out, player.Player{
			ID:        id,
			Name:      strings.TrimSpace(values[2][1]),
			ClubID:    clubID,
			ClubName:  clubName,
			BirthDate: parseBirthDate(values[1][1]),
		}.Normalized())
	})
	return out, nil
}
