package badmintonplayer

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/badminton-stats/internal/domain/match"
	"github.com/riskibarqy/badminton-stats/internal/usecase"
)

const (
	matchTimeLayout = "02-01-2006 15:04"
	maxSetColumns   = 3
)

func (c *Client) GetMatch(ctx context.Context, id int64) (match.TeamMatch, error) {
	page, err := c.matchPage(ctx, id)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return match.TeamMatch{}, crerr.Wrapf(usecase.ErrNotFound, "match=%d", id)
		}
		return match.TeamMatch{}, err
	}

	m, err := parseTeamMatch(page, id, c.location)
	if err != nil {
		return match.TeamMatch{}, crerr.Wrapf(err, "parse match=%d", id)
	}
	return m, nil
}

// matchPage serves the printable match report from the page cache when it can.
// Cache failures are logged and otherwise ignored.
func (c *Client) matchPage(ctx context.Context, id int64) ([]byte, error) {
	key := "match:" + strconv.FormatInt(id, 10)
	if c.pages != nil {
		page, ok, err := c.pages.Get(key)
		switch {
		case err != nil:
			c.logger.WarnContext(ctx, "page cache read failed", "key", key, "error", err)
		case ok:
			return page, nil
		}
	}

	page, err := c.do(ctx, http.MethodGet, matchPath+"?match="+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return nil, crerr.Wrapf(err, "get match page id=%d", id)
	}
	if c.pages != nil {
		if err := c.pages.Put(key, page); err != nil {
			c.logger.WarnContext(ctx, "page cache write failed", "key", key, "error", err)
		}
	}
	return page, nil
}

// parseTeamMatch reads the printable report: a details table, a result table with the two
// team names and a games table with one row per discipline.
func parseTeamMatch(page []byte, id int64, loc *time.Location) (match.TeamMatch, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return match.TeamMatch{}, err
	}
	tables := doc.Find("table")
	if tables.Length() < 3 {
		return match.TeamMatch{}, crerr.Wrapf(usecase.ErrNotFound, "match report has %d tables", tables.Length())
	}

	details := parseMatchDetails(tables.Eq(0))
	m := match.TeamMatch{
		ID:       id,
		Date:     parseMatchTime(details["Tid"], loc),
		Division: details["Række"],
		Location: details["Spillested"],
	}
	if v, err := strconv.ParseInt(strings.TrimSpace(details["Kampnr"]), 10, 64); err == nil && v > 0 {
		m.ID = v
	}

	result := tables.Eq(1).Find("td")
	if result.Length() > 4 {
		m.HomeTeam = cellText(result.Eq(0))
		m.AwayTeam = cellText(result.Eq(4))
	}
	m.Games = parseGames(tables.Eq(2), m.Date)
	return m, nil
}

// parseMatchDetails maps each cell's leading span label to the text that follows it.
func parseMatchDetails(table *goquery.Selection) map[string]string {
	details := make(map[string]string)
	table.Find("td").Each(func(_ int, td *goquery.Selection) {
		spans := td.Find("span")
		if spans.Length() == 0 {
			return
		}
		label := cellText(spans.First())
		value := td.Clone()
		value.Find("span").Remove()
		details[label] = cellText(value)
	})
	return details
}

// parseMatchTime reads values like "lø 12-10-2024 10:00". The leading weekday is dropped.
func parseMatchTime(raw string, loc *time.Location) *time.Time {
	fields := strings.Fields(raw)
	for len(fields) > 0 && !startsWithDigit(fields[0]) {
		fields = fields[1:]
	}
	if len(fields) < 2 {
		return nil
	}
	at, err := time.ParseInLocation(matchTimeLayout, fields[0]+" "+fields[1], loc)
	if err != nil {
		return nil
	}
	return &at
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func parseGames(table *goquery.Selection, date *time.Time) []match.Game {
	rows := table.Find("tr")
	games := make([]match.Game, 0, rows.Length())
	rows.Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}

		game := match.Game{
			Date:     date,
			Category: cellText(cells.Eq(0)),
		}
		game.HomePlayer1, game.HomePlayer2 = gamePlayers(cells.Eq(1))
		game.AwayPlayer1, game.AwayPlayer2 = gamePlayers(cells.Eq(2))

		for col := 3; col < 3+maxSetColumns && col < cells.Length(); col++ {
			home, away, ok := parseSetScore(cellText(cells.Eq(col)))
			if !ok {
				continue
			}
			game.Sets = append(game.Sets, match.Set{
				Number:     len(game.Sets) + 1,
				HomePoints: home,
				AwayPoints: away,
			})
		}
		games = append(games, game)
	})
	return games
}

// gamePlayers skips the first div of a player cell, which holds the team label.
func gamePlayers(cell *goquery.Selection) (string, string) {
	cell = cell.Clone()
	cell.Find("div").First().Remove()
	divs := cell.Find("div")
	var first, second string
	if divs.Length() > 0 {
		first = cellText(divs.Eq(0))
	}
	if divs.Length() > 1 {
		second = cellText(divs.Eq(1))
	}
	return first, second
}

func parseSetScore(raw string) (int, int, bool) {
	home, away, found := strings.Cut(raw, "-")
	if !found {
		return 0, 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(home))
	if err != nil {
		return 0, 0, false
	}
	a, err := strconv.Atoi(strings.TrimSpace(away))
	if err != nil {
		return 0, 0, false
	}
	return h, a, true
}
