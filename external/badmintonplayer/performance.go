package badmintonplayer

import (
	"context"
	"html"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/badminton-stats/internal/domain/match"
	"github.com/riskibarqy/badminton-stats/internal/domain/standing"
	"github.com/riskibarqy/badminton-stats/internal/domain/tournament"
	"github.com/riskibarqy/badminton-stats/internal/usecase"
)

const (
	seasonStartMarker = "Tilmeldingsniveau ved sæsonstart:"
	entryLevelRanking = "Tilmeldingsniveau"

	matchDateLayout      = "02-01-2006 15:04:05"
	tournamentDateLayout = "02-01-2006"
)

type tableKind int

const (
	tableSeasonStart tableKind = iota
	tableStandings
	tableMatches
	tableTournaments
)

// profileTable is one HTML table from the profile page. Rows only hold records whose
// cell count matches the header; cells keeps every row that has td cells.
type profileTable struct {
	columns []string
	rows    []map[string]*goquery.Selection
	cells   [][]*goquery.Selection
}

func (t profileTable) has(columns ...string) bool {
	for _, want := range columns {
		found := false
		for _, col := range t.columns {
			if col == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (t profileTable) empty() bool {
	return len(t.cells) == 0
}

func (t profileTable) containsText(needle string) bool {
	for _, row := range t.cells {
		for _, cell := range row {
			if strings.Contains(cellText(cell), needle) {
				return true
			}
		}
	}
	return false
}

func (c *Client) GetPerformance(ctx context.Context, id int64) (usecase.Performance, error) {
	payload, err := c.profile(ctx, id)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return usecase.Performance{}, crerr.Wrapf(usecase.ErrNotFound, "performance player=%d", id)
		}
		return usecase.Performance{}, err
	}

	perf, err := parsePerformance(payload.HTML, c.location)
	if err != nil {
		return usecase.Performance{}, crerr.Wrapf(err, "parse performance player=%d", id)
	}
	c.logger.DebugContext(ctx, "parsed performance",
		"player_id", id,
		"standings", len(perf.Standings),
		"matches", len(perf.Matches),
		"tournaments", len(perf.Tournaments),
	)
	return perf, nil
}

func parsePerformance(page string, loc *time.Location) (usecase.Performance, error) {
	perf := usecase.Performance{SeasonStartPoints: usecase.NoSeasonStartPoints}
	if strings.TrimSpace(page) == "" {
		return perf, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return perf, err
	}

	tables := identifyTables(doc)
	if t, ok := tables[tableSeasonStart]; ok {
		perf.SeasonStartPoints = parseSeasonStart(t)
	}
	if t, ok := tables[tableStandings]; ok {
		perf.Standings = parseStandings(t)
	}
	if t, ok := tables[tableMatches]; ok {
		perf.Matches = parseMatchMetas(t, loc)
	}
	if t, ok := tables[tableTournaments]; ok {
		perf.Tournaments = parseTournaments(t, loc)
	}
	return perf, nil
}

// identifyTables classifies tables by their headers. When two tables qualify, the later wins.
func identifyTables(doc *goquery.Document) map[tableKind]profileTable {
	out := make(map[tableKind]profileTable, 4)
	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		if sel.HasClass("playerprofileuserlist") || sel.Children().Length() == 0 {
			return
		}
		t := readTable(sel)
		if t.empty() {
			return
		}
		switch {
		case t.has("Rangliste", "Række", "Point"):
			out[tableStandings] = t
		case t.has("Kampdato", "Hold", "Modstander"):
			out[tableMatches] = t
		case t.has("Række", "Dato", "Klub"):
			out[tableTournaments] = t
		case t.containsText(seasonStartMarker):
			out[tableSeasonStart] = t
		}
	})
	return out
}

// readTable ignores rows and headers that belong to tables nested inside sel.
func readTable(sel *goquery.Selection) profileTable {
	var t profileTable
	own := func(s *goquery.Selection) bool {
		return s.Closest("table").IsSelection(sel)
	}

	sel.Find("th").Each(func(_ int, th *goquery.Selection) {
		if own(th) {
			t.columns = append(t.columns, cellText(th))
		}
	})
	sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if !own(tr) {
			return
		}
		var cells []*goquery.Selection
		tr.ChildrenFiltered("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, td)
		})
		if len(cells) == 0 {
			return
		}
		t.cells = append(t.cells, cells)
		if len(cells) != len(t.columns) {
			return
		}
		row := make(map[string]*goquery.Selection, len(cells))
		for i, td := range cells {
			row[t.columns[i]] = td
		}
		t.rows = append(t.rows, row)
	})
	return t
}

func columnText(row map[string]*goquery.Selection, col string) (string, bool) {
	cell, ok := row[col]
	if !ok {
		return "", false
	}
	return cellText(cell), true
}

func outerHTML(row map[string]*goquery.Selection, col string) string {
	cell, ok := row[col]
	if !ok {
		return ""
	}
	raw, err := goquery.OuterHtml(cell)
	if err != nil {
		return ""
	}
	return raw
}

func parseSeasonStart(t profileTable) int {
	for _, row := range t.cells {
		if len(row) < 2 {
			continue
		}
		if v, err := strconv.Atoi(strings.TrimSpace(cellText(row[1]))); err == nil {
			return v
		}
		return usecase.NoSeasonStartPoints
	}
	return usecase.NoSeasonStartPoints
}

func parseStandings(t profileTable) []standing.Standing {
	out := make([]standing.Standing, 0, len(t.rows))
	for _, row := range t.rows {
		category, _ := columnText(row, "Rangliste")
		if category == "" || category == entryLevelRanking {
			continue
		}
		tier, _ := columnText(row, "Række")
		points, _ := columnText(row, "Point")
		matches, _ := columnText(row, "Kampe")

		rank := standing.Unranked
		if raw, ok := columnText(row, "Placering"); ok {
			if v := parseOptionalInt(raw); v != nil {
				rank = *v
			}
		}

		out = append(out, standing.Standing{
			Category: category,
			Tier:     tier,
			Points:   parseOptionalInt(points),
			Matches:  parseOptionalInt(matches),
			Rank:     rank,
		})
	}
	return out
}

// parseMatchMetas reads the team match list. The match ID is the second to last
// argument of the javascript call wrapped around the date cell.
func parseMatchMetas(t profileTable, loc *time.Location) []match.MatchMeta {
	out := make([]match.MatchMeta, 0, len(t.rows))
	ordinal := 0
	for _, row := range t.rows {
		id, ok := matchIDFromCell(outerHTML(row, "Kampdato"))
		if !ok {
			continue
		}
		ordinal++

		meta := match.MatchMeta{ID: id, Ordinal: ordinal}
		if raw, _ := columnText(row, "Kampdato"); raw != "" {
			if date, err := time.ParseInLocation(matchDateLayout, raw, loc); err == nil {
				meta.Date = &date
			}
		}
		meta.Division, _ = columnText(row, "Række")
		meta.Team1, _ = columnText(row, "Hold")
		meta.Team2, _ = columnText(row, "Modstander")
		out = append(out, meta)
	}
	return out
}

func matchIDFromCell(cellHTML string) (int64, bool) {
	parts := strings.Split(html.UnescapeString(cellHTML), ",")
	if len(parts) < 2 {
		return 0, false
	}
	raw := strings.Trim(strings.TrimSpace(parts[len(parts)-2]), `'" `)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func parseTournaments(t profileTable, loc *time.Location) []tournament.Tournament {
	out := make([]tournament.Tournament, 0, len(t.rows))
	for _, row := range t.rows {
		digits := digitsRegex.FindString(outerHTML(row, "Række"))
		id, err := strconv.ParseInt(digits, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		rawDate, _ := columnText(row, "Dato")
		date, err := time.ParseInLocation(tournamentDateLayout, rawDate, loc)
		if err != nil {
			continue
		}
		level, _ := columnText(row, "Række")
		host, _ := columnText(row, "Klub")
		out = append(out, tournament.Tournament{
			ID:       id,
			HostClub: host,
			Level:    level,
			Date:     date,
		})
	}
	return out
}
