package badmintonplayer

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"
)

var (
	digitsRegex      = regexp.MustCompile(`\d+`)
	quotedValueRegex = regexp.MustCompile(`'(.*?)'`)
)

var errUpstreamTransient = crerr.New("badmintonplayer transient failure")

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errUpstreamTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return baseURL + path
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

// cellText collapses non-breaking spaces and trims.
func cellText(s *goquery.Selection) string {
	return strings.TrimSpace(strings.ReplaceAll(s.Text(), "\u00a0", " "))
}

func parseOptionalInt(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// parseBirthDate reads the yymmdd prefix of a federation player number. "000000" means unknown.
func parseBirthDate(playerNumber string) *time.Time {
	playerNumber = strings.TrimSpace(playerNumber)
	if len(playerNumber) < 6 || playerNumber[:6] == "000000" {
		return nil
	}
	born, err := time.Parse("060102", playerNumber[:6])
	if err != nil {
		return nil
	}
	return &born
}
