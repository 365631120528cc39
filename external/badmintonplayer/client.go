// Package badmintonplayer scrapes the Danish badminton federation site, which has no public API.
package badmintonplayer

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/badminton-stats/internal/platform/cache"
	"github.com/riskibarqy/badminton-stats/internal/platform/logging"
	"github.com/riskibarqy/badminton-stats/internal/platform/resilience"
	"github.com/riskibarqy/badminton-stats/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL        = "https://www.badmintonplayer.dk"
	defaultTimeout        = 20 * time.Second
	defaultContextKeyTTL  = 4 * time.Hour
	defaultPerformanceTTL = time.Hour
	defaultRetryBackoff   = time.Second
	maxResponseBytes      = 8 << 20

	webServicePath = "/SportsResults/Components/WebService1.asmx"
	profilePath    = webServicePath + "/GetPlayerProfile"
	searchPath     = webServicePath + "/SearchPlayer"
	matchPath      = "/DBF/HoldTurnering/UdskrivHoldkamp/"
	profileReferer = "/DBF/Spiller/VisSpiller/"

	contextKeyCacheKey = "callback-context"
	userAgent          = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// PageCache stores raw upstream pages between process restarts.
type PageCache interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, body []byte) error
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	ContextKeyTTL  time.Duration
	PerformanceTTL time.Duration
	// Location interprets the site's wall-clock dates. Defaults to Europe/Copenhagen.
	Location       *time.Location
	PageCache      PageCache
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	timeout        time.Duration
	maxRetries     int
	retryBackoff   time.Duration
	location       *time.Location
	pages          PageCache
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool

	contextKeys *cache.Store[string]
	profiles    *cache.Store[profilePayload]
}

var _ usecase.SourceGateway = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("badmintonplayer")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	retryBackoff := cfg.RetryBackoff
	if retryBackoff <= 0 {
		retryBackoff = defaultRetryBackoff
	}
	contextKeyTTL := cfg.ContextKeyTTL
	if contextKeyTTL <= 0 {
		contextKeyTTL = defaultContextKeyTTL
	}
	performanceTTL := cfg.PerformanceTTL
	if performanceTTL <= 0 {
		performanceTTL = defaultPerformanceTTL
	}
	location := cfg.Location
	if location == nil {
		location = copenhagen()
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	breaker := resilience.NewCircuitBreaker("badmintonplayer", breakerCfg).
		OnStateChange(func(name string, from, to resilience.CircuitState) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", string(from), "to", string(to))
		})

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		timeout:        timeout,
		maxRetries:     max(cfg.MaxRetries, 0),
		retryBackoff:   retryBackoff,
		location:       location,
		pages:          cfg.PageCache,
		logger:         logger,
		breaker:        breaker,
		circuitEnabled: breakerCfg.Enabled,
		contextKeys:    cache.NewStore[string](contextKeyTTL),
		profiles:       cache.NewStore[profilePayload](performanceTTL),
	}
}

func copenhagen() *time.Location {
	loc, err := time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		return time.UTC
	}
	return loc
}

// contextKey returns the SR_CallbackContext token every web service call must carry.
func (c *Client) contextKey(ctx context.Context) (string, error) {
	return c.contextKeys.GetOrLoad(ctx, contextKeyCacheKey, func(ctx context.Context) (string, error) {
		raw, err := c.do(ctx, http.MethodGet, "/", nil)
		if err != nil {
			return "", crerr.Wrap(err, "fetch callback context page")
		}
		key, err := extractContextKey(raw)
		if err != nil {
			return "", err
		}
		c.logger.DebugContext(ctx, "refreshed callback context key")
		return key, nil
	})
}

func extractContextKey(page []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", crerr.Wrap(err, "parse callback context page")
	}

	const marker = "SR_CallbackContext = "
	var key string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, "var SR_CallbackContext") {
			return true
		}
		_, after, found := strings.Cut(text, marker)
		if !found {
			return true
		}
		value, _, _ := strings.Cut(after, ";")
		key = strings.TrimSpace(strings.ReplaceAll(value, "'", ""))
		return key == ""
	})
	if key == "" {
		return "", crerr.New("callback context key not found")
	}
	return key, nil
}

// postJSON encodes body, posts it to a web service method and decodes the reply into target.
func (c *Client) postJSON(ctx context.Context, path string, body, target any) error {
	raw, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(err, "decode %s payload", path)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "badmintonplayer circuit breaker rejected request", "state", string(c.breaker.State()), "path", path)
			return nil, crerr.Wrapf(usecase.ErrDependencyUnavailable, "federation site is temporarily unavailable")
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.executeRequest(ctx, method, path, body)
	if c.circuitEnabled {
		if err != nil && isCircuitFailure(err) && ctx.Err() == nil {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	return raw, err
}

func (c *Client) executeRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	fullURL := buildURL(c.baseURL, path)

	var payload *bytebufferpool.ByteBuffer
	if body != nil {
		payload = bytebufferpool.Get()
		defer bytebufferpool.Put(payload)
		if err := sonic.ConfigDefault.NewEncoder(payload).Encode(body); err != nil {
			return nil, crerr.Wrapf(err, "encode %s request", path)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload.B)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
		if err != nil {
			return nil, crerr.Wrap(err, "build request")
		}
		c.setHeaders(req, payload != nil)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, crerr.Wrapf(ctx.Err(), "%s %s", method, path)
			}
			lastErr = crerr.Mark(crerr.Wrapf(err, "%s %s", method, path), errUpstreamTransient)
		} else {
			raw, readErr := readBody(resp)
			switch {
			case readErr != nil:
				lastErr = crerr.Mark(crerr.Wrap(readErr, "read response body"), errUpstreamTransient)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Mark(crerr.Newf("upstream status=%d path=%s body=%s", resp.StatusCode, path, abbreviateBody(raw)), errUpstreamTransient)
			default:
				return nil, &statusError{code: resp.StatusCode, path: path, body: abbreviateBody(raw)}
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, crerr.Wrapf(ctx.Err(), "%s %s", method, path)
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.Mark(crerr.Newf("upstream request failed path=%s", path), errUpstreamTransient)
	}
	c.logger.WarnContext(ctx, "badmintonplayer request failed", "path", path, "attempts", c.maxRetries+1, "error", lastErr)
	return nil, lastErr
}

func (c *Client) setHeaders(req *http.Request, hasBody bool) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "da-DK,da;q=0.9,en;q=0.8")
	if hasBody {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		req.Header.Set("Origin", c.baseURL)
		req.Header.Set("Referer", c.baseURL+profileReferer)
	}
}

func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxResponseBytes)); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.B...), nil
}

type statusError struct {
	code int
	path string
	body string
}

func (e *statusError) Error() string {
	return "upstream status=" + strconv.Itoa(e.code) + " path=" + e.path + " body=" + e.body
}

func isStatus(err error, code int) bool {
	var se *statusError
	return crerr.As(err, &se) && se.code == code
}
