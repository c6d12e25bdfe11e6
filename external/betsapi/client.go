package betsapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/pitchside/match-center/internal/domain/match"
	"github.com/pitchside/match-center/internal/platform/logging"
	"github.com/pitchside/match-center/internal/platform/resilience"
	"github.com/pitchside/match-center/internal/usecase"
)

const (
	defaultBaseURL = "https://api.b365api.com"
	soccerSportID  = "1"
)

var tokenParamRegex = regexp.MustCompile(`(^|[?&])token=[^&\s"']+`)
var errBetsAPITransient = crerr.New("betsapi transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client speaks the b365api.com event feed and maps its payloads into
// provider-neutral remote match values.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func feedPath(kind usecase.MatchFeedKind) (string, error) {
	switch kind {
	case usecase.MatchFeedUpcoming:
		return "/v3/events/upcoming", nil
	case usecase.MatchFeedInPlay:
		return "/v3/events/inplay", nil
	case usecase.MatchFeedEnded:
		return "/v3/events/ended", nil
	default:
		return "", fmt.Errorf("unknown match feed kind %q", kind)
	}
}

func (c *Client) FetchByState(ctx context.Context, kind usecase.MatchFeedKind, page int, day string) (usecase.RemotePage, error) {
	path, err := feedPath(kind)
	if err != nil {
		return usecase.RemotePage{}, fmt.Errorf("%w: %s", usecase.ErrInvalidInput, err)
	}

	query := map[string]string{
		"sport_id": soccerSportID,
	}
	if page > 0 {
		query["page"] = strconv.Itoa(page)
	}
	if day = strings.TrimSpace(day); day != "" {
		query["day"] = day
	}

	var envelope eventsEnvelope
	if err := c.doJSON(ctx, path, query, &envelope); err != nil {
		return usecase.RemotePage{}, fmt.Errorf("fetch events kind=%s page=%d: %w", kind, page, err)
	}
	if envelope.Success != 1 {
		return usecase.RemotePage{}, fmt.Errorf("fetch events kind=%s page=%d: %w: provider reported failure", kind, page, usecase.ErrRemoteFetch)
	}

	out := usecase.RemotePage{
		Matches: make([]usecase.RemoteMatch, 0, len(envelope.Results)),
	}
	if envelope.Pager != nil {
		out.Page = int(envelope.Pager.Page)
		out.PerPage = int(envelope.Pager.PerPage)
		out.Total = int(envelope.Pager.Total)
	}
	for _, event := range envelope.Results {
		out.Matches = append(out.Matches, mapEventToRemoteMatch(event))
	}
	return out, nil
}

func (c *Client) FetchDetail(ctx context.Context, externalID string) (usecase.RemoteMatch, bool, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return usecase.RemoteMatch{}, false, fmt.Errorf("%w: event id is required", usecase.ErrInvalidInput)
	}

	query := map[string]string{
		"event_id": externalID,
	}

	var envelope eventsEnvelope
	if err := c.doJSON(ctx, "/v1/event/view", query, &envelope); err != nil {
		return usecase.RemoteMatch{}, false, fmt.Errorf("fetch event detail event_id=%s: %w", externalID, err)
	}
	if envelope.Success != 1 || len(envelope.Results) == 0 {
		return usecase.RemoteMatch{}, false, nil
	}
	return mapEventToRemoteMatch(envelope.Results[0]), true, nil
}

func mapEventToRemoteMatch(event eventPayload) usecase.RemoteMatch {
	out := usecase.RemoteMatch{
		ExternalID: string(event.ID),
		SportID:    int64(event.SportID),
		League:     mapLeague(event.League),
		Home:       mapTeam(event.Home),
		Away:       mapTeam(event.Away),
		Score:      string(event.SS),
		Timer:      event.Timer.value,
		Stats:      event.Stats.value,
		Bet365ID:   string(event.Bet365ID),
		Round:      string(event.Round),
	}
	if state, ok := match.StateFromWireCode(string(event.TimeStatus)); ok {
		out.State = state
	}
	if event.Time > 0 {
		out.KickoffAt = time.Unix(int64(event.Time), 0).UTC()
	}
	if event.OHome != nil {
		team := mapTeam(event.OHome)
		out.AltHome = &team
	}
	if event.OAway != nil {
		team := mapTeam(event.OAway)
		out.AltAway = &team
	}
	if len(event.Scores) > 0 {
		out.ScoreBreakdown = make(map[string]match.PeriodScore, len(event.Scores))
		for period, score := range event.Scores {
			out.ScoreBreakdown[period] = match.PeriodScore{
				Home: string(score.Home),
				Away: string(score.Away),
			}
		}
	}
	return out
}

func mapLeague(side *sidePayload) match.League {
	if side == nil {
		return match.League{}
	}
	return match.League{
		ExternalID:  string(side.ID),
		Name:        side.Name,
		CountryCode: string(side.CC),
	}
}

func mapTeam(side *sidePayload) match.Team {
	if side == nil {
		return match.Team{}
	}
	return match.Team{
		ExternalID:  string(side.ID),
		Name:        side.Name,
		ImageID:     string(side.ImageID),
		CountryCode: string(side.CC),
	}
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "betsapi circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: match data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("token", c.token)

	fullURL := c.baseURL + path + "?" + values.Encode()

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errBetsAPITransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return fmt.Errorf("%w: %s", usecase.ErrRemoteFetch, sanitizeSensitiveText(err.Error(), c.token))
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("%w: unexpected response payload type %T", usecase.ErrRemoteFetch, out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode provider payload: %s", usecase.ErrRemoteFetch, err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errBetsAPITransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errBetsAPITransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errBetsAPITransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "betsapi request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return tokenParamRegex.ReplaceAllString(value, "${1}token=REDACTED")
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("token") {
		query.Set("token", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
