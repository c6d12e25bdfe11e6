package betsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pitchside/match-center/internal/domain/match"
	"github.com/pitchside/match-center/internal/platform/logging"
	"github.com/pitchside/match-center/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{
		BaseURL: server.URL,
		Token:   "secret-token",
	})
}

const upcomingBody = `{
	"success": 1,
	"pager": {"page": 1, "per_page": 50, "total": 2},
	"results": [
		{
			"id": "10150692",
			"sport_id": "1",
			"time": "1788181200",
			"time_status": "1",
			"league": {"id": "94", "name": "Premier League", "cc": "gb"},
			"home": {"id": "3340", "name": "Arsenal", "image_id": "1042", "cc": "gb"},
			"away": {"id": "3342", "name": "Chelsea", "image_id": "1044", "cc": "gb"},
			"ss": "2-1",
			"scores": {"1": {"home": "1", "away": "1"}, "2": {"home": "2", "away": "1"}},
			"timer": {"tm": 78, "ts": 12, "tt": "1", "ta": 0, "md": 1},
			"stats": {
				"goals": ["2", "1"],
				"goalattempts": ["9", "3"],
				"on_target": ["6", "1"],
				"dangerous_attacks": ["63", "19"],
				"possession_rt": ["58", "42"]
			},
			"bet365_id": "174012345",
			"round": "3"
		},
		{
			"id": 10150693,
			"sport_id": 1,
			"time": 1788184800,
			"time_status": "0",
			"home": {"id": "3344", "name": "Everton"},
			"away": {"id": "3345", "name": "Fulham"},
			"timer": [],
			"stats": []
		}
	]
}`

func TestClient_FetchByState_MapsEventFields(t *testing.T) {
	t.Parallel()

	var gotURL atomic.Value
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL.Store(r.URL.String())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(upcomingBody))
	})

	page, err := client.FetchByState(context.Background(), usecase.MatchFeedUpcoming, 1, "20260831")
	if err != nil {
		t.Fatalf("FetchByState error: %v", err)
	}

	requested, _ := gotURL.Load().(string)
	if !strings.HasPrefix(requested, "/v3/events/upcoming?") {
		t.Fatalf("unexpected request path: %s", requested)
	}
	for _, param := range []string{"sport_id=1", "page=1", "day=20260831", "token=secret-token"} {
		if !strings.Contains(requested, param) {
			t.Fatalf("request missing %s: %s", param, requested)
		}
	}

	if page.Page != 1 || page.PerPage != 50 || page.Total != 2 {
		t.Fatalf("unexpected pager: %+v", page)
	}
	if len(page.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(page.Matches))
	}

	first := page.Matches[0]
	if first.ExternalID != "10150692" || first.SportID != 1 {
		t.Fatalf("unexpected identity fields: %+v", first)
	}
	if first.State != match.StateInPlay {
		t.Fatalf("time_status 1 should map to inplay, got %s", first.State)
	}
	if first.League.Name != "Premier League" || first.Home.Name != "Arsenal" || first.Away.ImageID != "1044" {
		t.Fatalf("unexpected side mapping: %+v", first)
	}
	if first.KickoffAt.Unix() != 1788181200 {
		t.Fatalf("unexpected kickoff: %v", first.KickoffAt)
	}
	if first.Score != "2-1" {
		t.Fatalf("unexpected score: %q", first.Score)
	}
	if first.ScoreBreakdown["1"].Home != "1" || first.ScoreBreakdown["2"].Away != "1" {
		t.Fatalf("unexpected score breakdown: %+v", first.ScoreBreakdown)
	}
	if first.Timer == nil || first.Timer.Minutes != 78 || first.Timer.TimerType != "1" {
		t.Fatalf("unexpected timer: %+v", first.Timer)
	}
	if first.Stats == nil || first.Stats.Goals.Home() != "2" || first.Stats.DangerousAttacks.Away() != "19" {
		t.Fatalf("unexpected stats: %+v", first.Stats)
	}
	if first.Bet365ID != "174012345" || first.Round != "3" {
		t.Fatalf("unexpected extras: %+v", first)
	}

	second := page.Matches[1]
	if second.ExternalID != "10150693" || second.State != match.StateScheduled {
		t.Fatalf("numeric wire forms not handled: %+v", second)
	}
	if second.Timer != nil || second.Stats != nil {
		t.Fatalf("empty-array timer/stats should map to nil: %+v", second)
	}
}

func TestClient_FetchByState_ProviderFailureEnvelope(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": 0, "results": []}`))
	})

	_, err := client.FetchByState(context.Background(), usecase.MatchFeedUpcoming, 1, "")
	if !errors.Is(err, usecase.ErrRemoteFetch) {
		t.Fatalf("expected remote fetch error, got %v", err)
	}
}

func TestClient_FetchDetail_MissingEvent(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": 1, "results": []}`))
	})

	_, found, err := client.FetchDetail(context.Background(), "10150999")
	if err != nil {
		t.Fatalf("FetchDetail error: %v", err)
	}
	if found {
		t.Fatal("empty results should report a miss, not an error")
	}
}

func TestClient_FetchDetail_ReturnsEvent(t *testing.T) {
	t.Parallel()

	var gotURL atomic.Value
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL.Store(r.URL.String())
		_, _ = w.Write([]byte(`{
			"success": 1,
			"results": [{
				"id": "10150692",
				"sport_id": "1",
				"time_status": "3",
				"ss": "2-1",
				"stats": {"goals": ["2", "1"]}
			}]
		}`))
	})

	remote, found, err := client.FetchDetail(context.Background(), "10150692")
	if err != nil {
		t.Fatalf("FetchDetail error: %v", err)
	}
	if !found {
		t.Fatal("expected event to be found")
	}

	requested, _ := gotURL.Load().(string)
	if !strings.HasPrefix(requested, "/v1/event/view?") || !strings.Contains(requested, "event_id=10150692") {
		t.Fatalf("unexpected request: %s", requested)
	}
	if remote.State != match.StateFinished || remote.Score != "2-1" {
		t.Fatalf("unexpected mapping: %+v", remote)
	}
}

func TestClient_ExecuteRequest_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"success": 1, "pager": {"page": 1, "per_page": 50, "total": 0}, "results": []}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		Token:      "secret-token",
		MaxRetries: 2,
		Logger:     logging.NewNop(),
	})

	page, err := client.FetchByState(context.Background(), usecase.MatchFeedEnded, 1, "")
	if err != nil {
		t.Fatalf("FetchByState error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected one retry, got %d calls", calls.Load())
	}
	if len(page.Matches) != 0 {
		t.Fatalf("unexpected matches: %+v", page.Matches)
	}
}

func TestClient_ExecuteRequest_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		Token:      "secret-token",
		MaxRetries: 3,
		Logger:     logging.NewNop(),
	})

	_, err := client.FetchByState(context.Background(), usecase.MatchFeedEnded, 1, "")
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	if calls.Load() != 1 {
		t.Fatalf("client errors must not be retried, got %d calls", calls.Load())
	}
}

func TestSanitizeSensitiveText_RedactsToken(t *testing.T) {
	t.Parallel()

	raw := `Get "https://api.example.com/v3/events/upcoming?sport_id=1&token=secret-token": dial tcp: timeout`
	cleaned := sanitizeSensitiveText(raw, "secret-token")
	if strings.Contains(cleaned, "secret-token") {
		t.Fatalf("token leaked: %s", cleaned)
	}
	if !strings.Contains(cleaned, "token=REDACTED") {
		t.Fatalf("redaction marker missing: %s", cleaned)
	}
}

func TestRedactAPIURL(t *testing.T) {
	t.Parallel()

	redacted := redactAPIURL("https://api.b365api.com/v1/event/view?event_id=1&token=secret-token")
	if strings.Contains(redacted, "secret-token") {
		t.Fatalf("token leaked: %s", redacted)
	}
	if !strings.Contains(redacted, "token=REDACTED") {
		t.Fatalf("redaction marker missing: %s", redacted)
	}
}
