package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/weather-portal/internal/weather"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.Client(), srv.URL+"/", "/health")
}

func TestSignInReturnsToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/signin" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body credentials
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Email != "a@b.com" || body.Password != "secret" {
			t.Errorf("unexpected credentials: %+v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "abc123"})
	})

	token, err := c.SignIn(context.Background(), "a@b.com", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "abc123" {
		t.Fatalf("expected abc123, got %q", token)
	}
}

func TestSignUpWithoutToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/signup" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	_, err := c.SignUp(context.Background(), "a@b.com", "secret")
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
	if msg := UserMessage(err, "Sign Up failed."); msg != noTokenMessage {
		t.Fatalf("unexpected user message %q", msg)
	}
}

func TestAPIErrorMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Email already registered"})
	})

	_, err := c.SignUp(context.Background(), "a@b.com", "secret")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict {
		t.Fatalf("expected APIError 409, got %v", err)
	}
	if msg := UserMessage(err, "Sign Up failed."); msg != "Email already registered" {
		t.Fatalf("expected server message, got %q", msg)
	}
}

func TestUserMessageFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := c.CurrentWeather(context.Background(), "abc123", weather.Point{Lat: 1, Lon: 2})
	if err == nil {
		t.Fatalf("expected error")
	}
	if msg := UserMessage(err, "Failed to fetch weather"); msg != "Failed to fetch weather" {
		t.Fatalf("expected fallback, got %q", msg)
	}
}

func TestCurrentWeather(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/weather" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer abc123" {
			t.Errorf("unexpected authorization %q", got)
		}
		if r.URL.Query().Get("lat") != "24.71" || r.URL.Query().Get("lon") != "46.68" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{
			"source": "openweather",
			"coordinates": {"lat": 24.71, "lon": 46.68},
			"tempC": 31.5,
			"humidity": 12,
			"description": "clear sky",
			"fetchedAt": "2024-05-01T12:00:00Z"
		}`))
	})

	rep, err := c.CurrentWeather(context.Background(), "abc123", weather.Point{Lat: 24.71, Lon: 46.68})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Source != "openweather" || rep.TempC != 31.5 || rep.Coordinates.Lat != 24.71 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if !rep.FetchedAt.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected fetchedAt: %v", rep.FetchedAt)
	}
}

func TestHistoryAndCount(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("count") == "true" {
			if len(q) != 1 {
				t.Errorf("count request carried extra params: %s", r.URL.RawQuery)
			}
			_, _ = w.Write([]byte(`{"total": 42}`))
			return
		}
		if len(q) != 3 || q.Get("skip") != "10" || q.Get("limit") != "10" || q.Get("sort") != "-requestedAt" {
			t.Errorf("unexpected list query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[
			{"lat": 24.71, "lon": 46.68, "requestedAt": "2024-05-01T12:00:00Z",
			 "weather": {"source": "openweather", "tempC": 30, "description": "clear", "fetchedAt": "2024-05-01T12:00:00Z"}},
			{"lat": 1, "lon": 2, "requestedAt": "2024-04-30T08:00:00Z"}
		]`))
	})

	q := weather.HistoryQuery{Skip: 10, Limit: 10, Sort: "-requestedAt"}
	entries, err := c.History(context.Background(), "abc123", q)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(entries) != 2 || entries[0].Weather == nil || entries[1].Weather != nil {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	total, err := c.HistoryCount(context.Background(), "abc123", q)
	if err != nil {
		t.Fatalf("HistoryCount: %v", err)
	}
	if total != 42 {
		t.Fatalf("expected 42, got %d", total)
	}
}

func TestSignOutSendsToken(t *testing.T) {
	var seen atomic.Bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/signout" && r.Header.Get("Authorization") == "Bearer abc123" {
			seen.Store(true)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.SignOut(context.Background(), "abc123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !seen.Load() {
		t.Fatalf("signout request not observed")
	}
}

func TestNoRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := c.HistoryCount(context.Background(), "t", weather.DefaultHistoryQuery()); err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func TestPing(t *testing.T) {
	up := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	if err := up.Ping(context.Background()); err != nil {
		t.Fatalf("a 404 still means the service answers: %v", err)
	}

	down := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	if err := down.Ping(context.Background()); err == nil {
		t.Fatalf("expected 503 to count as down")
	}
}
