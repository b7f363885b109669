package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-portal/internal/weather"
)

// Client talks to the weather service's auth, weather and history endpoints.
// Calls are never retried.
type Client struct {
	baseURL    string
	healthPath string
	http       *http.Client
	circuit    *gobreaker.CircuitBreaker
}

// NewClient creates a Client for the service at baseURL.
func NewClient(httpClient *http.Client, baseURL, healthPath string) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weather-api",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
	})

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		healthPath: healthPath,
		http:       httpClient,
		circuit:    cb,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// SignUp registers a new account and returns its token.
func (c *Client) SignUp(ctx context.Context, email, password string) (string, error) {
	return c.authenticate(ctx, "/auth/signup", email, password)
}

// SignIn exchanges credentials for a token.
func (c *Client) SignIn(ctx context.Context, email, password string) (string, error) {
	return c.authenticate(ctx, "/auth/signin", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (string, error) {
	var out tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   path,
		body:   credentials{Email: email, Password: password},
	}, &out)
	if err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", ErrNoToken
	}
	return out.Token, nil
}

// SignOut tells the service the token is no longer in use.
func (c *Client) SignOut(ctx context.Context, token string) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/auth/signout", token: token}, nil)
}

// CurrentWeather fetches the current weather at p.
func (c *Client) CurrentWeather(ctx context.Context, token string, p weather.Point) (weather.Report, error) {
	q := url.Values{}
	q.Set("lat", weather.FormatCoordinate(p.Lat))
	q.Set("lon", weather.FormatCoordinate(p.Lon))

	var out weather.Report
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/weather",
		query:  q.Encode(),
		token:  token,
	}, &out)
	return out, err
}

// History fetches one page of past lookups.
func (c *Client) History(ctx context.Context, token string, q weather.HistoryQuery) ([]weather.HistoryEntry, error) {
	var out []weather.HistoryEntry
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/history",
		query:  q.Values().Encode(),
		token:  token,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// HistoryCount returns how many lookups match q's filters.
func (c *Client) HistoryCount(ctx context.Context, token string, q weather.HistoryQuery) (int, error) {
	var out weather.HistoryCount
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/history",
		query:  q.CountValues().Encode(),
		token:  token,
	}, &out)
	return out.Total, err
}

// Ping checks that the service answers on its health path. Any answer below
// 500 counts as up.
func (c *Client) Ping(ctx context.Context) error {
	err := c.do(ctx, request{method: http.MethodGet, path: c.healthPath}, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
		return nil
	}
	if err != nil {
		return fmt.Errorf("ping %s: %w", c.baseURL, err)
	}
	return nil
}
