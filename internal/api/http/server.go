package httpapi

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weather-portal/internal/scheduler"
	"github.com/i474232898/weather-portal/internal/weather"
)

var validate = validator.New()

const defaultSignOutTimeout = 10 * time.Second

// WeatherAPI is the slice of the remote client the pages use.
type WeatherAPI interface {
	SignUp(ctx context.Context, email, password string) (string, error)
	SignIn(ctx context.Context, email, password string) (string, error)
	SignOut(ctx context.Context, token string) error
	CurrentWeather(ctx context.Context, token string, p weather.Point) (weather.Report, error)
	History(ctx context.Context, token string, q weather.HistoryQuery) ([]weather.HistoryEntry, error)
	HistoryCount(ctx context.Context, token string, q weather.HistoryQuery) (int, error)
}

// Server holds what the page handlers need.
type Server struct {
	api    WeatherAPI
	health *scheduler.Health

	defaultLat string
	defaultLon string

	signOutTimeout time.Duration
	background     sync.WaitGroup
}

// NewServer creates a Server. health may be nil when the probe is disabled.
func NewServer(api WeatherAPI, health *scheduler.Health, defaultLat, defaultLon string) *Server {
	return &Server{
		api:            api,
		health:         health,
		defaultLat:     defaultLat,
		defaultLon:     defaultLon,
		signOutTimeout: defaultSignOutTimeout,
	}
}

// Wait blocks until background sign-out calls have finished.
func (s *Server) Wait() {
	s.background.Wait()
}
