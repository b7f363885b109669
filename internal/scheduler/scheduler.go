package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

const probeTimeout = 10 * time.Second

// Pinger reports whether the weather service answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status is the last observed upstream state.
type Status struct {
	Known     bool
	Up        bool
	CheckedAt time.Time
	Error     string
}

// Health holds the latest probe result for the landing page.
type Health struct {
	mu     sync.RWMutex
	status Status
}

// Record stores the outcome of one probe.
func (h *Health) Record(err error, at time.Time) {
	s := Status{Known: true, Up: err == nil, CheckedAt: at}
	if err != nil {
		s.Error = err.Error()
	}

	h.mu.Lock()
	h.status = s
	h.mu.Unlock()
}

// Status returns the last recorded result.
func (h *Health) Status() Status {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status
}

// Scheduler periodically probes the weather service.
type Scheduler struct {
	scheduler *gocron.Scheduler
	pinger    Pinger
	health    *Health
	interval  time.Duration
}

// New creates a new Scheduler.
func New(pinger Pinger, interval time.Duration, health *Health) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		pinger:    pinger,
		health:    health,
		interval:  interval,
	}
}

// Start schedules the probe and starts the underlying scheduler. The first
// probe runs immediately.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: probe interval is zero; upstream probe disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(s.Probe)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Probe pings the service once and records the result.
func (s *Scheduler) Probe() {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	wasUp := s.health.Status().Up
	err := s.pinger.Ping(ctx)
	s.health.Record(err, time.Now().UTC())

	switch {
	case err != nil:
		log.Printf("ERROR: scheduler: upstream probe failed: %v", err)
	case !wasUp:
		log.Println("INFO: scheduler: upstream is reachable")
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
