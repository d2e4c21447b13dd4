package sweep

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron"

	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
	"github.com/moodwatch/moodwatch-backend/internal/services"
)

type Config struct {
	Hour    int
	Minute  int
	Timeout time.Duration
}

// Spec renders the six-field cron expression (seconds first) for Hour:Minute.
func (c Config) Spec() string {
	return fmt.Sprintf("0 %d %d * * *", c.Minute, c.Hour)
}

func (c Config) Validate() error {
	if c.Hour < 0 || c.Hour > 23 {
		return fmt.Errorf("daily sweep hour %d out of range 0..23", c.Hour)
	}
	if c.Minute < 0 || c.Minute > 59 {
		return fmt.Errorf("daily sweep minute %d out of range 0..59", c.Minute)
	}
	return nil
}

// Scheduler fires the daily sweep on a UTC cron schedule. Overlapping runs
// are skipped.
type Scheduler struct {
	log   *logger.Logger
	sweep services.SweepService
	cfg   Config
	cron  *cron.Cron

	mu      sync.Mutex
	running bool
	base    context.Context
}

func NewScheduler(baseLog *logger.Logger, sweep services.SweepService, cfg Config) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Hour
	}
	s := &Scheduler{
		log:   baseLog.With("component", "DailySweep"),
		sweep: sweep,
		cfg:   cfg,
		cron:  cron.NewWithLocation(time.UTC),
		base:  context.Background(),
	}
	if err := s.cron.AddFunc(cfg.Spec(), s.fire); err != nil {
		return nil, fmt.Errorf("schedule daily sweep %q: %w", cfg.Spec(), err)
	}
	return s, nil
}

// Start begins firing; runs inherit ctx values and stop with it.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.base = ctx
	s.mu.Unlock()
	s.cron.Start()
	s.log.Info("Daily sweep scheduled", "spec", s.cfg.Spec(), "location", "UTC")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) fire() {
	if _, err := s.RunOnce(); err != nil {
		s.log.Error("Daily sweep failed", "error", err)
	}
}

// RunOnce performs one sweep now. A call while another run is in flight
// returns immediately with a zero report.
func (s *Scheduler) RunOnce() (services.SweepReport, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.Warn("Daily sweep still running, skipping this tick")
		return services.SweepReport{}, nil
	}
	s.running = true
	base := s.base
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(base, s.cfg.Timeout)
	defer cancel()
	return s.sweep.Run(ctx)
}
