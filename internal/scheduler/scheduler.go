package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/i474232898/city-infos/internal/city"
	"github.com/i474232898/city-infos/internal/city/upstream"
)

const statusUnknown = "unknown"

var upstreamUp = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "cityinfos_upstream_up",
	Help: "1 if the last upstream probe found the probe city, 0 otherwise",
})

// Options configures the jobs run by the Scheduler.
type Options struct {
	// ProbeCity is looked up every ProbeInterval. Empty disables the probe.
	ProbeCity     string
	ProbeInterval time.Duration

	// Review is submitted once when the scheduler starts. Nil disables it.
	Review *ReviewSubmitter
}

// Scheduler runs the startup review submission and the periodic upstream probe.
type Scheduler struct {
	scheduler *gocron.Scheduler
	upstream  city.Upstream
	opts      Options

	status atomic.Value
}

// New creates a new Scheduler.
func New(up city.Upstream, opts Options) *Scheduler {
	s := &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		upstream:  up,
		opts:      opts,
	}
	s.status.Store(statusUnknown)
	return s
}

// Start schedules the jobs and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.opts.Review != nil {
		_, err := s.scheduler.Every(1).Day().LimitRunsTo(1).Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := s.opts.Review.Submit(ctx); err != nil {
				slog.Error("review submission failed", "error", err)
				return
			}
			slog.Info("review submitted")
		})
		if err != nil {
			return err
		}
	}

	if s.opts.ProbeCity != "" {
		interval := s.opts.ProbeInterval
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		_, err := s.scheduler.Every(interval).Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			s.probe(ctx)
		})
		if err != nil {
			return err
		}
	}

	if len(s.scheduler.Jobs()) == 0 {
		slog.Info("scheduler: no jobs configured")
		return nil
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// UpstreamStatus reports the last probe result: "ok", "not_found",
// "unavailable", or "unknown" before the first probe.
func (s *Scheduler) UpstreamStatus() string {
	return s.status.Load().(string)
}

func (s *Scheduler) probe(ctx context.Context) {
	_, err := s.upstream.FetchCity(ctx, s.opts.ProbeCity)
	if err == nil {
		upstreamUp.Set(1)
		s.status.Store("ok")
		return
	}

	upstreamUp.Set(0)
	outcome := upstream.Classify(err)
	s.status.Store(string(outcome))
	slog.Warn("upstream probe failed", "cityId", s.opts.ProbeCity, "outcome", outcome, "error", err)
}
