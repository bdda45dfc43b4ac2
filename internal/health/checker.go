// Package health runs periodic checks against the msi-ec sensor gateway
// so a driver that disappears or a sensor that stops answering shows up
// in the logs and metrics even while the control loop keeps going.
package health

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/msi-tools/coolboost/internal/domain"
	"github.com/msi-tools/coolboost/internal/infra/metrics"
)

// Check defines a single health check.
type Check struct {
	Name    string
	CheckFn func(ctx context.Context) error
}

// Status represents the result of a health check.
type Status struct {
	Name      string    `json:"name"`
	Healthy   bool      `json:"healthy"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Checker runs periodic health checks.
type Checker struct {
	mu       sync.RWMutex
	checks   []Check
	statuses []Status
	interval time.Duration
	logger   *slog.Logger
}

// NewChecker creates a checker with the standard gateway checks:
// driver presence, both temperature sensors and the boost attribute.
func NewChecker(gw domain.SensorGateway, interval time.Duration, logger *slog.Logger) *Checker {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		interval: interval,
		logger:   logger.With("component", "health"),
		checks: []Check{
			{
				Name:    "driver",
				CheckFn: gw.Ping,
			},
			{
				Name:    "cpu_sensor",
				CheckFn: sensorCheck(gw, domain.SensorCPU),
			},
			{
				Name:    "gpu_sensor",
				CheckFn: sensorCheck(gw, domain.SensorGPU),
			},
			{
				Name: "cooler_boost",
				CheckFn: func(ctx context.Context) error {
					_, err := gw.BoostStatus(ctx)
					return err
				},
			},
		},
	}
}

func sensorCheck(gw domain.SensorGateway, kind domain.SensorKind) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := gw.ReadTemperature(ctx, kind)
		return err
	}
}

// Run starts the health check loop. Call in a goroutine.
func (c *Checker) Run(ctx context.Context) {
	c.RunOnce(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.RunOnce(ctx)
		}
	}
}

// RunOnce executes every check now and returns the results.
func (c *Checker) RunOnce(ctx context.Context) []Status {
	prev := c.byName()

	statuses := make([]Status, len(c.checks))
	for i, check := range c.checks {
		s := Status{
			Name:      check.Name,
			CheckedAt: time.Now(),
		}
		if err := check.CheckFn(ctx); err != nil {
			s.Error = err.Error()
		} else {
			s.Healthy = true
		}
		statuses[i] = s

		gauge := 0.0
		if s.Healthy {
			gauge = 1
		}
		metrics.HealthCheckStatus.WithLabelValues(s.Name).Set(gauge)

		// Log transitions only.
		if old, ok := prev[s.Name]; !ok || old.Healthy != s.Healthy {
			if s.Healthy {
				c.logger.Debug("check healthy", "check", s.Name)
			} else {
				c.logger.Warn("check failing", "check", s.Name, "err", s.Error)
			}
		}
	}

	c.mu.Lock()
	c.statuses = statuses
	c.mu.Unlock()

	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

func (c *Checker) byName() map[string]Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m := make(map[string]Status, len(c.statuses))
	for _, s := range c.statuses {
		m[s.Name] = s
	}
	return m
}

// Statuses returns the latest health check results.
func (c *Checker) Statuses() []Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]Status, len(c.statuses))
	copy(result, c.statuses)
	return result
}

// IsHealthy returns true if all checks pass.
func (c *Checker) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.statuses {
		if !s.Healthy {
			return false
		}
	}
	return true
}
