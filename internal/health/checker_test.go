package health

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/msi-tools/coolboost/internal/domain"
	"github.com/msi-tools/coolboost/internal/infra/msiec"
)

// ─── Checker Tests ──────────────────────────────────────────────────────────

func TestNewChecker(t *testing.T) {
	c := NewChecker(msiec.NewMockGateway(50, 40), 0, nil)
	if c == nil {
		t.Fatal("NewChecker() returned nil")
	}
	if len(c.checks) != 4 {
		t.Errorf("checks = %d, want 4", len(c.checks))
	}
	if c.interval != 60*time.Second {
		t.Errorf("interval = %v, want 60s default", c.interval)
	}
}

func TestChecker_RunOnceHealthy(t *testing.T) {
	c := NewChecker(msiec.NewMockGateway(50, 40), time.Minute, slog.Default())

	statuses := c.RunOnce(context.Background())
	if len(statuses) != 4 {
		t.Fatalf("RunOnce() = %d statuses, want 4", len(statuses))
	}
	for _, s := range statuses {
		if !s.Healthy {
			t.Errorf("check %q should be healthy, got error: %s", s.Name, s.Error)
		}
	}
	if !c.IsHealthy() {
		t.Error("IsHealthy() should be true when all checks pass")
	}
}

func TestChecker_IsHealthy_BeforeRun(t *testing.T) {
	c := NewChecker(msiec.NewMockGateway(50, 40), time.Minute, nil)

	// Before any run, there are no statuses, so IsHealthy returns true (vacuously)
	if !c.IsHealthy() {
		t.Error("IsHealthy() should be true before first run (no statuses)")
	}
}

func TestChecker_SensorFailureIsolated(t *testing.T) {
	gw := msiec.NewMockGateway(50, 40)
	gw.SetReadErr(domain.SensorGPU, domain.ErrMalformedData)

	c := NewChecker(gw, time.Minute, nil)
	c.RunOnce(context.Background())

	if c.IsHealthy() {
		t.Error("IsHealthy() should be false with a failing GPU sensor")
	}
	for _, s := range c.Statuses() {
		switch s.Name {
		case "gpu_sensor":
			if s.Healthy || s.Error == "" {
				t.Errorf("gpu_sensor = %+v, want unhealthy with error", s)
			}
		default:
			if !s.Healthy {
				t.Errorf("check %q should be healthy, got %s", s.Name, s.Error)
			}
		}
	}
}

func TestChecker_DriverMissing(t *testing.T) {
	gw := msiec.NewMockGateway(50, 40)
	gw.SetPingErr(domain.ErrUnavailable)

	c := NewChecker(gw, time.Minute, nil)
	statuses := c.RunOnce(context.Background())
	if statuses[0].Name != "driver" || statuses[0].Healthy {
		t.Errorf("driver status = %+v, want unhealthy", statuses[0])
	}
}

func TestChecker_StatusesCopy(t *testing.T) {
	c := NewChecker(msiec.NewMockGateway(50, 40), time.Minute, nil)
	c.RunOnce(context.Background())

	s1 := c.Statuses()
	s2 := c.Statuses()

	// Verify it's a copy, not the same slice
	s1[0].Healthy = false
	if !s2[0].Healthy {
		t.Error("Statuses() should return a copy, not a reference")
	}
}

func TestChecker_RunStopsOnCancel(t *testing.T) {
	c := NewChecker(msiec.NewMockGateway(50, 40), 10*time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
	if len(c.Statuses()) != 4 {
		t.Errorf("Statuses() = %d, want 4 after Run", len(c.Statuses()))
	}
}

func TestChecker_CustomCheck(t *testing.T) {
	c := &Checker{
		logger: slog.Default(),
		checks: []Check{
			{
				Name: "always_fail",
				CheckFn: func(ctx context.Context) error {
					return errors.New("boom")
				},
			},
		},
	}

	statuses := c.RunOnce(context.Background())
	if len(statuses) != 1 {
		t.Fatalf("statuses = %d, want 1", len(statuses))
	}
	if statuses[0].Healthy {
		t.Error("always_fail check should not be healthy")
	}
	if statuses[0].Error != "boom" {
		t.Errorf("Error = %q, want %q", statuses[0].Error, "boom")
	}
}
