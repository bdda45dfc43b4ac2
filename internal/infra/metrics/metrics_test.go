package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func gatheredNames(t *testing.T) map[string]bool {
	t.Helper()
	families, err := Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	return names
}

func TestSensorMetrics(t *testing.T) {
	Temperature.WithLabelValues("cpu").Set(61)
	ReadFailures.WithLabelValues("gpu", "timeout").Inc()

	names := gatheredNames(t)
	for _, name := range []string{
		"coolboost_temperature_celsius",
		"coolboost_read_failures_total",
	} {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestActuatorMetrics(t *testing.T) {
	BoostEnabled.Set(1)
	BoostTransitions.WithLabelValues("on").Inc()
	WriteFailures.WithLabelValues("permission_denied").Inc()
	CycleDuration.Observe(0.002)
	Decisions.WithLabelValues("over_threshold").Inc()
	HealthCheckStatus.WithLabelValues("driver").Set(1)

	names := gatheredNames(t)
	for _, name := range []string{
		"coolboost_boost_enabled",
		"coolboost_boost_transitions_total",
		"coolboost_write_failures_total",
		"coolboost_cycle_duration_seconds",
		"coolboost_decisions_total",
		"coolboost_health_check_status",
	} {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestWriteTextfile(t *testing.T) {
	BoostEnabled.Set(0)
	path := filepath.Join(t.TempDir(), "coolboost.prom")

	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), "coolboost_boost_enabled 0") {
		t.Errorf("textfile missing boost gauge:\n%s", data)
	}
}
