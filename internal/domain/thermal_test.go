package domain

import (
	"testing"
	"time"
)

// ─── Reading Tests ──────────────────────────────────────────────────────────

func TestSensorKind_String(t *testing.T) {
	tests := []struct {
		kind SensorKind
		want string
	}{
		{SensorCPU, "CPU"},
		{SensorGPU, "GPU"},
		{SensorKind(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("SensorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestReading_String(t *testing.T) {
	if got := NewReading(SensorCPU, 61).String(); got != "61.0°C" {
		t.Errorf("present reading = %q, want %q", got, "61.0°C")
	}
	if got := Absent(SensorGPU).String(); got != "n/a" {
		t.Errorf("absent reading = %q, want %q", got, "n/a")
	}
}

func TestReadings_Empty(t *testing.T) {
	r := Readings{CPU: Absent(SensorCPU), GPU: Absent(SensorGPU)}
	if !r.Empty() {
		t.Error("both absent should be Empty")
	}
	r.GPU = NewReading(SensorGPU, 40)
	if r.Empty() {
		t.Error("one present should not be Empty")
	}
}

// ─── ThresholdConfig Tests ──────────────────────────────────────────────────

func TestThresholdConfig_SafeFloor(t *testing.T) {
	cfg := ThresholdConfig{
		CPUThreshold:          60,
		GPUThreshold:          70,
		OscillationTempMargin: 5,
		OscillationTimeMargin: time.Minute,
	}
	if got := cfg.SafeFloor(SensorCPU); got != 55 {
		t.Errorf("CPU SafeFloor = %v, want 55", got)
	}
	if got := cfg.SafeFloor(SensorGPU); got != 65 {
		t.Errorf("GPU SafeFloor = %v, want 65", got)
	}
}
