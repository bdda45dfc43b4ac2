package control

import (
	"testing"
	"time"

	"github.com/msi-tools/coolboost/internal/domain"
)

var testCfg = domain.ThresholdConfig{
	CPUThreshold:          60,
	GPUThreshold:          60,
	OscillationTempMargin: 5,
	OscillationTimeMargin: 60 * time.Second,
	PollInterval:          3 * time.Second,
}

var testNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func readings(cpu, gpu *float64) domain.Readings {
	r := domain.Readings{CPU: domain.Absent(domain.SensorCPU), GPU: domain.Absent(domain.SensorGPU)}
	if cpu != nil {
		r.CPU = domain.NewReading(domain.SensorCPU, *cpu)
	}
	if gpu != nil {
		r.GPU = domain.NewReading(domain.SensorGPU, *gpu)
	}
	return r
}

func f(v float64) *float64 { return &v }

func enabledSince(ago time.Duration) domain.ActuatorState {
	return domain.ActuatorState{Enabled: true, LastEnabledAt: testNow.Add(-ago)}
}

// ─── Scenario Tests ─────────────────────────────────────────────────────────

func TestDecide_Scenarios(t *testing.T) {
	tests := []struct {
		name  string
		r     domain.Readings
		state domain.ActuatorState
		want  bool
	}{
		{"A: cpu over threshold enables", readings(f(61), f(50)), domain.ActuatorState{}, true},
		{"B: cooled and time elapsed disables", readings(f(54), f(50)), enabledSince(70 * time.Second), false},
		{"C: time guard blocks disable", readings(f(54), f(50)), enabledSince(10 * time.Second), true},
		{"D: temp guard blocks disable", readings(f(56), f(50)), enabledSince(70 * time.Second), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.r, tt.state, testCfg, testNow); got != tt.want {
				t.Errorf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ─── Property Tests ─────────────────────────────────────────────────────────

func TestDecide_EnableNeverGated(t *testing.T) {
	states := []domain.ActuatorState{
		{},
		enabledSince(0),
		enabledSince(time.Second),
		enabledSince(time.Hour),
	}
	hot := []domain.Readings{
		readings(f(60.1), nil),
		readings(nil, f(99)),
		readings(f(10), f(61)),
		readings(f(75), f(75)),
	}
	for _, s := range states {
		for _, r := range hot {
			if !Decide(r, s, testCfg, testNow) {
				t.Errorf("Decide(%v, %+v) = false, want true", r, s)
			}
		}
	}
}

func TestDecide_TimeGuardBoundary(t *testing.T) {
	r := readings(f(30), f(30))

	// Exactly at the margin is still within the guard.
	if !Decide(r, enabledSince(60*time.Second), testCfg, testNow) {
		t.Error("elapsed == margin should keep boost on")
	}
	if Decide(r, enabledSince(60*time.Second+time.Nanosecond), testCfg, testNow) {
		t.Error("elapsed > margin should allow disable")
	}
}

func TestDecide_FarBelowWithinTimeMargin(t *testing.T) {
	for _, ago := range []time.Duration{0, time.Second, 30 * time.Second, 60 * time.Second} {
		if !Decide(readings(f(0), f(0)), enabledSince(ago), testCfg, testNow) {
			t.Errorf("enabled %v ago: Decide() = false, want true", ago)
		}
	}
}

func TestDecide_BothAbsentKeepsState(t *testing.T) {
	r := readings(nil, nil)
	if Decide(r, domain.ActuatorState{}, testCfg, testNow) {
		t.Error("absent data with boost off should stay off")
	}
	if !Decide(r, enabledSince(time.Hour), testCfg, testNow) {
		t.Error("absent data with boost on should stay on")
	}
}

func TestDecide_Idempotent(t *testing.T) {
	r := readings(f(57), f(40))
	s := enabledSince(90 * time.Second)
	first := Decide(r, s, testCfg, testNow)
	for i := 0; i < 10; i++ {
		if got := Decide(r, s, testCfg, testNow); got != first {
			t.Fatalf("call %d = %v, want %v", i, got, first)
		}
	}
}

// ─── Tie-break Tests ────────────────────────────────────────────────────────

func TestDecide_EqualToThresholdDoesNotEnable(t *testing.T) {
	if Decide(readings(f(60), f(60)), domain.ActuatorState{}, testCfg, testNow) {
		t.Error("value == threshold should not enable")
	}
}

func TestDecide_EqualToSafeFloorIsUnsafe(t *testing.T) {
	s := enabledSince(time.Hour)
	if !Decide(readings(f(55), f(40)), s, testCfg, testNow) {
		t.Error("value == threshold - margin should keep boost on")
	}
	if Decide(readings(f(54.9), f(40)), s, testCfg, testNow) {
		t.Error("value just below safe floor should allow disable")
	}
}

// ─── Partial Data Tests ─────────────────────────────────────────────────────

func TestDecide_PartialData(t *testing.T) {
	tests := []struct {
		name  string
		r     domain.Readings
		state domain.ActuatorState
		want  bool
	}{
		{"gpu only hot", readings(nil, f(65)), domain.ActuatorState{}, true},
		{"cpu only cool, boost off", readings(f(40), nil), domain.ActuatorState{}, false},
		{"cpu only warm, boost on", readings(f(58), nil), enabledSince(time.Hour), true},
		{"cpu only safe, boost on", readings(f(50), nil), enabledSince(time.Hour), false},
		{"gpu only safe, time guard", readings(nil, f(50)), enabledSince(time.Second), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.r, tt.state, testCfg, testNow); got != tt.want {
				t.Errorf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ─── Explain Tests ──────────────────────────────────────────────────────────

func TestExplain_Reasons(t *testing.T) {
	tests := []struct {
		name    string
		r       domain.Readings
		state   domain.ActuatorState
		want    Reason
		sensors int
	}{
		{"no data", readings(nil, nil), domain.ActuatorState{}, ReasonNoData, 0},
		{"idle", readings(f(40), f(40)), domain.ActuatorState{}, ReasonIdle, 0},
		{"both hot", readings(f(70), f(65)), domain.ActuatorState{}, ReasonOverThreshold, 2},
		{"cpu warm", readings(f(57), f(40)), enabledSince(time.Hour), ReasonHysteresisTemp, 1},
		{"too soon", readings(f(40), f(40)), enabledSince(time.Second), ReasonHysteresisTime, 2},
		{"cooled", readings(f(40), nil), enabledSince(time.Hour), ReasonCooledDown, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Explain(tt.r, tt.state, testCfg, testNow)
			if d.Reason != tt.want {
				t.Errorf("Reason = %s, want %s", d.Reason, tt.want)
			}
			if len(d.Sensors) != tt.sensors {
				t.Errorf("Sensors = %d, want %d", len(d.Sensors), tt.sensors)
			}
		})
	}
}
