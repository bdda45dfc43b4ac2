// Package control implements the cooler boost hysteresis policy.
// Enabling is immediate once any sensor crosses its threshold; disabling
// waits for every present sensor to fall a full margin below threshold
// and for the boost to have been on longer than the time margin.
package control

import (
	"time"

	"github.com/msi-tools/coolboost/internal/domain"
)

// Reason explains why a Decision came out the way it did.
type Reason int

const (
	ReasonIdle           Reason = iota // Boost off and no sensor over threshold
	ReasonOverThreshold                // At least one sensor strictly above threshold
	ReasonHysteresisTemp               // Below threshold but not below the safe floor
	ReasonHysteresisTime               // Cooled down but boost on for too short a time
	ReasonCooledDown                   // All guards passed, boost may turn off
	ReasonNoData                       // Both sensors absent, state kept
)

// String returns a short label for logs.
func (r Reason) String() string {
	switch r {
	case ReasonIdle:
		return "idle"
	case ReasonOverThreshold:
		return "over_threshold"
	case ReasonHysteresisTemp:
		return "hysteresis_temp"
	case ReasonHysteresisTime:
		return "hysteresis_time"
	case ReasonCooledDown:
		return "cooled_down"
	case ReasonNoData:
		return "no_data"
	default:
		return "unknown"
	}
}

// Decision is the desired boost state plus the readings that drove it.
type Decision struct {
	Enable  bool
	Reason  Reason
	Sensors []domain.Reading
}

// Decide returns the desired next boost state. Pure and deterministic.
func Decide(r domain.Readings, s domain.ActuatorState, cfg domain.ThresholdConfig, now time.Time) bool {
	return Explain(r, s, cfg, now).Enable
}

// Explain is Decide with the reason attached.
func Explain(r domain.Readings, s domain.ActuatorState, cfg domain.ThresholdConfig, now time.Time) Decision {
	if r.Empty() {
		return Decision{Enable: s.Enabled, Reason: ReasonNoData}
	}

	present := presentReadings(r)

	// Comparison is strict: a reading equal to its threshold does not enable.
	var hot []domain.Reading
	for _, rd := range present {
		if rd.Value > cfg.Threshold(rd.Kind) {
			hot = append(hot, rd)
		}
	}
	if len(hot) > 0 {
		return Decision{Enable: true, Reason: ReasonOverThreshold, Sensors: hot}
	}

	if !s.Enabled {
		return Decision{Enable: false, Reason: ReasonIdle}
	}

	// Safe means strictly below the floor; sitting on it keeps boost on.
	var warm []domain.Reading
	for _, rd := range present {
		if !(rd.Value < cfg.SafeFloor(rd.Kind)) {
			warm = append(warm, rd)
		}
	}
	if len(warm) > 0 {
		return Decision{Enable: true, Reason: ReasonHysteresisTemp, Sensors: warm}
	}

	if now.Sub(s.LastEnabledAt) <= cfg.OscillationTimeMargin {
		return Decision{Enable: true, Reason: ReasonHysteresisTime, Sensors: present}
	}

	return Decision{Enable: false, Reason: ReasonCooledDown, Sensors: present}
}

func presentReadings(r domain.Readings) []domain.Reading {
	out := make([]domain.Reading, 0, 2)
	if r.CPU.OK {
		out = append(out, r.CPU)
	}
	if r.GPU.OK {
		out = append(out, r.GPU)
	}
	return out
}
