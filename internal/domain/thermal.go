// Package domain holds the pure thermal-control types shared by the
// controller, the monitor loop and the sensor gateway.
package domain

import (
	"fmt"
	"time"
)

// SensorKind identifies one of the two temperature sensors.
type SensorKind int

const (
	SensorCPU SensorKind = iota
	SensorGPU
)

// String returns the sensor label used in logs and reports.
func (k SensorKind) String() string {
	switch k {
	case SensorCPU:
		return "CPU"
	case SensorGPU:
		return "GPU"
	default:
		return "unknown"
	}
}

// Reading is a single temperature sample. OK is false when the sensor
// could not be read this cycle.
type Reading struct {
	Kind  SensorKind
	Value float64
	OK    bool
}

// NewReading returns a present reading.
func NewReading(kind SensorKind, celsius float64) Reading {
	return Reading{Kind: kind, Value: celsius, OK: true}
}

// Absent returns a reading with no value.
func Absent(kind SensorKind) Reading {
	return Reading{Kind: kind}
}

// String formats the reading like "61.0°C", or "n/a" when absent.
func (r Reading) String() string {
	if !r.OK {
		return "n/a"
	}
	return FormatCelsius(r.Value)
}

// Readings is the pair of samples taken in one poll cycle.
type Readings struct {
	CPU Reading
	GPU Reading
}

// Empty reports whether both sensors are absent.
func (r Readings) Empty() bool {
	return !r.CPU.OK && !r.GPU.OK
}

// ActuatorState is the last confirmed cooler boost state.
// LastEnabledAt is the zero time when boost has never been enabled.
type ActuatorState struct {
	Enabled       bool
	LastEnabledAt time.Time
}

// ThresholdConfig holds the hysteresis parameters. Immutable after startup.
type ThresholdConfig struct {
	CPUThreshold          float64
	GPUThreshold          float64
	OscillationTempMargin float64
	OscillationTimeMargin time.Duration
	PollInterval          time.Duration
}

// Threshold returns the enable threshold for the given sensor.
func (c ThresholdConfig) Threshold(kind SensorKind) float64 {
	if kind == SensorGPU {
		return c.GPUThreshold
	}
	return c.CPUThreshold
}

// SafeFloor returns the temperature a sensor must drop strictly below
// before boost may be disabled.
func (c ThresholdConfig) SafeFloor(kind SensorKind) float64 {
	return c.Threshold(kind) - c.OscillationTempMargin
}

// FormatCelsius renders a temperature with one decimal, e.g. "54.0°C".
func FormatCelsius(v float64) string {
	return fmt.Sprintf("%.1f°C", v)
}
