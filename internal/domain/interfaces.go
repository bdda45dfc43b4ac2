package domain

import "context"

// ─── Service Interfaces ─────────────────────────────────────────────────────
// Infrastructure implements them; application layer depends on them.

// SensorGateway abstracts the device interface exposing temperatures and
// the cooler boost actuator. Implemented by infra/msiec.Gateway.
type SensorGateway interface {
	// Ping verifies the device interface is reachable.
	Ping(ctx context.Context) error

	// ReadTemperature returns the current temperature in Celsius.
	ReadTemperature(ctx context.Context, kind SensorKind) (float64, error)

	// SetBoost enables or disables cooler boost. Idempotent.
	SetBoost(ctx context.Context, enabled bool) error

	// BoostStatus reads back the actuator state. Used for status
	// reports only; the monitor tracks state itself.
	BoostStatus(ctx context.Context) (bool, error)
}
