package msiec

import (
	"context"
	"sync"

	"github.com/msi-tools/coolboost/internal/domain"
)

// ─── Mock Gateway (for testing without the msi-ec driver) ──────────────────

// MockGateway implements domain.SensorGateway in memory.
type MockGateway struct {
	mu       sync.Mutex
	temps    map[domain.SensorKind]float64
	readErrs map[domain.SensorKind]error
	pingErr  error
	writeErr error
	boost    bool
	writes   []bool
}

var _ domain.SensorGateway = (*MockGateway)(nil)

// NewMockGateway returns a mock reporting the given temperatures.
func NewMockGateway(cpu, gpu float64) *MockGateway {
	return &MockGateway{
		temps:    map[domain.SensorKind]float64{domain.SensorCPU: cpu, domain.SensorGPU: gpu},
		readErrs: make(map[domain.SensorKind]error),
	}
}

// SetTemp changes the temperature returned for kind and clears its read error.
func (m *MockGateway) SetTemp(kind domain.SensorKind, celsius float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.temps[kind] = celsius
	delete(m.readErrs, kind)
}

// SetReadErr makes reads of kind fail with err (nil clears it).
func (m *MockGateway) SetReadErr(kind domain.SensorKind, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.readErrs, kind)
		return
	}
	m.readErrs[kind] = err
}

// SetPingErr makes Ping fail with err.
func (m *MockGateway) SetPingErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingErr = err
}

// SetWriteErr makes SetBoost fail with err (nil clears it).
func (m *MockGateway) SetWriteErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// Writes returns every SetBoost value attempted, successful or not.
func (m *MockGateway) Writes() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]bool, len(m.writes))
	copy(out, m.writes)
	return out
}

// Boost returns the mock actuator state.
func (m *MockGateway) Boost() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.boost
}

func (m *MockGateway) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pingErr
}

func (m *MockGateway) ReadTemperature(_ context.Context, kind domain.SensorKind) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.readErrs[kind]; err != nil {
		return 0, err
	}
	return m.temps[kind], nil
}

func (m *MockGateway) SetBoost(_ context.Context, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = append(m.writes, enabled)
	if m.writeErr != nil {
		return m.writeErr
	}
	m.boost = enabled
	return nil
}

func (m *MockGateway) BoostStatus(context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pingErr != nil {
		return false, m.pingErr
	}
	return m.boost, nil
}
