// Package monitor runs the cooler boost control loop: read both sensors,
// ask the hysteresis controller, write the boost switch when the decision
// changes, sleep, repeat. One goroutine, no overlapping cycles.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/msi-tools/coolboost/internal/app/control"
	"github.com/msi-tools/coolboost/internal/domain"
	"github.com/msi-tools/coolboost/internal/infra/metrics"
)

// Config controls the monitor loop.
type Config struct {
	Thresholds    domain.ThresholdConfig
	RestoreOnExit bool          // Turn boost off on Stop if it is on
	StopTimeout   time.Duration // Max wait for the loop to exit (default: 5s)
}

// Snapshot is a point-in-time copy of the monitor state.
type Snapshot struct {
	RunID         string
	Running       bool
	Enabled       bool
	LastEnabledAt time.Time
	CPU           domain.Reading
	GPU           domain.Reading
	LastCycleAt   time.Time
	Cycles        uint64
	WriteFailures uint64
}

// run is the per-Start lifecycle handle.
type run struct {
	id     string
	log    *slog.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

// Monitor owns the actuator state and the poll loop.
type Monitor struct {
	gw     domain.SensorGateway
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	lifeMu sync.Mutex
	cur    *run
	stale  *run // abandoned by a timed-out Stop, still exiting

	// writeMu serializes actuator writes with the state they confirm.
	writeMu sync.Mutex

	mu    sync.RWMutex
	state domain.ActuatorState
	snap  Snapshot
}

// New creates a stopped monitor.
func New(gw domain.SensorGateway, cfg Config, logger *slog.Logger) *Monitor {
	if cfg.Thresholds.PollInterval <= 0 {
		cfg.Thresholds.PollInterval = 3 * time.Second
	}
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		gw:     gw,
		cfg:    cfg,
		logger: logger.With("component", "monitor"),
		now:    time.Now,
	}
}

// Start probes the gateway and launches the poll loop. The loop outlives
// ctx cancellation; it ends only through Stop. If a previous Stop gave up
// on its loop, Start waits for that loop to exit first, bounded by ctx.
func (m *Monitor) Start(ctx context.Context) error {
	m.lifeMu.Lock()
	defer m.lifeMu.Unlock()

	if m.cur != nil {
		m.logger.Warn("monitor is already running")
		return domain.ErrAlreadyRunning
	}

	if old := m.stale; old != nil {
		select {
		case <-old.done:
			m.stale = nil
		case <-ctx.Done():
			return fmt.Errorf("start monitor: previous loop %s still exiting: %w", old.id, ctx.Err())
		}
	}

	if err := m.gw.Ping(ctx); err != nil {
		m.logger.Error("sensor gateway unreachable", "err", err)
		return fmt.Errorf("start monitor: %w", err)
	}

	id := uuid.NewString()
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	r := &run{
		id:     id,
		log:    m.logger.With("run_id", id),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	m.cur = r

	m.mu.Lock()
	m.snap.RunID = id
	m.snap.Running = true
	m.mu.Unlock()

	th := m.cfg.Thresholds
	r.log.Info("starting thermal monitoring",
		"cpu_threshold", domain.FormatCelsius(th.CPUThreshold),
		"gpu_threshold", domain.FormatCelsius(th.GPUThreshold),
		"interval", th.PollInterval,
		"temp_margin", domain.FormatCelsius(th.OscillationTempMargin),
		"time_margin", th.OscillationTimeMargin,
		"restore_on_exit", m.cfg.RestoreOnExit,
	)

	go m.loop(loopCtx, r)
	return nil
}

// Stop signals the loop, waits up to StopTimeout for it to finish the
// current cycle, optionally turns boost off, and marks the monitor stopped.
// A loop that outlives StopTimeout can no longer write the actuator; the
// next Start waits for it. Stopping a stopped monitor is a no-op.
func (m *Monitor) Stop() error {
	m.lifeMu.Lock()
	defer m.lifeMu.Unlock()

	r := m.cur
	if r == nil {
		return nil
	}

	r.log.Info("stopping the thermal monitor")
	r.cancel()

	select {
	case <-r.done:
	case <-time.After(m.cfg.StopTimeout):
		r.log.Warn("monitor loop did not exit in time, continuing shutdown", "timeout", m.cfg.StopTimeout)
		m.stale = r
	}

	// A write already in flight finishes before the restore decision.
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	var err error
	if m.cfg.RestoreOnExit && m.State().Enabled {
		r.log.Info("disabling cooler boost before exit")
		if err = m.gw.SetBoost(context.Background(), false); err != nil {
			r.log.Error("failed to disable cooler boost", "err", err)
			metrics.WriteFailures.WithLabelValues(domain.ErrorLabel(err)).Inc()
			err = fmt.Errorf("restore on exit: %w", err)
		} else {
			m.confirm(false, m.now())
		}
	}

	m.cur = nil
	m.mu.Lock()
	m.snap.Running = false
	m.mu.Unlock()

	r.log.Info("thermal monitor stopped")
	return err
}

// Running reports whether the loop is active.
func (m *Monitor) Running() bool {
	m.lifeMu.Lock()
	defer m.lifeMu.Unlock()
	return m.cur != nil
}

// State returns the last confirmed actuator state.
func (m *Monitor) State() domain.ActuatorState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Status returns a consistent snapshot for reporting.
func (m *Monitor) Status() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.snap
	s.Enabled = m.state.Enabled
	s.LastEnabledAt = m.state.LastEnabledAt
	return s
}

// loop runs a cycle immediately, then once per PollInterval tick.
// The ticker wait is interruptible so Stop never waits a full interval.
func (m *Monitor) loop(ctx context.Context, r *run) {
	defer close(r.done)

	ticker := time.NewTicker(m.cfg.Thresholds.PollInterval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return
		}
		m.safeCycle(ctx, r.log)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// safeCycle keeps a panicking cycle from killing the loop.
func (m *Monitor) safeCycle(ctx context.Context, log *slog.Logger) {
	defer func() {
		if p := recover(); p != nil {
			log.Error("error in monitoring loop", "panic", p)
		}
	}()
	m.cycle(ctx, log)
}

// cycle performs one read-decide-act pass.
func (m *Monitor) cycle(ctx context.Context, log *slog.Logger) {
	now := m.now()
	started := time.Now()
	defer func() { metrics.CycleDuration.Observe(time.Since(started).Seconds()) }()

	r := domain.Readings{
		CPU: m.read(ctx, log, domain.SensorCPU),
		GPU: m.read(ctx, log, domain.SensorGPU),
	}
	if r.Empty() {
		log.Error("failed to read both CPU and GPU temperatures")
	} else {
		log.Debug("temperatures", "cpu", r.CPU, "gpu", r.GPU)
	}

	state := m.State()
	d := control.Explain(r, state, m.cfg.Thresholds, now)
	metrics.Decisions.WithLabelValues(d.Reason.String()).Inc()

	if d.Reason == control.ReasonHysteresisTemp {
		log.Debug("keeping cooler boost enabled due to hysteresis", "sensors", describe(d, m.cfg.Thresholds, false))
	}

	if d.Enable != state.Enabled && ctx.Err() == nil {
		m.apply(ctx, log, d, now)
	}

	m.mu.Lock()
	m.snap.CPU = r.CPU
	m.snap.GPU = r.GPU
	m.snap.LastCycleAt = now
	m.snap.Cycles++
	m.mu.Unlock()
}

// read returns an absent reading on any gateway error; the other sensor
// is read regardless.
func (m *Monitor) read(ctx context.Context, log *slog.Logger, kind domain.SensorKind) domain.Reading {
	label := strings.ToLower(kind.String())
	v, err := m.gw.ReadTemperature(ctx, kind)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn("failed to read temperature", "sensor", kind, "err", err)
		}
		metrics.ReadFailures.WithLabelValues(label, domain.ErrorLabel(err)).Inc()
		return domain.Absent(kind)
	}
	metrics.Temperature.WithLabelValues(label).Set(v)
	return domain.NewReading(kind, v)
}

// apply writes the decision and updates state only once the write is
// confirmed. A failed write is retried implicitly by the next cycle.
// Nothing is written once the loop has been cancelled.
func (m *Monitor) apply(ctx context.Context, log *slog.Logger, d control.Decision, now time.Time) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	if ctx.Err() != nil {
		return
	}

	if d.Enable {
		log.Info("enabling cooler boost", "reason", describe(d, m.cfg.Thresholds, true))
	} else {
		log.Info("disabling cooler boost: temperatures normal", "temps", describe(d, m.cfg.Thresholds, false))
	}

	if err := m.gw.SetBoost(ctx, d.Enable); err != nil {
		verb := "disable"
		if d.Enable {
			verb = "enable"
		}
		log.Error("failed to "+verb+" cooler boost", "err", err)
		metrics.WriteFailures.WithLabelValues(domain.ErrorLabel(err)).Inc()
		m.mu.Lock()
		m.snap.WriteFailures++
		m.mu.Unlock()
		return
	}

	m.confirm(d.Enable, now)
	if d.Enable {
		log.Info("cooler boost enabled")
	} else {
		log.Info("cooler boost disabled")
	}
}

// confirm records a successful write. LastEnabledAt moves only on an
// off→on transition.
func (m *Monitor) confirm(enabled bool, now time.Time) {
	m.mu.Lock()
	if enabled && !m.state.Enabled {
		m.state.LastEnabledAt = now
	}
	m.state.Enabled = enabled
	m.mu.Unlock()

	to := "off"
	gauge := 0.0
	if enabled {
		to = "on"
		gauge = 1
	}
	metrics.BoostEnabled.Set(gauge)
	metrics.BoostTransitions.WithLabelValues(to).Inc()
}

// describe renders the sensors behind a decision, e.g.
// "CPU 61.0°C > 60.0°C" or "CPU 54.0°C, GPU 50.0°C".
func describe(d control.Decision, th domain.ThresholdConfig, withThreshold bool) string {
	parts := make([]string, 0, len(d.Sensors))
	for _, rd := range d.Sensors {
		s := rd.Kind.String() + " " + rd.String()
		if withThreshold {
			s += " > " + domain.FormatCelsius(th.Threshold(rd.Kind))
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}
