package daemon

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/msi-tools/coolboost/internal/app/monitor"
	"github.com/msi-tools/coolboost/internal/health"
	"github.com/msi-tools/coolboost/internal/infra/metrics"
	"github.com/msi-tools/coolboost/internal/infra/msiec"
)

// Daemon wires the gateway, monitor loop, health checker and metrics.
type Daemon struct {
	Config  Config
	Logger  *slog.Logger
	Gateway *msiec.Gateway
	Monitor *monitor.Monitor
	Health  *health.Checker

	logFile io.Closer
}

// New creates a Daemon from ~/.coolboost/config.toml.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, closer, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	gw := msiec.New(msiec.Config{
		BasePath:    cfg.Device.Path,
		CallTimeout: parseDuration(cfg.Device.CallTimeout, 2*time.Second),
	})

	mon := monitor.New(gw, monitor.Config{
		Thresholds:    cfg.Thresholds(),
		RestoreOnExit: cfg.Thermal.RestoreOnExit,
		StopTimeout:   parseDuration(cfg.Thermal.StopTimeout, 5*time.Second),
	}, logger)

	return &Daemon{
		Config:  cfg,
		Logger:  logger,
		Gateway: gw,
		Monitor: mon,
		Health:  health.NewChecker(gw, parseDuration(cfg.Health.Interval, 60*time.Second), logger),
		logFile: closer,
	}, nil
}

// Serve starts the monitor and blocks until ctx is cancelled or SIGINT /
// SIGTERM arrives, then runs the monitor's stop sequence.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := d.Monitor.Start(ctx); err != nil {
		return err
	}

	bgCtx, cancelBg := context.WithCancel(context.Background())
	defer cancelBg()

	go d.Health.Run(bgCtx)

	if d.Config.Telemetry.Textfile != "" {
		go d.flushMetrics(bgCtx)
	}

	d.Logger.Info("thermal monitor started", "device", d.Gateway.BasePath())

	<-ctx.Done()
	d.Logger.Info("shutdown requested")

	cancelBg()
	err := d.Monitor.Stop()
	d.writeMetrics()
	return err
}

// Close releases daemon resources. Stops the monitor if still running.
func (d *Daemon) Close() {
	if d.Monitor != nil && d.Monitor.Running() {
		_ = d.Monitor.Stop()
	}
	if d.logFile != nil {
		_ = d.logFile.Close()
	}
}

// flushMetrics periodically writes the metrics textfile.
func (d *Daemon) flushMetrics(ctx context.Context) {
	ticker := time.NewTicker(parseDuration(d.Config.Telemetry.Interval, 15*time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.writeMetrics()
		}
	}
}

func (d *Daemon) writeMetrics() {
	path := d.Config.Telemetry.Textfile
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(path); err != nil {
		d.Logger.Warn("failed to write metrics textfile", "path", path, "err", err)
	}
}
