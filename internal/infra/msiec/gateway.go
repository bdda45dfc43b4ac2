// Package msiec is the sensor gateway for the msi-ec kernel driver
// (github.com/BeardOverflow/msi-ec). It reads CPU/GPU temperatures and
// drives the cooler boost switch through the driver's sysfs attributes,
// in-process, with a bounded timeout on every call.
package msiec

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/msi-tools/coolboost/internal/domain"
)

const (
	tempAttr  = "realtime_temperature"
	boostAttr = "cooler_boost"

	boostOn  = "on"
	boostOff = "off"
)

// Config controls where the driver lives and how long a call may take.
type Config struct {
	BasePath    string
	CallTimeout time.Duration
}

// DefaultConfig returns the platform driver path and a 2s call timeout.
func DefaultConfig() Config {
	return Config{
		BasePath:    defaultBasePath,
		CallTimeout: 2 * time.Second,
	}
}

// Gateway implements domain.SensorGateway on top of msi-ec sysfs files.
type Gateway struct {
	base    string
	timeout time.Duration

	// Swappable for tests.
	readFile  func(name string) ([]byte, error)
	writeFile func(name string, data []byte) error
}

var _ domain.SensorGateway = (*Gateway)(nil)

// New creates a gateway. Zero fields fall back to DefaultConfig.
func New(cfg Config) *Gateway {
	def := DefaultConfig()
	if cfg.BasePath == "" {
		cfg.BasePath = def.BasePath
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = def.CallTimeout
	}
	return &Gateway{
		base:      cfg.BasePath,
		timeout:   cfg.CallTimeout,
		readFile:  os.ReadFile,
		writeFile: writeAttr,
	}
}

// BasePath returns the sysfs directory in use.
func (g *Gateway) BasePath() string { return g.base }

// Ping checks that the driver directory exists and is accessible.
func (g *Gateway) Ping(ctx context.Context) error {
	return g.do(ctx, g.checkDriver)
}

// ReadTemperature reads <base>/<cpu|gpu>/realtime_temperature.
func (g *Gateway) ReadTemperature(ctx context.Context, kind domain.SensorKind) (float64, error) {
	var celsius float64
	err := g.do(ctx, func() error {
		if err := g.checkDriver(); err != nil {
			return err
		}
		raw, err := g.readAttr(filepath.Join(sensorDir(kind), tempAttr))
		if err != nil {
			return err
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %s temperature %q", domain.ErrMalformedData, kind, raw)
		}
		celsius = float64(v)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("read %s temperature: %w", kind, err)
	}
	return celsius, nil
}

// SetBoost writes "on" or "off" to <base>/cooler_boost.
func (g *Gateway) SetBoost(ctx context.Context, enabled bool) error {
	value := boostOff
	if enabled {
		value = boostOn
	}
	err := g.do(ctx, func() error {
		if err := g.checkDriver(); err != nil {
			return err
		}
		path := filepath.Join(g.base, boostAttr)
		if err := g.writeFile(path, []byte(value)); err != nil {
			return classify(err, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("set cooler boost %s: %w: %w", value, domain.ErrWriteFailed, err)
	}
	return nil
}

// BoostStatus reads back <base>/cooler_boost.
func (g *Gateway) BoostStatus(ctx context.Context) (bool, error) {
	var on bool
	err := g.do(ctx, func() error {
		if err := g.checkDriver(); err != nil {
			return err
		}
		raw, err := g.readAttr(boostAttr)
		if err != nil {
			return err
		}
		switch raw {
		case boostOn:
			on = true
		case boostOff:
			on = false
		default:
			return fmt.Errorf("%w: cooler boost %q", domain.ErrMalformedData, raw)
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("read cooler boost: %w", err)
	}
	return on, nil
}

// do runs op under the call timeout. A stuck op is abandoned, not killed;
// its goroutine exits once the underlying syscall returns. op never starts
// on a context that is already done.
func (g *Gateway) do(ctx context.Context, op func() error) error {
	if err := ctx.Err(); err != nil {
		return g.ctxErr(err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- op() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// op may have finished at the same moment; report what it did.
		select {
		case err := <-done:
			return err
		default:
		}
		return g.ctxErr(ctx.Err())
	}
}

func (g *Gateway) ctxErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", domain.ErrTimeout, g.timeout)
	}
	return err
}

func (g *Gateway) checkDriver() error {
	info, err := os.Stat(g.base)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: %s", domain.ErrPermissionDenied, g.base)
		}
		return fmt.Errorf("%w at %s; ensure the msi-ec kernel module is loaded "+
			"(https://github.com/BeardOverflow/msi-ec)", domain.ErrUnavailable, g.base)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrUnavailable, g.base)
	}
	return nil
}

func (g *Gateway) readAttr(rel string) (string, error) {
	path := filepath.Join(g.base, rel)
	data, err := g.readFile(path)
	if err != nil {
		return "", classify(err, path)
	}
	return strings.TrimSpace(string(data)), nil
}

// classify maps filesystem errors onto the gateway taxonomy.
func classify(err error, path string) error {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s (try running with sudo)", domain.ErrPermissionDenied, path)
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s not found", domain.ErrUnavailable, path)
	default:
		return fmt.Errorf("%w: %s: %v", domain.ErrUnavailable, path, err)
	}
}

func sensorDir(kind domain.SensorKind) string {
	if kind == domain.SensorGPU {
		return "gpu"
	}
	return "cpu"
}

// writeAttr writes to an existing attribute only. sysfs never needs O_CREATE.
func writeAttr(name string, data []byte) error {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
