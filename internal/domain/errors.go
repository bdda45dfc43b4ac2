package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors carry no infrastructure dependency.

var (
	// Sensor gateway errors
	ErrUnavailable      = errors.New("msi-ec driver not available")
	ErrPermissionDenied = errors.New("permission denied")
	ErrMalformedData    = errors.New("malformed sensor value")
	ErrTimeout          = errors.New("sensor gateway call timed out")
	ErrWriteFailed      = errors.New("cooler boost write not confirmed")

	// Monitor lifecycle errors
	ErrAlreadyRunning = errors.New("monitor is already running")
)

// ErrorLabel maps an error onto a short, stable label for metrics.
func ErrorLabel(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrMalformedData):
		return "malformed"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrWriteFailed):
		return "write_failed"
	default:
		return "other"
	}
}
