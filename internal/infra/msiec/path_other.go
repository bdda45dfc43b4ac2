//go:build !linux

package msiec

// defaultBasePath is empty off Linux: msi-ec is a Linux kernel module, so
// Ping and every read or write report domain.ErrUnavailable.
const defaultBasePath = ""
