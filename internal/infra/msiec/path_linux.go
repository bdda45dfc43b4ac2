//go:build linux

package msiec

// defaultBasePath is where the msi-ec platform driver exposes its attributes.
const defaultBasePath = "/sys/devices/platform/msi-ec"
