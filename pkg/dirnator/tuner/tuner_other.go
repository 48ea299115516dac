//go:build !darwin && !linux

package tuner

// Detect detects available system resources (CPU and RAM).
// Memory is not probed on this platform; an 8 GiB default is reported.
func Detect() (SystemResources, error) {
	return fallbackResources(), nil
}
