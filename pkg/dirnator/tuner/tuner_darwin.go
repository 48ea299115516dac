//go:build darwin

package tuner

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// Detect detects available system resources (CPU and RAM).
// On darwin, total memory comes from sysctl hw.memsize.
func Detect() (SystemResources, error) {
	memsize, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return fallbackResources(), fmt.Errorf("sysctl hw.memsize: %w", err)
	}

	total := int64(memsize)

	// Precise free memory needs host_statistics; half of total is a
	// conservative stand-in.
	return SystemResources{
		CPUCores:     runtime.NumCPU(),
		TotalRAM:     total,
		AvailableRAM: total / 2,
	}, nil
}
