//go:build linux

package tuner

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// Detect detects available system resources (CPU and RAM).
// On linux, memory comes from sysinfo(2); available RAM is free plus
// buffer memory.
func Detect() (SystemResources, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return fallbackResources(), fmt.Errorf("sysinfo: %w", err)
	}

	unit := uint64(info.Unit)
	if unit == 0 {
		unit = 1
	}

	total := uint64(info.Totalram) * unit
	available := (uint64(info.Freeram) + uint64(info.Bufferram)) * unit
	if available > total {
		available = total
	}

	return SystemResources{
		CPUCores:     runtime.NumCPU(),
		TotalRAM:     int64(total),
		AvailableRAM: int64(available),
	}, nil
}
