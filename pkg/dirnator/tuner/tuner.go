// Package tuner detects the host's resources and turns them into worker
// counts: a single recommendation for map mode and a worker ladder for
// bench and stress sweeps.
package tuner

import (
	"runtime"

	"github.com/jamesainslie/dirnator/pkg/dirnator/types"
)

// defaultTotalRAM is the fallback total RAM value when detection fails.
const defaultTotalRAM = 8 * types.GiB

// SystemResources contains detected system resources.
type SystemResources struct {
	// CPUCores is the number of logical CPU cores available.
	CPUCores int

	// TotalRAM is the total physical RAM in bytes.
	TotalRAM int64

	// AvailableRAM is the available (free) RAM in bytes.
	// This may be an estimate based on system heuristics.
	AvailableRAM int64
}

// Hardware describes the resources for report headers.
func (r SystemResources) Hardware() types.Hardware {
	ram := r.TotalRAM
	if ram < 0 {
		ram = 0
	}
	return types.Hardware{
		OS:    runtime.GOOS,
		Arch:  runtime.GOARCH,
		Cores: r.CPUCores,
		RAMMB: uint64(ram / types.MiB),
	}
}

// fallbackResources is used when memory detection is unavailable or fails.
func fallbackResources() SystemResources {
	return SystemResources{
		CPUCores:     runtime.NumCPU(),
		TotalRAM:     defaultTotalRAM,
		AvailableRAM: defaultTotalRAM / 2,
	}
}
