package tuner

import (
	"github.com/jamesainslie/dirnator/pkg/dirnator/types"
)

// Worker count limits.
const (
	// MaxWorkers caps every policy-derived worker count.
	MaxWorkers = 256

	// minFastWorkers is the floor for the fast recommendation.
	minFastWorkers = 2
)

// Recommend returns the worker count for a single scan.
//
// An explicit count wins (at least 1). Otherwise the count derives from
// cores: fast doubles it within [2, 256]; small machines use one worker per
// core, mid-sized ones add two, and large ones scale by 1.4.
func Recommend(cores int, explicit *int, fast bool) int {
	if explicit != nil {
		return max(1, *explicit)
	}

	c := max(1, cores)
	switch {
	case fast:
		return clamp(c*2, minFastWorkers, MaxWorkers)
	case c <= 4:
		return c
	case c <= 16:
		return c + 2
	default:
		return c * 14 / 10
	}
}

// Ladder returns the number of stress cycles and the worker ladder for a
// preset. Ladder values are in preset order and may repeat; every value is
// capped at MaxWorkers.
func Ladder(cores int, preset types.Preset, fast bool) (int, []int) {
	c := max(1, cores)
	half := max(1, c/2)

	switch preset {
	case types.PresetLight:
		base := c
		if fast {
			base = c * 2
		}
		return 1, capAll(half, base)
	case types.PresetHard:
		return 3, capAll(c, c*2, c*3)
	case types.PresetExtreme:
		return 4, capAll(c, c*2, c*3, c*4)
	default:
		return 2, capAll(half, c, c*2)
	}
}

func capAll(values ...int) []int {
	for i, v := range values {
		values[i] = min(v, MaxWorkers)
	}
	return values
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
