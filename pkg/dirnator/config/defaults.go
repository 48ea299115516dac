package config

import "path/filepath"

// Default values for configuration options.
const (
	// DefaultOut is the directory reports are written to.
	DefaultOut = "dirnator/out"

	// DefaultName tags map report file names.
	DefaultName = "run"

	// DefaultRuns is the number of bench repetitions per worker count.
	DefaultRuns = 1

	// DefaultFormat writes both text and binary map reports.
	DefaultFormat = "both"

	// DefaultPreset is the bench and stress sweep shape.
	DefaultPreset = "balanced"

	// EnvPrefix prefixes environment overrides, e.g. DIRNATOR_ROOT.
	EnvPrefix = "DIRNATOR"
)

// DefaultRoot is the filesystem root.
var DefaultRoot = string(filepath.Separator)

// defaultConfigYAML is written by WriteDefault.
const defaultConfigYAML = `# dirnator configuration

# Mode to run when --mode is not given: map, bench, stress or disk.
# Leave empty to be prompted on a terminal (map otherwise).
mode: ""

# Tree to scan
root: %s

# Directory reports are written to
out: %s

# Uncomment to pin the worker count instead of deriving it from CPU cores
# workers: 8

# Bias the derived worker count upward
fast: false

# Map report formats: text, bin or both
fmt: %s

# Sweep shape for bench and stress: light, balanced, hard or extreme
preset: %s

# Bench repetitions per worker count
runs: %d

# Tag used in map report file names
name: %s

# Cross-check map scans against an independent walk
verify: false

# Run history
history:
  enabled: true
  # Empty means $XDG_DATA_HOME/dirnator/history
  path: ""

# Logging
logging:
  # debug, info, warn, error
  level: info
  # Empty means $XDG_STATE_HOME/dirnator/dirnator.log
  path: ""
  rotation:
    max_size_mb: 10
    max_age: 30       # days
    max_backups: 5
    compress: false
  components:
    scanner: info
`
