// Package types provides core data types shared across the dirnator packages.
// It includes the operating mode, report format and sweep preset enums, the
// hardware description embedded in reports, and helpers for formatting sizes.
package types

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
)

// Mode selects what a dirnator run does.
type Mode int

// Operating modes. ModeMenu means no mode was chosen and the interactive
// prompt should decide.
const (
	ModeMenu Mode = iota
	ModeMap
	ModeBench
	ModeStress
	ModeDisk
)

// String returns the name used on the command line and in reports.
func (m Mode) String() string {
	switch m {
	case ModeMap:
		return "map"
	case ModeBench:
		return "bench"
	case ModeStress:
		return "stress"
	case ModeDisk:
		return "disk"
	default:
		return "menu"
	}
}

// ParseMode parses a mode name. Unknown names yield ModeMenu.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "map":
		return ModeMap
	case "bench":
		return ModeBench
	case "stress":
		return ModeStress
	case "disk":
		return ModeDisk
	default:
		return ModeMenu
	}
}

// Format selects which map reports are written in map mode.
type Format int

// Report formats.
const (
	FormatBoth Format = iota
	FormatText
	FormatBin
)

// String returns the flag value for the format.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatBin:
		return "bin"
	default:
		return "both"
	}
}

// WantsText reports whether the text map report should be written.
func (f Format) WantsText() bool {
	return f == FormatText || f == FormatBoth
}

// WantsBin reports whether the binary map report should be written.
func (f Format) WantsBin() bool {
	return f == FormatBin || f == FormatBoth
}

// ParseFormat parses a format name. Unknown names yield FormatBoth.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return FormatText
	case "bin":
		return FormatBin
	default:
		return FormatBoth
	}
}

// Preset names the shape of a bench or stress sweep.
type Preset int

// Sweep presets, from the lightest to the heaviest.
const (
	PresetBalanced Preset = iota
	PresetLight
	PresetHard
	PresetExtreme
)

// String returns the flag value for the preset.
func (p Preset) String() string {
	switch p {
	case PresetLight:
		return "light"
	case PresetHard:
		return "hard"
	case PresetExtreme:
		return "extreme"
	default:
		return "balanced"
	}
}

// ParsePreset parses a preset name. Unknown names yield PresetBalanced.
func ParsePreset(s string) Preset {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return PresetLight
	case "hard":
		return PresetHard
	case "extreme":
		return PresetExtreme
	default:
		return PresetBalanced
	}
}

// Hardware describes the host a run was measured on.
type Hardware struct {
	OS    string `json:"os" yaml:"os"`
	Arch  string `json:"arch" yaml:"arch"`
	Cores int    `json:"cores" yaml:"cores"`
	RAMMB uint64 `json:"ram_mb" yaml:"ram_mb"`
}

// String renders the hardware as a single key=value line.
func (h Hardware) String() string {
	return fmt.Sprintf("os=%s arch=%s cores=%d ram_mb=%d", h.OS, h.Arch, h.Cores, h.RAMMB)
}

// FormatSize converts a size in bytes to a human-readable string
// using binary (IEC) units.
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int64) string {
	return humanize.Comma(n)
}
