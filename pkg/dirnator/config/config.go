// Package config loads dirnator's configuration from flags, environment
// variables and an optional YAML file, and resolves it into the immutable
// Run record the modes consume.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/jamesainslie/dirnator/pkg/dirnator/history"
	"github.com/jamesainslie/dirnator/pkg/dirnator/logging"
	"github.com/jamesainslie/dirnator/pkg/dirnator/types"
)

// ErrRootNotFound is returned when the scan root does not exist.
var ErrRootNotFound = errors.New("root path not found")

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxAge     int  `mapstructure:"max_age" yaml:"max_age"`
	MaxBackups int  `mapstructure:"max_backups" yaml:"max_backups"`
	Compress   bool `mapstructure:"compress" yaml:"compress"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level" yaml:"level"`
	Path       string            `mapstructure:"path" yaml:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation" yaml:"rotation"`
	Components map[string]string `mapstructure:"components" yaml:"components"`
}

// HistoryConfig configures the run history store.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// Config is the loaded configuration before resolution.
type Config struct {
	Mode    string        `mapstructure:"mode" yaml:"mode"`
	Root    string        `mapstructure:"root" yaml:"root"`
	Out     string        `mapstructure:"out" yaml:"out"`
	Workers int           `mapstructure:"workers" yaml:"workers,omitempty"`
	Fast    bool          `mapstructure:"fast" yaml:"fast"`
	Format  string        `mapstructure:"fmt" yaml:"fmt"`
	Preset  string        `mapstructure:"preset" yaml:"preset"`
	Runs    int           `mapstructure:"runs" yaml:"runs"`
	Name    string        `mapstructure:"name" yaml:"name"`
	Verify  bool          `mapstructure:"verify" yaml:"verify"`
	History HistoryConfig `mapstructure:"history" yaml:"history"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// Run is the resolved, immutable configuration of one invocation.
type Run struct {
	Mode types.Mode
	Root string
	Out  string

	// Workers is non-nil only when a worker count was given explicitly.
	Workers *int

	Fast   bool
	Format types.Format
	Preset types.Preset
	Runs   int
	Name   string
	Verify bool
}

// New returns a viper instance with dirnator's defaults and environment
// binding (DIRNATOR_ prefix, dots and dashes mapped to underscores).
// workers deliberately has no default so IsSet reports an explicit value.
func New() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", "")
	v.SetDefault("root", DefaultRoot)
	v.SetDefault("out", DefaultOut)
	v.SetDefault("fast", false)
	v.SetDefault("fmt", DefaultFormat)
	v.SetDefault("preset", DefaultPreset)
	v.SetDefault("runs", DefaultRuns)
	v.SetDefault("name", DefaultName)
	v.SetDefault("verify", false)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.rotation.max_size_mb", 10)
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.compress", false)

	return v
}

// ReadFile reads path into v, or the default config file when path is
// empty. A missing default file is not an error; a missing explicit file is.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

// Load unmarshals v into a Config.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// Resolve turns the loaded values into a Run. Unknown formats fall back to
// both, unknown presets to balanced, and runs to at least one. mode
// overrides the configured mode unless it is ModeMenu.
func Resolve(v *viper.Viper, mode types.Mode) (Run, error) {
	cfg, err := Load(v)
	if err != nil {
		return Run{}, err
	}

	if mode == types.ModeMenu {
		mode = types.ParseMode(cfg.Mode)
	}

	root, err := ExpandPath(cfg.Root)
	if err != nil {
		return Run{}, err
	}
	out, err := ExpandPath(cfg.Out)
	if err != nil {
		return Run{}, err
	}

	run := Run{
		Mode:   mode,
		Root:   root,
		Out:    out,
		Fast:   cfg.Fast,
		Format: types.ParseFormat(cfg.Format),
		Preset: types.ParsePreset(cfg.Preset),
		Runs:   max(1, cfg.Runs),
		Name:   cfg.Name,
		Verify: cfg.Verify,
	}
	if run.Name == "" {
		run.Name = DefaultName
	}
	if v.IsSet("workers") {
		w := v.GetInt("workers")
		run.Workers = &w
	}

	return run, nil
}

// CheckRoot verifies that the scan root exists.
func CheckRoot(root string) error {
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}
	return nil
}

// LoggingConfig converts the logging section into a logging.Config. verbose
// enables debug output on stderr.
func (c *Config) LoggingConfig(verbose bool) logging.Config {
	lc := logging.Config{
		Level:      c.Logging.Level,
		Path:       c.Logging.Path,
		Components: c.Logging.Components,
		Rotation: logging.RotationConfig{
			MaxSizeMB:  c.Logging.Rotation.MaxSizeMB,
			MaxAge:     c.Logging.Rotation.MaxAge,
			MaxBackups: c.Logging.Rotation.MaxBackups,
			Compress:   c.Logging.Rotation.Compress,
		},
	}
	if verbose {
		lc.ConsoleLevel = "debug"
	}
	return lc
}

// HistoryPath returns the configured history path or the XDG default.
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		if p, err := ExpandPath(c.History.Path); err == nil {
			return p
		}
	}
	return history.DefaultPath()
}

// Dir returns $XDG_CONFIG_HOME/dirnator.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, "dirnator")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// WriteDefault writes a commented default config file to path unless one
// already exists. It reports whether a file was written.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory: %w", err)
	}

	content := fmt.Sprintf(defaultConfigYAML,
		DefaultRoot, DefaultOut, DefaultFormat, DefaultPreset, DefaultRuns, DefaultName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("writing default config: %w", err)
	}
	return true, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}
