package logging_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/dirnator/pkg/dirnator/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    logging.Level
		wantErr bool
	}{
		{input: "debug", want: logging.LevelDebug},
		{input: "INFO", want: logging.LevelInfo},
		{input: "", want: logging.LevelInfo},
		{input: "warning", want: logging.LevelWarn},
		{input: "warn", want: logging.LevelWarn},
		{input: "error", want: logging.LevelError},
		{input: "loud", want: logging.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, logging.ErrInvalidLevel))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "debug", logging.LevelDebug.String())
	assert.Equal(t, "error", logging.LevelError.String())
	assert.Equal(t, "unknown", logging.Level(42).String())
}

// No t.Parallel() below: Init and Close modify global state.

func TestInitRejectsBadLevels(t *testing.T) {
	dir := t.TempDir()

	err := logging.Init(logging.Config{Level: "nope", Path: filepath.Join(dir, "a.log")})
	assert.ErrorIs(t, err, logging.ErrInvalidLevel)

	err = logging.Init(logging.Config{
		Level:      "info",
		Path:       filepath.Join(dir, "b.log"),
		Components: map[string]string{"scanner": "shout"},
	})
	assert.ErrorIs(t, err, logging.ErrInvalidLevel)

	err = logging.Init(logging.Config{Level: "info", Path: filepath.Join(dir, "c.log"), ConsoleLevel: "???"})
	assert.ErrorIs(t, err, logging.ErrInvalidLevel)
}

func TestLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "dirnator.log")

	// Obtained before Init; must pick up the file output afterwards.
	early := logging.Get("early")

	require.NoError(t, logging.Init(logging.Config{
		Level:      "info",
		Path:       path,
		Components: map[string]string{"chatty": "debug"},
	}))

	early.Info("hello from early", "n", 1)
	logging.Get("quiet").Debug("filtered debug line")
	logging.Get("chatty").Debug("kept debug line")
	logging.Get("ctx").With("run", "abc").Warn("with context")

	require.NoError(t, logging.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "hello from early")
	assert.Contains(t, content, "early")
	assert.Contains(t, content, "kept debug line")
	assert.NotContains(t, content, "filtered debug line")
	assert.Contains(t, content, "run=abc")
}

func TestGetReturnsSameLogger(t *testing.T) {
	a := logging.Get("same")
	b := logging.Get("same")
	assert.Same(t, a, b)
}

func TestLoggingBeforeInitIsSilent(t *testing.T) {
	require.NoError(t, logging.Close())
	assert.NotPanics(t, func() {
		logging.Get("silent").Error("goes nowhere")
	})
}

func TestCloseWithoutInit(t *testing.T) {
	require.NoError(t, logging.Close())
	require.NoError(t, logging.Close())
}

func TestDefaultConfig(t *testing.T) {
	cfg := logging.DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "dirnator.log", filepath.Base(cfg.Path))
	assert.Equal(t, 10, cfg.Rotation.MaxSizeMB)
}

func TestNewRotatingWriterCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "x.log")

	w, err := logging.NewRotatingWriter(path, logging.RotationConfig{})
	require.NoError(t, err)
	assert.Equal(t, 10, w.MaxSize)

	_, err = w.Write([]byte("line\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
