package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/acidbeast/network-dispatcher/internal/common"
	"github.com/acidbeast/network-dispatcher/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultLogger(t *testing.T) {
	cfg := config.NewDefaultLogConfig()
	log, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestLoggerBuilder_JSONConsole(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.NewDefaultLogConfig()
	cfg.LogFormat = "json"
	cfg.LogLevel = "debug"

	l, err := NewLoggerBuilder().WithConfig(cfg).WithConsoleOutput(&buf).Build()
	require.NoError(t, err)

	l.GetZerolog().Debug().Str("component", "Dispatcher").Msg("HTTP request completed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "Dispatcher", entry["component"])
	assert.Equal(t, "HTTP request completed", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestLoggerBuilder_TextConsoleHasNoColor(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.NewDefaultLogConfig()
	cfg.LogFormat = "text"

	l, err := NewLoggerBuilder().WithConfig(cfg).WithConsoleOutput(&buf).Build()
	require.NoError(t, err)

	l.GetZerolog().Info().Msg("ready")
	assert.Contains(t, buf.String(), "ready")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestLoggerBuilder_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.NewDefaultLogConfig()
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"

	l, err := NewLoggerBuilder().WithConfig(cfg).WithConsoleOutput(&buf).Build()
	require.NoError(t, err)

	l.GetZerolog().Info().Msg("hidden")
	assert.Empty(t, buf.String())
}

func TestLoggerBuilder_FileOutput(t *testing.T) {
	var buf bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "logs", "netdispatch.log")
	cfg := config.NewDefaultLogConfig()
	cfg.LogFormat = "json"
	cfg.LogFile = logFile

	l, err := NewLoggerBuilder().WithConfig(cfg).WithConsoleOutput(&buf).Build()
	require.NoError(t, err)
	assert.True(t, l.Config().EnableFile)

	l.GetZerolog().Info().Msg("to file")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"to file"`)
	assert.Contains(t, buf.String(), "to file")
}

func TestLoggerBuilder_InvalidLevel(t *testing.T) {
	cfg := config.NewDefaultLogConfig()
	cfg.LogLevel = "chatty"

	_, err := NewLoggerBuilder().WithConfig(cfg).Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestLoggerBuilder_ValidateConfig(t *testing.T) {
	b := NewLoggerBuilder()
	b.config.EnableFile = true
	b.config.FilePath = ""

	_, err := b.Build()
	var vErr *common.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "file_path", vErr.Field)
}

func TestConfigConverter_Defaults(t *testing.T) {
	lc, err := NewConfigConverter().ConvertConfig(config.LogConfig{})
	require.NoError(t, err)

	assert.Equal(t, zerolog.InfoLevel, lc.Level)
	assert.Equal(t, FormatConsole, lc.Format)
	assert.False(t, lc.EnableFile)
	assert.Equal(t, config.DefaultMaxLogSizeMB, lc.MaxSizeMB)
	assert.Equal(t, config.DefaultMaxLogBackups, lc.MaxBackups)
}

func TestParsers(t *testing.T) {
	levels := map[string]zerolog.Level{
		"":      zerolog.InfoLevel,
		"DEBUG": zerolog.DebugLevel,
		"warn":  zerolog.WarnLevel,
		"trace": zerolog.TraceLevel,
	}
	for in, want := range levels {
		got, err := NewLogLevelParser().ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	formats := map[string]LogFormat{
		"json":    FormatJSON,
		"TEXT":    FormatText,
		"console": FormatConsole,
		"xml":     FormatConsole,
	}
	for in, want := range formats {
		assert.Equal(t, want, NewLogFormatParser().ParseFormat(in), in)
	}
	assert.Equal(t, "json", FormatJSON.String())
}
