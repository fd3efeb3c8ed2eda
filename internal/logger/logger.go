package logger

import (
	"io"

	"github.com/acidbeast/network-dispatcher/internal/common"
	"github.com/acidbeast/network-dispatcher/internal/config"
	"github.com/rs/zerolog"
)

// Logger represents the main logger with configuration
type Logger struct {
	zerolog zerolog.Logger
	config  LoggerConfig
	closers []io.Closer
}

// GetZerolog returns the underlying zerolog instance
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zerolog
}

// Config returns the effective logger configuration
func (l *Logger) Config() LoggerConfig {
	return l.config
}

// Close releases file writers. Console output is left untouched.
func (l *Logger) Close() error {
	var collector common.ErrorCollector
	for _, c := range l.closers {
		collector.Add(c.Close())
	}
	return collector.Error()
}

// New creates a new zerolog logger from the application log configuration
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	logger, err := NewLoggerBuilder().WithConfig(cfg).Build()
	if err != nil {
		return zerolog.Logger{}, err
	}
	return *logger.GetZerolog(), nil
}
