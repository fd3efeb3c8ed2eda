package config

import (
	"time"

	"github.com/acidbeast/network-dispatcher/internal/common"
	"github.com/acidbeast/network-dispatcher/pkg/dispatcher"
	"github.com/rs/zerolog"
)

// DispatcherConfig defines the per-request policy and observability of dispatchers
type DispatcherConfig struct {
	TimeoutSecs     int    `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" toml:"timeout_secs,omitempty" validate:"min=0"`
	CachePolicy     string `json:"cache_policy,omitempty" yaml:"cache_policy,omitempty" toml:"cache_policy,omitempty" validate:"omitempty,cachepolicy"`
	MaxBodySize     int64  `json:"max_body_size,omitempty" yaml:"max_body_size,omitempty" toml:"max_body_size,omitempty" validate:"min=0"`
	UserAgent       string `json:"user_agent,omitempty" yaml:"user_agent,omitempty" toml:"user_agent,omitempty"`
	RequestIDHeader string `json:"request_id_header,omitempty" yaml:"request_id_header,omitempty" toml:"request_id_header,omitempty"`
	LogBodies       bool   `json:"log_bodies" yaml:"log_bodies" toml:"log_bodies"`
}

// NewDefaultDispatcherConfig creates default dispatcher configuration
func NewDefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		TimeoutSecs:     DefaultDispatcherTimeoutSecs,
		CachePolicy:     DefaultDispatcherCachePolicy,
		MaxBodySize:     DefaultDispatcherMaxBodySize,
		UserAgent:       DefaultDispatcherUserAgent,
		RequestIDHeader: DefaultDispatcherRequestIDHeader,
		LogBodies:       DefaultDispatcherLogBodies,
	}
}

// Options translates the configuration into dispatcher options. The logger
// backs both the dispatcher diagnostics and the network logger.
func (c DispatcherConfig) Options(logger zerolog.Logger) ([]dispatcher.Option, error) {
	policy, err := dispatcher.ParseCachePolicy(c.CachePolicy)
	if err != nil {
		return nil, common.WrapError(err, "invalid dispatcher_config.cache_policy")
	}

	netLogger := dispatcher.NewZerologNetworkLogger(logger, c.LogBodies)
	if c.RequestIDHeader != "" {
		netLogger = netLogger.WithRequestIDHeader(c.RequestIDHeader)
	}

	opts := []dispatcher.Option{
		dispatcher.WithTimeout(time.Duration(c.TimeoutSecs) * time.Second),
		dispatcher.WithCachePolicy(policy),
		dispatcher.WithMaxBodySize(c.MaxBodySize),
		dispatcher.WithLogger(logger),
		dispatcher.WithNetworkLogger(netLogger),
	}
	if c.UserAgent != "" {
		opts = append(opts, dispatcher.WithUserAgent(c.UserAgent))
	}
	if c.RequestIDHeader != "" {
		opts = append(opts, dispatcher.WithRequestIDHeader(c.RequestIDHeader))
	}
	return opts, nil
}
