package config

import (
	"time"

	"github.com/acidbeast/network-dispatcher/internal/httpclient"
)

// HTTPClientConfig defines the transport shared by all dispatchers
type HTTPClientConfig struct {
	TimeoutSecs             int               `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" toml:"timeout_secs,omitempty" validate:"min=0"`
	InsecureSkipVerify      bool              `json:"insecure_skip_verify" yaml:"insecure_skip_verify" toml:"insecure_skip_verify"`
	FollowRedirects         bool              `json:"follow_redirects" yaml:"follow_redirects" toml:"follow_redirects"`
	MaxRedirects            int               `json:"max_redirects,omitempty" yaml:"max_redirects,omitempty" toml:"max_redirects,omitempty" validate:"min=0"`
	Proxy                   string            `json:"proxy,omitempty" yaml:"proxy,omitempty" toml:"proxy,omitempty" validate:"omitempty,url"`
	CustomHeaders           map[string]string `json:"custom_headers,omitempty" yaml:"custom_headers,omitempty" toml:"custom_headers,omitempty"`
	MaxIdleConns            int               `json:"max_idle_conns,omitempty" yaml:"max_idle_conns,omitempty" toml:"max_idle_conns,omitempty" validate:"min=0"`
	MaxIdleConnsPerHost     int               `json:"max_idle_conns_per_host,omitempty" yaml:"max_idle_conns_per_host,omitempty" toml:"max_idle_conns_per_host,omitempty" validate:"min=0"`
	MaxConnsPerHost         int               `json:"max_conns_per_host,omitempty" yaml:"max_conns_per_host,omitempty" toml:"max_conns_per_host,omitempty" validate:"min=0"`
	IdleConnTimeoutSecs     int               `json:"idle_conn_timeout_secs,omitempty" yaml:"idle_conn_timeout_secs,omitempty" toml:"idle_conn_timeout_secs,omitempty" validate:"min=0"`
	TLSHandshakeTimeoutSecs int               `json:"tls_handshake_timeout_secs,omitempty" yaml:"tls_handshake_timeout_secs,omitempty" toml:"tls_handshake_timeout_secs,omitempty" validate:"min=0"`
	DialTimeoutSecs         int               `json:"dial_timeout_secs,omitempty" yaml:"dial_timeout_secs,omitempty" toml:"dial_timeout_secs,omitempty" validate:"min=0"`
	KeepAliveSecs           int               `json:"keep_alive_secs,omitempty" yaml:"keep_alive_secs,omitempty" toml:"keep_alive_secs,omitempty" validate:"min=0"`
	EnableHTTP2             bool              `json:"enable_http2" yaml:"enable_http2" toml:"enable_http2"`
}

// NewDefaultHTTPClientConfig creates default HTTP client configuration
func NewDefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		TimeoutSecs:             DefaultHTTPClientTimeoutSecs,
		FollowRedirects:         DefaultHTTPClientFollowRedirects,
		MaxRedirects:            DefaultHTTPClientMaxRedirects,
		MaxIdleConns:            DefaultHTTPClientMaxIdleConns,
		MaxIdleConnsPerHost:     DefaultHTTPClientMaxIdleConnsPerHost,
		IdleConnTimeoutSecs:     DefaultHTTPClientIdleConnTimeoutSecs,
		TLSHandshakeTimeoutSecs: DefaultHTTPClientTLSTimeoutSecs,
		DialTimeoutSecs:         DefaultHTTPClientDialTimeoutSecs,
		KeepAliveSecs:           DefaultHTTPClientKeepAliveSecs,
		EnableHTTP2:             DefaultHTTPClientEnableHTTP2,
	}
}

// ClientConfig converts the file representation into an httpclient configuration.
// Custom headers extend the transport defaults rather than replacing them.
func (c HTTPClientConfig) ClientConfig() httpclient.HTTPClientConfig {
	cfg := httpclient.DefaultHTTPClientConfig()
	cfg.Timeout = secs(c.TimeoutSecs)
	cfg.InsecureSkipVerify = c.InsecureSkipVerify
	cfg.FollowRedirects = c.FollowRedirects
	cfg.MaxRedirects = c.MaxRedirects
	cfg.Proxy = c.Proxy
	cfg.MaxIdleConns = c.MaxIdleConns
	cfg.MaxIdleConnsPerHost = c.MaxIdleConnsPerHost
	cfg.MaxConnsPerHost = c.MaxConnsPerHost
	cfg.IdleConnTimeout = secs(c.IdleConnTimeoutSecs)
	cfg.TLSHandshakeTimeout = secs(c.TLSHandshakeTimeoutSecs)
	cfg.DialTimeout = secs(c.DialTimeoutSecs)
	cfg.KeepAlive = secs(c.KeepAliveSecs)
	cfg.EnableHTTP2 = c.EnableHTTP2
	for k, v := range c.CustomHeaders {
		cfg.CustomHeaders[k] = v
	}
	return cfg
}

func secs(n int) time.Duration {
	return time.Duration(n) * time.Second
}
