package httpclient

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/acidbeast/network-dispatcher/internal/common"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

// HTTPClient wraps a tuned net/http.Client. It satisfies dispatcher.HTTPClient.
type HTTPClient struct {
	client *http.Client
	config HTTPClientConfig
	logger zerolog.Logger
}

// NewHTTPClient creates a new HTTP client with the given configuration using net/http
func NewHTTPClient(config HTTPClientConfig, logger zerolog.Logger) (*HTTPClient, error) {
	logger = logger.With().Str("component", "HTTPClient").Logger()

	if config.MaxRedirects < 0 {
		return nil, common.NewValidationError("max_redirects", config.MaxRedirects, "must not be negative")
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          config.MaxIdleConns,
		MaxIdleConnsPerHost:   config.MaxIdleConnsPerHost,
		MaxConnsPerHost:       config.MaxConnsPerHost,
		IdleConnTimeout:       config.IdleConnTimeout,
		TLSHandshakeTimeout:   config.TLSHandshakeTimeout,
		ExpectContinueTimeout: config.ExpectContinueTimeout,
		DialContext: (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: config.KeepAlive,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: config.InsecureSkipVerify,
		},
	}

	if config.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			logger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
		} else {
			logger.Debug().Msg("HTTP/2 support enabled")
		}
	}

	if config.Proxy != "" {
		proxyURL, err := url.Parse(config.Proxy)
		if err != nil {
			return nil, common.WrapError(err, "failed to parse proxy URL")
		}
		if proxyURL.Scheme == "" || proxyURL.Host == "" {
			return nil, common.NewValidationError("proxy", config.Proxy, "proxy URL must be absolute")
		}
		transport.Proxy = http.ProxyURL(proxyURL)
		logger.Info().Str("proxy", proxyURL.Redacted()).Msg("HTTP client configured with proxy")
	}

	client := &http.Client{
		Transport:     transport,
		Timeout:       config.Timeout,
		CheckRedirect: redirectPolicy(config),
	}

	logger.Debug().
		Dur("timeout", config.Timeout).
		Bool("insecure_skip_verify", config.InsecureSkipVerify).
		Bool("follow_redirects", config.FollowRedirects).
		Int("max_redirects", config.MaxRedirects).
		Bool("http2_enabled", config.EnableHTTP2).
		Msg("HTTP client created")

	return &HTTPClient{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

func redirectPolicy(config HTTPClientConfig) func(*http.Request, []*http.Request) error {
	if !config.FollowRedirects {
		return func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	if config.MaxRedirects > 0 {
		return func(req *http.Request, via []*http.Request) error {
			if len(via) >= config.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", config.MaxRedirects)
			}
			return nil
		}
	}
	return nil
}

// Do sends req, adding the configured custom headers it does not already
// carry. The request is cloned before any header is touched.
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	if len(c.config.CustomHeaders) > 0 {
		req = req.Clone(req.Context())
		for key, value := range c.config.CustomHeaders {
			if req.Header.Get(key) == "" {
				req.Header.Set(key, value)
			}
		}
	}
	return c.client.Do(req)
}

// Client returns the underlying net/http client
func (c *HTTPClient) Client() *http.Client {
	return c.client
}

// Config returns a copy of the client configuration
func (c *HTTPClient) Config() HTTPClientConfig {
	cfg := c.config
	if c.config.CustomHeaders != nil {
		cfg.CustomHeaders = make(map[string]string, len(c.config.CustomHeaders))
		for k, v := range c.config.CustomHeaders {
			cfg.CustomHeaders[k] = v
		}
	}
	return cfg
}

// CloseIdleConnections closes idle keep-alive connections held by the transport
func (c *HTTPClient) CloseIdleConnections() {
	c.client.CloseIdleConnections()
}
