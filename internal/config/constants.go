package config

const (
	// Dispatcher Defaults
	DefaultDispatcherTimeoutSecs     = 10
	DefaultDispatcherCachePolicy     = "reload_ignoring_cache"
	DefaultDispatcherMaxBodySize     = 4 * 1024 * 1024
	DefaultDispatcherUserAgent       = "netdispatch/1.0"
	DefaultDispatcherRequestIDHeader = ""
	DefaultDispatcherLogBodies       = false

	// HTTP Client Defaults
	DefaultHTTPClientTimeoutSecs         = 30
	DefaultHTTPClientFollowRedirects     = true
	DefaultHTTPClientMaxRedirects        = 10
	DefaultHTTPClientMaxIdleConns        = 100
	DefaultHTTPClientMaxIdleConnsPerHost = 10
	DefaultHTTPClientIdleConnTimeoutSecs = 90
	DefaultHTTPClientTLSTimeoutSecs      = 10
	DefaultHTTPClientDialTimeoutSecs     = 10
	DefaultHTTPClientKeepAliveSecs       = 30
	DefaultHTTPClientEnableHTTP2         = true

	// Request Defaults
	DefaultRequestMethod = "GET"

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Loader
	ConfigPathEnvVar  = "NETDISPATCH_CONFIG_PATH"
	MaxConfigFileSize = 10 * 1024 * 1024
)
