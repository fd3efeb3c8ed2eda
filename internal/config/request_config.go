package config

// RequestConfig holds endpoint defaults used by the CLI when flags are absent
type RequestConfig struct {
	BaseURL string            `json:"base_url,omitempty" yaml:"base_url,omitempty" toml:"base_url,omitempty" validate:"omitempty,url"`
	Method  string            `json:"method,omitempty" yaml:"method,omitempty" toml:"method,omitempty" validate:"omitempty,httpmethod"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty" toml:"headers,omitempty"`
}

// NewDefaultRequestConfig creates default request configuration
func NewDefaultRequestConfig() RequestConfig {
	return RequestConfig{
		Method: DefaultRequestMethod,
	}
}
