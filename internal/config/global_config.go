package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/acidbeast/network-dispatcher/internal/common"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// GlobalConfig contains all configuration sections for the application
type GlobalConfig struct {
	DispatcherConfig DispatcherConfig `json:"dispatcher_config,omitempty" yaml:"dispatcher_config,omitempty" toml:"dispatcher_config,omitempty"`
	HTTPClientConfig HTTPClientConfig `json:"http_client_config,omitempty" yaml:"http_client_config,omitempty" toml:"http_client_config,omitempty"`
	LogConfig        LogConfig        `json:"log_config,omitempty" yaml:"log_config,omitempty" toml:"log_config,omitempty"`
	RequestConfig    RequestConfig    `json:"request_config,omitempty" yaml:"request_config,omitempty" toml:"request_config,omitempty"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		DispatcherConfig: NewDefaultDispatcherConfig(),
		HTTPClientConfig: NewDefaultHTTPClientConfig(),
		LogConfig:        NewDefaultLogConfig(),
		RequestConfig:    NewDefaultRequestConfig(),
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// It determines the config file path using GetConfigPath and picks the parser
// from the file extension: .yaml/.yml, .toml, anything else is JSON.
// Values absent from the file keep their defaults.
func LoadGlobalConfig(providedPath string, logger zerolog.Logger) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		logger.Debug().Msg("No config file found, using defaults")
		return cfg, nil
	}

	if !fileExists(filePath) {
		return nil, common.NewValidationError("config_file", filePath, "config file does not exist")
	}

	data, err := loadConfigFileContent(filePath)
	if err != nil {
		return nil, common.WrapError(err, "failed to load config file content")
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, common.WrapError(err, "failed to parse config content")
	}

	logger.Debug().Str("path", filePath).Msg("Configuration loaded")
	return cfg, nil
}

// loadConfigFileContent reads the config file, refusing oversized files
func loadConfigFileContent(filePath string) ([]byte, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxConfigFileSize {
		return nil, common.NewValidationError("config_file", filePath, "config file too large")
	}
	return os.ReadFile(filePath)
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	switch ext := strings.ToLower(filepath.Ext(filePath)); {
	case isYAMLFile(ext):
		return parseYAMLConfig(data, filePath, cfg)
	case ext == ".toml":
		return parseTOMLConfig(data, filePath, cfg)
	default:
		return parseJSONConfig(data, filePath, cfg)
	}
}

// isYAMLFile checks if the file extension indicates a YAML file
func isYAMLFile(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}

// parseYAMLConfig parses YAML configuration
func parseYAMLConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return common.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
	}
	return nil
}

// parseTOMLConfig parses TOML configuration
func parseTOMLConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		return common.NewError("failed to unmarshal TOML from '%s': %w", filePath, err)
	}
	return nil
}

// parseJSONConfig parses JSON configuration
func parseJSONConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := json.Unmarshal(data, cfg); err != nil {
		return common.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}
