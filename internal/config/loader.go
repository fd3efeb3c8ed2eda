package config

import (
	"os"
	"path/filepath"
)

// defaultConfigFiles are probed in order in every default location
var defaultConfigFiles = []string{"config.yaml", "config.yml", "config.json", "config.toml"}

// GetConfigPath determines the configuration file path based on command-line flags,
// environment variables, and default locations.
// Priority:
// 1. the path passed in (usually the --config flag), returned even if missing
// 2. NETDISPATCH_CONFIG_PATH environment variable, when the file exists
// 3. config.yaml, config.yml, config.json, config.toml in the current working directory
// 4. the same names in the executable's directory
// An empty result means no config file was found.
func GetConfigPath(configFilePathFlag string) string {
	if configFilePathFlag != "" {
		return configFilePathFlag
	}

	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" && fileExists(envPath) {
		return envPath
	}

	cwd, errCwd := os.Getwd()
	exePath, errExe := os.Executable()
	exeDir := ""
	if errExe == nil {
		exeDir = filepath.Dir(exePath)
	}

	var locations []string
	if errCwd == nil {
		locations = append(locations, cwd)
	}
	if exeDir != "" && (errCwd != nil || exeDir != cwd) {
		locations = append(locations, exeDir)
	}

	for _, loc := range locations {
		for _, file := range defaultConfigFiles {
			path := filepath.Join(loc, file)
			if fileExists(path) {
				return path
			}
		}
	}
	return ""
}

// fileExists reports whether filename exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
