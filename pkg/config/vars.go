package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "gnmsf"
	// EnvPrefix is the prefix of environment variables overriding
	// config.yaml.
	EnvPrefix = "GNMSF"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/gnmsf by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/gnmsf by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/gnmsf/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ModelsDir returns the default directory of model definitions.
// Returns ~/.config/gnmsf/models by default.
func ModelsDir(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "models")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/gnmsf/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// ModelsPath returns where model definitions are read from: the runtime
// path when given, then the configured directory, then the default one.
func (c *Config) ModelsPath() string {
	switch {
	case c.Input.ModelsPath != "":
		return c.Input.ModelsPath
	case c.ModelsDir != "":
		return c.ModelsDir
	default:
		return ModelsDir(c.HomeDir)
	}
}
