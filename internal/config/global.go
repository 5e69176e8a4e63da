package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/citagraph/config.yml.
type GlobalConfig struct {
	GraphPath       string `yaml:"graph_path,omitempty"`
	CrossrefMailto  string `yaml:"crossref_mailto,omitempty"`
	CrossrefBaseURL string `yaml:"crossref_base_url,omitempty"`
	Browser         string `yaml:"browser,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "citagraph"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/citagraph/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	cfg.GraphPath = ExpandPath(cfg.GraphPath)

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetConfigValue returns the environment variable if set, otherwise configValue.
func GetConfigValue(envKey, configValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return configValue
}

// loadOrEmpty treats an unreadable global config as empty.
func loadOrEmpty() *GlobalConfig {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return &GlobalConfig{}
	}
	return cfg
}

// GetGraphPath returns the default graph file from global config.
func GetGraphPath() string {
	return loadOrEmpty().GraphPath
}

// GetCrossrefMailto returns the Crossref contact address.
// CROSSREF_MAILTO takes priority over the config file.
func GetCrossrefMailto() string {
	return GetConfigValue("CROSSREF_MAILTO", loadOrEmpty().CrossrefMailto)
}

// GetCrossrefBaseURL returns the Crossref API base URL override, or "".
func GetCrossrefBaseURL() string {
	return GetConfigValue("CROSSREF_BASE_URL", loadOrEmpty().CrossrefBaseURL)
}

// GetBrowser returns the configured browser, or "" for the system default.
func GetBrowser() string {
	return loadOrEmpty().Browser
}

// HelpfulConfigMessage explains how to point citagraph at a graph file.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`No citagraph repository found.

Run 'citagraph init' to create one here, pass --file, or create %s
to set a default graph:
  mkdir -p %s
  echo 'graph_path: /path/to/graph.json' > %s`,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
