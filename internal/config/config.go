// Package config locates a citagraph repository and reads its settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents repository configuration stored in .citagraph/config.json.
type Config struct {
	Browser        string `json:"browser,omitempty"`         // Browser for open and viz --open; empty means system default
	DefaultLayout  string `json:"default_layout,omitempty"`  // viz layout when --layout is not given
	DefaultMode    string `json:"default_mode,omitempty"`    // author, pi, or decade
	CrossrefMailto string `json:"crossref_mailto,omitempty"` // Overrides the global contact address
}

const (
	CitagraphDir = ".citagraph"
	ConfigFile   = "config.json"
	GraphFile    = "graph.json"
	CacheDir     = "cache"
	DBFile       = "index.db"
)

// ErrNoRepository is returned when no .citagraph directory is found.
var ErrNoRepository = errors.New("not in a citagraph repository (no .citagraph directory found)")

// CitagraphPath returns the path to the .citagraph directory from a root path.
func CitagraphPath(root string) string {
	return filepath.Join(root, CitagraphDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, CitagraphDir, ConfigFile)
}

// GraphPath returns the path to graph.json from a root path.
func GraphPath(root string) string {
	return filepath.Join(root, CitagraphDir, GraphFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, CitagraphDir, CacheDir)
}

// DBPath returns the path to the search index from a root path.
func DBPath(root string) string {
	return filepath.Join(root, CitagraphDir, CacheDir, DBFile)
}

// IsRepository checks if the given path contains a citagraph repository.
func IsRepository(root string) bool {
	info, err := os.Stat(CitagraphPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a citagraph repository.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNoRepository
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root.
// A repository without config.json has the zero Config.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Init creates the .citagraph layout under root. Existing files are kept.
func Init(root string) error {
	if err := os.MkdirAll(CachePath(root), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", CitagraphDir, err)
	}
	if _, err := os.Stat(ConfigPath(root)); os.IsNotExist(err) {
		if err := (&Config{}).Save(root); err != nil {
			return err
		}
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}

// ResolveGraphPath decides which graph file a command operates on:
// an explicit path wins, then the repository found from start, then the
// global graph_path setting.
func ResolveGraphPath(explicit, start string) (path string, root string, err error) {
	if explicit != "" {
		return ExpandPath(explicit), "", nil
	}

	root, err = FindRepository(start)
	if err == nil {
		return GraphPath(root), root, nil
	}

	if p := GetGraphPath(); p != "" {
		return p, "", nil
	}
	return "", "", err
}
