// pkg/core/config.go
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// ProjectConfigName is the config file looked up in the project root
const ProjectConfigName = "wfnconf.yaml"

// Config holds wfnconf configuration
type Config struct {
	Root           string      `yaml:"root"`            // Project root (default: working directory)
	LibDir         string      `yaml:"lib_dir"`         // Library directory under the root
	EnvFile        string      `yaml:"env_file"`        // Env file name or absolute path
	ProjectName    string      `yaml:"project_name"`    // Expected name of the root directory
	RequireRoot    bool        `yaml:"require_root"`    // Refuse to run from an unexpected root
	Absent         string      `yaml:"absent"`          // empty or omit
	MaxDepth       int         `yaml:"max_depth"`       // 0 = unlimited
	FollowSymlinks bool        `yaml:"follow_symlinks"` // Descend into symlinked directories
	Ignore         []string    `yaml:"ignore"`          // doublestar patterns relative to the lib dir
	Unpack         bool        `yaml:"unpack"`          // Extract SDK archives before searching
	RequiredFiles  string      `yaml:"required_files"`  // TOML tables file (default: <root>/required.toml)
	OS             string      `yaml:"os"`              // Target OS (default: this one)
	Debug          bool        `yaml:"debug"`
	LogFormat      string      `yaml:"log_format"` // text or json
	Watch          WatchConfig `yaml:"watch"`
}

// WatchConfig holds watch mode settings
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Root:           "", // Working directory
		LibDir:         "lib",
		EnvFile:        "config.env",
		ProjectName:    "wfn_eng",
		Absent:         "empty",
		FollowSymlinks: true,
		LogFormat:      "text",
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
	}
}

// DefaultConfigPath returns the per-user config file location
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "wfnconf", "config.yaml")
}

// FindConfigPath resolves which config file to read.
//
// Precedence:
//  1. explicit argument
//  2. WFNCONF_CONFIG env var
//  3. wfnconf.yaml in the project root, if present. The root is the given
//     one, else WFNCONF_ROOT, else the working directory.
//  4. the per-user config file
func FindConfigPath(explicit, root string) string {
	if explicit != "" {
		return explicit
	}
	if v := os.Getenv("WFNCONF_CONFIG"); v != "" {
		return v
	}
	if root == "" {
		root = os.Getenv("WFNCONF_ROOT")
	}
	project := filepath.Join(root, ProjectConfigName)
	if _, err := os.Stat(project); err == nil {
		return project
	}
	return DefaultConfigPath()
}

// LoadConfig loads configuration from file, found as FindConfigPath does.
// Values missing from the file keep their defaults, and a missing file
// yields the defaults.
func LoadConfig(path, root string) (*Config, error) {
	cfg := DefaultConfig()

	path = FindConfigPath(path, root)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv lets environment variables override file values
func (c *Config) applyEnv() {
	if root := os.Getenv("WFNCONF_ROOT"); root != "" {
		c.Root = root
	}
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate rejects values the rest of the program cannot act on
func (c *Config) Validate() error {
	switch c.Absent {
	case "", "empty", "omit":
	default:
		return fmt.Errorf("absent: unknown policy %q (want empty or omit)", c.Absent)
	}

	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth: must not be negative, got %d", c.MaxDepth)
	}

	for _, pattern := range c.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("ignore: invalid pattern %q", pattern)
		}
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log_format: must be text or json, got %q", c.LogFormat)
	}

	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce: must not be negative")
	}

	return nil
}
