package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileGivesDefaults(t *testing.T) {
	t.Setenv("WFNCONF_ROOT", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), "")

	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("WFNCONF_ROOT", "")
	path := filepath.Join(t.TempDir(), "wfnconf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
absent: omit
max_depth: 6
ignore:
  - "**/.git"
watch:
  debounce: 1s
`), 0644))

	cfg, err := LoadConfig(path, "")

	require.NoError(t, err)
	require.Equal(t, "omit", cfg.Absent)
	require.Equal(t, 6, cfg.MaxDepth)
	require.Equal(t, []string{"**/.git"}, cfg.Ignore)
	require.Equal(t, time.Second, cfg.Watch.Debounce)
	require.Equal(t, "lib", cfg.LibDir)
	require.Equal(t, "config.env", cfg.EnvFile)
	require.True(t, cfg.FollowSymlinks)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvOverridesRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wfnconf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: /from/file\n"), 0644))
	t.Setenv("WFNCONF_ROOT", "/from/env")

	cfg, err := LoadConfig(path, "")

	require.NoError(t, err)
	require.Equal(t, "/from/env", cfg.Root)
}

func TestLoadConfig_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wfnconf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_depth: [not, a, number]\n"), 0644))

	_, err := LoadConfig(path, "")

	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing config")
}

func TestFindConfigPath_Precedence(t *testing.T) {
	t.Setenv("WFNCONF_CONFIG", "/env/config.yaml")

	require.Equal(t, "/explicit.yaml", FindConfigPath("/explicit.yaml", ""))
	require.Equal(t, "/env/config.yaml", FindConfigPath("", "/some/root"))
}

func TestFindConfigPath_ProjectRoot(t *testing.T) {
	t.Setenv("WFNCONF_CONFIG", "")
	root := t.TempDir()
	project := filepath.Join(root, ProjectConfigName)
	require.NoError(t, os.WriteFile(project, []byte("absent: omit\n"), 0644))

	t.Setenv("WFNCONF_ROOT", "")
	require.Equal(t, project, FindConfigPath("", root))

	t.Setenv("WFNCONF_ROOT", root)
	require.Equal(t, project, FindConfigPath("", ""))

	cfg, err := LoadConfig("", root)
	require.NoError(t, err)
	require.Equal(t, "omit", cfg.Absent)

	// a root without wfnconf.yaml falls back to the per-user file
	require.Equal(t, DefaultConfigPath(), FindConfigPath("", t.TempDir()))
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Setenv("WFNCONF_ROOT", "")
	path := filepath.Join(t.TempDir(), "nested", "wfnconf.yaml")
	cfg := DefaultConfig()
	cfg.Absent = "omit"
	cfg.Ignore = []string{"cache/**"}
	cfg.Watch.Debounce = 2 * time.Second

	require.NoError(t, SaveConfig(cfg, path))
	loaded, err := LoadConfig(path, "")

	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"absent policy", func(c *Config) { c.Absent = "None" }},
		{"negative depth", func(c *Config) { c.MaxDepth = -2 }},
		{"bad glob", func(c *Config) { c.Ignore = []string{"[abc"} }},
		{"log format", func(c *Config) { c.LogFormat = "xml" }},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }},
	}

	require.NoError(t, DefaultConfig().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
