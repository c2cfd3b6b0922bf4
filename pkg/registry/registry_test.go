package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arc-language/wfnconf/pkg/core"
	"github.com/arc-language/wfnconf/pkg/platform"
)

func writeTables(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func mustPlatform(t *testing.T, goos string) *platform.Platform {
	t.Helper()
	p, err := platform.DetectFor(goos, "amd64")
	require.NoError(t, err)
	return p
}

func TestLoad_MissingFileUsesBuiltins(t *testing.T) {
	r, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	require.Empty(t, r.Source())
	require.Equal(t, mustPlatform(t, "darwin").RequiredFiles(), r.Lookup(mustPlatform(t, "darwin")))
}

func TestLoad_OverrideKeepsDocumentOrder(t *testing.T) {
	path := writeTables(t, `
[linux]
ZETA_LAYER = "zeta_layer.json"
VULKAN_LIB = "libvulkan.so.1"
ALPHA_ICD = "alpha_icd.json"
`)

	r, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, path, r.Source())
	require.True(t, r.Overrides("linux"))
	require.False(t, r.Overrides("darwin"))
	require.Equal(t, core.RequiredFiles{
		{Key: "ZETA_LAYER", FileName: "zeta_layer.json"},
		{Key: "VULKAN_LIB", FileName: "libvulkan.so.1"},
		{Key: "ALPHA_ICD", FileName: "alpha_icd.json"},
	}, r.Lookup(mustPlatform(t, "linux")))

	// tables not in the file fall back to the built-ins
	require.Equal(t, mustPlatform(t, "windows").RequiredFiles(), r.Lookup(mustPlatform(t, "windows")))
}

func TestLoad_ParseError(t *testing.T) {
	path := writeTables(t, "[linux\nVULKAN_LIB = ")

	_, err := Load(path)

	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse")
}

func TestLoad_EmptyFileName(t *testing.T) {
	path := writeTables(t, "[darwin]\nVULKAN_LIB = \"\"\n")

	_, err := Load(path)

	require.Error(t, err)
	require.Contains(t, err.Error(), "[darwin]")
}

func TestLookup_ReturnsCopy(t *testing.T) {
	r, err := Load(writeTables(t, "[linux]\nVULKAN_LIB = \"libvulkan.so.1\"\n"))
	require.NoError(t, err)

	p := mustPlatform(t, "linux")
	files := r.Lookup(p)
	files[0].FileName = "changed"

	require.Equal(t, "libvulkan.so.1", r.Lookup(p)[0].FileName)
}
