package resolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arc-language/wfnconf/internal/logger"
	"github.com/arc-language/wfnconf/pkg/core"
	"github.com/arc-language/wfnconf/pkg/finder"
)

var macRequired = core.RequiredFiles{
	{Key: "VULKAN_LIB", FileName: "libvulkan.1.dylib"},
	{Key: "MOLTENVK_ICD", FileName: "MoltenVK_icd.json"},
	{Key: "EXPLICIT_LAYER", FileName: "explicit_layer.d"},
}

// stubFinder answers from a fixed table and records the order of calls
type stubFinder struct {
	paths map[string]string
	calls []string
}

func (s *stubFinder) Find(dir, target string) (string, bool) {
	s.calls = append(s.calls, target)
	p, ok := s.paths[target]
	return p, ok
}

func TestResolve_KeySetMatchesInput(t *testing.T) {
	stub := &stubFinder{paths: map[string]string{"MoltenVK_icd.json": "/r/lib/b/MoltenVK_icd.json"}}
	r := New(stub, logger.Discard())

	resolved, err := r.Resolve(context.Background(), "/r/lib", macRequired)

	require.NoError(t, err)
	require.Equal(t, macRequired.Keys(), resolved.Keys())
	require.Equal(t, []string{"libvulkan.1.dylib", "MoltenVK_icd.json", "explicit_layer.d"}, stub.calls)
	require.ElementsMatch(t, []string{"VULKAN_LIB", "EXPLICIT_LAYER"}, resolved.Missing())
}

func TestResolve_SamePathForTwoKeys(t *testing.T) {
	stub := &stubFinder{paths: map[string]string{"libvulkan.so.1": "/r/lib/libvulkan.so.1"}}
	required := core.RequiredFiles{
		{Key: "VULKAN_LIB", FileName: "libvulkan.so.1"},
		{Key: "VULKAN_LOADER", FileName: "libvulkan.so.1"},
	}

	resolved, err := New(stub, logger.Discard()).Resolve(context.Background(), "/r/lib", required)

	require.NoError(t, err)
	require.Len(t, resolved, 2)
	require.Equal(t, resolved[0].Path, resolved[1].Path)
}

func TestResolve_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(&stubFinder{}, logger.Discard()).Resolve(ctx, "/r/lib", macRequired)

	require.ErrorIs(t, err, context.Canceled)
}

func TestResolve_MacScenario(t *testing.T) {
	// --- Arrange ---
	root := t.TempDir()
	lib := filepath.Join(root, "lib")
	for _, rel := range []string{"a/libvulkan.1.dylib", "b/MoltenVK_icd.json", "explicit_layer.d"} {
		path := filepath.Join(lib, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, nil, 0644))
	}

	f, err := finder.New(finder.Options{Logger: logger.Discard()})
	require.NoError(t, err)

	// --- Act ---
	resolved, err := New(f, logger.Discard()).Resolve(context.Background(), lib, macRequired)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, core.ResolvedFiles{
		{Key: "VULKAN_LIB", FileName: "libvulkan.1.dylib", Path: filepath.Join(lib, "a", "libvulkan.1.dylib"), Found: true},
		{Key: "MOLTENVK_ICD", FileName: "MoltenVK_icd.json", Path: filepath.Join(lib, "b", "MoltenVK_icd.json"), Found: true},
		{Key: "EXPLICIT_LAYER", FileName: "explicit_layer.d", Path: filepath.Join(lib, "explicit_layer.d"), Found: true},
	}, resolved)
}

func TestResolve_EmptyLibrary(t *testing.T) {
	lib := filepath.Join(t.TempDir(), "lib")
	require.NoError(t, os.Mkdir(lib, 0755))

	f, err := finder.New(finder.Options{Logger: logger.Discard()})
	require.NoError(t, err)

	resolved, err := New(f, logger.Discard()).Resolve(context.Background(), lib, macRequired)

	require.NoError(t, err)
	require.Equal(t, macRequired.Keys(), resolved.Missing())
}
