package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequiredFiles_Validate(t *testing.T) {
	tests := []struct {
		name    string
		files   RequiredFiles
		wantErr bool
	}{
		{"empty table", nil, false},
		{"valid", RequiredFiles{{"VULKAN_LIB", "libvulkan.so.1"}, {"EXPLICIT_LAYER", "explicit_layer.d"}}, false},
		{"empty key", RequiredFiles{{"", "libvulkan.so.1"}}, true},
		{"empty file name", RequiredFiles{{"VULKAN_LIB", ""}}, true},
		{"duplicate key", RequiredFiles{{"VULKAN_LIB", "a"}, {"VULKAN_LIB", "b"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.files.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestResolvedFiles_Helpers(t *testing.T) {
	resolved := ResolvedFiles{
		{Key: "VULKAN_LIB", FileName: "libvulkan.1.dylib", Path: "/p/lib/libvulkan.1.dylib", Found: true},
		{Key: "MOLTENVK_ICD", FileName: "MoltenVK_icd.json"},
	}

	require.Equal(t, []string{"VULKAN_LIB", "MOLTENVK_ICD"}, resolved.Keys())
	require.Equal(t, []string{"MOLTENVK_ICD"}, resolved.Missing())

	r, ok := resolved.Lookup("VULKAN_LIB")
	require.True(t, ok)
	require.Equal(t, "/p/lib/libvulkan.1.dylib", r.Path)

	_, ok = resolved.Lookup("NOPE")
	require.False(t, ok)
}
