// pkg/platform/tables.go
package platform

import (
	"fmt"

	"github.com/arc-language/wfnconf/pkg/core"
)

// macOS ships Vulkan through MoltenVK, which needs its ICD manifest
func darwinTable() core.RequiredFiles {
	return core.RequiredFiles{
		{Key: "VULKAN_LIB", FileName: "libvulkan.1.dylib"},
		{Key: "MOLTENVK_ICD", FileName: "MoltenVK_icd.json"},
		{Key: "EXPLICIT_LAYER", FileName: "explicit_layer.d"},
	}
}

func linuxTable() core.RequiredFiles {
	return core.RequiredFiles{
		{Key: "VULKAN_LIB", FileName: "libvulkan.so.1"},
		{Key: "EXPLICIT_LAYER", FileName: "explicit_layer.d"},
	}
}

func windowsTable() core.RequiredFiles {
	return core.RequiredFiles{
		{Key: "VULKAN_LIB", FileName: "vulkan-1.dll"},
		{Key: "EXPLICIT_LAYER", FileName: "explicit_layer.d"},
	}
}

// RequiredFiles returns the built-in table for an operating system.
// A fresh slice is returned on every call.
func RequiredFiles(goos string) (core.RequiredFiles, error) {
	switch goos {
	case "darwin":
		return darwinTable(), nil
	case "linux":
		return linuxTable(), nil
	case "windows":
		return windowsTable(), nil
	default:
		return nil, &UnsupportedError{OS: goos}
	}
}

// RequiredFiles returns the built-in table for this platform
func (p *Platform) RequiredFiles() core.RequiredFiles {
	files, err := RequiredFiles(p.OS)
	if err != nil {
		// DetectFor only builds platforms with a table
		panic(fmt.Sprintf("platform %s has no table", p.OS))
	}
	return files
}
