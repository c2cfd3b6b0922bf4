// pkg/registry/registry.go
package registry

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/arc-language/wfnconf/pkg/core"
	"github.com/arc-language/wfnconf/pkg/platform"
)

// DefaultFileName is looked up in the project root when no path is configured
const DefaultFileName = "required.toml"

// Registry holds required-file tables keyed by operating system.
// Tables loaded from a file take precedence over the built-in ones.
//
// The file has one table per OS, keys in the order they should be written:
//
//	[darwin]
//	VULKAN_LIB = "libvulkan.1.dylib"
//	MOLTENVK_ICD = "MoltenVK_icd.json"
type Registry struct {
	source    string
	overrides map[string]core.RequiredFiles
}

// New creates a Registry with only the built-in tables
func New() *Registry {
	return &Registry{overrides: make(map[string]core.RequiredFiles)}
}

// Load reads a tables file. A missing file yields a Registry with only the
// built-in tables.
func Load(path string) (*Registry, error) {
	r := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("registry: reading %s: %w", path, err)
	}

	var raw map[string]map[string]string
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("registry: failed to parse %s: %w", path, err)
	}

	// MetaData keeps document order, the decoded maps do not
	for _, key := range md.Keys() {
		if len(key) != 2 {
			continue
		}
		goos, name := key[0], key[1]
		r.overrides[goos] = append(r.overrides[goos], core.Requirement{
			Key:      name,
			FileName: raw[goos][name],
		})
	}

	for goos, files := range r.overrides {
		if err := files.Validate(); err != nil {
			return nil, fmt.Errorf("registry: table [%s] in %s: %w", goos, path, err)
		}
	}

	r.source = path
	return r, nil
}

// Source returns the file the overrides came from, or "" for built-ins only
func (r *Registry) Source() string {
	return r.source
}

// Overrides reports whether the file defines a table for goos
func (r *Registry) Overrides(goos string) bool {
	_, ok := r.overrides[goos]
	return ok
}

// Lookup returns the required files for a platform
func (r *Registry) Lookup(p *platform.Platform) core.RequiredFiles {
	if files, ok := r.overrides[p.OS]; ok {
		out := make(core.RequiredFiles, len(files))
		copy(out, files)
		return out
	}
	return p.RequiredFiles()
}
