// pkg/core/files.go
package core

import "fmt"

// Requirement names one file the engine needs at runtime
type Requirement struct {
	Key      string // Logical key written to the env file (e.g., "VULKAN_LIB")
	FileName string // Exact file or directory name to look for
}

// RequiredFiles is an ordered set of requirements. The order is the order
// keys are searched and written in.
type RequiredFiles []Requirement

// Validate checks that keys are present and unique
func (rf RequiredFiles) Validate() error {
	seen := make(map[string]bool, len(rf))
	for _, r := range rf {
		if r.Key == "" {
			return fmt.Errorf("requirement for %q has an empty key", r.FileName)
		}
		if r.FileName == "" {
			return fmt.Errorf("requirement %s has an empty file name", r.Key)
		}
		if seen[r.Key] {
			return fmt.Errorf("duplicate requirement key %s", r.Key)
		}
		seen[r.Key] = true
	}
	return nil
}

// Keys returns the logical keys in order
func (rf RequiredFiles) Keys() []string {
	keys := make([]string, 0, len(rf))
	for _, r := range rf {
		keys = append(keys, r.Key)
	}
	return keys
}

// Resolution is the result of searching for one requirement
type Resolution struct {
	Key      string
	FileName string
	Path     string // Absolute path, empty when not found
	Found    bool
}

// ResolvedFiles holds one resolution per requirement, in requirement order
type ResolvedFiles []Resolution

// Lookup returns the resolution for key
func (rf ResolvedFiles) Lookup(key string) (Resolution, bool) {
	for _, r := range rf {
		if r.Key == key {
			return r, true
		}
	}
	return Resolution{}, false
}

// Missing returns the keys that were not found
func (rf ResolvedFiles) Missing() []string {
	var missing []string
	for _, r := range rf {
		if !r.Found {
			missing = append(missing, r.Key)
		}
	}
	return missing
}

// Keys returns the logical keys in order
func (rf ResolvedFiles) Keys() []string {
	keys := make([]string, 0, len(rf))
	for _, r := range rf {
		keys = append(keys, r.Key)
	}
	return keys
}
