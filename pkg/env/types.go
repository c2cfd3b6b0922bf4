package env

import (
	"fmt"

	"github.com/arc-language/wfnconf/pkg/core"
)

// Entry is one KEY=VALUE line
type Entry struct {
	Key   string
	Value string
}

// Entries keeps env file lines in write order
type Entries []Entry

// Get returns the value for key
func (e Entries) Get(key string) (string, bool) {
	for _, entry := range e {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return "", false
}

// Keys returns the keys in order
func (e Entries) Keys() []string {
	keys := make([]string, len(e))
	for i, entry := range e {
		keys[i] = entry.Key
	}
	return keys
}

// Map returns the entries as a map. Later duplicates win.
func (e Entries) Map() map[string]string {
	m := make(map[string]string, len(e))
	for _, entry := range e {
		m[entry.Key] = entry.Value
	}
	return m
}

// AbsentPolicy decides how a key whose file was not found is written
type AbsentPolicy string

const (
	// AbsentEmpty writes the key with an empty value (KEY=)
	AbsentEmpty AbsentPolicy = "empty"
	// AbsentOmit leaves the key out of the file
	AbsentOmit AbsentPolicy = "omit"
)

// ParseAbsentPolicy parses a policy name. The empty string selects AbsentEmpty.
func ParseAbsentPolicy(s string) (AbsentPolicy, error) {
	switch AbsentPolicy(s) {
	case "", AbsentEmpty:
		return AbsentEmpty, nil
	case AbsentOmit:
		return AbsentOmit, nil
	default:
		return "", fmt.Errorf("unknown absent policy %q (want %q or %q)", s, AbsentEmpty, AbsentOmit)
	}
}

// FromResolved turns resolutions into entries, applying policy to the ones
// that were not found
func FromResolved(resolved core.ResolvedFiles, policy AbsentPolicy) Entries {
	entries := make(Entries, 0, len(resolved))
	for _, r := range resolved {
		if !r.Found {
			if policy == AbsentOmit {
				continue
			}
			entries = append(entries, Entry{Key: r.Key})
			continue
		}
		entries = append(entries, Entry{Key: r.Key, Value: r.Path})
	}
	return entries
}
