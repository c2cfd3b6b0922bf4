// Package finder locates a single file by exact name inside a directory tree.
//
// The search is depth-first in directory listing order: at each level the
// entries are checked one by one, and a subdirectory is searched completely
// before its later siblings are looked at. The first match wins.
//
// Directories that cannot be listed are treated as empty. The failure is
// logged and counted, never returned to the caller.
package finder

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Options tunes a Finder. The zero value searches without limits, follows
// symlinked directories and logs through slog.Default().
type Options struct {
	// MaxDepth limits how deep the search goes. Entries directly inside the
	// search root are at depth 1. Zero means unlimited.
	MaxDepth int

	// SkipSymlinks stops the finder from descending into symlinked directories
	SkipSymlinks bool

	// Ignore holds doublestar patterns matched against the slash-separated
	// path relative to the search root
	Ignore []string

	Logger *slog.Logger
}

// Stats describes the work done by one search
type Stats struct {
	Visited int // directories listed
	Skipped int // directories that could not be listed and symlinks that could not be resolved
	Pruned  int // directories not entered (ignored, depth limit, already visited)
}

// Result is the outcome of one search
type Result struct {
	Path  string
	Found bool
	Stats Stats
}

// Finder searches directory trees for files by name
type Finder struct {
	opts   Options
	logger *slog.Logger
}

// New validates the options and returns a Finder
func New(opts Options) (*Finder, error) {
	if opts.MaxDepth < 0 {
		return nil, fmt.Errorf("max depth must not be negative, got %d", opts.MaxDepth)
	}
	for _, pattern := range opts.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Finder{
		opts:   opts,
		logger: logger.With("component", "finder"),
	}, nil
}

// Find returns the path of the first entry named target under dir
func (f *Finder) Find(dir, target string) (string, bool) {
	res := f.Search(dir, target)
	return res.Path, res.Found
}

// frame is one directory being iterated on the explicit DFS stack
type frame struct {
	dir     string
	entries []os.DirEntry
	next    int
	depth   int // depth of the entries in this frame
}

// Search is Find with traversal statistics
func (f *Finder) Search(dir, target string) Result {
	var res Result
	visited := make(map[string]struct{})

	root, ok := f.open(dir, 1, visited, &res.Stats)
	if !ok {
		return res
	}

	stack := []*frame{root}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next >= len(top.entries) {
			stack = stack[:len(stack)-1]
			continue
		}

		entry := top.entries[top.next]
		top.next++

		path := filepath.Join(top.dir, entry.Name())
		if f.ignored(dir, path) {
			if entry.IsDir() {
				res.Stats.Pruned++
			}
			continue
		}

		if entry.Name() == target {
			res.Path = path
			res.Found = true
			f.logger.Debug("match", "target", target, "path", path)
			return res
		}

		isDir, err := f.isDir(path, entry)
		if err != nil {
			f.logger.Warn("skipping unresolvable symlink", "path", path, "error", err)
			res.Stats.Skipped++
			continue
		}
		if !isDir {
			continue
		}

		if f.opts.MaxDepth > 0 && top.depth >= f.opts.MaxDepth {
			res.Stats.Pruned++
			continue
		}

		if child, ok := f.open(path, top.depth+1, visited, &res.Stats); ok {
			stack = append(stack, child)
		}
	}

	return res
}

// open lists dir and returns a stack frame for it. Unreadable and already
// visited directories yield no frame.
func (f *Finder) open(dir string, depth int, visited map[string]struct{}, stats *Stats) (*frame, bool) {
	key := dir
	if real, err := filepath.EvalSymlinks(dir); err == nil {
		key = real
	}
	if _, seen := visited[key]; seen {
		f.logger.Debug("directory already visited", "path", dir, "target", key)
		stats.Pruned++
		return nil, false
	}
	visited[key] = struct{}{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		f.logger.Warn("skipping unreadable directory", "path", dir, "error", err)
		stats.Skipped++
		return nil, false
	}
	stats.Visited++

	return &frame{dir: dir, entries: entries, depth: depth}, true
}

// isDir reports whether entry is a directory, following symlinks unless
// they are skipped. A symlink whose target cannot be read is an error.
func (f *Finder) isDir(path string, entry os.DirEntry) (bool, error) {
	if entry.IsDir() {
		return true, nil
	}
	if entry.Type()&fs.ModeSymlink == 0 || f.opts.SkipSymlinks {
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (f *Finder) ignored(root, path string) bool {
	if len(f.opts.Ignore) == 0 {
		return false
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range f.opts.Ignore {
		if match, _ := doublestar.Match(pattern, rel); match {
			return true
		}
	}
	return false
}
