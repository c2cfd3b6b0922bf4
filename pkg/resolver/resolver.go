// pkg/resolver/resolver.go
package resolver

import (
	"context"
	"log/slog"

	"github.com/arc-language/wfnconf/pkg/core"
)

// Finder locates a single file by name under a directory
type Finder interface {
	Find(dir, target string) (string, bool)
}

// Resolver maps every requirement of a platform table to a path
type Resolver struct {
	finder Finder
	logger *slog.Logger
}

// New creates a Resolver on top of finder
func New(finder Finder, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		finder: finder,
		logger: logger.With("component", "resolver"),
	}
}

// Resolve searches searchRoot once per requirement. The result has exactly
// the keys of required, in the same order. A file that is not found is
// reported with Found=false; only cancellation returns an error.
func (r *Resolver) Resolve(ctx context.Context, searchRoot string, required core.RequiredFiles) (core.ResolvedFiles, error) {
	resolved := make(core.ResolvedFiles, 0, len(required))

	for _, req := range required {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path, found := r.finder.Find(searchRoot, req.FileName)
		resolved = append(resolved, core.Resolution{
			Key:      req.Key,
			FileName: req.FileName,
			Path:     path,
			Found:    found,
		})

		if found {
			r.logger.Info("resolved", "key", req.Key, "path", path)
		} else {
			r.logger.Warn("required file not found", "key", req.Key, "file", req.FileName, "root", searchRoot)
		}
	}

	return resolved, nil
}
