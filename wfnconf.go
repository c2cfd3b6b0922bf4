// wfnconf.go
package wfnconf

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/arc-language/wfnconf/pkg/core"
	"github.com/arc-language/wfnconf/pkg/env"
	"github.com/arc-language/wfnconf/pkg/finder"
	"github.com/arc-language/wfnconf/pkg/paths"
	"github.com/arc-language/wfnconf/pkg/platform"
	"github.com/arc-language/wfnconf/pkg/registry"
	"github.com/arc-language/wfnconf/pkg/resolver"
	"github.com/arc-language/wfnconf/pkg/unpack"
	"github.com/arc-language/wfnconf/pkg/watch"
)

// Re-export core types for convenience
type (
	Config        = core.Config
	Requirement   = core.Requirement
	RequiredFiles = core.RequiredFiles
	Resolution    = core.Resolution
	ResolvedFiles = core.ResolvedFiles
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return core.DefaultConfig()
}

// Report describes one generate run
type Report struct {
	Platform   *platform.Platform
	SearchRoot string
	EnvFile    string
	Resolved   ResolvedFiles
	Entries    env.Entries
	Unpacked   []unpack.Unpacked
}

// CheckResult compares the env file on disk with a fresh resolution
type CheckResult struct {
	EnvFile  string
	Exists   bool
	InSync   bool     // file content equals what generate would write
	Stale    []string // keys whose value differs, is missing, or is not expected
	Missing  []string // keys whose file could not be found
	Expected env.Entries
	Actual   env.Entries
}

// Err summarizes the result as an error, nil when the env file is usable as is
func (r *CheckResult) Err() error {
	switch {
	case !r.Exists:
		return &Error{Op: "check", Path: r.EnvFile, Err: ErrEnvFileMissing}
	case !r.InSync:
		return &Error{Op: "check", Path: r.EnvFile, Err: ErrStaleEnvFile}
	case len(r.Missing) > 0:
		return &Error{Op: "check", Path: r.EnvFile, Err: ErrAbsentValues}
	}
	return nil
}

// Option customizes a Configurator
type Option func(*Configurator)

// WithLogger sets the logger used by the Configurator and everything it drives
func WithLogger(logger *slog.Logger) Option {
	return func(c *Configurator) {
		c.logger = logger
	}
}

// Configurator discovers the platform's runtime files and writes the env file
type Configurator struct {
	cfg      *Config
	platform *platform.Platform
	paths    *paths.Resolver
	registry *registry.Registry
	resolver *resolver.Resolver
	unpacker *unpack.Unpacker
	policy   env.AbsentPolicy
	logger   *slog.Logger
}

// New validates cfg and prepares a Configurator. An unsupported target OS
// fails with ErrPlatformNotSupported before anything is read from disk.
func New(cfg *Config, opts ...Option) (*Configurator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	c := &Configurator{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	if err := cfg.Validate(); err != nil {
		return nil, &Error{Op: "config", Err: err}
	}

	goos := cfg.OS
	if goos == "" {
		goos = runtime.GOOS
	}
	p, err := platform.DetectFor(goos, "")
	if err != nil {
		return nil, err
	}
	c.platform = p

	root := cfg.Root
	if root == "" {
		root, err = paths.CurrentRoot()
		if err != nil {
			return nil, &Error{Op: "root", Err: err}
		}
	}
	c.paths = paths.New(root, cfg.LibDir, cfg.EnvFile, cfg.ProjectName)

	if !c.paths.IsExpectedRoot() {
		if cfg.RequireRoot {
			return nil, &Error{Op: "root", Path: c.paths.Root(), Err: ErrUnexpectedRoot}
		}
		c.logger.Warn("project root has an unexpected name",
			"root", c.paths.Root(), "expected", c.paths.ProjectName())
	}

	tablesPath := cfg.RequiredFiles
	if tablesPath == "" {
		tablesPath = registry.DefaultFileName
	}
	if !filepath.IsAbs(tablesPath) {
		tablesPath = filepath.Join(c.paths.Root(), tablesPath)
	}
	c.registry, err = registry.Load(tablesPath)
	if err != nil {
		return nil, &Error{Op: "registry", Path: tablesPath, Err: err}
	}

	f, err := finder.New(finder.Options{
		MaxDepth:     cfg.MaxDepth,
		SkipSymlinks: !cfg.FollowSymlinks,
		Ignore:       cfg.Ignore,
		Logger:       c.logger,
	})
	if err != nil {
		return nil, &Error{Op: "config", Err: err}
	}
	c.resolver = resolver.New(f, c.logger)
	c.unpacker = unpack.New(c.logger)

	c.policy, err = env.ParseAbsentPolicy(cfg.Absent)
	if err != nil {
		return nil, &Error{Op: "config", Err: err}
	}

	return c, nil
}

// Platform returns the target platform
func (c *Configurator) Platform() *platform.Platform {
	return c.platform
}

// Paths returns the project layout
func (c *Configurator) Paths() *paths.Resolver {
	return c.paths
}

// RequiredFiles returns the table in effect for the target platform
func (c *Configurator) RequiredFiles() RequiredFiles {
	return c.registry.Lookup(c.platform)
}

// Resolve searches the library tree for every required file without writing anything
func (c *Configurator) Resolve(ctx context.Context) (ResolvedFiles, error) {
	return c.resolver.Resolve(ctx, c.paths.LibraryRoot(), c.RequiredFiles())
}

// Plan does everything Run does except writing the env file
func (c *Configurator) Plan(ctx context.Context) (*Report, error) {
	report := &Report{
		Platform:   c.platform,
		SearchRoot: c.paths.LibraryRoot(),
		EnvFile:    c.paths.EnvFilePath(),
	}

	if c.cfg.Unpack {
		unpacked, err := c.unpacker.UnpackAll(ctx, report.SearchRoot)
		if err != nil {
			return nil, &Error{Op: "unpack", Path: report.SearchRoot, Err: err}
		}
		report.Unpacked = unpacked
	}

	resolved, err := c.Resolve(ctx)
	if err != nil {
		return nil, &Error{Op: "resolve", Path: report.SearchRoot, Err: err}
	}
	report.Resolved = resolved
	report.Entries = env.FromResolved(resolved, c.policy)

	return report, nil
}

// Run resolves every required file and writes the env file
func (c *Configurator) Run(ctx context.Context) (*Report, error) {
	report, err := c.Plan(ctx)
	if err != nil {
		return nil, err
	}

	if err := env.Write(report.EnvFile, report.Entries); err != nil {
		return nil, &Error{Op: "write", Path: report.EnvFile, Err: err}
	}

	c.logger.Info("env file written",
		"path", report.EnvFile,
		"platform", c.platform.String(),
		"resolved", len(report.Resolved)-len(report.Resolved.Missing()),
		"missing", len(report.Resolved.Missing()),
	)
	return report, nil
}

// Check compares the env file on disk against a fresh resolution. It never writes.
func (c *Configurator) Check(ctx context.Context) (*CheckResult, error) {
	report, err := c.Plan(ctx)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{
		EnvFile:  report.EnvFile,
		Expected: report.Entries,
		Missing:  report.Resolved.Missing(),
	}

	data, err := os.ReadFile(report.EnvFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			result.Stale = report.Entries.Keys()
			return result, nil
		}
		return nil, &Error{Op: "check", Path: report.EnvFile, Err: err}
	}
	result.Exists = true
	result.InSync = bytes.Equal(data, env.Format(report.Entries))

	actual, err := env.Read(report.EnvFile)
	if err != nil {
		// unparseable content is stale by definition
		result.Stale = report.Entries.Keys()
		return result, nil
	}
	result.Actual = actual
	result.Stale = staleKeys(report.Entries, actual)

	return result, nil
}

func staleKeys(expected, actual env.Entries) []string {
	var stale []string
	for _, e := range expected {
		if v, ok := actual.Get(e.Key); !ok || v != e.Value {
			stale = append(stale, e.Key)
		}
	}
	for _, a := range actual {
		if _, ok := expected.Get(a.Key); !ok {
			stale = append(stale, a.Key)
		}
	}
	return stale
}

// Watch runs once, then reruns whenever the library tree changes, until ctx
// is cancelled. A failed rerun is logged and the watch continues.
func (c *Configurator) Watch(ctx context.Context) error {
	if _, err := c.Run(ctx); err != nil {
		return err
	}

	lib := c.paths.LibraryRoot()
	if err := os.MkdirAll(lib, 0755); err != nil {
		return &Error{Op: "watch", Path: lib, Err: err}
	}

	w, err := watch.New(lib, watch.Config{
		Debounce: c.cfg.Watch.Debounce,
		Ignore:   c.cfg.Ignore,
		Logger:   c.logger,
	}, func(changed []string) {
		c.logger.Debug("rerunning", "changed", changed)
		if _, err := c.Run(ctx); err != nil && ctx.Err() == nil {
			c.logger.Error("rerun failed", "error", err)
		}
	})
	if err != nil {
		return &Error{Op: "watch", Path: lib, Err: err}
	}

	return w.Run(ctx)
}
