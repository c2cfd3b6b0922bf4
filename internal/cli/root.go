// internal/cli/root.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arc-language/wfnconf"
	"github.com/arc-language/wfnconf/internal/logger"
	"github.com/arc-language/wfnconf/pkg/core"
	"github.com/arc-language/wfnconf/pkg/paths"
	"github.com/arc-language/wfnconf/pkg/platform"
)

// app carries flag values and the loaded configuration between commands
type app struct {
	cfgFile   string
	root      string
	goos      string
	logFormat string
	debug     bool
	unpack    bool

	config *core.Config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

// Execute runs the command line and returns the process exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCommand(os.Stdout, os.Stderr)
	err := cmd.ExecuteContext(ctx)
	return exitCode(err, os.Stderr)
}

// NewRootCommand builds the full command tree writing to the given streams
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "wfnconf",
		Short: "Generate the wfn_eng runtime env file",
		Long: `wfnconf - runtime file configurator for wfn_eng

Searches the project's lib directory for the files the engine needs on this
platform and writes their locations to config.env as KEY=VALUE lines.
Run without a subcommand from the project root to regenerate config.env.`,
		Version:           Version,
		Args:              usageArgs(cobra.NoArgs),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.generate(cmd, false)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &ExitError{Code: 2, Err: err}
	})

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is wfnconf.yaml in the project root, then $XDG_CONFIG_HOME/wfnconf/config.yaml)")
	flags.StringVar(&a.root, "root", "", "project root (default is the working directory)")
	flags.StringVar(&a.goos, "os", "", "target operating system (darwin, linux, windows)")
	flags.BoolVar(&a.debug, "debug", false, "enable debug logging")
	flags.StringVar(&a.logFormat, "log-format", "", "log format (text, json)")
	flags.BoolVar(&a.unpack, "unpack", false, "extract SDK archives in the lib directory before searching")

	// Add commands
	rootCmd.AddCommand(newGenerateCmd(a))
	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newPlatformsCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newExecCmd(a))
	rootCmd.AddCommand(newInitCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// setup loads the config, applies flag overrides and installs the logger
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := core.LoadConfig(a.cfgFile, a.root)
	if err != nil {
		return err
	}

	// Override config with flags
	if a.root != "" {
		cfg.Root = a.root
	}
	if a.goos != "" {
		cfg.OS = a.goos
	}
	if a.debug {
		cfg.Debug = true
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}
	if cmd.Flags().Changed("unpack") {
		cfg.Unpack = a.unpack
	}

	if err := cfg.Validate(); err != nil {
		return &ExitError{Code: 2, Err: fmt.Errorf("invalid configuration: %w", err)}
	}

	logCfg := logger.DefaultConfig()
	logCfg.Format = cfg.LogFormat
	logCfg.Output = a.stderr
	if cfg.Debug {
		logCfg.Level = slog.LevelDebug
	}
	if err := logger.Init(logCfg); err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	a.config = cfg
	a.logger = slog.Default()
	return nil
}

// configurator builds the Configurator. ok is false when the target OS is
// unsupported; the message has already been printed then and the command
// should stop without error.
func (a *app) configurator() (c *wfnconf.Configurator, ok bool, err error) {
	c, err = wfnconf.New(a.config, wfnconf.WithLogger(a.logger))
	if err != nil {
		var unsupported *platform.UnsupportedError
		if errors.As(err, &unsupported) {
			fmt.Fprintf(a.stdout, "Platform '%s' is not supported.\n", unsupported.OS)
			return nil, false, nil
		}
		return nil, false, err
	}
	return c, true, nil
}

// projectPaths resolves the project layout without touching the platform
func (a *app) projectPaths() (*paths.Resolver, error) {
	root := a.config.Root
	if root == "" {
		var err error
		root, err = paths.CurrentRoot()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
	}
	return paths.New(root, a.config.LibDir, a.config.EnvFile, a.config.ProjectName), nil
}

// targetOS returns the OS commands act for
func (a *app) targetOS() string {
	if a.config.OS != "" {
		return a.config.OS
	}
	return platform.Current()
}
