// internal/cli/exec.go
package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/arc-language/wfnconf/internal/logger"
	"github.com/arc-language/wfnconf/pkg/env"
)

func newExecCmd(a *app) *cobra.Command {
	var dotenvFiles []string

	cmd := &cobra.Command{
		Use:   "exec -- <command> [args...]",
		Short: "Run a command with config.env loaded into its environment",
		Long: `Run a command with the entries of the env file added to the current
environment. Entries override variables of the same name. The command's
exit status becomes wfnconf's exit status.

Values in the env file are taken verbatim. Files given with --env-file are
ordinary dotenv files (quotes, comments and $VAR expansion apply); they are
loaded first so config.env still wins.`,
		Example: `  wfnconf exec -- ./build/wfn_eng
  wfnconf exec --env-file .env.local -- ./build/wfn_eng
  wfnconf --root ~/src/wfn_eng exec -- cargo run`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.projectPaths()
			if err != nil {
				return err
			}

			entries, err := env.Read(p.EnvFilePath())
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("%s not found, run 'wfnconf generate' first", p.EnvFilePath())
				}
				return err
			}

			child := exec.CommandContext(cmd.Context(), args[0], args[1:]...)
			child.Env = os.Environ()
			for _, path := range dotenvFiles {
				extra, err := env.Load(path)
				if err != nil {
					return err
				}
				for key, value := range extra {
					child.Env = append(child.Env, key+"="+value)
				}
			}
			for _, e := range entries {
				child.Env = append(child.Env, e.Key+"="+e.Value)
			}
			child.Stdin = cmd.InOrStdin()
			child.Stdout = a.stdout
			child.Stderr = a.stderr

			logger.ForComponent("exec").Debug("running command", "command", args[0], "vars", len(entries), "dotenv_files", len(dotenvFiles))

			if err := child.Run(); err != nil {
				var exitErr *exec.ExitError
				if errors.As(err, &exitErr) {
					return &ExitError{Code: exitErr.ExitCode()}
				}
				return fmt.Errorf("running %s: %w", args[0], err)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&dotenvFiles, "env-file", nil, "additional dotenv file loaded before the env file (repeatable)")
	return cmd
}
