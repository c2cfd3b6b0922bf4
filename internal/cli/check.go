// internal/cli/check.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify config.env is present and up to date",
		Long: `Resolve the required files again and compare the result with the env
file on disk. Nothing is written.

Exits with status 1 when the file is missing, differs from what generate
would write, or has keys whose file could not be found.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok, err := a.configurator()
			if err != nil || !ok {
				return err
			}

			result, err := c.Check(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "Env file: %s\n", result.EnvFile)
			if !result.Exists {
				fmt.Fprintf(a.stdout, "  missing, run 'wfnconf generate'\n")
			}
			for _, key := range result.Stale {
				fmt.Fprintf(a.stdout, "  stale    %s\n", key)
			}
			for _, key := range result.Missing {
				fmt.Fprintf(a.stdout, "  absent   %s\n", key)
			}

			if err := result.Err(); err != nil {
				return &ExitError{Code: 1, Err: err}
			}

			fmt.Fprintf(a.stdout, "  ok\n")
			return nil
		},
	}
}
