// internal/cli/generate.go
package cli

import (
	"github.com/spf13/cobra"

	"github.com/arc-language/wfnconf/pkg/env"
)

func newGenerateCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Resolve the required files and write config.env",
		Long: `Search the lib directory for every file the target platform needs and
write their paths to the env file, replacing its previous content.

Files that cannot be found are written with an empty value, or left out
entirely when the absent policy is "omit".`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.generate(cmd, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the env file instead of writing it")

	return cmd
}

func (a *app) generate(cmd *cobra.Command, dryRun bool) error {
	c, ok, err := a.configurator()
	if err != nil || !ok {
		return err
	}

	if dryRun {
		report, err := c.Plan(cmd.Context())
		if err != nil {
			return err
		}
		_, err = a.stdout.Write(env.Format(report.Entries))
		return err
	}

	_, err = c.Run(cmd.Context())
	return err
}
