// internal/cli/watch.go
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate config.env whenever the lib directory changes",
		Long: `Generate the env file once, then watch the lib directory and regenerate
it after every burst of changes. Stops on interrupt.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("debounce") {
				if debounce < 0 {
					return &ExitError{Code: 2, Err: fmt.Errorf("--debounce must not be negative")}
				}
				a.config.Watch.Debounce = debounce
			}

			c, ok, err := a.configurator()
			if err != nil || !ok {
				return err
			}

			return c.Watch(cmd.Context())
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before regenerating (default from config, 300ms)")

	return cmd
}
