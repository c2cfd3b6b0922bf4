// internal/cli/platforms.go
package cli

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arc-language/wfnconf/pkg/platform"
	"github.com/arc-language/wfnconf/pkg/registry"
)

func newPlatformsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List supported platforms and their required files",
		Long:  `List every supported platform with the files it requires. Tables from the required files registry replace the built-in ones.`,
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.loadRegistry()
			if err != nil {
				return err
			}

			current := a.targetOS()
			w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)

			for _, goos := range platform.Supported() {
				marker := " "
				if goos == current {
					marker = "*"
				}
				source := "built-in"
				if reg.Overrides(goos) {
					source = reg.Source()
				}
				fmt.Fprintf(w, "%s %s\t(%s)\n", marker, goos, source)

				p, err := platform.DetectFor(goos, "")
				if err != nil {
					return err
				}
				for _, req := range reg.Lookup(p) {
					fmt.Fprintf(w, "    %s\t%s\n", req.Key, req.FileName)
				}
			}

			fmt.Fprintf(w, "\n* = target platform\n")
			return w.Flush()
		},
	}
}

// loadRegistry reads the required files registry for the project
func (a *app) loadRegistry() (*registry.Registry, error) {
	tablesPath := a.config.RequiredFiles
	if tablesPath == "" {
		tablesPath = registry.DefaultFileName
	}
	if !filepath.IsAbs(tablesPath) {
		p, err := a.projectPaths()
		if err != nil {
			return nil, err
		}
		tablesPath = filepath.Join(p.Root(), tablesPath)
	}
	return registry.Load(tablesPath)
}
