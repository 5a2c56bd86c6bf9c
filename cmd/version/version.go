package version

import (
	"github.com/spf13/cobra"

	"k8s.io/cli-runtime/pkg/genericclioptions"
)

// Version is the CLI version, overridden at build time via ldflags.
//
//nolint:gochecknoglobals // Build-time version injection
var Version = "dev"

// AddCommand adds the version command to the root command.
func AddCommand(root *cobra.Command, _ *genericclioptions.ConfigFlags) {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the kubectl-triage version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("kubectl-triage", Version)
		},
	}

	root.AddCommand(cmd)
}
