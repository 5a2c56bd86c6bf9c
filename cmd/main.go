package main

import (
	"os"

	"github.com/spf13/cobra"

	"k8s.io/cli-runtime/pkg/genericclioptions"

	"github.com/lburgazzoli/kube-triage/cmd/triage"
	"github.com/lburgazzoli/kube-triage/cmd/version"
)

func main() {
	flags := genericclioptions.NewConfigFlags(true)

	cmd := &cobra.Command{
		Use:   "kubectl-triage",
		Short: "kubectl plugin for read-only cluster health triage",
	}

	version.AddCommand(cmd, flags)
	triage.AddCommand(cmd, flags)

	if err := cmd.Execute(); err != nil {
		if _, writeErr := os.Stderr.WriteString(err.Error() + "\n"); writeErr != nil {
			os.Exit(1)
		}
		os.Exit(1)
	}
}
