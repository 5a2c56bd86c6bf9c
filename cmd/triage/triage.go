package triage

import (
	"fmt"

	"github.com/spf13/cobra"

	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/cli-runtime/pkg/genericiooptions"

	triagepkg "github.com/lburgazzoli/kube-triage/pkg/triage"
)

const (
	cmdName  = "run"
	cmdShort = "Run the full diagnostic battery against the cluster"
)

const cmdLong = `
Runs a read-only battery of diagnostic probes against the cluster and prints
an aggregated health report.

Probes cover connectivity, nodes, operators, workloads, storage, custom
resources, events, etcd, logging and volume snapshots. Probes that do not
apply to the cluster (wrong distribution, missing API, missing namespace) are
reported as skipped, never silently dropped.

The command never mutates cluster state. The exit code reflects only whether
the battery could run at all: an unreachable or unauthenticated cluster fails
the command, individual probe findings do not.
`

const cmdExample = `
  # Run the full battery with human-readable output
  kubectl triage run

  # Emit the report as JSON
  kubectl triage run -o json

  # Flag snapshots older than 3 days and save a copy of the report
  kubectl triage run --snapshot-age 72h --save /tmp/reports

  # Show probe progress on stderr
  kubectl triage run -v
`

// AddCommand adds the triage run command to the root command.
func AddCommand(root *cobra.Command, flags *genericclioptions.ConfigFlags) {
	streams := genericiooptions.IOStreams{
		In:     root.InOrStdin(),
		Out:    root.OutOrStdout(),
		ErrOut: root.ErrOrStderr(),
	}

	command := triagepkg.NewCommand(streams)

	// Use the ConfigFlags from parent instead of creating new ones
	command.ConfigFlags = flags

	cmd := &cobra.Command{
		Use:           cmdName,
		Short:         cmdShort,
		Long:          cmdLong,
		Example:       cmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := command.Complete(); err != nil {
				return fmt.Errorf("completing command: %w", err)
			}

			if err := command.Validate(); err != nil {
				return fmt.Errorf("validating command: %w", err)
			}

			if err := command.Run(cmd.Context()); err != nil {
				return fmt.Errorf("running command: %w", err)
			}

			return nil
		},
	}

	command.AddFlags(cmd.Flags())

	root.AddCommand(cmd)
}
