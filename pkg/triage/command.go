package triage

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"k8s.io/cli-runtime/pkg/genericiooptions"

	"github.com/lburgazzoli/kube-triage/pkg/capability"
	"github.com/lburgazzoli/kube-triage/pkg/cmd"
	"github.com/lburgazzoli/kube-triage/pkg/printer"
	printerjson "github.com/lburgazzoli/kube-triage/pkg/printer/json"
	printeryaml "github.com/lburgazzoli/kube-triage/pkg/printer/yaml"
	"github.com/lburgazzoli/kube-triage/pkg/probe"
	"github.com/lburgazzoli/kube-triage/pkg/probes/connectivity"
	"github.com/lburgazzoli/kube-triage/pkg/probes/crds"
	"github.com/lburgazzoli/kube-triage/pkg/probes/etcd"
	"github.com/lburgazzoli/kube-triage/pkg/probes/events"
	"github.com/lburgazzoli/kube-triage/pkg/probes/logging"
	"github.com/lburgazzoli/kube-triage/pkg/probes/nodes"
	"github.com/lburgazzoli/kube-triage/pkg/probes/olm"
	"github.com/lburgazzoli/kube-triage/pkg/probes/operators"
	"github.com/lburgazzoli/kube-triage/pkg/probes/snapshots"
	"github.com/lburgazzoli/kube-triage/pkg/probes/storage"
	"github.com/lburgazzoli/kube-triage/pkg/probes/workloads"
	"github.com/lburgazzoli/kube-triage/pkg/report"
	"github.com/lburgazzoli/kube-triage/pkg/util/iostreams"
)

// Verify Command implements cmd.Command interface at compile time.
var _ cmd.Command = (*Command)(nil)

// Command contains the triage command configuration.
type Command struct {
	*SharedOptions

	// catalog is the ordered probe battery for this command instance.
	// Explicitly populated to avoid global state and enable test isolation.
	catalog *probe.Catalog
}

// NewCommand creates a new Command with defaults and the full probe battery.
func NewCommand(streams genericiooptions.IOStreams) *Command {
	shared := NewSharedOptions(streams)

	c := &Command{
		SharedOptions: shared,
	}

	return c
}

// AddFlags registers command-specific flags with the provided FlagSet.
func (c *Command) AddFlags(fs *pflag.FlagSet) {
	fs.VarP(&c.OutputFormat, "output", "o", "Output format (table, json, yaml)")
	fs.BoolVarP(&c.Verbose, "verbose", "v", false, "Show progress messages on stderr")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "Maximum duration for the whole run")
	fs.DurationVar(&c.SnapshotAge, "snapshot-age", c.SnapshotAge, "Flag volume snapshots older than this")
	fs.StringVarP(&c.SaveDir, "save", "s", "", "Directory to save a plain-text copy of the report to")

	// Throttling settings
	fs.Float32Var(&c.QPS, "qps", c.QPS, "Kubernetes API QPS limit (queries per second)")
	fs.IntVar(&c.Burst, "burst", c.Burst, "Kubernetes API burst capacity")
}

// Complete populates Options and performs pre-validation setup.
func (c *Command) Complete() error {
	if err := c.SharedOptions.Complete(); err != nil {
		return fmt.Errorf("completing shared options: %w", err)
	}

	// Wrap IO with QuietWrapper if NOT in verbose mode (default is quiet)
	if !c.Verbose {
		c.IO = iostreams.NewQuietWrapper(c.IO)
	}

	// Assemble the battery after flags are parsed so the snapshot cutoff is
	// final.
	c.catalog = NewCatalog(c.SnapshotAge)

	return nil
}

// NewCatalog assembles the full probe battery. Registration order is
// execution order and report order.
func NewCatalog(snapshotAge time.Duration) *probe.Catalog {
	catalog := probe.NewCatalog()
	catalog.MustRegister(connectivity.New())
	catalog.MustRegister(nodes.New())
	catalog.MustRegister(operators.New())
	catalog.MustRegister(olm.New())
	catalog.MustRegister(workloads.New())
	catalog.MustRegister(storage.NewVolumes())
	catalog.MustRegister(storage.NewCeph())
	catalog.MustRegister(crds.New())
	catalog.MustRegister(events.New())
	catalog.MustRegister(etcd.New())
	catalog.MustRegister(logging.New())
	catalog.MustRegister(snapshots.New(snapshots.WithMaxAge(snapshotAge)))

	return catalog
}

// Validate checks that all required options are valid.
func (c *Command) Validate() error {
	if err := c.SharedOptions.Validate(); err != nil {
		return fmt.Errorf("validating shared options: %w", err)
	}

	return nil
}

// Run executes the probe battery and renders the report.
//
// Only an unreachable or unauthenticated cluster fails the command; probe
// outcomes never affect the exit code.
func (c *Command) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	c.IO.Errorf("Detecting cluster capabilities...")

	cluster, err := capability.Detect(ctx, c.Client)
	if err != nil {
		return err
	}

	c.IO.Errorf("Detected %s cluster with %d nodes", cluster.Dialect, cluster.NodeCount)

	target := probe.Target{
		Client:        c.Client,
		Dialect:       cluster.Dialect,
		ServerVersion: cluster.ServerVersion,
		Namespaces:    capability.NewNamespaceCache(c.Client),
		IO:            c.IO,
	}

	runner := probe.NewRunner(c.IO)
	executions := runner.ExecuteAll(ctx, target, c.catalog)

	assembled := report.Assemble(executions)

	if err := c.output(assembled); err != nil {
		return err
	}

	if c.SaveDir != "" {
		path, err := assembled.Save(c.SaveDir)
		if err != nil {
			return fmt.Errorf("saving report: %w", err)
		}

		c.IO.Errorf("Report saved to %s", path)
	}

	return nil
}

// output renders the report in the requested format.
func (c *Command) output(assembled *report.Report) error {
	switch c.OutputFormat {
	case printer.Table:
		if err := assembled.Render(c.IO.Out(), !color.NoColor); err != nil {
			return fmt.Errorf("rendering report: %w", err)
		}

		return nil
	case printer.JSON:
		renderer := printerjson.NewRenderer[*report.Report](
			printerjson.WithWriter[*report.Report](c.IO.Out()),
		)

		if err := renderer.Render(assembled); err != nil {
			return fmt.Errorf("rendering JSON output: %w", err)
		}

		return nil
	case printer.YAML:
		renderer := printeryaml.NewRenderer[*report.Report](
			printeryaml.WithWriter[*report.Report](c.IO.Out()),
		)

		if err := renderer.Render(assembled); err != nil {
			return fmt.Errorf("rendering YAML output: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", c.OutputFormat)
	}
}
