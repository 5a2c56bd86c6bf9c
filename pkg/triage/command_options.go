package triage

import (
	"errors"
	"fmt"
	"time"

	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/cli-runtime/pkg/genericiooptions"

	"github.com/lburgazzoli/kube-triage/pkg/printer"
	"github.com/lburgazzoli/kube-triage/pkg/snapshot"
	"github.com/lburgazzoli/kube-triage/pkg/util/client"
	"github.com/lburgazzoli/kube-triage/pkg/util/iostreams"
)

// DefaultTimeout bounds a full triage run to keep slow clusters from hanging
// the command forever.
const DefaultTimeout = 5 * time.Minute

// SharedOptions contains options common to the triage command.
type SharedOptions struct {
	// IO provides structured access to stdin, stdout, stderr with convenience methods
	IO iostreams.Interface

	// ConfigFlags provides access to kubeconfig and context
	ConfigFlags *genericclioptions.ConfigFlags

	// OutputFormat specifies the output format (table, json, yaml)
	OutputFormat printer.OutputFormat

	// Verbose enables progress messages (default: false, quiet by default)
	Verbose bool

	// Timeout is the maximum duration for the whole run
	Timeout time.Duration

	// SnapshotAge is the staleness cutoff for volume snapshots
	SnapshotAge time.Duration

	// SaveDir, when set, persists a plain-text copy of the report there
	SaveDir string

	// Client is the Kubernetes client (populated during Complete)
	Client *client.Client

	// Throttling settings for Kubernetes API client
	QPS   float32
	Burst int
}

// NewSharedOptions creates a new SharedOptions with defaults.
func NewSharedOptions(streams genericiooptions.IOStreams) *SharedOptions {
	return &SharedOptions{
		ConfigFlags:  genericclioptions.NewConfigFlags(true),
		OutputFormat: printer.Table,
		Timeout:      DefaultTimeout,
		SnapshotAge:  snapshot.DefaultMaxAge,
		IO:           iostreams.NewIOStreams(streams.In, streams.Out, streams.ErrOut),
		QPS:          client.DefaultQPS,
		Burst:        client.DefaultBurst,
	}
}

// Complete populates the client and performs pre-validation setup.
func (o *SharedOptions) Complete() error {
	c, err := client.NewClient(o.ConfigFlags, o.QPS, o.Burst)
	if err != nil {
		return fmt.Errorf("failed to create Kubernetes client: %w", err)
	}

	o.Client = c

	return nil
}

// Validate checks that all required options are valid.
func (o *SharedOptions) Validate() error {
	if err := o.OutputFormat.Validate(); err != nil {
		return err
	}

	if o.Timeout <= 0 {
		return errors.New("timeout must be greater than 0")
	}

	if o.SnapshotAge <= 0 {
		return errors.New("snapshot-age must be greater than 0")
	}

	return nil
}
