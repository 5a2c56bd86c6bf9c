package client

import (
	"fmt"

	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/client-go/rest"
)

const (
	// DefaultQPS is the default sustained request rate against the API server.
	// Higher than kubectl's default: a triage run issues many small list calls
	// back to back and should not be throttled between probes.
	DefaultQPS = 50

	// DefaultBurst is the default burst capacity for the API client.
	DefaultBurst = 100
)

// ConfigureThrottling sets client-side rate limits on a REST config.
func ConfigureThrottling(config *rest.Config, qps float32, burst int) {
	config.QPS = qps
	config.Burst = burst
}

// NewRESTConfig creates a REST config with CLI-appropriate throttling.
func NewRESTConfig(
	configFlags *genericclioptions.ConfigFlags,
	qps float32,
	burst int,
) (*rest.Config, error) {
	restConfig, err := configFlags.ToRESTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create REST config: %w", err)
	}

	ConfigureThrottling(restConfig, qps, burst)

	return restConfig, nil
}
