package client

import (
	"bytes"
	"context"
	"fmt"

	corev1client "k8s.io/client-go/kubernetes/typed/core/v1"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/remotecommand"
)

// PodExecutor runs a command inside a pod container and returns its combined
// output. Implementations must not require a TTY.
type PodExecutor interface {
	Exec(ctx context.Context, namespace string, pod string, container string, command ...string) (string, error)
}

type spdyExecutor struct {
	config *rest.Config
	core   corev1client.CoreV1Interface
}

// NewSPDYExecutor creates a PodExecutor backed by the pods/exec subresource
// over SPDY.
func NewSPDYExecutor(config *rest.Config, core corev1client.CoreV1Interface) PodExecutor {
	return &spdyExecutor{
		config: config,
		core:   core,
	}
}

// Exec streams the command through pods/exec and returns stdout. A non-empty
// stderr is folded into the error when the stream fails.
func (e *spdyExecutor) Exec(
	ctx context.Context,
	namespace string,
	pod string,
	container string,
	command ...string,
) (string, error) {
	req := e.core.RESTClient().Post().
		Resource("pods").
		Name(pod).
		Namespace(namespace).
		SubResource("exec").
		Param("container", container).
		Param("stdout", "true").
		Param("stderr", "true")

	for _, c := range command {
		req = req.Param("command", c)
	}

	executor, err := remotecommand.NewSPDYExecutor(e.config, "POST", req.URL())
	if err != nil {
		return "", fmt.Errorf("creating exec for pod %s/%s: %w", namespace, pod, err)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer

	if err := executor.StreamWithContext(ctx, remotecommand.StreamOptions{
		Stdout: &stdout,
		Stderr: &stderr,
	}); err != nil {
		if stderr.Len() > 0 {
			return stdout.String(), fmt.Errorf("exec in pod %s/%s: %w: %s", namespace, pod, err, stderr.String())
		}

		return stdout.String(), fmt.Errorf("exec in pod %s/%s: %w", namespace, pod, err)
	}

	return stdout.String(), nil
}
