package client

import (
	"fmt"

	olmclientset "github.com/operator-framework/operator-lifecycle-manager/pkg/api/client/clientset/versioned"

	apiextensionsclientset "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/discovery/cached/memory"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/restmapper"
)

// Client bundles the clientsets the probe battery needs. All access through it
// is read-only except Exec, which runs diagnostic commands inside pods and
// never mutates cluster state.
type Client struct {
	Dynamic       dynamic.Interface
	Discovery     discovery.DiscoveryInterface
	Kube          kubernetes.Interface
	APIExtensions apiextensionsclientset.Interface
	OLM           olmclientset.Interface
	RESTMapper    meta.RESTMapper

	// Executor runs commands inside pods. Nil means pod exec is unavailable
	// (for example when built from fakes); callers treat that as a soft miss.
	Executor PodExecutor
}

// NewClient creates a unified client from kubeconfig flags.
func NewClient(configFlags *genericclioptions.ConfigFlags, qps float32, burst int) (*Client, error) {
	restConfig, err := NewRESTConfig(configFlags, qps, burst)
	if err != nil {
		return nil, err
	}

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	discoveryClient, err := discovery.NewDiscoveryClientForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery client: %w", err)
	}

	kubeClient, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	apiExtensionsClient, err := apiextensionsclientset.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create apiextensions client: %w", err)
	}

	olmClient, err := olmclientset.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create OLM client: %w", err)
	}

	// Cached RESTMapper for efficient GVK to GVR mapping
	restMapper := restmapper.NewDeferredDiscoveryRESTMapper(
		memory.NewMemCacheClient(discoveryClient),
	)

	return &Client{
		Dynamic:       dynamicClient,
		Discovery:     discoveryClient,
		Kube:          kubeClient,
		APIExtensions: apiExtensionsClient,
		OLM:           olmClient,
		RESTMapper:    restMapper,
		Executor:      NewSPDYExecutor(restConfig, kubeClient.CoreV1()),
	}, nil
}
