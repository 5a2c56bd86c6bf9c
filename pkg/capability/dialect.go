package capability

// Dialect identifies which control-plane flavor a run targets. It gates
// probe applicability and is set once at startup.
type Dialect string

const (
	// DialectKubernetes is a vanilla Kubernetes control plane.
	DialectKubernetes Dialect = "kubernetes"

	// DialectOpenShift is an OpenShift control plane, detected through the
	// presence of the config.openshift.io API group.
	DialectOpenShift Dialect = "openshift"
)

// String returns the string representation of the dialect.
func (d Dialect) String() string {
	return string(d)
}

// Well-known optional namespaces whose presence gates platform probes.
const (
	NamespaceEtcd    = "openshift-etcd"
	NamespaceStorage = "openshift-storage"
	NamespaceLogging = "openshift-logging"
)
