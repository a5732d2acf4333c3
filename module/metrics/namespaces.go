package metrics

// Prometheus namespace/subsystem labels.
const (
	namespaceNodeconf = "nodeconf"

	subsystemConfigManager = "config_manager"
)
