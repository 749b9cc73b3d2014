package config

type KubernetesConfig struct {
	Kubeconfig            string // Path to the kubeconfig document; the caller supplies it, no discovery
	RequestTimeoutSeconds int    // Per-request timeout for proxied calls (0 = no timeout)
}
