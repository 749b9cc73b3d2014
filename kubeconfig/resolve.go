package kubeconfig

// DefaultNamespace is applied when the selected context does not name one.
const DefaultNamespace = "default"

// ResolvedContext is a read-only view over one cluster, one credential and an
// effective namespace. It borrows from the Config that produced it and owns
// nothing; it must not outlive the document.
type ResolvedContext struct {
	Namespace string
	Auth      *Auth
	Cluster   *Cluster
}

// Resolve cross-references the three named tables for the document's
// current-context. Lookups are by first name match; duplicates are not
// flagged. Any miss (no current-context set, or a dangling context, user or
// cluster name) yields a *NoContextError identifying the failed reference.
func (c *Config) Resolve() (*ResolvedContext, error) {
	if c.CurrentContext == "" {
		return nil, &NoContextError{Reference: "current-context"}
	}

	var context *Context
	for i := range c.Contexts {
		if c.Contexts[i].Name == c.CurrentContext {
			context = &c.Contexts[i].Context
			break
		}
	}
	if context == nil {
		return nil, &NoContextError{Reference: "context", Name: c.CurrentContext}
	}

	var auth *Auth
	for i := range c.Users {
		if c.Users[i].Name == context.User {
			auth = &c.Users[i].User.Auth
			break
		}
	}
	if auth == nil {
		return nil, &NoContextError{Reference: "user", Name: context.User}
	}

	var cluster *Cluster
	for i := range c.Clusters {
		if c.Clusters[i].Name == context.Cluster {
			cluster = &c.Clusters[i].Cluster
			break
		}
	}
	if cluster == nil {
		return nil, &NoContextError{Reference: "cluster", Name: context.Cluster}
	}

	namespace := context.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	return &ResolvedContext{
		Namespace: namespace,
		Auth:      auth,
		Cluster:   cluster,
	}, nil
}
