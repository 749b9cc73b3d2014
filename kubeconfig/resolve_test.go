package kubeconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		CurrentContext: "prod",
		Clusters: []NamedCluster{
			{Name: "prod", Cluster: Cluster{Server: "https://prod:6443"}},
			{Name: "staging", Cluster: Cluster{Server: "https://staging:6443"}},
		},
		Contexts: []NamedContext{
			{Name: "prod", Context: Context{Cluster: "prod", User: "admin", Namespace: "payments"}},
			{Name: "staging", Context: Context{Cluster: "staging", User: "admin"}},
		},
		Users: []NamedUser{
			{Name: "admin", User: User{Auth: Auth{Kind: AuthToken, Token: "abc"}}},
		},
	}
}

func TestResolveSuccess(t *testing.T) {
	cfg := testConfig()

	resolved, err := cfg.Resolve()
	require.NoError(t, err)

	assert.Equal(t, "payments", resolved.Namespace)
	assert.Equal(t, "https://prod:6443", resolved.Cluster.Server)
	assert.Equal(t, AuthToken, resolved.Auth.Kind)

	// the view borrows from the document, it does not copy
	assert.Same(t, &cfg.Clusters[0].Cluster, resolved.Cluster)
	assert.Same(t, &cfg.Users[0].User.Auth, resolved.Auth)
}

func TestResolveDefaultsNamespace(t *testing.T) {
	cfg := testConfig()
	cfg.CurrentContext = "staging"

	resolved, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "default", resolved.Namespace)
}

func TestResolveMisses(t *testing.T) {
	tests := []struct {
		name              string
		mutate            func(*Config)
		expectedReference string
		expectedName      string
	}{
		{
			name:              "no current context",
			mutate:            func(c *Config) { c.CurrentContext = "" },
			expectedReference: "current-context",
		},
		{
			name:              "dangling context name",
			mutate:            func(c *Config) { c.CurrentContext = "typo" },
			expectedReference: "context",
			expectedName:      "typo",
		},
		{
			name:              "dangling user reference",
			mutate:            func(c *Config) { c.Contexts[0].Context.User = "ghost" },
			expectedReference: "user",
			expectedName:      "ghost",
		},
		{
			name:              "dangling cluster reference",
			mutate:            func(c *Config) { c.Contexts[0].Context.Cluster = "gone" },
			expectedReference: "cluster",
			expectedName:      "gone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)

			resolved, err := cfg.Resolve()
			assert.Nil(t, resolved)

			var noContext *NoContextError
			require.ErrorAs(t, err, &noContext)
			assert.Equal(t, tt.expectedReference, noContext.Reference)
			assert.Equal(t, tt.expectedName, noContext.Name)
		})
	}
}

func TestResolveFirstNameMatchWins(t *testing.T) {
	cfg := testConfig()
	cfg.Contexts = append([]NamedContext{
		{Name: "prod", Context: Context{Cluster: "staging", User: "admin", Namespace: "first"}},
	}, cfg.Contexts...)

	resolved, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "first", resolved.Namespace)
	assert.Equal(t, "https://staging:6443", resolved.Cluster.Server)
}

func TestResolveIsIdempotent(t *testing.T) {
	cfg := testConfig()

	first, err := cfg.Resolve()
	require.NoError(t, err)

	second, err := cfg.Resolve()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Same(t, first.Cluster, second.Cluster)
	assert.Same(t, first.Auth, second.Auth)
}
