package execauth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GlintPay/gkap/kubeconfig"
)

type fakeLauncher struct {
	stdout   []byte
	stderr   []byte
	exitCode int
	err      error

	gotCommand string
	gotArgs    []string
	gotEnv     map[string]string
}

func (f *fakeLauncher) Run(command string, args []string, env map[string]string) ([]byte, []byte, int, error) {
	f.gotCommand = command
	f.gotArgs = args
	f.gotEnv = env
	return f.stdout, f.stderr, f.exitCode, f.err
}

func execAuth() kubeconfig.Auth {
	return kubeconfig.Auth{
		Kind: kubeconfig.AuthExec,
		Exec: &kubeconfig.ExecAuth{
			APIVersion: "client.authentication.k8s.io/v1beta1",
			Command:    "aws-iam-authenticator",
			Args:       []string{"token", "-i", "prod"},
			Env:        map[string]string{"AWS_PROFILE": "prod"},
		},
	}
}

func TestResolveNotApplicableForConcreteAuth(t *testing.T) {
	launcher := &fakeLauncher{}
	resolver := New(WithLauncher(launcher))

	original := kubeconfig.Auth{Kind: kubeconfig.AuthToken, Token: "abc"}
	resolved, invoked, err := resolver.Resolve(original)

	require.NoError(t, err)
	assert.False(t, invoked)
	assert.Equal(t, original, resolved)
	assert.Empty(t, launcher.gotCommand, "launcher must not run for non-exec auth")
}

func TestResolveTokenResult(t *testing.T) {
	launcher := &fakeLauncher{
		stdout: []byte(`{
			"apiVersion": "client.authentication.k8s.io/v1beta1",
			"kind": "ExecCredential",
			"status": {
				"token": "tok-123",
				"expirationTimestamp": "2030-01-01T00:00:00Z"
			}
		}`),
	}
	resolver := New(WithLauncher(launcher))

	resolved, invoked, err := resolver.Resolve(execAuth())
	require.NoError(t, err)
	assert.True(t, invoked)

	assert.Equal(t, kubeconfig.AuthToken, resolved.Kind)
	assert.Equal(t, "tok-123", resolved.Token)

	assert.Equal(t, "aws-iam-authenticator", launcher.gotCommand)
	assert.Equal(t, []string{"token", "-i", "prod"}, launcher.gotArgs)
	assert.Equal(t, map[string]string{"AWS_PROFILE": "prod"}, launcher.gotEnv)
}

func TestResolveCertificateResult(t *testing.T) {
	launcher := &fakeLauncher{
		stdout: []byte(`{
			"apiVersion": "client.authentication.k8s.io/v1beta1",
			"kind": "ExecCredential",
			"status": {
				"clientCertificateData": "CERT-PEM",
				"clientKeyData": "KEY-PEM"
			}
		}`),
	}
	resolver := New(WithLauncher(launcher))

	resolved, invoked, err := resolver.Resolve(execAuth())
	require.NoError(t, err)
	assert.True(t, invoked)

	assert.Equal(t, kubeconfig.AuthCertificateEmbedded, resolved.Kind)
	assert.True(t, resolved.Certificate.Equal([]byte("CERT-PEM")))
	assert.True(t, resolved.Key.Equal([]byte("KEY-PEM")))
}

func TestResolvePluginDenied(t *testing.T) {
	launcher := &fakeLauncher{exitCode: 1, stderr: []byte("denied")}
	resolver := New(WithLauncher(launcher))

	_, invoked, err := resolver.Resolve(execAuth())
	assert.True(t, invoked)

	var failed *PluginFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "aws-iam-authenticator", failed.Command)
	assert.Equal(t, "denied", failed.Stderr)
}

func TestResolveSpawnFailure(t *testing.T) {
	launcher := &fakeLauncher{err: errors.New("executable file not found in $PATH")}
	resolver := New(WithLauncher(launcher))

	_, _, err := resolver.Resolve(execAuth())

	var execErr *PluginExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "aws-iam-authenticator", execErr.Command)
}

func TestResolveMalformedOutput(t *testing.T) {
	tests := []struct {
		name   string
		stdout []byte
	}{
		{name: "not a document", stdout: []byte("][ not yaml")},
		{name: "no status", stdout: []byte(`{"apiVersion": "client.authentication.k8s.io/v1beta1", "kind": "ExecCredential"}`)},
		{name: "empty status", stdout: []byte(`{"kind": "ExecCredential", "status": {}}`)},
		{name: "certificate without key", stdout: []byte(`{"status": {"clientCertificateData": "CERT"}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := New(WithLauncher(&fakeLauncher{stdout: tt.stdout}))

			_, _, err := resolver.Resolve(execAuth())

			var decodeErr *PluginDecodeError
			require.ErrorAs(t, err, &decodeErr)
			assert.Equal(t, "aws-iam-authenticator", decodeErr.Command)
		})
	}
}
