// Package execauth materializes exec-plugin credentials into concrete auth
// values by invoking the configured external plugin at connection time.
package execauth

import (
	"errors"

	"github.com/rs/zerolog/log"
	clientauthentication "k8s.io/client-go/pkg/apis/clientauthentication/v1beta1"
	"sigs.k8s.io/yaml"

	"github.com/GlintPay/gkap/kubeconfig"
)

type Resolver struct {
	launcher Launcher
}

type Opt func(*Resolver)

// WithLauncher substitutes the process launcher, letting tests resolve plugin
// credentials without spawning real subprocesses.
func WithLauncher(l Launcher) Opt {
	return func(r *Resolver) {
		r.launcher = l
	}
}

func New(opts ...Opt) *Resolver {
	r := &Resolver{launcher: processLauncher{}}
	for _, optionFunc := range opts {
		optionFunc(r)
	}
	return r
}

// Resolve turns an exec credential into a concrete one by running the plugin
// and mapping its output. For any non-exec auth it is a no-op: the input is
// returned unchanged and invoked is false, so callers can tell exec was never
// attempted. The returned auth is freshly owned; the source config is never
// mutated.
func (r *Resolver) Resolve(auth kubeconfig.Auth) (resolved kubeconfig.Auth, invoked bool, err error) {
	if auth.Kind != kubeconfig.AuthExec {
		return auth, false, nil
	}

	plugin := auth.Exec
	log.Debug().Str("command", plugin.Command).Msg("Invoking auth plugin")

	stdout, stderr, exitCode, err := r.launcher.Run(plugin.Command, plugin.Args, plugin.Env)
	if err != nil {
		return kubeconfig.Auth{}, true, &PluginExecError{Command: plugin.Command, Err: err}
	}
	if exitCode != 0 {
		return kubeconfig.Auth{}, true, &PluginFailedError{Command: plugin.Command, Stderr: string(stderr)}
	}

	var credential clientauthentication.ExecCredential
	if err := yaml.Unmarshal(stdout, &credential); err != nil {
		return kubeconfig.Auth{}, true, &PluginDecodeError{Command: plugin.Command, Err: err}
	}

	mapped, err := credentialToAuth(&credential)
	if err != nil {
		return kubeconfig.Auth{}, true, &PluginDecodeError{Command: plugin.Command, Err: err}
	}
	return mapped, true, nil
}

// credentialToAuth maps a plugin result onto a concrete auth value. The
// expiration timestamp is carried by the wire type but deliberately dropped
// here: refresh scheduling is not this package's concern.
func credentialToAuth(credential *clientauthentication.ExecCredential) (kubeconfig.Auth, error) {
	status := credential.Status
	if status == nil {
		return kubeconfig.Auth{}, errors.New("credential has no status")
	}

	switch {
	case status.Token != "":
		return kubeconfig.Auth{Kind: kubeconfig.AuthToken, Token: status.Token}, nil

	case status.ClientCertificateData != "" && status.ClientKeyData != "":
		return kubeconfig.Auth{
			Kind:        kubeconfig.AuthCertificateEmbedded,
			Certificate: kubeconfig.BytesFromText(status.ClientCertificateData),
			Key:         kubeconfig.BytesFromText(status.ClientKeyData),
		}, nil

	default:
		return kubeconfig.Auth{}, errors.New("credential status carries neither a token nor a certificate pair")
	}
}
