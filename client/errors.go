package client

import (
	"fmt"

	"github.com/GlintPay/gkap/kubeconfig"
)

// AuthHeaderError reports a bearer token that cannot be rendered as a valid
// Authorization header value.
type AuthHeaderError struct {
	Message string
}

func (e *AuthHeaderError) Error() string {
	return fmt.Sprintf("could not add auth header: %s", e.Message)
}

// IdentityError reports client certificate material the TLS layer rejected.
type IdentityError struct {
	Err error
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("client certificate is invalid: %v", e.Err)
}

func (e *IdentityError) Unwrap() error {
	return e.Err
}

// CertificateError reports an unparseable cluster trust root, tagged with the
// kubeconfig field it came from.
type CertificateError struct {
	Field string
	Err   error
}

func (e *CertificateError) Error() string {
	return fmt.Sprintf("certificate could not be parsed from %s: %v", e.Field, e.Err)
}

func (e *CertificateError) Unwrap() error {
	return e.Err
}

// UnsupportedAuthError reports an auth kind the bootstrapper cannot wire into
// the transport. Rejecting explicitly beats silently building an
// unauthenticated client.
type UnsupportedAuthError struct {
	Kind kubeconfig.AuthKind
}

func (e *UnsupportedAuthError) Error() string {
	return fmt.Sprintf("auth kind %q is not supported by the http client", e.Kind)
}

// ClientInitError reports a failure assembling the transport client itself.
type ClientInitError struct {
	Err error
}

func (e *ClientInitError) Error() string {
	return fmt.Sprintf("unable to initialize http client: %v", e.Err)
}

func (e *ClientInitError) Unwrap() error {
	return e.Err
}
