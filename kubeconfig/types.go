package kubeconfig

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CASource identifies which kubeconfig field supplied a cluster's trust root.
type CASource string

const (
	CASourceFile     CASource = "certificate-authority"
	CASourceEmbedded CASource = "certificate-authority-data"
)

// CertificateAuthority is a cluster trust root, resolved to bytes at decode
// time regardless of whether the document referenced a file or embedded the
// data inline.
type CertificateAuthority struct {
	Source CASource
	Data   Bytes
}

type Cluster struct {
	Server                string
	InsecureSkipTLSVerify bool
	CertificateAuthority  *CertificateAuthority
}

func (c *Cluster) UnmarshalJSON(data []byte) error {
	var doc struct {
		Server                   string  `json:"server"`
		InsecureSkipTLSVerify    *bool   `json:"insecure-skip-tls-verify"`
		CertificateAuthority     *string `json:"certificate-authority"`
		CertificateAuthorityData *string `json:"certificate-authority-data"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	if doc.Server == "" {
		return errors.New("cluster: server is required")
	}
	if doc.CertificateAuthority != nil && doc.CertificateAuthorityData != nil {
		return errors.New("cluster: certificate-authority and certificate-authority-data are mutually exclusive")
	}

	c.Server = doc.Server
	if doc.InsecureSkipTLSVerify != nil {
		c.InsecureSkipTLSVerify = *doc.InsecureSkipTLSVerify
	}

	switch {
	case doc.CertificateAuthority != nil:
		material, err := bytesFromPath(*doc.CertificateAuthority)
		if err != nil {
			return fmt.Errorf("cluster certificate-authority: %w", err)
		}
		c.CertificateAuthority = &CertificateAuthority{Source: CASourceFile, Data: material}
	case doc.CertificateAuthorityData != nil:
		material, err := bytesFromBase64(*doc.CertificateAuthorityData)
		if err != nil {
			return fmt.Errorf("cluster certificate-authority-data: %w", err)
		}
		c.CertificateAuthority = &CertificateAuthority{Source: CASourceEmbedded, Data: material}
	}

	return nil
}

type NamedCluster struct {
	Name    string
	Cluster Cluster
}

func (n *NamedCluster) UnmarshalJSON(data []byte) error {
	var doc struct {
		Name    string   `json:"name"`
		Cluster *Cluster `json:"cluster"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	if doc.Cluster == nil {
		return fmt.Errorf("clusters entry %q: cluster is required", doc.Name)
	}

	n.Name = doc.Name
	n.Cluster = *doc.Cluster
	return nil
}

type Context struct {
	Cluster   string `json:"cluster"`
	User      string `json:"user"`
	Namespace string `json:"namespace,omitempty"`
}

type NamedContext struct {
	Name    string
	Context Context
}

func (n *NamedContext) UnmarshalJSON(data []byte) error {
	var doc struct {
		Name    string   `json:"name"`
		Context *Context `json:"context"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	if doc.Context == nil {
		return fmt.Errorf("contexts entry %q: context is required", doc.Name)
	}
	if doc.Context.Cluster == "" || doc.Context.User == "" {
		return fmt.Errorf("context %q: cluster and user references are required", doc.Name)
	}

	n.Name = doc.Name
	n.Context = *doc.Context
	return nil
}

// AuthKind discriminates the closed set of credential representations a user
// entry may hold. It is derived once at decode time from which keys are
// present; downstream code switches on it and never re-inspects fields.
type AuthKind string

const (
	AuthNull                AuthKind = "null"
	AuthPlain               AuthKind = "plain"
	AuthToken               AuthKind = "token"
	AuthCertificateFile     AuthKind = "certificate-file"
	AuthCertificateEmbedded AuthKind = "certificate-embedded"
	AuthExec                AuthKind = "exec"
)

// Auth is a user's credential material. Exactly one representation is active,
// indicated by Kind; the fields of inactive representations are zero.
type Auth struct {
	Kind AuthKind

	Username string
	Password string

	Token string

	Certificate Bytes
	Key         Bytes

	Exec *ExecAuth
}

// ExecAuth describes an external credential-issuing plugin. Immutable and
// reused on every invocation.
type ExecAuth struct {
	APIVersion string            `json:"apiVersion"`
	Command    string            `json:"command"`
	Args       []string          `json:"args,omitempty"`
	Env        map[string]string `json:"env,omitempty"`
}

type User struct {
	Auth Auth
}

func (u *User) UnmarshalJSON(data []byte) error {
	var doc struct {
		Username              *string   `json:"username"`
		Password              *string   `json:"password"`
		Token                 *string   `json:"token"`
		ClientCertificate     *string   `json:"client-certificate"`
		ClientKey             *string   `json:"client-key"`
		ClientCertificateData *string   `json:"client-certificate-data"`
		ClientKeyData         *string   `json:"client-key-data"`
		Exec                  *ExecAuth `json:"exec"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	var present []AuthKind
	if doc.Username != nil || doc.Password != nil {
		present = append(present, AuthPlain)
	}
	if doc.Token != nil {
		present = append(present, AuthToken)
	}
	if doc.ClientCertificate != nil || doc.ClientKey != nil {
		present = append(present, AuthCertificateFile)
	}
	if doc.ClientCertificateData != nil || doc.ClientKeyData != nil {
		present = append(present, AuthCertificateEmbedded)
	}
	if doc.Exec != nil {
		present = append(present, AuthExec)
	}

	if len(present) > 1 {
		return fmt.Errorf("user: conflicting credential fields for %v", present)
	}
	if len(present) == 0 {
		u.Auth = Auth{Kind: AuthNull}
		return nil
	}

	switch present[0] {
	case AuthPlain:
		if doc.Username == nil || doc.Password == nil {
			return errors.New("user: username and password must be set together")
		}
		u.Auth = Auth{Kind: AuthPlain, Username: *doc.Username, Password: *doc.Password}

	case AuthToken:
		u.Auth = Auth{Kind: AuthToken, Token: *doc.Token}

	case AuthCertificateFile:
		if doc.ClientCertificate == nil || doc.ClientKey == nil {
			return errors.New("user: client-certificate and client-key must be set together")
		}
		cert, err := bytesFromPath(*doc.ClientCertificate)
		if err != nil {
			return fmt.Errorf("user client-certificate: %w", err)
		}
		key, err := bytesFromPath(*doc.ClientKey)
		if err != nil {
			return fmt.Errorf("user client-key: %w", err)
		}
		u.Auth = Auth{Kind: AuthCertificateFile, Certificate: cert, Key: key}

	case AuthCertificateEmbedded:
		if doc.ClientCertificateData == nil || doc.ClientKeyData == nil {
			return errors.New("user: client-certificate-data and client-key-data must be set together")
		}
		cert, err := bytesFromBase64(*doc.ClientCertificateData)
		if err != nil {
			return fmt.Errorf("user client-certificate-data: %w", err)
		}
		key, err := bytesFromBase64(*doc.ClientKeyData)
		if err != nil {
			return fmt.Errorf("user client-key-data: %w", err)
		}
		u.Auth = Auth{Kind: AuthCertificateEmbedded, Certificate: cert, Key: key}

	case AuthExec:
		if doc.Exec.Command == "" {
			return errors.New("user: exec plugin requires a command")
		}
		u.Auth = Auth{Kind: AuthExec, Exec: doc.Exec}
	}

	return nil
}

type NamedUser struct {
	Name string
	User User
}

func (n *NamedUser) UnmarshalJSON(data []byte) error {
	var doc struct {
		Name string `json:"name"`
		User *User  `json:"user"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	n.Name = doc.Name
	if doc.User == nil {
		// An entry with no user body carries no credentials at all
		n.User = User{Auth: Auth{Kind: AuthNull}}
		return nil
	}
	n.User = *doc.User
	return nil
}

// Config is the decoded kubeconfig document. It is never mutated after Load;
// resolved views borrow from it.
type Config struct {
	APIVersion string         `json:"apiVersion,omitempty"`
	Kind       string         `json:"kind,omitempty"`
	Clusters   []NamedCluster `json:"clusters"`
	Contexts   []NamedContext `json:"contexts"`
	Users      []NamedUser    `json:"users"`

	CurrentContext string `json:"current-context,omitempty"`

	// Preferences is an opaque passthrough bag, unvalidated.
	Preferences map[string]any `json:"preferences,omitempty"`
}
