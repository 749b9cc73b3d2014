// Package kubeconfig decodes a kubeconfig document and resolves its named
// cluster, user and context tables into concrete connection parameters.
package kubeconfig

import (
	"os"

	"github.com/rs/zerolog/log"
	"sigs.k8s.io/yaml"
)

// Load reads and decodes the kubeconfig document at path. Byte-material fields
// (certificate paths, embedded base64 data) are resolved to bytes during
// decode, so a returned Config carries no unresolved references to the
// filesystem. Unknown top-level keys are ignored.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigReadError{Path: path, Err: err}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigDeserializeError{Path: path, Err: err}
	}

	log.Debug().
		Int("clusters", len(cfg.Clusters)).
		Int("contexts", len(cfg.Contexts)).
		Int("users", len(cfg.Users)).
		Msgf("Loaded kubeconfig from %s", path)

	return &cfg, nil
}
