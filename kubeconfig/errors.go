package kubeconfig

import "fmt"

// ConfigReadError reports an I/O failure opening or reading the kubeconfig
// document itself.
type ConfigReadError struct {
	Path string
	Err  error
}

func (e *ConfigReadError) Error() string {
	return fmt.Sprintf("unable to read kubeconfig at %s: %v", e.Path, e.Err)
}

func (e *ConfigReadError) Unwrap() error {
	return e.Err
}

// ConfigDeserializeError reports a schema or decode failure, including
// failures resolving file-path or base64 byte-material fields.
type ConfigDeserializeError struct {
	Path string
	Err  error
}

func (e *ConfigDeserializeError) Error() string {
	return fmt.Sprintf("unable to deserialize kubeconfig at %s: %v", e.Path, e.Err)
}

func (e *ConfigDeserializeError) Unwrap() error {
	return e.Err
}

// NoContextError reports that resolution produced no usable context. Reference
// names the lookup that failed ("current-context", "context", "user" or
// "cluster") and Name the dangling name, so callers can say exactly which
// reference was unresolved rather than a bare "nothing found".
type NoContextError struct {
	Reference string
	Name      string
}

func (e *NoContextError) Error() string {
	if e.Reference == "current-context" && e.Name == "" {
		return "no current context configured"
	}
	return fmt.Sprintf("context resolution failed: %s %q not found", e.Reference, e.Name)
}
