package execauth

import "fmt"

// PluginExecError reports that the plugin process could not be launched.
type PluginExecError struct {
	Command string
	Err     error
}

func (e *PluginExecError) Error() string {
	return fmt.Sprintf("error executing auth plugin %s: %v", e.Command, e.Err)
}

func (e *PluginExecError) Unwrap() error {
	return e.Err
}

// PluginFailedError reports a plugin that ran and exited non-zero. Stderr
// carries the plugin's standard-error output verbatim.
type PluginFailedError struct {
	Command string
	Stderr  string
}

func (e *PluginFailedError) Error() string {
	return fmt.Sprintf("error from auth plugin %s: %s", e.Command, e.Stderr)
}

// PluginDecodeError reports a plugin that exited zero but whose standard
// output did not decode into a usable credential.
type PluginDecodeError struct {
	Command string
	Err     error
}

func (e *PluginDecodeError) Error() string {
	return fmt.Sprintf("error deserializing result from auth plugin %s: %v", e.Command, e.Err)
}

func (e *PluginDecodeError) Unwrap() error {
	return e.Err
}
