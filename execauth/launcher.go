package execauth

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
)

// Launcher runs a credential plugin to completion. Implementations extend the
// current process environment with env (never replace it), provide no stdin,
// and capture stdout and stderr separately. A non-nil error means the process
// could not be launched at all; a plugin that ran and failed is reported
// through exitCode.
type Launcher interface {
	Run(command string, args []string, env map[string]string) (stdout, stderr []byte, exitCode int, err error)
}

type processLauncher struct{}

func (processLauncher) Run(command string, args []string, env map[string]string) ([]byte, []byte, int, error) {
	cmd := exec.Command(command, args...)

	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.Bytes(), stderr.Bytes(), exitErr.ExitCode(), nil
		}
		return nil, nil, 0, err
	}

	return stdout.Bytes(), stderr.Bytes(), 0, nil
}
