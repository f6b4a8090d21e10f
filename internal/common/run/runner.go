// Package run executes external tools. Every subprocess this program
// spawns (git, conda, grayskull, shell hooks) goes through the Runner
// interface so pipelines can be exercised against a fake.
package run

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrToolInvocation is joined into every non-zero tool exit.
var ErrToolInvocation = errors.New("tool invocation failed")

// Runner executes an external command in a working directory and returns
// its captured output. Implementations block until the command exits.
type Runner interface {
	Run(name string, args []string, dir string) (stdout, stderr string, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// NewExecRunner creates a Runner backed by real subprocesses.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command and waits for it. On failure the returned error
// carries ErrToolInvocation and the trimmed stderr, which is usually the
// only useful diagnostic external tools produce.
func (r *ExecRunner) Run(name string, args []string, dir string) (stdout, stderr string, err error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if err != nil {
		detail := strings.TrimSpace(stderr)
		if detail == "" {
			detail = err.Error()
		}
		err = errors.Join(ErrToolInvocation, fmt.Errorf("%s: %s", name, detail))
	}

	return stdout, stderr, err
}

var _ Runner = (*ExecRunner)(nil)
