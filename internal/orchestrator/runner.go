package orchestrator

import (
	"context"
	"os/exec"
	"strings"
)

// CommandRunner executes an opaque external build command and reports
// its combined output. The orchestrator observes only exit status,
// output text, and elapsed wall time.
type CommandRunner interface {
	Run(ctx context.Context, dir, command string) (output string, err error)
}

// ShellRunner executes build commands through the system shell.
type ShellRunner struct {
	// Shell is the interpreter used to run commands. Defaults to sh.
	Shell string
}

// NewShellRunner creates a ShellRunner using sh.
func NewShellRunner() *ShellRunner {
	return &ShellRunner{Shell: "sh"}
}

// Run executes the command in dir and returns its combined output.
func (r *ShellRunner) Run(ctx context.Context, dir, command string) (string, error) {
	shell := r.Shell
	if shell == "" {
		shell = "sh"
	}

	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}
