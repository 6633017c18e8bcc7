package gitutil

import (
	"fmt"

	"github.com/samzong/aicommit/internal/gitcmd"
)

// CommandError reports a git subprocess that exited unsuccessfully.
// Operation names the git subcommand, e.g. "add", "commit" or "push".
type CommandError struct {
	Operation string
	Stderr    string
	Err       error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("git %s failed: %s: %v", e.Operation, e.Stderr, e.Err)
	}
	return fmt.Sprintf("git %s failed: %v", e.Operation, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// WrapGitError builds a CommandError that prefers git stderr output when present.
func WrapGitError(operation string, result gitcmd.Result, err error) error {
	return &CommandError{
		Operation: operation,
		Stderr:    result.StderrString(true),
		Err:       err,
	}
}
