package mysqlexec

import (
	"fmt"
	"strings"
)

// ExternalProcessError is returned when a spawned client or dump tool exits
// with a non-zero status. It carries the captured standard-error text for
// diagnostics. Failures are never retried at this layer.
type ExternalProcessError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExternalProcessError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Command, e.ExitCode, stderr)
}
