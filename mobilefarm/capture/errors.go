package capture

import (
	"errors"
	"fmt"
)

// DiagnosticError is a failure of the observation side channel (stabilization
// wait, idle sync, screenshot write). It is logged by the Capturer and never
// returned to the caller of an instrumented action.
type DiagnosticError struct {
	Op    string
	Label string
	Err   error
}

func (e *DiagnosticError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("diagnostic %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("diagnostic %s %q: %v", e.Op, e.Label, e.Err)
}

func (e *DiagnosticError) Unwrap() error {
	return e.Err
}

// IsDiagnostic reports whether err came from the capture side channel.
func IsDiagnostic(err error) bool {
	var d *DiagnosticError
	return errors.As(err, &d)
}

var errUnstable = errors.New("ui did not settle before timeout")
