package session

import (
	"log/slog"

	"golang.org/x/sys/unix"
)

var (
	realExec = unix.Exec
	// execFunc replaces the current process. Tests override it.
	execFunc = realExec
)

// Exec replaces the current process with the plan. It only returns on failure.
func Exec(p Plan) error {
	slog.Debug("exec", "command", p.String())
	if err := execFunc(p.Binary, p.Args, p.Env); err != nil {
		return &ExecError{Binary: p.Binary, Err: err}
	}
	return nil
}
