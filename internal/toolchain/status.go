package toolchain

import (
	"errors"
	"os/exec"
	"syscall"
)

// ExitStatus is the outcome of a finished child process. It distinguishes a
// normal exit (which carries a code worth propagating) from termination by
// signal (which carries no code and must not be coerced into one).
type ExitStatus struct {
	code     int
	signaled bool
}

// Exited returns a status for a process that exited with code.
func Exited(code int) ExitStatus {
	return ExitStatus{code: code}
}

// Signaled returns a status for a process terminated by a signal.
func Signaled() ExitStatus {
	return ExitStatus{signaled: true}
}

// Code returns the exit code and true for a normal exit, or false when the
// process was terminated by a signal.
func (s ExitStatus) Code() (int, bool) {
	if s.signaled {
		return 0, false
	}
	return s.code, true
}

// Success reports whether the process exited normally with code zero.
func (s ExitStatus) Success() bool {
	return !s.signaled && s.code == 0
}

// statusFromRun converts the error of an exec.Cmd wait into an ExitStatus.
// Errors that do not describe a finished process (spawn failures, missing
// executables) are returned unchanged.
func statusFromRun(err error) (ExitStatus, error) {
	if err == nil {
		return Exited(0), nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return Signaled(), nil
		}
		return Exited(exitErr.ExitCode()), nil
	}
	return ExitStatus{}, err
}
