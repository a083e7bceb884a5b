package process

import (
	"fmt"
	"os"
	"syscall"
	"time"
)

// ExitCode is the status a process exited with. It is a value, not an
// error: a failing command is an ordinary outcome.
type ExitCode int

// ExitSuccess is the status of a command that succeeded.
const ExitSuccess ExitCode = 0

// Failed reports whether the code is anything other than success.
func (e ExitCode) Failed() bool { return e != ExitSuccess }

func (e ExitCode) String() string {
	if e == ExitSuccess {
		return "ExitSuccess"
	}
	return fmt.Sprintf("ExitFailure %d", int(e))
}

// exitCodeOf follows the shell convention of 128+signal for processes
// terminated by a signal.
func exitCodeOf(state *os.ProcessState) ExitCode {
	if state == nil {
		return ExitCode(-1)
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return ExitCode(128 + int(ws.Signal()))
	}
	return ExitCode(state.ExitCode())
}

// Result holds the output and status of a completed subprocess.
type Result struct {
	// Stdout is the captured standard output.
	Stdout []byte
	// Stderr is the captured standard error.
	Stderr []byte
	// ExitCode is the process exit status.
	ExitCode ExitCode
	// Duration is how long the process ran.
	Duration time.Duration
}
