package process

import (
	"io"
	"strings"
	"time"
)

// Command configures a subprocess to execute.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	// Args are the command-line arguments.
	Args []string
	// Dir is the working directory. If empty, uses the current directory.
	Dir string
	// Env is additional environment variables (key=value). Merged with os.Environ.
	Env []string
	// Stdin provides input to the process. May be nil.
	Stdin io.Reader
	// Stdout receives standard output. Nil discards it unless the caller captures.
	Stdout io.Writer
	// Stderr receives standard error.
	Stderr io.Writer
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	// Zero uses the configured default.
	GracePeriod time.Duration
}

// ShellCommand returns a Command that runs cmdline through the configured
// interpreter (/bin/sh -c unless configured otherwise).
func ShellCommand(cmdline string) Command {
	cfg := Defaults()
	args := append(append([]string(nil), cfg.InterpreterArgs...), cmdline)
	return Command{Binary: cfg.Interpreter, Args: args}
}

// String renders the command line for logs.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Binary
	}
	return c.Binary + " " + strings.Join(c.Args, " ")
}
