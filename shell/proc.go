package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"syscall"

	apperrors "github.com/kbukum/shellkit/errors"
	"github.com/kbukum/shellkit/guard"
	"github.com/kbukum/shellkit/logger"
	"github.com/kbukum/shellkit/process"
)

const component = "shell"

// piped is a started process whose stdin is fed from a Shell.
type piped struct {
	running *process.Running
	stdin   *os.File
	once    sync.Once
}

func (p *piped) closeStdin() error {
	var err error
	p.once.Do(func() { err = p.stdin.Close() })
	return err
}

// feed writes each line of input to the process, then closes its stdin.
func (p *piped) feed(input Shell[string]) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		defer p.closeStdin()
		err := input.Drive(ctx, func(line string) error {
			_, err := io.WriteString(p.stdin, line+"\n")
			return err
		})
		if brokenPipe(err) {
			return nil
		}
		return err
	}
}

// fork starts the feeder under s. If it cannot start, stdin is closed so the
// process sees end of input.
func (p *piped) fork(s *guard.Scope, input Shell[string]) (*guard.Task, error) {
	t, err := guard.Use(s, guard.Fork(p.feed(input)))
	if err != nil {
		_ = p.closeStdin()
		return nil, err
	}
	return t, nil
}

// brokenPipe reports errors caused by the process going away or by the pipe
// being closed on purpose.
func brokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, os.ErrClosed)
}

// startPiped starts cmd with a fresh pipe on stdin. The caller owns the
// returned process and must wait on it.
func startPiped(ctx context.Context, cmd process.Command) (*piped, error) {
	stdinR, stdinW, err := os.Pipe()
	if err != nil {
		return nil, apperrors.FromOS("pipe", cmd.Binary, err)
	}
	cmd.Stdin = stdinR
	running, err := process.Start(ctx, cmd)
	// The read end belongs to the child now.
	_ = stdinR.Close()
	if err != nil {
		_ = stdinW.Close()
		return nil, err
	}
	return &piped{running: running, stdin: stdinW}, nil
}

func logExit(ctx context.Context, cmd process.Command, code process.ExitCode) {
	if !code.Failed() {
		return
	}
	logger.WithComponent(component).WithContext(ctx).Warn("command failed", logger.Fields(
		logger.FieldCommand, cmd.String(),
		logger.FieldExitCode, int(code),
	))
}

// Inproc runs cmd with the lines of input on its stdin and produces the
// lines it writes to stdout. Stderr is inherited unless cmd sets it.
//
// Input is fed by a forked task. If the consumer stops early, the feeder is
// cancelled and its pipe closed, stdout is closed, the process group gets
// SIGTERM, and the process is waited on before the drive returns. A nonzero
// exit is logged, not returned.
func Inproc(cmd process.Command, input Shell[string]) Shell[string] {
	return New(func(ctx context.Context, emit func(string) error) error {
		stdoutR, stdoutW, err := os.Pipe()
		if err != nil {
			return apperrors.FromOS("pipe", cmd.Binary, err)
		}
		c := cmd
		c.Stdout = stdoutW
		if c.Stderr == nil {
			c.Stderr = os.Stderr
		}
		p, err := startPiped(ctx, c)
		_ = stdoutW.Close()
		if err != nil {
			_ = stdoutR.Close()
			return err
		}

		var (
			early  bool
			feeder *guard.Task
		)
		err = guard.Run(ctx, func(s *guard.Scope) error {
			// Releases run in reverse: stdin, feeder, stdout, then the wait.
			_ = s.Defer(func() error {
				if early {
					p.running.Stop()
				}
				code, err := p.running.Wait()
				if !early {
					logExit(ctx, cmd, code)
				}
				return err
			})
			_ = s.Defer(stdoutR.Close)

			t, err := p.fork(s, input)
			if err != nil {
				early = true
				return err
			}
			feeder = t
			_ = s.Defer(func() error {
				if err := p.closeStdin(); err != nil && !brokenPipe(err) {
					return err
				}
				return nil
			})

			err = scanLines(ctx, stdoutR, emit)
			if err != nil {
				early = true
			}
			return err
		})
		if feeder != nil && !early {
			if ferr := feeder.Wait(); ferr != nil && !errors.Is(ferr, context.Canceled) {
				err = errors.Join(err, ferr)
			}
		}
		return err
	})
}

// Inshell is Inproc for a command line run by the configured interpreter.
func Inshell(cmdline string, input Shell[string]) Shell[string] {
	return Inproc(process.ShellCommand(cmdline), input)
}

// Proc runs cmd with the lines of input on its stdin and waits for it.
// Stdout and stderr are inherited unless cmd sets them. The exit code is
// returned as a value; the error is for failures to start, feed or wait.
func Proc(ctx context.Context, cmd process.Command, input Shell[string]) (process.ExitCode, error) {
	c := cmd
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	p, err := startPiped(ctx, c)
	if err != nil {
		return process.ExitCode(-1), err
	}

	var (
		code   process.ExitCode
		feeder *guard.Task
	)
	err = guard.Run(ctx, func(s *guard.Scope) error {
		t, err := p.fork(s, input)
		if err != nil {
			p.running.Stop()
			_, _ = p.running.Wait()
			return err
		}
		feeder = t
		_ = s.Defer(func() error {
			if err := p.closeStdin(); err != nil && !brokenPipe(err) {
				return err
			}
			return nil
		})
		code, err = p.running.Wait()
		logExit(ctx, cmd, code)
		return err
	})
	if feeder != nil && err == nil {
		if ferr := feeder.Wait(); ferr != nil && !errors.Is(ferr, context.Canceled) {
			err = ferr
		}
	}
	return code, err
}

// System is Proc for a command line run by the configured interpreter.
func System(ctx context.Context, cmdline string, input Shell[string]) (process.ExitCode, error) {
	return Proc(ctx, process.ShellCommand(cmdline), input)
}

// ShellStrict runs cmdline with the lines of input on its stdin and returns
// its exit code together with everything it wrote to stdout.
func ShellStrict(ctx context.Context, cmdline string, input Shell[string]) (process.ExitCode, string, error) {
	var out bytes.Buffer
	cmd := process.ShellCommand(cmdline)
	cmd.Stdout = &out
	code, err := Proc(ctx, cmd, input)
	return code, out.String(), err
}
