package process

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/kbukum/shellkit/errors"
	"github.com/kbukum/shellkit/logger"
	"github.com/kbukum/shellkit/observability"
)

const (
	component = "process"
	spanRun   = observability.SpanProcessRun
	spanPipe  = observability.SpanProcessPipe
)

// Prepare builds an exec.Cmd for cmd. The process gets its own process
// group; when ctx is canceled the whole group receives SIGTERM, and SIGKILL
// follows after the grace period.
func Prepare(ctx context.Context, cmd Command) (*exec.Cmd, error) {
	if cmd.Binary == "" {
		return nil, apperrors.InvalidInput("binary", "is required")
	}

	gracePeriod := cmd.GracePeriod
	if gracePeriod == 0 {
		gracePeriod = Defaults().GracePeriod
	}

	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec // dynamic args are the purpose of this package
	c.Dir = cmd.Dir
	c.Env = mergeEnv(cmd.Env)
	if cmd.Stdin != nil {
		c.Stdin = cmd.Stdin
	}
	if cmd.Stdout != nil {
		c.Stdout = cmd.Stdout
	}
	if cmd.Stderr != nil {
		c.Stderr = cmd.Stderr
	}

	// Use process group so we can kill the entire tree
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	// Don't let exec.CommandContext kill with SIGKILL immediately
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = gracePeriod
	return c, nil
}

// Running is a started subprocess. Wait must be called exactly once the
// caller is done with it; it is safe to call Wait more than once.
type Running struct {
	Command Command

	cmd     *exec.Cmd
	parent  context.Context
	stop    context.CancelFunc
	release context.CancelFunc
	stopped atomic.Bool
	started time.Time
	op      *observability.Operation
	opCtx   context.Context
	log     *logger.Logger

	waitOnce sync.Once
	code     ExitCode
	err      error
	duration time.Duration
}

func start(ctx context.Context, cmd Command, span string) (*Running, error) {
	runCtx, stop := context.WithCancel(ctx)
	c, err := Prepare(runCtx, cmd)
	if err != nil {
		stop()
		return nil, err
	}

	opCtx, op := observability.StartOperation(ctx, component, span,
		attribute.String(observability.AttrCommand, cmd.Binary))
	log := logger.WithComponent(component).WithContext(ctx)

	started := time.Now()
	if err := c.Start(); err != nil {
		stop()
		appErr := apperrors.ProcessStart(cmd.String(), err)
		op.End(opCtx, appErr)
		op.Metrics.RecordProcess(opCtx, cmd.Binary, "error", 0)
		log.Debug("start failed", logger.Fields(logger.FieldCommand, cmd.String(), logger.FieldError, err.Error()))
		return nil, appErr
	}

	op.SetAttributes(attribute.Int(observability.AttrPID, c.Process.Pid))
	log.Debug("started", logger.Fields(logger.FieldCommand, cmd.String(), logger.FieldPID, c.Process.Pid))

	return &Running{
		Command: cmd,
		cmd:     c,
		parent:  ctx,
		stop:    stop,
		started: started,
		op:      op,
		opCtx:   opCtx,
		log:     log,
	}, nil
}

// PID returns the process id, which is also the process group id.
func (r *Running) PID() int { return r.cmd.Process.Pid }

// Stop signals the process group with SIGTERM (SIGKILL after the grace
// period) without waiting. A process stopped this way is not reported as
// killed by Wait.
func (r *Running) Stop() {
	r.stopped.Store(true)
	r.stop()
}

// Wait waits for the process to exit and returns its exit code. The error is
// non-nil only when the process was killed because the caller's context
// ended, or when waiting itself failed.
func (r *Running) Wait() (ExitCode, error) {
	r.waitOnce.Do(func() {
		err := r.cmd.Wait()
		r.duration = time.Since(r.started)
		r.code = exitCodeOf(r.cmd.ProcessState)

		var exitErr *exec.ExitError
		switch {
		case err == nil, r.stopped.Load():
		case r.parent.Err() != nil:
			r.err = apperrors.ProcessKilled(r.Command.String(), r.parent.Err())
		case errors.As(err, &exitErr):
		default:
			r.err = apperrors.Internal(err).WithDetail("command", r.Command.String())
		}

		status := "ok"
		switch {
		case r.err != nil:
			status = "error"
		case r.code.Failed():
			status = "failed"
		}
		r.op.SetAttributes(attribute.Int(observability.AttrExitCode, int(r.code)))
		r.op.End(r.opCtx, r.err)
		r.op.Metrics.RecordProcess(r.opCtx, r.Command.Binary, status, r.duration)

		r.stop()
		if r.release != nil {
			r.release()
		}
		r.log.Debug("exited", logger.Fields(
			logger.FieldCommand, r.Command.String(),
			logger.FieldExitCode, int(r.code),
			logger.FieldDuration, r.duration.String(),
		))
	})
	return r.code, r.err
}

// Duration returns how long the process ran. It is zero before Wait returns.
func (r *Running) Duration() time.Duration { return r.duration }

func run(ctx context.Context, cmd Command) (*Result, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = teeTo(&stdout, cmd.Stdout)
	cmd.Stderr = teeTo(&stderr, cmd.Stderr)

	r, err := start(ctx, cmd, spanRun)
	if err != nil {
		return nil, err
	}
	code, err := r.Wait()
	return &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: code,
		Duration: r.Duration(),
	}, err
}

func teeTo(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

// Run executes a subprocess with the package defaults and waits for it to
// complete, capturing its output. A nonzero exit is reported through
// Result.ExitCode, not as an error. If the context is canceled, SIGTERM is
// sent first, then SIGKILL after the grace period, and the error is
// PROCESS_KILLED.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	return NewAdapter(Defaults()).Run(ctx, cmd)
}

// Start launches a subprocess with the package defaults and returns without
// waiting. The caller must call Wait.
func Start(ctx context.Context, cmd Command) (*Running, error) {
	return NewAdapter(Defaults()).Start(ctx, cmd)
}

// mergeEnv merges additional env vars with the current environment.
func mergeEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil // inherit parent env
	}
	env := os.Environ()
	return append(env, extra...)
}
