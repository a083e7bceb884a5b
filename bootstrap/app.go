package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/shellkit/config"
	"github.com/kbukum/shellkit/logger"
	"github.com/kbukum/shellkit/version"
)

// App runs a finite script with uniform lifecycle management: telemetry,
// start and stop hooks, and cancellation on SIGINT/SIGTERM. The type
// parameter C is the config type.
//
//	app, err := bootstrap.NewApp(&cfg)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return shell.Stdout(ctx, shell.Inshell("ls", shell.Empty[string]()))
//	})
type App[C Config] struct {
	Name   string
	Cfg    C
	Logger *logger.Logger

	gracefulTimeout time.Duration
	signals         []os.Signal
	shutdown        ShutdownFunc

	onStart []Hook
	onStop  []Hook
}

// NewApp creates an application from a typed config.
// It applies defaults, validates the config, initializes the logger and
// installs the process defaults. Telemetry starts with RunTask.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	if err := prepare(cfg); err != nil {
		return nil, err
	}
	base := cfg.GetConfig()

	app := &App[C]{
		Name:            base.Name,
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
		signals:         []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.signals != nil {
		app.signals = o.signals
	}
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		app.Logger = logger.GetGlobalLogger().WithComponent(base.Name)
	}
	return app, nil
}

// Load reads the named program's configuration into cfg with
// config.LoadConfig and creates an App from it.
func Load[C Config](name string, cfg C, loaderOpts []config.LoaderOption, opts ...Option) (*App[C], error) {
	if err := config.LoadConfig(name, cfg, loaderOpts...); err != nil {
		return nil, err
	}
	if cfg.GetConfig().Name == "" {
		cfg.GetConfig().Name = name
	}
	return NewApp(cfg, opts...)
}

// RunTask runs task with the full lifecycle: telemetry, OnStart hooks, the
// task itself under a context canceled by SIGINT/SIGTERM, then OnStop hooks
// and telemetry shutdown within the graceful timeout. The task's error wins
// over shutdown errors.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if len(a.signals) > 0 {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, a.signals...)
		defer signal.Stop(sigCh)

		go func() {
			select {
			case sig := <-sigCh:
				a.Logger.Info("received signal, canceling task", logger.Fields("signal", sig.String()))
				cancel()
			case <-taskCtx.Done():
			}
		}()
	}

	a.Logger.Debug("running task", logger.Fields("version", version.Get().Short()))
	start := time.Now()
	taskErr := task(taskCtx)
	fields := logger.DurationFields("task", time.Since(start))
	if taskErr != nil {
		a.Logger.Error("task failed", logger.MergeWithError(fields, taskErr))
	} else {
		a.Logger.Debug("task finished", fields)
	}

	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

func (a *App[C]) startup(ctx context.Context) error {
	shutdown, err := initTelemetry(ctx, &a.Cfg.GetConfig().Telemetry)
	if err != nil {
		return err
	}
	a.shutdown = shutdown

	if err := runHooks(ctx, a.onStart); err != nil {
		return errors.Join(fmt.Errorf("onStart hook failed: %w", err), a.stop())
	}
	return nil
}

// Shutdown runs the stop sequence. Use when managing your own lifecycle.
func (a *App[C]) Shutdown(context.Context) error {
	return a.stop()
}

// stop runs OnStop hooks, then flushes telemetry.
func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("onStop hook error", logger.Fields(logger.FieldError, err.Error()))
		shutdownErr = err
	}
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			a.Logger.Error("telemetry shutdown error", logger.Fields(logger.FieldError, err.Error()))
			shutdownErr = errors.Join(shutdownErr, err)
		}
		a.shutdown = nil
	}
	return shutdownErr
}
