package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/kbukum/shellkit/logger"
	"github.com/kbukum/shellkit/observability"
	"github.com/kbukum/shellkit/process"
)

// ShutdownFunc flushes and stops whatever Setup started.
type ShutdownFunc func(ctx context.Context) error

// Setup applies defaults to cfg, validates it, initializes the global
// logger, installs the process defaults and, when telemetry is enabled,
// the OTLP tracer and meter providers.
func Setup(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	if err := prepare(cfg); err != nil {
		return nil, err
	}
	return initTelemetry(ctx, &cfg.GetConfig().Telemetry)
}

// prepare is the part of Setup that needs no context.
func prepare(cfg Config) error {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetConfig()
	logger.Init(&base.Logging)
	process.Configure(base.Process)
	return nil
}

func initTelemetry(ctx context.Context, cfg *observability.Config) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	tp, err := observability.InitTracer(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	mp, err := observability.InitMeter(ctx, cfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	logger.WithComponent("bootstrap").Info("telemetry enabled", logger.Fields(
		"endpoint", cfg.Endpoint,
		"sample_rate", cfg.SampleRate,
	))
	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
