package bootstrap

import (
	"os"
	"time"

	"github.com/kbukum/shellkit/logger"
)

// Option configures the App during creation.
// Options are non-generic so they can be used with any config type.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout *time.Duration
	signals         []os.Signal
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the global logger initialized from the config is used.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout sets the maximum duration of the stop sequence.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithSignals replaces the signals that cancel the task. Passing none
// disables signal handling.
func WithSignals(sigs ...os.Signal) Option {
	return func(o *appOptions) {
		o.signals = append([]os.Signal{}, sigs...)
	}
}
