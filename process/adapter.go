package process

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/shellkit/validation"
)

// Config configures process execution defaults.
type Config struct {
	// Name identifies this configuration in logs.
	Name string `yaml:"name,omitempty" mapstructure:"name"`
	// Interpreter runs command lines given as a single string.
	Interpreter string `yaml:"interpreter,omitempty" mapstructure:"interpreter"`
	// InterpreterArgs precede the command line, e.g. ["-c"].
	InterpreterArgs []string `yaml:"interpreter_args,omitempty" mapstructure:"interpreter_args"`
	// GracePeriod is the default grace period for SIGTERM→SIGKILL.
	GracePeriod time.Duration `yaml:"grace_period,omitempty" mapstructure:"grace_period" validate:"gte=0"`
	// Timeout is the default execution timeout. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout" validate:"gte=0"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "process"
	}
	if c.Interpreter == "" {
		c.Interpreter = "/bin/sh"
		if len(c.InterpreterArgs) == 0 {
			c.InterpreterArgs = []string{"-c"}
		}
	}
	if c.GracePeriod == 0 {
		c.GracePeriod = 5 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.New().
		Required("process.interpreter", c.Interpreter).
		NonNegative("process.grace_period", c.GracePeriod).
		NonNegative("process.timeout", c.Timeout).
		Err()
}

var (
	defaultsMu sync.RWMutex
	defaults   = func() Config {
		var c Config
		c.ApplyDefaults()
		return c
	}()
)

// Configure replaces the package defaults used by Run, Start and
// ShellCommand. Zero fields are filled with built-in defaults.
func Configure(cfg Config) {
	cfg.ApplyDefaults()
	defaultsMu.Lock()
	defaults = cfg
	defaultsMu.Unlock()
}

// Defaults returns the current package defaults.
func Defaults() Config {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	c := defaults
	c.InterpreterArgs = append([]string(nil), defaults.InterpreterArgs...)
	return c
}

// Adapter runs commands with a fixed set of defaults applied.
type Adapter struct {
	config Config
}

// NewAdapter creates a new process adapter.
func NewAdapter(cfg Config) *Adapter {
	cfg.ApplyDefaults()
	return &Adapter{config: cfg}
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return a.config.Name
}

func (a *Adapter) apply(ctx context.Context, cmd Command) (context.Context, context.CancelFunc, Command) {
	if cmd.GracePeriod == 0 {
		cmd.GracePeriod = a.config.GracePeriod
	}
	if a.config.Timeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
		return ctx, cancel, cmd
	}
	return ctx, func() {}, cmd
}

// Run executes a command to completion, applying adapter-level defaults.
func (a *Adapter) Run(ctx context.Context, cmd Command) (*Result, error) {
	ctx, cancel, cmd := a.apply(ctx, cmd)
	defer cancel()
	return run(ctx, cmd)
}

// Start launches a command, applying adapter-level defaults. The timeout, if
// any, covers the whole life of the process.
func (a *Adapter) Start(ctx context.Context, cmd Command) (*Running, error) {
	ctx, cancel, cmd := a.apply(ctx, cmd)
	r, err := start(ctx, cmd, spanPipe)
	if err != nil {
		cancel()
		return nil, err
	}
	r.release = cancel
	return r, nil
}
