package bootstrap

import (
	"context"
	"fmt"
)

// Hook is a lifecycle callback that runs around the task.
type Hook func(ctx context.Context) error

// OnStart registers hooks that run after telemetry is up, before the task.
func (a *App[C]) OnStart(hooks ...Hook) {
	a.onStart = append(a.onStart, hooks...)
}

// OnStop registers hooks that run after the task, before telemetry is
// flushed. They run even when the task failed.
func (a *App[C]) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

// runHooks executes a slice of hooks sequentially, returning the first error.
func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d failed: %w", i, err)
		}
	}
	return nil
}
