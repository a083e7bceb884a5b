package guard

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	apperrors "github.com/kbukum/shellkit/errors"
	"github.com/kbukum/shellkit/logger"
)

// Task is a function running on its own goroutine under a guarded scope.
type Task struct {
	// ID identifies the task in logs.
	ID string

	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Fork runs fn on a new goroutine with a context derived from the acquiring
// one. Release cancels that context and waits for fn to return, so the task
// is never left running after its scope closes. A panic in fn is recovered
// and reported by Wait.
func Fork(fn func(ctx context.Context) error) Resource[*Task] {
	return New("task",
		func(ctx context.Context) (*Task, error) {
			id := uuid.New().String()
			ctx, cancel := context.WithCancel(logger.ContextWithTaskID(ctx, id))
			t := &Task{ID: id, cancel: cancel, done: make(chan struct{})}
			go t.run(ctx, fn)
			return t, nil
		},
		func(t *Task) error {
			t.cancel()
			<-t.done
			return nil
		},
	)
}

func (t *Task) run(ctx context.Context, fn func(ctx context.Context) error) {
	defer close(t.done)
	defer func() {
		if p := recover(); p != nil {
			t.err = apperrors.Internal(fmt.Errorf("task panicked: %v", p))
			logger.WithComponent(component).WithContext(ctx).Error("task panicked", logger.Fields("panic", fmt.Sprint(p)))
		}
	}()
	t.err = fn(ctx)
}

// Wait blocks until the task returns and reports its error.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

// Done is closed when the task returns.
func (t *Task) Done() <-chan struct{} { return t.done }

// Cancel asks the task to stop without waiting for it.
func (t *Task) Cancel() { t.cancel() }
