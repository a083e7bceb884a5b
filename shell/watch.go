package shell

import (
	"context"

	"github.com/fsnotify/fsnotify"

	apperrors "github.com/kbukum/shellkit/errors"
	"github.com/kbukum/shellkit/guard"
)

// Event is a change to a watched path.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Has reports whether the event includes op.
func (e Event) Has(op fsnotify.Op) bool { return e.Op.Has(op) }

func (e Event) String() string { return e.Op.String() + " " + e.Path }

func watcher(paths ...string) guard.Resource[*fsnotify.Watcher] {
	return guard.New("watcher",
		func(ctx context.Context) (*fsnotify.Watcher, error) {
			w, err := fsnotify.NewWatcher()
			if err != nil {
				return nil, apperrors.ResourceAcquire("watcher", err)
			}
			for _, p := range paths {
				if err := w.Add(p); err != nil {
					_ = w.Close()
					return nil, apperrors.FromOS("watch", p, err)
				}
			}
			return w, nil
		},
		func(w *fsnotify.Watcher) error { return w.Close() },
	)
}

// Watch produces filesystem events for the given paths (not recursive) until
// the consumer stops or ctx ends. It never finishes on its own.
func Watch(paths ...string) Shell[Event] {
	return New(func(ctx context.Context, emit func(Event) error) error {
		return guard.With(ctx, watcher(paths...), func(ctx context.Context, w *fsnotify.Watcher) error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case ev, ok := <-w.Events:
					if !ok {
						return nil
					}
					if err := emit(Event{Path: ev.Name, Op: ev.Op}); err != nil {
						return err
					}
				case err, ok := <-w.Errors:
					if !ok {
						return nil
					}
					return apperrors.Internal(err).WithDetail("op", "watch")
				}
			}
		})
	})
}
