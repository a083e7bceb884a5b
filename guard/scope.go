package guard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	apperrors "github.com/kbukum/shellkit/errors"
)

// Scope holds releases in acquisition order and runs them in reverse when it
// closes. A Scope is safe for concurrent use.
type Scope struct {
	ctx      context.Context
	mu       sync.Mutex
	releases []Release
	closed   bool

	closeOnce sync.Once
	err       error
}

// NewScope returns an open scope whose acquisitions use ctx.
func NewScope(ctx context.Context) *Scope {
	return &Scope{ctx: ctx}
}

// Context returns the context acquisitions in this scope run with.
func (s *Scope) Context() context.Context { return s.ctx }

// Defer registers fn to run when the scope closes.
func (s *Scope) Defer(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return apperrors.ResourceAcquire("scope", fmt.Errorf("scope is closed"))
	}
	s.releases = append(s.releases, fn)
	return nil
}

// Close releases everything acquired in the scope, most recent first, and
// returns the joined release errors. Calling Close again returns the same
// result without releasing anything.
func (s *Scope) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		releases := s.releases
		s.releases = nil
		s.mu.Unlock()

		var errs []error
		for i := len(releases) - 1; i >= 0; i-- {
			if err := releases[i](); err != nil {
				errs = append(errs, err)
			}
		}
		s.err = errors.Join(errs...)
	})
	return s.err
}

// Use acquires r into s. The value stays valid until s closes.
func Use[T any](s *Scope, r Resource[T]) (T, error) {
	var zero T
	v, release, err := r.Acquire(s.ctx)
	if err != nil {
		return zero, err
	}
	if err := s.Defer(release); err != nil {
		return zero, combine(err, release())
	}
	return v, nil
}

// Run opens a scope, runs body in it and closes the scope on the way out,
// including when body panics. Release errors are joined behind body's error.
func Run(ctx context.Context, body func(s *Scope) error) (err error) {
	s := NewScope(ctx)
	defer func() {
		err = combine(err, s.Close())
	}()
	return body(s)
}
