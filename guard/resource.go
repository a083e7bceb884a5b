package guard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	apperrors "github.com/kbukum/shellkit/errors"
	"github.com/kbukum/shellkit/logger"
	"github.com/kbukum/shellkit/observability"
)

// Release gives back an acquired resource. Releases returned by Acquire run
// their cleanup at most once; later calls return the first result.
type Release func() error

// Resource acquires a value of type T together with the Release that
// returns it. A Resource is a description: each Acquire acquires anew.
type Resource[T any] struct {
	kind    string
	acquire func(ctx context.Context) (T, func() error, error)
}

// New builds a resource from an acquire function and the release to run on
// its value. kind names the resource in logs and metrics.
func New[T any](kind string, acquire func(ctx context.Context) (T, error), release func(T) error) Resource[T] {
	return Resource[T]{
		kind: kind,
		acquire: func(ctx context.Context) (T, func() error, error) {
			v, err := acquire(ctx)
			if err != nil {
				return v, nil, err
			}
			return v, func() error {
				if release == nil {
					return nil
				}
				return release(v)
			}, nil
		},
	}
}

// Pure wraps a value that needs no cleanup.
func Pure[T any](v T) Resource[T] {
	return New("pure", func(context.Context) (T, error) { return v, nil }, nil)
}

// Kind returns the resource kind.
func (r Resource[T]) Kind() string { return r.kind }

// Acquire acquires the resource. On success the caller owns the returned
// Release and must call it.
func (r Resource[T]) Acquire(ctx context.Context) (T, Release, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, nil, err
	}

	log := logger.WithComponent(component).WithContext(ctx)
	v, release, err := r.raw(ctx)
	if err != nil {
		log.Debug("acquire failed", logger.Fields(logger.FieldResource, r.kind, logger.FieldError, err.Error()))
		return zero, nil, err
	}
	observability.DefaultMetrics().RecordAcquire(ctx, r.kind)
	log.Debug("acquired", logger.Fields(logger.FieldResource, r.kind))

	var (
		once   sync.Once
		relErr error
	)
	return v, func() error {
		once.Do(func() {
			if release != nil {
				relErr = release()
			}
			observability.DefaultMetrics().RecordRelease(context.WithoutCancel(ctx), r.kind, relErr)
			if relErr != nil {
				log.Error("release failed", logger.Fields(logger.FieldResource, r.kind, logger.FieldError, relErr.Error()))
				relErr = apperrors.ResourceRelease(r.kind, relErr)
				return
			}
			log.Debug("released", logger.Fields(logger.FieldResource, r.kind))
		})
		return relErr
	}, nil
}

func (r Resource[T]) raw(ctx context.Context) (T, func() error, error) {
	if r.acquire == nil {
		var zero T
		return zero, nil, apperrors.ResourceAcquire(r.kind, fmt.Errorf("resource has no acquire function"))
	}
	return r.acquire(ctx)
}

// Map transforms the acquired value. The release is unchanged.
func Map[T, U any](r Resource[T], f func(T) U) Resource[U] {
	return Resource[U]{
		kind: r.kind,
		acquire: func(ctx context.Context) (U, func() error, error) {
			v, release, err := r.raw(ctx)
			if err != nil {
				var zero U
				return zero, nil, err
			}
			return f(v), release, nil
		},
	}
}

// Then acquires r and then the resource f builds from its value. The inner
// resource is released before the outer one. If the inner acquisition fails
// the outer resource is released immediately.
func Then[T, U any](r Resource[T], f func(T) Resource[U]) Resource[U] {
	return Resource[U]{
		kind: r.kind,
		acquire: func(ctx context.Context) (U, func() error, error) {
			var zero U
			outer, releaseOuter, err := r.raw(ctx)
			if err != nil {
				return zero, nil, err
			}
			inner, releaseInner, err := f(outer).raw(ctx)
			if err != nil {
				return zero, nil, combine(err, releaseOuter())
			}
			return inner, func() error {
				return errors.Join(releaseInner(), releaseOuter())
			}, nil
		},
	}
}

// With acquires r, runs body with the value and releases it afterwards. The
// release also runs when body panics; the panic then continues.
func With[T any](ctx context.Context, r Resource[T], body func(ctx context.Context, v T) error) (err error) {
	v, release, err := r.Acquire(ctx)
	if err != nil {
		return err
	}
	defer func() {
		err = combine(err, release())
	}()
	return body(ctx, v)
}

// combine keeps primary first and joins secondary behind it.
func combine(primary, secondary error) error {
	switch {
	case secondary == nil:
		return primary
	case primary == nil:
		return secondary
	default:
		return errors.Join(primary, secondary)
	}
}

const component = "guard"
