package shell

import (
	"context"
	"errors"
)

// ErrStop is returned from an emit callback or a fold step to stop the
// producer early. Terminals treat it as normal completion.
var ErrStop = errors.New("shell: stop")

// stopToken is a per-drive stop signal. It matches ErrStop so terminals
// recognise it, but each token only matches itself otherwise. The field
// keeps it non-zero-sized so distinct tokens never share an address.
type stopToken struct{ _ byte }

func (*stopToken) Error() string { return ErrStop.Error() }

func (*stopToken) Is(target error) bool { return target == ErrStop }

func newStop() error { return &stopToken{} }

// IsStop reports whether err is an early-stop signal rather than a failure.
func IsStop(err error) bool { return errors.Is(err, ErrStop) }

// clearStop removes stop signals matched by isStop from err, keeping any
// other errors joined alongside them (release failures, for instance).
func clearStop(err error, isStop func(error) bool) error {
	if err == nil || isStop(err) {
		return nil
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return err
	}
	var rest []error
	for _, e := range joined.Unwrap() {
		if e = clearStop(e, isStop); e != nil {
			rest = append(rest, e)
		}
	}
	return errors.Join(rest...)
}

// finish turns any stop signal in err into normal completion.
func finish(err error) error {
	return clearStop(err, func(e error) bool {
		if e == ErrStop {
			return true
		}
		_, ok := e.(*stopToken)
		return ok
	})
}

// clearToken removes only the given stop token from err.
func clearToken(err, token error) error {
	return clearStop(err, func(e error) bool { return e == token })
}

// Shell is a lazy stream of values of type T. Driving it runs production and
// pushes each value into emit, in order, on the calling goroutine. A Shell
// value may be driven any number of times.
type Shell[T any] struct {
	drive func(ctx context.Context, emit func(T) error) error
}

// New builds a Shell from a drive function. drive must stop and return
// emit's error as soon as emit fails.
func New[T any](drive func(ctx context.Context, emit func(T) error) error) Shell[T] {
	return Shell[T]{drive: drive}
}

// Drive runs s, pushing every value into emit. It returns the first error
// from production or from emit, including ErrStop.
func (s Shell[T]) Drive(ctx context.Context, emit func(T) error) error {
	if s.drive == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.drive(ctx, emit)
}

// Fold consumes a Shell into a single result: Begin creates the
// accumulator, Step folds each value into it and Done finalises it. Step may
// return ErrStop to finish early.
type Fold[T, A, R any] struct {
	Begin func() A
	Step  func(acc A, v T) (A, error)
	Done  func(acc A) R
}

// FoldShell drives s through f.
func FoldShell[T, A, R any](ctx context.Context, s Shell[T], f Fold[T, A, R]) (R, error) {
	var acc A
	if f.Begin != nil {
		acc = f.Begin()
	}
	err := s.Drive(ctx, func(v T) error {
		next, err := f.Step(acc, v)
		acc = next
		return err
	})
	if err := finish(err); err != nil {
		var zero R
		return zero, err
	}
	if f.Done == nil {
		var zero R
		return zero, nil
	}
	return f.Done(acc), nil
}
