package shell

import (
	"context"
	"slices"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Bind drives f(v) to completion for each value v of s before s produces its
// next value. Output order follows that nesting.
func Bind[A, B any](s Shell[A], f func(A) Shell[B]) Shell[B] {
	return New(func(ctx context.Context, emit func(B) error) error {
		return s.Drive(ctx, func(a A) error {
			return f(a).Drive(ctx, emit)
		})
	})
}

// Map transforms each value.
func Map[A, B any](s Shell[A], f func(A) B) Shell[B] {
	return New(func(ctx context.Context, emit func(B) error) error {
		return s.Drive(ctx, func(a A) error {
			return emit(f(a))
		})
	})
}

// MapErr transforms each value with a function that may fail. The first
// failure aborts the drive.
func MapErr[A, B any](s Shell[A], f func(context.Context, A) (B, error)) Shell[B] {
	return New(func(ctx context.Context, emit func(B) error) error {
		return s.Drive(ctx, func(a A) error {
			b, err := f(ctx, a)
			if err != nil {
				return err
			}
			return emit(b)
		})
	})
}

// Filter keeps only values that satisfy the predicate.
func Filter[T any](s Shell[T], keep func(T) bool) Shell[T] {
	return New(func(ctx context.Context, emit func(T) error) error {
		return s.Drive(ctx, func(v T) error {
			if !keep(v) {
				return nil
			}
			return emit(v)
		})
	})
}

// Tap calls fn as a side-effect for each value, then passes the value through unchanged.
func Tap[T any](s Shell[T], fn func(T)) Shell[T] {
	return New(func(ctx context.Context, emit func(T) error) error {
		return s.Drive(ctx, func(v T) error {
			fn(v)
			return emit(v)
		})
	})
}

// Concat drives each shell to completion in turn into the same consumer.
func Concat[T any](shells ...Shell[T]) Shell[T] {
	return New(func(ctx context.Context, emit func(T) error) error {
		for _, s := range shells {
			if err := s.Drive(ctx, emit); err != nil {
				return err
			}
		}
		return nil
	})
}

// Cat is Concat under its shell name.
func Cat[T any](shells ...Shell[T]) Shell[T] {
	return Concat(shells...)
}

// Limit forwards at most n values of s. Once n values have been forwarded
// the producer is stopped, so effects of later values do not happen. With
// n <= 0, s is not run at all.
func Limit[T any](n int, s Shell[T]) Shell[T] {
	return New(func(ctx context.Context, emit func(T) error) error {
		if n <= 0 {
			return nil
		}
		stop := newStop()
		count := 0
		err := s.Drive(ctx, func(v T) error {
			if err := emit(v); err != nil {
				return err
			}
			count++
			if count >= n {
				return stop
			}
			return nil
		})
		return clearToken(err, stop)
	})
}

// LimitWhile forwards values while keep holds and stops the producer at the
// first value for which it does not. Later values are never forwarded, even
// if keep would accept them.
func LimitWhile[T any](keep func(T) bool, s Shell[T]) Shell[T] {
	return New(func(ctx context.Context, emit func(T) error) error {
		stop := newStop()
		err := s.Drive(ctx, func(v T) error {
			if !keep(v) {
				return stop
			}
			return emit(v)
		})
		return clearToken(err, stop)
	})
}

// Numbered pairs a value with its zero-based position in a stream.
type Numbered[T any] struct {
	N     int
	Value T
}

// Nl numbers the values of s, starting at 0.
func Nl[T any](s Shell[T]) Shell[Numbered[T]] {
	return New(func(ctx context.Context, emit func(Numbered[T]) error) error {
		n := 0
		return s.Drive(ctx, func(v T) error {
			err := emit(Numbered[T]{N: n, Value: v})
			n++
			return err
		})
	})
}

// Uniq drops values equal to the one immediately before them.
func Uniq[T comparable](s Shell[T]) Shell[T] {
	return UniqOn(s, func(v T) T { return v })
}

// UniqOn drops values whose key equals the previous value's key.
func UniqOn[T any, K comparable](s Shell[T], key func(T) K) Shell[T] {
	return New(func(ctx context.Context, emit func(T) error) error {
		var (
			prev K
			seen bool
		)
		return s.Drive(ctx, func(v T) error {
			k := key(v)
			if seen && k == prev {
				return nil
			}
			prev, seen = k, true
			return emit(v)
		})
	})
}

// Nub drops every line already produced earlier in the stream.
func Nub(s Shell[string]) Shell[string] {
	return NubOn(s, func(v string) string { return v })
}

// NubOn drops values whose key was already produced. Keys are indexed by
// their xxhash digest; digests that collide are told apart by comparing the
// keys themselves. Memory grows with the number of distinct keys.
func NubOn[T any](s Shell[T], key func(T) string) Shell[T] {
	return New(func(ctx context.Context, emit func(T) error) error {
		seen := make(map[uint64][]string)
		return s.Drive(ctx, func(v T) error {
			k := key(v)
			h := xxhash.Sum64String(k)
			if slices.Contains(seen[h], k) {
				return nil
			}
			seen[h] = append(seen[h], k)
			return emit(v)
		})
	})
}

// Reduce folds every value of s into a single accumulated value, which is
// the only value the returned Shell produces.
func Reduce[T, R any](s Shell[T], init R, fn func(R, T) R) Shell[R] {
	return New(func(ctx context.Context, emit func(R) error) error {
		acc := init
		if err := s.Drive(ctx, func(v T) error {
			acc = fn(acc, v)
			return nil
		}); err != nil {
			return err
		}
		return emit(acc)
	})
}

// Chunk groups values into slices of up to size values. The last slice may
// be shorter. A size below 1 is treated as 1.
func Chunk[T any](size int, s Shell[T]) Shell[[]T] {
	if size < 1 {
		size = 1
	}
	return New(func(ctx context.Context, emit func([]T) error) error {
		batch := make([]T, 0, size)
		err := s.Drive(ctx, func(v T) error {
			batch = append(batch, v)
			if len(batch) < size {
				return nil
			}
			out := batch
			batch = make([]T, 0, size)
			return emit(out)
		})
		if err != nil {
			return err
		}
		if len(batch) > 0 {
			return emit(batch)
		}
		return nil
	})
}

// Throttle spaces values at least interval apart. The first value passes
// immediately.
func Throttle[T any](interval time.Duration, s Shell[T]) Shell[T] {
	return New(func(ctx context.Context, emit func(T) error) error {
		var last time.Time
		return s.Drive(ctx, func(v T) error {
			if !last.IsZero() {
				if wait := interval - time.Since(last); wait > 0 {
					timer := time.NewTimer(wait)
					select {
					case <-ctx.Done():
						timer.Stop()
						return ctx.Err()
					case <-timer.C:
					}
				}
			}
			last = time.Now()
			return emit(v)
		})
	})
}
