package pattern

import "strings"

// Map transforms every value produced by p.
func Map[A, B any](p Pattern[A], f func(A) B) Pattern[B] {
	return Pattern[B]{run: func(input string, yield func(B, string) bool) bool {
		return p.Each(input, func(a A, rest string) bool {
			return yield(f(a), rest)
		})
	}}
}

// As replaces every value produced by p with v.
func As[A, B any](p Pattern[A], v B) Pattern[B] {
	return Map(p, func(A) B { return v })
}

// Skip matches p and discards its value.
func Skip[T any](p Pattern[T]) Pattern[struct{}] {
	return As(p, struct{}{})
}

// Bind sequences p with the pattern f builds from each of its values.
func Bind[A, B any](p Pattern[A], f func(A) Pattern[B]) Pattern[B] {
	return Pattern[B]{run: func(input string, yield func(B, string) bool) bool {
		return p.Each(input, func(a A, rest string) bool {
			return f(a).Each(rest, yield)
		})
	}}
}

// Seq matches a then b and combines their values with f.
func Seq[A, B, C any](a Pattern[A], b Pattern[B], f func(A, B) C) Pattern[C] {
	return Bind(a, func(x A) Pattern[C] {
		return Map(b, func(y B) C { return f(x, y) })
	})
}

// Left matches a then b and keeps the value of a.
func Left[A, B any](a Pattern[A], b Pattern[B]) Pattern[A] {
	return Seq(a, b, func(x A, _ B) A { return x })
}

// Right matches a then b and keeps the value of b.
func Right[A, B any](a Pattern[A], b Pattern[B]) Pattern[B] {
	return Seq(a, b, func(_ A, y B) B { return y })
}

// Between matches open, p, close and keeps the value of p.
func Between[A, B, T any](open Pattern[A], close Pattern[B], p Pattern[T]) Pattern[T] {
	return Right(open, Left(p, close))
}

// Concat matches each pattern in turn and joins their text.
func Concat(ps ...Pattern[string]) Pattern[string] {
	out := Done("")
	for _, p := range ps {
		out = Seq(out, p, func(a, b string) string { return a + b })
	}
	return out
}

// Or yields every result of every alternative, in argument order.
func Or[T any](ps ...Pattern[T]) Pattern[T] {
	return Pattern[T]{run: func(input string, yield func(T, string) bool) bool {
		for _, p := range ps {
			if !p.Each(input, yield) {
				return false
			}
		}
		return true
	}}
}

// Option yields every result of p, then the zero value without consuming.
func Option[T any](p Pattern[T]) Pattern[T] {
	var zero T
	return Or(p, Done(zero))
}

// repeat matches p between lo and hi times (hi < 0 means unbounded),
// enumerating longer repetitions first. Once lo is reached, iterations that
// consume nothing are skipped so repetition always terminates.
func repeat[T any](p Pattern[T], lo, hi int) Pattern[[]T] {
	return Pattern[[]T]{run: func(input string, yield func([]T, string) bool) bool {
		var step func(acc []T, s string) bool
		step = func(acc []T, s string) bool {
			n := len(acc)
			if hi < 0 || n < hi {
				more := p.Each(s, func(v T, rest string) bool {
					if n >= lo && len(rest) == len(s) {
						return true
					}
					return step(append(acc[:n:n], v), rest)
				})
				if !more {
					return false
				}
			}
			if n >= lo {
				return yield(acc, s)
			}
			return true
		}
		return step(nil, input)
	}}
}

// Many matches p zero or more times.
func Many[T any](p Pattern[T]) Pattern[[]T] { return repeat(p, 0, -1) }

// Some matches p one or more times.
func Some[T any](p Pattern[T]) Pattern[[]T] { return repeat(p, 1, -1) }

// Count matches p exactly n times.
func Count[T any](n int, p Pattern[T]) Pattern[[]T] {
	if n < 0 {
		return Fail[[]T]()
	}
	return repeat(p, n, n)
}

// Bounded matches p at least lo and at most hi times.
func Bounded[T any](lo, hi int, p Pattern[T]) Pattern[[]T] {
	if lo < 0 || hi < lo {
		return Fail[[]T]()
	}
	return repeat(p, lo, hi)
}

// UpperBounded matches p at most n times.
func UpperBounded[T any](n int, p Pattern[T]) Pattern[[]T] { return Bounded(0, n, p) }

// LowerBounded matches p at least n times.
func LowerBounded[T any](n int, p Pattern[T]) Pattern[[]T] { return repeat(p, n, -1) }

// Star matches a character pattern zero or more times and yields the text.
func Star(p Pattern[rune]) Pattern[string] { return Map(Many(p), runesToString) }

// Plus matches a character pattern one or more times and yields the text.
func Plus(p Pattern[rune]) Pattern[string] { return Map(Some(p), runesToString) }

// SelfText yields the text p consumed instead of its value.
func SelfText[T any](p Pattern[T]) Pattern[string] {
	return Pattern[string]{run: func(input string, yield func(string, string) bool) bool {
		return p.Each(input, func(_ T, rest string) bool {
			return yield(input[:len(input)-len(rest)], rest)
		})
	}}
}

// SepBy matches zero or more p separated by sep.
func SepBy[T, S any](p Pattern[T], sep Pattern[S]) Pattern[[]T] {
	return Or(SepBy1(p, sep), Done[[]T](nil))
}

// SepBy1 matches one or more p separated by sep.
func SepBy1[T, S any](p Pattern[T], sep Pattern[S]) Pattern[[]T] {
	return Seq(p, Many(Right(sep, p)), func(first T, rest []T) []T {
		return append([]T{first}, rest...)
	})
}

// Has matches p anywhere inside the input, consuming the text around it.
func Has[T any](p Pattern[T]) Pattern[T] { return Right(Chars, Left(p, Chars)) }

// Prefix matches p at the start of the input and consumes the rest.
func Prefix[T any](p Pattern[T]) Pattern[T] { return Left(p, Chars) }

// Suffix matches p at the end of the input.
func Suffix[T any](p Pattern[T]) Pattern[T] { return Right(Chars, p) }

// Invert consumes the whole input when p has no result on it.
func Invert[T any](p Pattern[T]) Pattern[string] {
	return Pattern[string]{run: func(input string, yield func(string, string) bool) bool {
		matched := false
		p.Each(input, func(T, string) bool {
			matched = true
			return false
		})
		if matched {
			return true
		}
		return yield(input, "")
	}}
}

func runesToString(rs []rune) string {
	var b strings.Builder
	for _, r := range rs {
		b.WriteRune(r)
	}
	return b.String()
}
