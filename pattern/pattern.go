package pattern

import "unicode/utf8"

// Result is one way a pattern matched: the produced value and the text left
// unconsumed.
type Result[T any] struct {
	Value T
	Rest  string
}

// Pattern consumes a prefix of its input in zero or more ways.
type Pattern[T any] struct {
	run func(input string, yield func(T, string) bool) bool
}

// New builds a pattern from a raw enumerator. The enumerator must call yield
// once per result and return false as soon as yield does.
func New[T any](run func(input string, yield func(value T, rest string) bool) bool) Pattern[T] {
	return Pattern[T]{run: run}
}

// Each pushes every result of p on input to yield until yield returns false.
// It reports whether the enumeration ran to completion.
func (p Pattern[T]) Each(input string, yield func(value T, rest string) bool) bool {
	if p.run == nil {
		return true
	}
	return p.run(input, yield)
}

// Parse returns every result of p on input, including partial matches.
func Parse[T any](p Pattern[T], input string) []Result[T] {
	var out []Result[T]
	p.Each(input, func(v T, rest string) bool {
		out = append(out, Result[T]{Value: v, Rest: rest})
		return true
	})
	return out
}

// Match returns the values of every result of p that consumes all of input.
// A pattern that only matches a prefix yields nothing.
func Match[T any](p Pattern[T], input string) []T {
	var out []T
	p.Each(input, func(v T, rest string) bool {
		if rest == "" {
			out = append(out, v)
		}
		return true
	})
	return out
}

// First returns the first full match of p on input.
func First[T any](p Pattern[T], input string) (T, bool) {
	var (
		found T
		ok    bool
	)
	p.Each(input, func(v T, rest string) bool {
		if rest == "" {
			found, ok = v, true
			return false
		}
		return true
	})
	return found, ok
}

// Matches reports whether p consumes all of input in at least one way.
func Matches[T any](p Pattern[T], input string) bool {
	_, ok := First(p, input)
	return ok
}

// MatchInside returns the values of every way p matches some contiguous
// substring of input.
func MatchInside[T any](p Pattern[T], input string) []T {
	return Match(Has(p), input)
}

// Contains reports whether p matches some contiguous substring of input.
func Contains[T any](p Pattern[T], input string) bool {
	return Matches(Has(p), input)
}

// --- Primitives ---

// Done consumes nothing and produces v.
func Done[T any](v T) Pattern[T] {
	return Pattern[T]{run: func(input string, yield func(T, string) bool) bool {
		return yield(v, input)
	}}
}

// Fail never matches.
func Fail[T any]() Pattern[T] {
	return Pattern[T]{run: func(string, func(T, string) bool) bool { return true }}
}

// EOF matches only the empty input.
var EOF = Pattern[struct{}]{run: func(input string, yield func(struct{}, string) bool) bool {
	if input != "" {
		return true
	}
	return yield(struct{}{}, input)
}}

// Satisfy consumes one character for which pred holds.
func Satisfy(pred func(rune) bool) Pattern[rune] {
	return Pattern[rune]{run: func(input string, yield func(rune, string) bool) bool {
		if input == "" {
			return true
		}
		r, size := utf8.DecodeRuneInString(input)
		if !pred(r) {
			return true
		}
		return yield(r, input[size:])
	}}
}

// Text consumes the literal s.
func Text(s string) Pattern[string] {
	return Pattern[string]{run: func(input string, yield func(string, string) bool) bool {
		if len(input) < len(s) || input[:len(s)] != s {
			return true
		}
		return yield(s, input[len(s):])
	}}
}

// TextCI consumes s, comparing ASCII letters case-insensitively. It produces
// the text as it appeared in the input.
func TextCI(s string) Pattern[string] {
	return Pattern[string]{run: func(input string, yield func(string, string) bool) bool {
		if len(input) < len(s) {
			return true
		}
		for i := 0; i < len(s); i++ {
			if lowerASCII(input[i]) != lowerASCII(s[i]) {
				return true
			}
		}
		return yield(input[:len(s)], input[len(s):])
	}}
}

func lowerASCII(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// Chars consumes any number of characters, longest prefix first.
var Chars = Pattern[string]{run: func(input string, yield func(string, string) bool) bool {
	for i := len(input); i >= 0; i-- {
		if i < len(input) && !utf8.RuneStart(input[i]) {
			continue
		}
		if !yield(input[:i], input[i:]) {
			return false
		}
	}
	return true
}}

// Chars1 consumes at least one character, longest prefix first.
var Chars1 = Pattern[string]{run: func(input string, yield func(string, string) bool) bool {
	return Chars.run(input, func(v, rest string) bool {
		if v == "" {
			return true
		}
		return yield(v, rest)
	})
}}
