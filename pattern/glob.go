package pattern

import (
	"unicode/utf8"

	"github.com/gobwas/glob"

	"github.com/kbukum/shellkit/errors"
)

// Glob compiles a shell-style glob and returns a pattern that consumes every
// prefix of the input the glob matches, longest first. Separators restrict
// '*' and '?' from crossing those characters, as with path globs.
func Glob(expr string, separators ...rune) (Pattern[string], error) {
	g, err := glob.Compile(expr, separators...)
	if err != nil {
		return Pattern[string]{}, errors.InvalidPattern(expr, err)
	}
	return Pattern[string]{run: func(input string, yield func(string, string) bool) bool {
		for i := len(input); i >= 0; i-- {
			if i < len(input) && !utf8.RuneStart(input[i]) {
				continue
			}
			if g.Match(input[:i]) && !yield(input[:i], input[i:]) {
				return false
			}
		}
		return true
	}}, nil
}

// MustGlob is like Glob but panics when expr does not compile.
func MustGlob(expr string, separators ...rune) Pattern[string] {
	p, err := Glob(expr, separators...)
	if err != nil {
		panic(err)
	}
	return p
}
