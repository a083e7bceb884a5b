package pattern

import (
	"strconv"
	"strings"
	"unicode"
)

// AnyChar consumes any single character.
var AnyChar = Satisfy(func(rune) bool { return true })

// Dot consumes any character except a newline.
var Dot = NotChar('\n')

// Char consumes the character c.
func Char(c rune) Pattern[rune] {
	return Satisfy(func(r rune) bool { return r == c })
}

// NotChar consumes any character other than c.
func NotChar(c rune) Pattern[rune] {
	return Satisfy(func(r rune) bool { return r != c })
}

// OneOf consumes any character contained in chars.
func OneOf(chars string) Pattern[rune] {
	return Satisfy(func(r rune) bool { return strings.ContainsRune(chars, r) })
}

// NoneOf consumes any character not contained in chars.
func NoneOf(chars string) Pattern[rune] {
	return Satisfy(func(r rune) bool { return !strings.ContainsRune(chars, r) })
}

// Character classes.
var (
	Digit    = Satisfy(func(r rune) bool { return r >= '0' && r <= '9' })
	HexDigit = Satisfy(func(r rune) bool {
		return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
	})
	OctDigit = Satisfy(func(r rune) bool { return r >= '0' && r <= '7' })
	Upper    = Satisfy(unicode.IsUpper)
	Lower    = Satisfy(unicode.IsLower)
	Letter   = Satisfy(unicode.IsLetter)
	AlphaNum = Satisfy(func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) })
	Space    = Satisfy(unicode.IsSpace)
	Tab      = Char('\t')
	Newline  = Char('\n')
)

// CRLF consumes a carriage return followed by a newline.
var CRLF = Text("\r\n")

// Spaces consumes zero or more whitespace characters.
var Spaces = Star(Space)

// Spaces1 consumes one or more whitespace characters.
var Spaces1 = Plus(Space)

var digits = Plus(Digit)

// Decimal consumes one or more digits and yields their value. Like every
// repetition it also yields the shorter digit prefixes. Digit runs that do
// not fit in an int yield nothing.
var Decimal = New(func(input string, yield func(int, string) bool) bool {
	return digits.Each(input, func(s, rest string) bool {
		n, err := strconv.Atoi(s)
		if err != nil {
			return true
		}
		return yield(n, rest)
	})
})

// Signed allows an optional leading '+' or '-' before p.
func Signed(p Pattern[int]) Pattern[int] {
	sign := Or(As(Char('-'), -1), As(Char('+'), 1), Done(1))
	return Seq(sign, p, func(s, n int) int { return s * n })
}
