// Package pattern provides backtracking text patterns.
//
// A Pattern[T] describes every way of consuming a prefix of a string while
// producing a value of type T. Unlike a regular expression engine it does not
// stop at the first match: alternation yields the results of every branch and
// repetition yields every split point, greedy splits first. Results are pushed
// to a callback one at a time, so enumeration is lazy and stops as soon as a
// consumer has what it needs.
//
//	digits := pattern.Plus(pattern.Digit)
//	pattern.Match(digits, "123")        // ["123"]
//	pattern.Match(digits, "12a")        // []
//	pattern.MatchInside(digits, "ab12") // ["2", "12", "1"]
//
// # Hazards
//
// Backtracking is unbounded. Nested repetitions over long inputs can take
// exponential time; callers matching untrusted patterns against untrusted
// input should bound the input length themselves. Repetitions skip
// iterations that consume nothing once their lower bound is met, so a
// repeated empty-matching pattern terminates instead of looping.
package pattern
