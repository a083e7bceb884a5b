// Package guard provides guarded resources: values whose release is
// guaranteed once they have been acquired, whatever way the code using them
// exits.
//
// A Resource describes how to acquire a value and how to give it back.
// With runs a body against a freshly acquired value and releases it on return,
// on error, on panic and on cancellation:
//
//	err := guard.With(ctx, guard.TempDir("", "build-"), func(ctx context.Context, dir string) error {
//		return buildInto(ctx, dir)
//	})
//
// A Scope collects several acquisitions and releases them in reverse order
// when it closes:
//
//	err := guard.Run(ctx, func(s *guard.Scope) error {
//		in, err := guard.Use(s, guard.ReadOnly("input.txt"))
//		if err != nil {
//			return err
//		}
//		out, err := guard.Use(s, guard.WriteOnly("output.txt"))
//		...
//	})
//
// Release runs at most once. When both the body and the release fail the
// body error comes first and the release error is joined behind it, so
// errors.Is finds both.
package guard
