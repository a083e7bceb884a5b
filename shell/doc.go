// Package shell provides Shell, a lazy push-based stream for writing shell
// scripts in Go, and the usual tools built on it: ls, lstree, find, cat,
// grep, sed, yes and process pipes.
//
// A Shell does no work until a terminal such as Collect, ForEach or Run
// drives it. Driving a Shell twice produces its values twice; nothing is
// cached.
//
//	// Every Go file under ./internal that mentions "TODO", numbered.
//	lines := shell.Bind(shell.FindGlob("**.go", "internal"), shell.Input)
//	todos := shell.Nl(shell.Grep(pattern.Text("TODO"), lines))
//	err := shell.ForEach(ctx, todos, func(n shell.Numbered[string]) error {
//		fmt.Println(n.N, n.Value)
//		return nil
//	})
//
// Values flow from producers to the consumer on a single goroutine. A
// consumer that wants no more values returns ErrStop from its callback;
// Limit and First do this, so Limit(1, Yes()) terminates.
//
// Files, temporary paths and subprocesses touched by a Shell are acquired
// through package guard and released when the drive ends, however it ends.
// Process pipes feed input from a forked task; when the consumer stops early
// the feeder is cancelled, both pipes are closed, the process group is
// signalled and the process is always waited on.
package shell
