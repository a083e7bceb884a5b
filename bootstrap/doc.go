// Package bootstrap wires a shellkit program together: configuration,
// logging, process defaults and telemetry.
//
// For a script with a lifecycle:
//
//	var cfg config.Config
//	app, err := bootstrap.Load("my-tool", &cfg, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return shell.Stdout(ctx, shell.Grep(pattern.Text("TODO"), shell.Input("notes.txt")))
//	})
//
// For a library caller that only wants the ambient setup:
//
//	shutdown, err := bootstrap.Setup(ctx, &cfg)
//	defer shutdown(ctx)
package bootstrap
