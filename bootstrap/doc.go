// Package bootstrap runs the lifecycle of an h2bridge binary: it validates
// the typed configuration, initializes the logger, starts registered
// components, runs hooks, prints a startup summary, executes a finite task,
// and shuts everything down in reverse order.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(client.NewComponent(builder))
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return send(ctx)
//	})
package bootstrap
