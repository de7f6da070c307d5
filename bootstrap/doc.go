// Package bootstrap runs a speechkit binary through one lifecycle: start the
// registered components, run start hooks, then either serve until a signal
// (Run) or execute one finite job (RunTask), and finally shut everything
// down in reverse order.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(server.NewComponent(srv))
//	err = app.Run(ctx)
package bootstrap
