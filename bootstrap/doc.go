// Package bootstrap runs an xhrkit binary through a uniform lifecycle:
// validate config, start components, run hooks, then either block until
// a signal (Run) or execute one task (RunTask) before shutting down.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(xhr.NewComponent(cfg.XHR, t))
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    resp, _ := adapter.Execute(ctx, req)
//	    return print(resp)
//	})
package bootstrap
