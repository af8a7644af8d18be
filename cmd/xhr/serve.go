package main

import (
	"context"
	"flag"
	"io"

	"github.com/kbukum/xhrkit/bootstrap"
	"github.com/kbukum/xhrkit/errors"
	"github.com/kbukum/xhrkit/internal/testserver"
	"github.com/kbukum/xhrkit/logger"
)

// runServe runs the fixture server until SIGINT or SIGTERM.
func runServe(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file path")
	addr := fs.String("addr", "", "listen address (default from config, :8080)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return printError(stderr, errors.InvalidInput("args", err.Error()), exitUsage)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return printError(stderr, err, exitUsage)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return printError(stderr, err, exitUsage)
	}
	srv := testserver.NewServer(cfg.Server, logger.WithComponent("testserver"))
	if err := app.RegisterComponent(srv); err != nil {
		return printError(stderr, err, exitFailure)
	}
	app.OnReady(func(context.Context) error {
		app.Logger.Info("Fixture server listening", logger.Fields("addr", srv.Addr()))
		return nil
	})

	if err := app.Run(context.Background()); err != nil {
		return printError(stderr, err, exitFailure)
	}
	return exitOK
}
