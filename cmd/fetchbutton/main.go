// Command fetchbutton requests a fixed endpoint on every button press and
// shows the response text.
//
// Usage:
//
//	fetchbutton [-mode click|serve] [-target URL] [-backend nethttp|chromedp] ...
//
// In click mode results are printed to stdout, one line per activation; logs go
// to stderr. In serve mode a page with the button is hosted on -listen.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/raysh454/fetchbutton/internal/app"
	"github.com/raysh454/fetchbutton/internal/cli"
	"github.com/raysh454/fetchbutton/internal/logging"
)

func main() {
	args, err := cli.ParseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "fetchbutton: %v\n", err)
		os.Exit(2)
	}

	cfg := app.DefaultConfig()
	cfg.ApplyEnv(os.Getenv)
	cfg.ApplyArgs(args)

	logger := logging.NewWriterLogger(os.Stderr, "fetchbutton", logging.ParseLevel(cfg.LogLevel))

	a, err := app.Build(cfg, args, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetchbutton: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	runErr := a.Run(ctx, os.Stdin, os.Stdout)
	stop()

	if err := a.Shutdown(); err != nil {
		logger.Warn("shutdown", logging.Field{Key: "error", Value: err.Error()})
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		fmt.Fprintf(os.Stderr, "fetchbutton: %v\n", runErr)
		os.Exit(1)
	}
}
