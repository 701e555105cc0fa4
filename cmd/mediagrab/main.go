// Package main is the entrypoint of mediagrab.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mediagrab/internal/app"
	"mediagrab/internal/cfg"
	"mediagrab/internal/domain/errs"
	"mediagrab/internal/utils/logging"
)

const exitInterrupted = 130

// main is the main entrypoint of the program.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cfg.Execute(ctx, app.Handlers())
	stop()

	os.Exit(exitCode(err))
}

// exitCode prints errors the user has not seen yet and maps err to the
// process exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var reported *app.Reported
	if !errors.As(err, &reported) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	logging.E("mediagrab exiting with error: %v", err)

	if errs.Classify(err) == errs.Cancelled {
		return exitInterrupted
	}
	return 1
}
