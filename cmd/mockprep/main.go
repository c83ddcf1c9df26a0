// Package main provides the mockprep CLI process entrypoint.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rbright/mockprep/internal/app"
)

// main wires process signal handling to the application runner. The first
// interrupt cancels the active session; stdin stays attached for `start`.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := app.Runner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	os.Exit(runner.Execute(ctx, os.Args[1:]))
}
