// Package main is the entry point for the cipcheck CLI application.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/eykd/cipcheck-go/cmd"
)

func main() {
	// Cancelled on SIGINT so an interrupted batch stops between documents.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)

	root := cmd.BuildCommandTree(nil)
	root.SetContext(ctx)
	code := cmd.RunCLI(root, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
