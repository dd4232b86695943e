// Package main provides the entry point for the forge-testwrap CLI.
package main

import (
	"context"
	"os"

	"github.com/forge-lang/testwrap/internal/cli"
	"github.com/forge-lang/testwrap/internal/signal"
)

// Set at build time via -ldflags "-X main.version=...".
var (
	version = "" //nolint:gochecknoglobals // ldflags target
	commit  = "" //nolint:gochecknoglobals // ldflags target
	date    = "" //nolint:gochecknoglobals // ldflags target
)

func main() {
	os.Exit(run())
}

func run() int {
	h := signal.NewHandler(context.Background())
	defer h.Stop()

	info := cli.BuildInfo{Version: version, Commit: commit, Date: date}
	code := cli.Execute(h.Context(), info, os.Args[1:], os.Stdout, os.Stderr)

	if sigCode, interrupted := h.ExitCode(); interrupted {
		return sigCode
	}
	return code
}
