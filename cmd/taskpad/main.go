package main

import (
	"context"
	"fmt"
	"os"

	app "github.com/valter-silva-au/taskpad/internal"
	"github.com/valter-silva-au/taskpad/internal/cli"
)

// Set by goreleaser ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.SetVersionInfo(version, commit, date)
	basePath := app.ResolveBasePath()

	a, err := app.NewApp(context.Background(), basePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing taskpad: %v\n", err)
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing taskpad: %v\n", err)
		}
	}()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
