// Package main provides the entry point for the dayplan CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/dayplan/internal/cli"
)

// Set at build time via ldflags.
//
//nolint:gochecknoglobals // build metadata
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	err := cli.Execute(context.Background(), cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	os.Exit(cli.ExitCodeForError(err))
}
