package main

import (
	"os"

	"github.com/jamesainslie/go-sentsplit/internal/cli"
)

// Set via -ldflags by the stave build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	info := cli.BuildInfo{Version: version, Commit: commit, Date: date}
	if err := cli.Execute(info); err != nil {
		os.Exit(1)
	}
}
