// Hexit - dominant colour extraction for images on the web
//
// Hexit fetches an image from a URL and reports its most representative
// colours through a small web UI, a JSON endpoint and a CLI.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"os"

	"github.com/jmylchreest/hexit/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
