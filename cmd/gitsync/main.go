// Command gitsync synchronizes a local workspace with a GitHub repository.
package main

import (
	"os"

	"github.com/jackmusick/gitsync/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
