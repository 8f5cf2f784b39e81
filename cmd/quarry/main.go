// Command quarry ingests content into vector collections and serves them
// over the Model Context Protocol.
package main

import (
	"os"

	"github.com/custodia-labs/quarry/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
