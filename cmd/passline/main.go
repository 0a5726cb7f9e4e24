// Command passline is a local credential manager.
package main

import (
	"os"

	"github.com/custodia-labs/passline/internal/adapters/driving/cli"
)

func main() {
	cli.SetServiceFactory(buildServices)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
