// Command buildo synchronises bulk building permit exports into a record
// store and reports what changed between runs.
package main

import (
	"os"

	"github.com/jasonbrettpreston/buildo-sub002/internal/adapters/driving/cli"
	"github.com/jasonbrettpreston/buildo-sub002/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.Bootstrap = bootstrap

	err := cli.Execute()
	cli.Shutdown()
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
