// Pipeline evaluates node/edge pipeline graphs from the command line or over HTTP.
package main

import (
	"os"

	"github.com/meikuraledutech/pipeline/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
