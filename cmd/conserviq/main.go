// conserviq is the command-line interface to the conservation analytics
// engine: local analysis runs, the API server, and version reporting.
package main

import (
	"github.com/geowild/ConserveIQ/internal/interfaces/cli"
)

func main() {
	cli.Execute()
}
