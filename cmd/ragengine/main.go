// Command ragengine is a thin shell over the library packages: ingest,
// query, reembed, and diagnostics, each wiring together the capability
// adapters named by config.Config rather than implementing any retrieval
// logic of its own (spec §9).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
