// main holds the entry logic for the givemetry CLI.
package main

import (
	"fmt"
	"os"

	"github.com/sinteticoai/givemetry/cmd"
)

// main is the entry point for the givemetry analyzer.
func main() {
	err := cmd.Execute()

	if stopErr := cmd.StopProfiling(); stopErr != nil && err == nil {
		err = stopErr
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
