package main

import (
	"fmt"
	"os"

	"github.com/harun/parley/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		// Errors are reported, not signalled: the exit status stays 0.
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	}
}
