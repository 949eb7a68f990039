// ./main.go
package main

import (
	"github.com/mkarolys/pagepath/cmd"
)

// main is the entry point for the pagepath CLI.
func main() {
	// Execute the root command defined in the cmd package.
	// It owns command-line parsing, configuration and logger setup.
	cmd.Execute()
}
