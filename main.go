// ABOUTME: Entry point for lettre CLI
// ABOUTME: Command-line tool for generating lettres de mission

package main

import (
	"fmt"
	"os"

	"github.com/plumecompta/lettre-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
