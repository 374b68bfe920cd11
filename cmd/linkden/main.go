// Package main provides the entry point for the linkden CLI.
package main

import (
	"os"

	"github.com/linkden/linkden/cmd/linkden/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
