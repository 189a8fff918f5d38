// Package main is the entry point for flipradar.
package main

import (
	"os"

	"github.com/flipradar-io/flipradar/cmd/flipradar/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
