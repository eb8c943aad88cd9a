// Package main is the entry point for the auction proxy.
package main

import (
	"os"

	"github.com/donaldgifford/auction-proxy/cmd/auction-proxy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
