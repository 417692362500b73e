package main

import (
	"os"

	"github.com/wonny/factscore/cmd/factscore/commands"
)

// main is the entry point for the factscore CLI
// ⭐ Single CLI entry point: go run ./cmd/factscore [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
