package main

import (
	"os"

	"github.com/bianoble/patch-sync/cmd/patch-sync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
