package main

import (
	"os"

	"github.com/fulcrumlabs/fulcrumbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
