package main

import (
	"os"

	"github.com/spigell/gig-matcher/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
