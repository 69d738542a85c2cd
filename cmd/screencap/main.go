package main

import (
	"os"

	"github.com/blademainer/screen-capture/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
