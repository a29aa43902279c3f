package main

import (
	"os"

	"github.com/TommyMandex/timestomper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
