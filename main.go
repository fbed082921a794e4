package main

import (
	"os"

	"github.com/optima-study/optima/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
