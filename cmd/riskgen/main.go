package main

import (
	"os"

	"github.com/predelinq/riskgen/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
