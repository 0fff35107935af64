package main

import (
	"os"

	"github.com/warp/compliance-engine/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
