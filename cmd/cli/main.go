package main

import (
	"os"

	"github.com/dirportal-dev/dirportal/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
