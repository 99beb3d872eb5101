package main

import (
	"os"

	"github.com/staffworks/staffbot/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
