package main

import (
	"fmt"
	"os"

	"github.com/clearvoice/superhear/cmd"
	"github.com/clearvoice/superhear/internal/conf"
	"github.com/clearvoice/superhear/internal/logging"
)

func main() {
	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init()

	if err := cmd.RootCommand(settings).Execute(); err != nil {
		os.Exit(1)
	}
}
