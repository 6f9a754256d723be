package main

import (
	"os"

	"github.com/firefly-engineering/dev-tools/cmd"
	"github.com/firefly-engineering/dev-tools/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
