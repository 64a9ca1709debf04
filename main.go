package main

import (
	"os"

	"github.com/Nitrolaunch/nitroctl/cmd"
	"github.com/Nitrolaunch/nitroctl/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
