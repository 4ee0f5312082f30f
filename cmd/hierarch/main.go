package main

import (
	"fmt"
	"os"

	"github.com/turtacn/Hierarch/internal/cli"
	"github.com/turtacn/Hierarch/pkg/errors"
	"github.com/turtacn/Hierarch/pkg/logger"
)

// Exit codes
const (
	exitFailure = 1 // scenario or engine failure
	exitConfig  = 2 // unusable config or scenario script
	exitPanic   = 3
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			if logger.Log != nil {
				logger.Log.Error("Panic recovered", "panic", r, "version", cli.Version)
			} else {
				fmt.Fprintf(os.Stderr, "Panic recovered: %v\n", r)
			}
			os.Exit(exitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch errors.CodeOf(err) {
	case errors.ErrCodeConfigInvalid, errors.ErrCodeUnknownEvent:
		return exitConfig
	default:
		return exitFailure
	}
}

// Personal.AI order the ending
