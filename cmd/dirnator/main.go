// Package main provides the entry point for the dirnator filesystem crawler CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jamesainslie/dirnator/pkg/dirnator/config"
	"github.com/jamesainslie/dirnator/pkg/dirnator/logging"
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	_ = logging.Close()
	os.Exit(exitCode(err))
}

// exitCode maps a command error to the process exit status: 2 when the
// root is missing, 1 for any other failure.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, config.ErrRootNotFound):
		return 2
	default:
		return 1
	}
}
