// Package main is the entry point for the applescan CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/Kryndex/buck/cmd/applescan/commands"
	scanerrors "github.com/Kryndex/buck/internal/errors"
)

func main() {
	// Best effort: a missing .env is not an error.
	_ = godotenv.Load()

	if err := commands.Execute(); err != nil {
		var exitErr *scanerrors.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr.Err)
			}
			if exitErr.Suggestion != "" {
				fmt.Fprintf(os.Stderr, "Suggestion: %s\n", exitErr.Suggestion)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(scanerrors.ExitUser)
	}
}
