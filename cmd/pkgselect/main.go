// Package main is the entry point for the pkgselect CLI.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/thoreinstein/pkgselect/cmd/pkgselect/commands"
	"github.com/thoreinstein/pkgselect/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	red := color.New(color.FgRed).SprintFunc()
	var exitErr *errors.ExitError
	switch {
	case errors.As(err, &exitErr) && exitErr.Err == nil:
		// The command already reported its outcome.
	case errors.As(err, &exitErr):
		fmt.Fprintf(os.Stderr, "%s %v\n", red("Error:"), exitErr.Err)
		if exitErr.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", exitErr.Suggestion)
		}
	default:
		fmt.Fprintf(os.Stderr, "%s %v\n", red("Error:"), err)
	}
	os.Exit(errors.ExitCode(err))
}
