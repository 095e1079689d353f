package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"deporder/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		printError(err)
		os.Exit(errors.ExitCode(err))
	}
}

// printError reports err on stderr with the fixes registered for its code.
func printError(err error) {
	fmt.Fprintf(os.Stderr, "deporder: %v\n", err)
	for _, fix := range errors.GetSuggestedFixes(errors.CodeOf(err)) {
		switch {
		case fix.Command != "":
			fmt.Fprintf(os.Stderr, "  hint: %s (%s)\n", fix.Description, fix.Command)
		case fix.Description != "":
			fmt.Fprintf(os.Stderr, "  hint: %s\n", fix.Description)
		}
	}
}
