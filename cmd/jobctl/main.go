// Command jobctl is a CLI client for the job console served by jobserver.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if err := run(); err != nil {
		if !errors.Is(err, errCommandFailed) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		}

		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		os.Interrupt,
	)
	defer cancel()

	if err := newCLI().rootCmd().ExecuteContext(ctx); err != nil {
		return err
	}

	return nil
}
