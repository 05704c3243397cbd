// Command sigform edits and exports SIG proposal forms.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-sigform/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// cobra already reported the error on stderr.
	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
