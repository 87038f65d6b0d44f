// Command edakit manages datasets, EDA summaries, experiment logs and
// diagnostic plots from the terminal.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/YuminosukeSato/edakit/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
