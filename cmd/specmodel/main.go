// Command specmodel composes, fits and persists spectral models.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/katalvlaran/specmodel/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
