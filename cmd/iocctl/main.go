package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/pikciu/ioc/cmd/iocctl/internal/cli"
	"github.com/pikciu/ioc/loader"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.New(loader.NewCatalog()).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
