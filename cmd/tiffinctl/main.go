package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"tiffin/config"
	"tiffin/internal/app"
	"tiffin/internal/delivery/cli"
	"tiffin/internal/domain/lifecycle"
	logs "tiffin/internal/infra/log"

	"go.uber.org/fx"
)

func main() {
	var client *cli.CLI

	application := fx.New(
		options(),
		fx.Populate(&client),
	)

	ctx := context.Background()
	if err := application.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err := client.RootCmd().ExecuteContext(ctx)

	stopCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	if stopErr := application.Stop(stopCtx); stopErr != nil {
		fmt.Fprintln(os.Stderr, stopErr)
	}
	cancel()

	if err != nil {
		os.Exit(1)
	}
}

func options() fx.Option {
	return fx.Options(
		fx.NopLogger,
		app.Core(),
		fx.Provide(
			newStderrLogger,
			cli.New,
		),
	)
}

// newStderrLogger keeps stdout for command output.
func newStderrLogger(cfg *config.Config) (*slog.Logger, error) {
	return logs.NewWithWriter(cfg, os.Stderr)
}
