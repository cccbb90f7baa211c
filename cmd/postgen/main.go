package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"doctor-post-bot/internal/adapters/cli"
	"doctor-post-bot/internal/app"
	"doctor-post-bot/internal/infra/config"
	applog "doctor-post-bot/internal/infra/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(func(verbose bool) (*cli.Runtime, error) {
		cfg, err := config.LoadE()
		if err != nil {
			return nil, err
		}
		logger := applog.NewConsoleLogger(verbose)
		a, err := app.New(cfg, logger)
		if err != nil {
			return nil, err
		}
		return &cli.Runtime{
			Generator: a.Service,
			Hashtags:  a.Hashtags,
			Defaults:  a.Defaults,
			Logger:    logger,
		}, nil
	})
	if err := root.ExecuteContext(ctx); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintln(os.Stderr, "postgen:", err)
		}
		os.Exit(1)
	}
}
