package main

import (
	"context"
	"fmt"
	"os"

	"example.com/agenda/internal/app"
	"example.com/agenda/internal/cli"
	"example.com/agenda/internal/config"
	"example.com/agenda/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()
	if cfg.LogLevel == "info" {
		// Keep command output clean unless asked otherwise.
		cfg.LogLevel = "warn"
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	components, err := app.New(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer components.Close()

	root := cli.NewRootCmd(cli.Deps{Service: components.Service, Exporter: components.Exporter})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "agenda:", err)
		return 1
	}
	return 0
}
