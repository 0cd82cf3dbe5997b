package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sifan077/LinkShelf/config"
	"github.com/sifan077/LinkShelf/internal/cli"
	"github.com/sifan077/LinkShelf/internal/infra/logger"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log := logger.Must(logger.ForCLI(os.Getenv("LOG_LEVEL")))
	defer func() { _ = logger.Sync(log) }()

	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	root := cli.NewRootCommand(cli.Options{
		BaseURL: cfg.Client.BaseURL,
		Timeout: cfg.Client.Timeout,
		Logger:  log,
	})
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		_ = logger.Sync(log)
		os.Exit(1)
	}
}
