package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/recipekeeper/internal/cli"
	"github.com/dmitrijs2005/recipekeeper/internal/config"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogLevel, cfg.LogJSON, os.Stderr)
	if err != nil {
		log.Printf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg, logger, os.Stdin, os.Stdout)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "console error", "error", err)
		os.Exit(1)
	}

}
