package main

import (
	"context"
	"os"

	"github.com/desertthunder/extendr/internal/formatter"
	"github.com/desertthunder/extendr/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := os.Getenv("EXTENDR_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}

	config, err := shared.ResolveConfig(configPath)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		config = shared.DefaultConfig()
	}

	if level, err := shared.ParseLogLevel(config.Log.Level); err != nil {
		logger.Warn("ignoring log level", "error", err)
	} else {
		shared.SetLogLevel(logger, level)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
		Palette:    formatter.DefaultPalette,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "extendr",
		Usage:    "Manage uploaded audio tracks and their extended versions",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}
