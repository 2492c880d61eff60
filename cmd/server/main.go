package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/vedran77/vidtube/internal/config"
	"github.com/vedran77/vidtube/internal/logging"
)

func main() {
	app := &cli.Command{
		Name:  "vidtube",
		Usage: "Video sharing API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration file",
				Sources: cli.EnvVars(config.ConfigPathEnvVar),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if path := cmd.String("config"); path != "" {
				return ctx, os.Setenv(config.ConfigPathEnvVar, path)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP and WebSocket server",
				Action: serve,
			},
			{
				Name:   "ensure-indexes",
				Usage:  "Create the MongoDB indexes and exit",
				Action: ensureIndexes,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logging.Fatal().Err(err).Msg("application error")
	}
}

// loadConfig reads the configuration and installs the global logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	return cfg, nil
}
