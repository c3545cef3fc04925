package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/mrlokans/locallibrary/internal/config"
	"github.com/mrlokans/locallibrary/internal/entrypoint"
	"github.com/mrlokans/locallibrary/internal/logging"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	app := &cli.App{
		Name:    "locallibrary",
		Usage:   "Local Library catalog site",
		Version: fmt.Sprintf("%s (%s)", Version, Commit),
		Action:  serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the catalog HTTP server",
				Action: serve,
			},
			{
				Name:   "seed",
				Usage:  "Load a sample catalog into the database",
				Action: seed,
			},
			{
				Name:  "check-integrity",
				Usage: "Report dangling genre and book references",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "now",
						Usage: "queue the check for the running server's task workers instead of scanning here",
					},
				},
				Action: checkIntegrity,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg := config.NewConfig()
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize logger: %w", err)
	}
	return cfg, log, nil
}

func serve(_ *cli.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	return entrypoint.Run(cfg, log, Version)
}

func seed(c *cli.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	return entrypoint.Seed(c.Context, cfg, log)
}

func checkIntegrity(c *cli.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if c.Bool("now") {
		return entrypoint.EnqueueIntegrityCheck(c.Context, cfg, log)
	}

	report, err := entrypoint.CheckIntegrity(c.Context, cfg)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}
	if !report.Clean() {
		return cli.Exit("dangling references found", 2)
	}
	return nil
}
