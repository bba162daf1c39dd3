package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/manuscript/internal"
	pkgconfig "github.com/starford/manuscript/pkg/config"
)

func action(command string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		configPath := cmd.String("config")

		var overrides []pkgconfig.Override[internal.Config]
		if root := cmd.String("root"); root != "" {
			overrides = append(overrides, func(c *internal.Config) { c.Site.Root = root })
		}

		cfg := internal.NewDefaultConfig()
		if cmd.IsSet("config") {
			if err := pkgconfig.Load(configPath, cfg, overrides...); err != nil {
				return fmt.Errorf("failed to parse config: %w", err)
			}
		} else if _, err := pkgconfig.LoadIfExists(configPath, cfg, overrides...); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}

		opts := []internal.Option{
			internal.WithConfig(cfg),
			internal.WithCommand(command),
		}

		if err := internal.Run(ctx, opts...); err != nil {
			return fmt.Errorf("%s: %w", command, err)
		}

		return nil
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "manuscript",
		Usage: "Render plain-text notes into HTML articles and keep the index pages in sync",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Site directory (overrides site.root)",
				Sources: cli.EnvVars("MANUSCRIPT_ROOT"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   internal.CommandIngest,
				Usage:  "Render new raw/*.txt notes and link them from the index page",
				Action: action(internal.CommandIngest),
			},
			{
				Name:   internal.CommandRebuild,
				Usage:  "Regenerate all.html, archive.html and the index recent list from notes/*.html",
				Action: action(internal.CommandRebuild),
			},
			{
				Name:   internal.CommandWatch,
				Usage:  "Run ingest and rebuild whenever raw notes or articles change",
				Action: action(internal.CommandWatch),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
