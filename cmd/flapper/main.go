// Command flapper plays the game and manages its levels and scores.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/plus3/flapper/config"
	"github.com/plus3/flapper/logging"
	"github.com/urfave/cli/v2"
)

// application is shared by every command. Before fills it in from the
// global flags.
type application struct {
	cfg config.Config
}

func main() {
	app := newApp()
	if err := app.RunContext(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "flapper: %s\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	a := &application{}
	return &cli.App{
		Name:  "flapper",
		Usage: "a side-scrolling flapping game built on an ECS",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML config file",
				Value:   "flapper.yaml",
				EnvVars: []string{config.EnvPath},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override log.level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "override log.format (tint, json, text)",
			},
		},
		Before: a.before,
		Commands: []*cli.Command{
			a.playCommand(),
			a.levelsCommand(),
			a.fetchCommand(),
			a.scoresCommand(),
			a.typesCommand(),
			a.benchCommand(),
		},
	}
}

func (a *application) before(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if v := c.String("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v := c.String("log-format"); v != "" {
		cfg.Log.Format = v
	}
	a.cfg = cfg

	ctx, err := logging.Setup(c.Context, os.Stderr, cfg.Log.Level, cfg.Log.Format, isatty.IsTerminal(os.Stderr.Fd()))
	if err != nil {
		return err
	}
	c.Context = ctx
	return nil
}
