package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/plus3/flapper/level"
	"github.com/plus3/flapper/resource"
	"github.com/urfave/cli/v2"
	"gitlab.com/tozd/go/errors"
)

func (a *application) levelsCommand() *cli.Command {
	dirFlag := &cli.StringFlag{Name: "dir", Usage: "level directory (default from config, else the built-in levels)"}
	return &cli.Command{
		Name:  "levels",
		Usage: "inspect and create level files",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "list levels in play order",
				Flags:  []cli.Flag{dirFlag},
				Action: a.listLevels,
			},
			{
				Name:      "validate",
				Usage:     "check level files; with no arguments checks the level directory",
				ArgsUsage: "[file.json...]",
				Flags:     []cli.Flag{dirFlag},
				Action:    a.validateLevels,
			},
			{
				Name:      "new",
				Usage:     "generate a level",
				ArgsUsage: "NAME",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "pipes", Value: 10, Usage: "number of pipes"},
					&cli.Uint64Flag{Name: "seed", Value: 1, Usage: "generator seed"},
					&cli.StringFlag{Name: "out", Usage: "output file (default NAME.json, - for stdout)"},
				},
				Action: a.newLevel,
			},
		},
	}
}

func (a *application) levelDir(c *cli.Context) string {
	if d := c.String("dir"); d != "" {
		return d
	}
	return a.cfg.Levels.Dir
}

func (a *application) listLevels(c *cli.Context) error {
	res, err := resource.Open(a.levelDir(c))
	if err != nil {
		return err
	}
	names, err := res.Levels()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tPIPES\tLENGTH\tGRAVITY")
	for i, name := range names {
		cfg, err := res.Level(name)
		if err != nil {
			fmt.Fprintf(tw, "%d\t%s\t-\t-\t%s\n", i+1, name, err)
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.0f\t%.0f\n", i+1, name, len(cfg.Pipes()), cfg.End(), cfg.Gravity)
	}
	fmt.Fprintf(tw, "-\t%s\t-\t-\t-\n", level.EndlessName)
	return tw.Flush()
}

func (a *application) validateLevels(c *cli.Context) error {
	ctx := c.Context
	if c.NArg() == 0 {
		res, err := resource.Open(a.levelDir(c))
		if err != nil {
			return err
		}
		if err := res.Preload(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, "all levels valid")
		return nil
	}

	var failed int
	for _, path := range c.Args().Slice() {
		if err := validateFile(path); err != nil {
			slog.ErrorContext(ctx, "invalid level", "file", path, "err", err)
			failed++
			continue
		}
		fmt.Fprintf(c.App.Writer, "%s: ok\n", path)
	}
	if failed > 0 {
		return errors.Errorf("%d of %d levels invalid", failed, c.NArg())
	}
	return nil
}

func validateFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	cfg, err := level.Decode(f)
	if err != nil {
		return err
	}
	return cfg.Validate()
}

func (a *application) newLevel(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return errors.New("level name required")
	}
	cfg := level.Generate(c.Uint64("seed"), c.Int("pipes"))
	cfg.Name = name

	out := c.String("out")
	if out == "" {
		out = name + ".json"
	}
	if out == "-" {
		return level.Encode(c.App.Writer, cfg)
	}
	if err := writeLevel(out, cfg); err != nil {
		return err
	}
	slog.InfoContext(c.Context, "level written", "file", out, "pipes", len(cfg.Pipes()))
	return nil
}

func writeLevel(path string, cfg *level.Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Errorf("writing %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Errorf("writing %s: %w", path, err)
	}
	if err := level.Encode(f, cfg); err != nil {
		f.Close()
		return errors.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func (a *application) fetchCommand() *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "download a level pack (local path, http archive or git:: URL)",
		ArgsUsage: "[SOURCE]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dst", Usage: "destination directory (default levels.dir, else ./levels)"},
		},
		Action: func(c *cli.Context) error {
			src := c.Args().First()
			if src == "" {
				src = a.cfg.Levels.PackURL
			}
			if src == "" {
				return errors.New("no source given and levels.pack_url is not set")
			}
			dst := c.String("dst")
			if dst == "" {
				dst = a.cfg.Levels.Dir
			}
			if dst == "" {
				dst = "levels"
			}
			if err := resource.Fetch(c.Context, src, dst); err != nil {
				return err
			}
			return printNames(c.App.Writer, dst)
		},
	}
}

func printNames(w io.Writer, dir string) error {
	res, err := resource.Open(dir)
	if err != nil {
		return err
	}
	names, err := res.Levels()
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(w, n)
	}
	return nil
}
