package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/plus3/flapper/hierarchy"
	"github.com/plus3/flapper/level"
	"github.com/plus3/flapper/resource"
	"github.com/plus3/flapper/score"
	"github.com/urfave/cli/v2"
)

func (a *application) scoresCommand() *cli.Command {
	return &cli.Command{
		Name:  "scores",
		Usage: "show the best scores",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "level", Usage: "only this level"},
			&cli.IntFlag{Name: "n", Value: 10, Usage: "entries per level"},
		},
		Action: a.showScores,
	}
}

func (a *application) showScores(c *cli.Context) error {
	ctx := c.Context
	store, err := score.Open(ctx, a.cfg.Scores.Config)
	if err != nil {
		return err
	}
	defer store.Close()

	levels := []string{c.String("level")}
	if levels[0] == "" {
		res, err := resource.Open(a.cfg.Levels.Dir)
		if err != nil {
			return err
		}
		if levels, err = res.Levels(); err != nil {
			return err
		}
		levels = append(levels, level.EndlessName)
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LEVEL\t#\tPLAYER\tSCORE\tWHEN")
	for _, name := range levels {
		top, err := store.Top(ctx, name, c.Int("n"))
		if err != nil {
			return err
		}
		if len(top) == 0 {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\n", name)
			continue
		}
		for i, e := range top {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%s\n", name, i+1, e.Player, e.Score, e.At.Local().Format("2006-01-02 15:04"))
		}
	}
	return tw.Flush()
}

func (a *application) typesCommand() *cli.Command {
	return &cli.Command{
		Name:  "types",
		Usage: "print the engine's type hierarchy and where each type lives",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "raw", Usage: "print the documentation table instead"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("raw") {
				_, err := c.App.Writer.Write(hierarchy.EngineTable())
				return err
			}
			printTypes(c.App.Writer, hierarchy.Engine())
			return nil
		},
	}
}

func printTypes(w io.Writer, nodes []*hierarchy.Node) {
	hierarchy.Walk(nodes, func(n *hierarchy.Node, depth int) bool {
		line := strings.Repeat("  ", depth) + n.Name
		if home, ok := hierarchy.Homes[n.Name]; ok {
			line += " -> " + home
		}
		fmt.Fprintln(w, line)
		return true
	})
}
