// Command mazecli generates, solves and plays mazes in the terminal.
//
//	mazecli generate --size 12 --seed 42
//	mazecli solve --size 12 --seed 42
//	mazecli play --size 8
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.Style{color.FgRed, color.OpBold}.Sprint("error: "+err.Error()))
		os.Exit(1)
	}
}

// mazeFlags are shared by every subcommand
func mazeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "size",
			Aliases: []string{"n"},
			Value:   engine.DefaultMazeSize,
			Usage:   fmt.Sprintf("maze side length (%d-%d)", engine.MinMazeSize, engine.MaxMazeSize),
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "random seed; 0 picks one from the clock",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "draw without ANSI colors",
		},
	}
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "mazecli",
		Usage:  "generate, solve and play perfect mazes",
		Writer: out,
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "print a freshly generated maze",
				Flags: mazeFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					grid, seed, err := generate(cmd)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Maze %dx%d (seed %d)\n", grid.Size, grid.Size, seed)
					fmt.Fprint(out, grid.Render(engine.RenderOptions{Paint: newPainter(!cmd.Bool("no-color"))}))
					return nil
				},
			},
			{
				Name:  "solve",
				Usage: "print a maze together with its shortest path",
				Flags: mazeFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					grid, seed, err := generate(cmd)
					if err != nil {
						return err
					}
					path := engine.Solve(grid)
					fmt.Fprintf(out, "Maze %dx%d (seed %d)\n", grid.Size, grid.Size, seed)
					fmt.Fprint(out, grid.Render(engine.RenderOptions{
						Path:  path,
						Paint: newPainter(!cmd.Bool("no-color")),
					}))
					fmt.Fprintf(out, "Solution: %d cells\n", len(path))
					fmt.Fprintf(out, "Moves: %s\n", joinDirections(path.Directions()))
					return nil
				},
			},
			{
				Name:  "play",
				Usage: "walk the maze with the arrow keys",
				Description: "Arrows or h/j/k/l move, b steps back, r resets, s solves and animates the path,\n" +
					"g generates a new maze, q quits.",
				Flags: append(mazeFlags(), &cli.IntFlag{
					Name:  "reveal-ms",
					Value: engine.DefaultRevealMillis,
					Usage: "delay between solution steps",
				}),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, seed, err := mazeConfig(cmd)
					if err != nil {
						return err
					}
					eng, err := engine.NewEngine(cfg, engine.WithRandSource(engine.NewSeededSource(seed)))
					if err != nil {
						return err
					}
					g := newGame(eng, out, newPainter(!cmd.Bool("no-color")))
					g.interval = time.Duration(cmd.Int("reveal-ms")) * time.Millisecond
					return playInTerminal(g)
				},
			},
		},
	}
}

func seedFrom(cmd *cli.Command) int64 {
	if seed := cmd.Int64("seed"); seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

func generate(cmd *cli.Command) (*engine.Grid, int64, error) {
	seed := seedFrom(cmd)
	grid, err := engine.Generate(cmd.Int("size"), engine.NewSeededSource(seed))
	if err != nil {
		return nil, 0, err
	}
	return grid, seed, nil
}

func mazeConfig(cmd *cli.Command) (*engine.MazeConfig, int64, error) {
	size := cmd.Int("size")
	if size < engine.MinMazeSize || size > engine.MaxMazeSize {
		return nil, 0, fmt.Errorf("%w: %d", engine.ErrInvalidSize, size)
	}
	cfg := engine.DefaultMazeConfig()
	cfg.Name = "terminal"
	cfg.Size = size
	return cfg, seedFrom(cmd), nil
}

// newPainter colors maze symbols; nil draws plain text
func newPainter(enabled bool) func(rune, string) string {
	if !enabled {
		return nil
	}
	styles := map[rune]color.Style{
		engine.SymbolWall:   {color.FgGray},
		engine.SymbolStart:  {color.FgGreen, color.OpBold},
		engine.SymbolEnd:    {color.FgRed, color.OpBold},
		engine.SymbolPlayer: {color.FgYellow, color.OpBold},
		engine.SymbolPath:   {color.FgCyan},
	}
	return func(symbol rune, text string) string {
		if style, ok := styles[symbol]; ok {
			return style.Sprint(text)
		}
		return text
	}
}

func joinDirections(dirs []engine.Direction) string {
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = string(d)
	}
	return strings.Join(names, " ")
}
