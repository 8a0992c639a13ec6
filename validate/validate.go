// Command validate checks the maze preset JSON files in a directory
// (../configs by default). For every file it checks:
//   - JSON structure and the preset rules enforced by the engine
//   - that generated mazes reach every cell from the start (flood fill)
//   - that generated mazes carve exactly N²-1 passages with symmetric walls
//
// Presets with a fixed seed are checked on their one maze; others on a few seeds.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
)

// sampleSeeds are used for presets without a fixed seed
var sampleSeeds = []int64{1, 2, 3}

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single preset file, then checks
// mazes generated from it.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	// Optional fields take the engine defaults, as the server does
	cfg := engine.DefaultMazeConfig()
	cfg.Name, cfg.Description = "", ""
	if err := json.Unmarshal(data, cfg); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateMazeConfig(cfg); err != nil {
		result.fail("%v", err)
		return result
	}
	result.info("Preset: %s (%dx%d)", cfg.Name, cfg.Size, cfg.Size)

	seeds := sampleSeeds
	if cfg.Seed != 0 {
		seeds = []int64{cfg.Seed}
	}

	for _, seed := range seeds {
		grid, err := engine.Generate(cfg.Size, engine.NewSeededSource(seed))
		if err != nil {
			result.fail("Seed %d: %v", seed, err)
			continue
		}
		for _, problem := range checkGrid(grid) {
			result.fail("Seed %d: %s", seed, problem)
		}
	}

	if result.Valid {
		result.info("Connectivity: all %d cells reachable for %d seed(s)", cfg.Size*cfg.Size, len(seeds))
		result.info("Passages: %d, walls symmetric", cfg.Size*cfg.Size-1)
	}

	return result
}

// checkGrid returns every way grid fails to be a perfect maze.
func checkGrid(grid *engine.Grid) []string {
	var problems []string

	if err := grid.CheckWallSymmetry(); err != nil {
		// A malformed grid makes the remaining checks meaningless
		return append(problems, err.Error())
	}

	cells := grid.Size * grid.Size
	if got := grid.OpenPassages(); got != cells-1 {
		problems = append(problems, fmt.Sprintf("%d passages, want %d", got, cells-1))
	}

	reached := reachableCells(grid)
	if reached.Size() != cells {
		problems = append(problems, fmt.Sprintf("Connectivity failure: %d/%d cells reachable from the start", reached.Size(), cells))
	}
	if !reached.Has(grid.End()) {
		problems = append(problems, "Exit unreachable from the start")
	}

	return problems
}

// reachableCells flood-fills from the start through open walls.
func reachableCells(grid *engine.Grid) mapset.Set[engine.Position] {
	visited := mapset.New[engine.Position]()
	start := grid.Start()
	visited.Put(start)
	stack := []engine.Position{start}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		mask := grid.At(current)
		for _, dir := range engine.Directions {
			dx, dy := dir.Offset()
			next := engine.Position{X: current.X + dx, Y: current.Y + dy}
			if !grid.InBounds(next.X, next.Y) || !engine.CanMove(mask, dx, dy) || visited.Has(next) {
				continue
			}
			visited.Put(next)
			stack = append(stack, next)
		}
	}

	return visited
}

// validateDir validates every preset in dir, writing a report to out.
func validateDir(dir string, out io.Writer) (bool, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return false, fmt.Errorf("error finding config files: %w", err)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no presets found in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Fprintf(out, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(out, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(out, "  "+info)
			}
		} else {
			fmt.Fprintln(out, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Fprintln(out, "  ❌ "+err)
				}
			}
		}
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(out, "✅ All presets are valid!")
	} else {
		fmt.Fprintln(out, "❌ Some presets have errors")
	}
	return allValid, nil
}

func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	allValid, err := validateDir(configDir, os.Stdout)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if !allValid {
		os.Exit(1)
	}
}
