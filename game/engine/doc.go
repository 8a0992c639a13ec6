// Package engine provides the core maze logic for Maze Runner.
//
// The engine package implements:
//   - Random perfect maze generation (randomized Prim-style tree growth)
//   - Shortest-path solving with breadth-first search
//   - The CanMove predicate shared by the solver and player movement
//   - Per-session maze state, move history and one-step backtracking
//   - Configuration loading and validation
//
// Wall Masks:
//
// Each Cell is a 4-bit mask: 1 = left wall, 2 = top wall, 4 = right wall,
// 8 = bottom wall. Generation starts from 15 (all walls) and always clears a
// shared wall on both cells at once. CanMove only looks at the cell being
// left, so grids built by hand must keep that symmetry; Grid.Validate
// checks it.
//
// Usage:
//
//	grid, err := engine.Generate(10, engine.NewSeededSource(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//	path := engine.Solve(grid)
//	fmt.Print(grid.Render(engine.RenderOptions{Path: path}))
//
// Sessions use MazeEngine, which owns a MazeState instead of any global:
//
//	eng, err := engine.NewEngine(engine.DefaultMazeConfig())
//	eng.Move("right")
//	solution := eng.Solve() // locks movement until Generate or Reset
package engine
