package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// RandSource is the uniform random source used by Generate.
// *rand.Rand satisfies it.
type RandSource interface {
	Intn(n int) int
}

// NewSeededSource returns a deterministic source for the given seed
func NewSeededSource(seed int64) RandSource {
	return rand.New(rand.NewSource(seed))
}

// Generate builds a size×size perfect maze by randomized tree growth.
//
// Starting from a random cell, it keeps a frontier of walls adjacent to the
// visited region and repeatedly removes one uniformly at random. A wall is
// carved only when it leads to an unvisited cell, so the result is a spanning
// tree: every cell reachable, no cycles, exactly size²-1 passages.
func Generate(size int, rng RandSource) (*Grid, error) {
	if size < MinMazeSize || size > MaxMazeSize {
		return nil, fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidSize, size, MinMazeSize, MaxMazeSize)
	}
	if rng == nil {
		rng = NewSeededSource(time.Now().UnixNano())
	}

	grid := NewGrid(size)
	visited := make([][]bool, size)
	for y := range visited {
		visited[y] = make([]bool, size)
	}

	var frontier []Frontier
	addWalls := func(x, y int) {
		if x > 0 && !visited[y][x-1] {
			frontier = append(frontier, Frontier{X: x, Y: y, Dir: Left})
		}
		if x < size-1 && !visited[y][x+1] {
			frontier = append(frontier, Frontier{X: x, Y: y, Dir: Right})
		}
		if y > 0 && !visited[y-1][x] {
			frontier = append(frontier, Frontier{X: x, Y: y, Dir: Up})
		}
		if y < size-1 && !visited[y+1][x] {
			frontier = append(frontier, Frontier{X: x, Y: y, Dir: Down})
		}
	}

	x, y := rng.Intn(size), rng.Intn(size)
	visited[y][x] = true
	addWalls(x, y)

	for len(frontier) > 0 {
		// Swap-remove a uniformly chosen entry; order of the rest does not matter.
		i := rng.Intn(len(frontier))
		wall := frontier[i]
		last := len(frontier) - 1
		frontier[i] = frontier[last]
		frontier = frontier[:last]

		dx, dy := wall.Dir.Offset()
		nx, ny := wall.X+dx, wall.Y+dy
		if !grid.InBounds(nx, ny) || visited[ny][nx] {
			continue
		}

		visited[ny][nx] = true
		grid.carve(wall.X, wall.Y, wall.Dir)
		addWalls(nx, ny)
	}

	return grid, nil
}
