package engine

import (
	"github.com/zyedidia/generic/queue"
)

// CanMove reports whether a step of (dx, dy) out of a cell with the given wall
// mask is unobstructed. Only the departing cell is consulted, so callers must
// only pass grids whose shared walls are symmetric (see Grid.CheckWallSymmetry).
// Offsets other than the four unit steps are never movable.
func CanMove(mask Cell, dx, dy int) bool {
	switch {
	case dx == 1 && dy == 0:
		return !mask.HasWall(WallRight)
	case dx == -1 && dy == 0:
		return !mask.HasWall(WallLeft)
	case dx == 0 && dy == 1:
		return !mask.HasWall(WallBottom)
	case dx == 0 && dy == -1:
		return !mask.HasWall(WallTop)
	}
	return false
}

// Solve returns the shortest path from the top-left to the bottom-right cell.
// The result is empty (never nil) when the exit cannot be reached.
func Solve(grid *Grid) Path {
	if grid == nil || grid.Size < MinMazeSize {
		return Path{}
	}
	return SolveFrom(grid, grid.Start(), grid.End())
}

// SolveFrom runs a breadth-first search between two cells. The first time the
// target is dequeued its path is a shortest one; cells are marked visited when
// enqueued so each is expanded once. The grid is not modified. A grid that is
// not Size×Size has no path.
func SolveFrom(grid *Grid, from, to Position) Path {
	if grid.CheckShape() != nil {
		return Path{}
	}
	if !grid.InBounds(from.X, from.Y) || !grid.InBounds(to.X, to.Y) {
		return Path{}
	}

	visited := make([][]bool, grid.Size)
	for y := range visited {
		visited[y] = make([]bool, grid.Size)
	}
	cameFrom := make(map[Position]Position)

	q := queue.New[Position]()
	q.Enqueue(from)
	visited[from.Y][from.X] = true

	for !q.Empty() {
		current := q.Dequeue()
		if current == to {
			return buildPath(cameFrom, from, to)
		}

		mask := grid.At(current)
		for _, dir := range Directions {
			dx, dy := dir.Offset()
			nx, ny := current.X+dx, current.Y+dy
			if !grid.InBounds(nx, ny) || visited[ny][nx] || !CanMove(mask, dx, dy) {
				continue
			}
			visited[ny][nx] = true
			next := Position{X: nx, Y: ny}
			cameFrom[next] = current
			q.Enqueue(next)
		}
	}

	return Path{}
}

// buildPath walks predecessor links back from to and reverses them
func buildPath(cameFrom map[Position]Position, from, to Position) Path {
	path := Path{to}
	for current := to; current != from; {
		current = cameFrom[current]
		path = append(path, current)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// IsValidPath reports whether consecutive positions are adjacent and the walls allow each step
func IsValidPath(grid *Grid, path Path) bool {
	if len(path) == 0 || grid.CheckShape() != nil {
		return false
	}
	for i, p := range path {
		if !grid.InBounds(p.X, p.Y) {
			return false
		}
		if i == 0 {
			continue
		}
		prev := path[i-1]
		if !CanMove(grid.At(prev), p.X-prev.X, p.Y-prev.Y) {
			return false
		}
	}
	return true
}
