package engine

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// MazeStats summarizes the shape of a grid
type MazeStats struct {
	Size           int `json:"size"`
	Cells          int `json:"cells"`
	OpenPassages   int `json:"open_passages"`
	DeadEnds       int `json:"dead_ends"`
	Junctions      int `json:"junctions"`
	SolutionLength int `json:"solution_length"`
	Detour         int `json:"detour"` // steps beyond the Manhattan distance
}

// Analyze computes statistics for a grid, including its solution length
func Analyze(grid *Grid) MazeStats {
	stats := MazeStats{
		Size:         grid.Size,
		Cells:        grid.Size * grid.Size,
		OpenPassages: grid.OpenPassages(),
	}

	for _, row := range grid.Cells {
		for _, cell := range row {
			switch open := cell.Open(); {
			case open == 1:
				stats.DeadEnds++
			case open >= 3:
				stats.Junctions++
			}
		}
	}

	if path := Solve(grid); len(path) > 0 {
		stats.SolutionLength = len(path)
		stats.Detour = len(path) - 1 - ManhattanDistance(grid.Start(), grid.End())
	}

	return stats
}

// CountCells counts cells whose mask equals the given value
func CountCells(grid *Grid, mask Cell) int {
	count := 0
	for _, row := range grid.Cells {
		for _, cell := range row {
			if cell == mask {
				count++
			}
		}
	}
	return count
}

// Directions converts a path into the moves that walk it. Non-adjacent steps are skipped.
func (p Path) Directions() []Direction {
	if len(p) < 2 {
		return nil
	}
	dirs := make([]Direction, 0, len(p)-1)
	for i := 1; i < len(p); i++ {
		if dir, ok := DirectionFromOffset(p[i].X-p[i-1].X, p[i].Y-p[i-1].Y); ok {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
