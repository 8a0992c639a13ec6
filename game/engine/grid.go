package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidSize      = errors.New("invalid maze size")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrWallMismatch     = errors.New("wall mismatch")
)

// HasWall reports whether every wall in w is present on the cell
func (c Cell) HasWall(w Cell) bool {
	return c&w == w
}

// Open returns how many sides of the cell have been carved
func (c Cell) Open() int {
	n := 0
	for _, w := range []Cell{WallLeft, WallTop, WallRight, WallBottom} {
		if !c.HasWall(w) {
			n++
		}
	}
	return n
}

// Valid reports whether the mask fits in four bits
func (c Cell) Valid() bool {
	return c <= AllWalls
}

// MarshalJSON writes the mask as a number so rows encode as arrays, not base64
func (c Cell) MarshalJSON() ([]byte, error) {
	return strconv.AppendUint(nil, uint64(c), 10), nil
}

// Offset returns the unit step for the direction
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	}
	return 0, 0
}

// Opposite returns the direction pointing back
func (d Direction) Opposite() Direction {
	switch d {
	case Left:
		return Right
	case Right:
		return Left
	case Up:
		return Down
	case Down:
		return Up
	}
	return d
}

// walls returns the bit cleared on the source cell and on the target cell when carving in d
func (d Direction) walls() (source, target Cell) {
	switch d {
	case Left:
		return WallLeft, WallRight
	case Right:
		return WallRight, WallLeft
	case Up:
		return WallTop, WallBottom
	case Down:
		return WallBottom, WallTop
	}
	return 0, 0
}

// ParseDirection accepts left/right/up/down and the compass names, case-insensitively
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "west":
		return Left, nil
	case "right", "east":
		return Right, nil
	case "up", "north":
		return Up, nil
	case "down", "south":
		return Down, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// DirectionFromOffset maps a unit step back to its direction
func DirectionFromOffset(dx, dy int) (Direction, bool) {
	switch {
	case dx == 1 && dy == 0:
		return Right, true
	case dx == -1 && dy == 0:
		return Left, true
	case dx == 0 && dy == 1:
		return Down, true
	case dx == 0 && dy == -1:
		return Up, true
	}
	return "", false
}

// NewGrid returns a size×size grid with every wall present
func NewGrid(size int) *Grid {
	cells := make([][]Cell, size)
	for y := range cells {
		cells[y] = make([]Cell, size)
		for x := range cells[y] {
			cells[y][x] = AllWalls
		}
	}
	return &Grid{Size: size, Cells: cells}
}

// InBounds reports whether (x, y) lies on the grid
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Size && y < g.Size
}

// At returns the mask of the cell at p
func (g *Grid) At(p Position) Cell {
	return g.Cells[p.Y][p.X]
}

// Start is the fixed entry cell
func (g *Grid) Start() Position {
	return Position{X: 0, Y: 0}
}

// End is the fixed exit cell
func (g *Grid) End() Position {
	return Position{X: g.Size - 1, Y: g.Size - 1}
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	if g == nil {
		return nil
	}
	cells := make([][]Cell, len(g.Cells))
	for y, row := range g.Cells {
		cells[y] = append([]Cell(nil), row...)
	}
	return &Grid{Size: g.Size, Cells: cells}
}

// carve removes the wall between (x, y) and its neighbour in d on both cells
func (g *Grid) carve(x, y int, d Direction) {
	dx, dy := d.Offset()
	source, target := d.walls()
	g.Cells[y][x] &^= source
	g.Cells[y+dy][x+dx] &^= target
}

// OpenPassages counts cleared wall pairs. A perfect maze has Size²-1 of them.
func (g *Grid) OpenPassages() int {
	count := 0
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			if x+1 < g.Size && !g.Cells[y][x].HasWall(WallRight) && !g.Cells[y][x+1].HasWall(WallLeft) {
				count++
			}
			if y+1 < g.Size && !g.Cells[y][x].HasWall(WallBottom) && !g.Cells[y+1][x].HasWall(WallTop) {
				count++
			}
		}
	}
	return count
}

// CheckWallSymmetry verifies that every shared wall is either present on both cells or on neither
func (g *Grid) CheckWallSymmetry() error {
	if err := g.CheckShape(); err != nil {
		return err
	}
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			c := g.Cells[y][x]
			if x+1 < g.Size && c.HasWall(WallRight) != g.Cells[y][x+1].HasWall(WallLeft) {
				return fmt.Errorf("%w: right of (%d,%d) vs left of (%d,%d)", ErrWallMismatch, x, y, x+1, y)
			}
			if y+1 < g.Size && c.HasWall(WallBottom) != g.Cells[y+1][x].HasWall(WallTop) {
				return fmt.Errorf("%w: bottom of (%d,%d) vs top of (%d,%d)", ErrWallMismatch, x, y, x, y+1)
			}
		}
	}
	return nil
}

// CheckShape verifies the grid is square and every mask fits in four bits
func (g *Grid) CheckShape() error {
	if g == nil || g.Size < MinMazeSize {
		return fmt.Errorf("%w: empty grid", ErrInvalidSize)
	}
	if len(g.Cells) != g.Size {
		return fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidSize, g.Size, len(g.Cells))
	}
	for y, row := range g.Cells {
		if len(row) != g.Size {
			return fmt.Errorf("%w: row %d has %d cells, expected %d", ErrInvalidSize, y, len(row), g.Size)
		}
		for x, c := range row {
			if !c.Valid() {
				return fmt.Errorf("cell (%d,%d) has mask %d outside [0,15]", x, y, c)
			}
		}
	}
	return nil
}

// Validate checks shape and wall symmetry of a grid received from outside the generator
func (g *Grid) Validate() error {
	return g.CheckWallSymmetry()
}
