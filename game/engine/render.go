package engine

import "strings"

// Symbols used by Render
const (
	SymbolStart  = 'S'
	SymbolEnd    = 'E'
	SymbolPlayer = '@'
	SymbolPath   = '.'
	SymbolEmpty  = ' '
	SymbolWall   = '#'
)

// RenderOptions controls what Render draws on top of the walls
type RenderOptions struct {
	Path   Path
	Player *Position

	// Paint, when set, decorates each drawn fragment. symbol is the cell
	// symbol for cell interiors and SymbolWall for wall segments.
	Paint func(symbol rune, text string) string
}

// String draws the bare maze
func (g *Grid) String() string {
	return g.Render(RenderOptions{})
}

// Render draws the maze as ASCII art, three characters per cell
func (g *Grid) Render(opts RenderOptions) string {
	if g == nil || g.Size == 0 {
		return ""
	}

	paint := opts.Paint
	if paint == nil {
		paint = func(_ rune, text string) string { return text }
	}
	onPath := make(map[Position]bool, len(opts.Path))
	for _, p := range opts.Path {
		onPath[p] = true
	}

	symbolAt := func(p Position) rune {
		switch {
		case opts.Player != nil && *opts.Player == p:
			return SymbolPlayer
		case p == g.Start():
			return SymbolStart
		case p == g.End():
			return SymbolEnd
		case onPath[p]:
			return SymbolPath
		}
		return SymbolEmpty
	}

	var b strings.Builder

	// Top boundary
	b.WriteString(paint(SymbolWall, "+"))
	for x := 0; x < g.Size; x++ {
		if g.Cells[0][x].HasWall(WallTop) {
			b.WriteString(paint(SymbolWall, "---+"))
		} else {
			b.WriteString("   " + paint(SymbolWall, "+"))
		}
	}
	b.WriteByte('\n')

	for y := 0; y < g.Size; y++ {
		// Cell row
		if g.Cells[y][0].HasWall(WallLeft) {
			b.WriteString(paint(SymbolWall, "|"))
		} else {
			b.WriteByte(' ')
		}
		for x := 0; x < g.Size; x++ {
			sym := symbolAt(Position{X: x, Y: y})
			b.WriteString(paint(sym, " "+string(sym)+" "))
			if g.Cells[y][x].HasWall(WallRight) {
				b.WriteString(paint(SymbolWall, "|"))
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')

		// Wall row
		b.WriteString(paint(SymbolWall, "+"))
		for x := 0; x < g.Size; x++ {
			if g.Cells[y][x].HasWall(WallBottom) {
				b.WriteString(paint(SymbolWall, "---+"))
			} else {
				b.WriteString("   " + paint(SymbolWall, "+"))
			}
		}
		b.WriteByte('\n')
	}

	return b.String()
}
