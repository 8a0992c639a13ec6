package engine

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input    string
		expected Direction
		valid    bool
	}{
		{"left", Left, true},
		{"RIGHT", Right, true},
		{" up ", Up, true},
		{"Down", Down, true},
		{"west", Left, true},
		{"east", Right, true},
		{"north", Up, true},
		{"south", Down, true},
		{"l", "", false},
		{"", "", false},
		{"diagonal", "", false},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			dir, err := ParseDirection(test.input)
			if test.valid {
				if err != nil || dir != test.expected {
					t.Errorf("ParseDirection(%q) = %q, %v; expected %q", test.input, dir, err, test.expected)
				}
				return
			}
			if !errors.Is(err, ErrInvalidDirection) {
				t.Errorf("ParseDirection(%q) expected ErrInvalidDirection, got %v", test.input, err)
			}
		})
	}
}

func TestDirectionRoundTrip(t *testing.T) {
	for _, dir := range Directions {
		dx, dy := dir.Offset()
		back, ok := DirectionFromOffset(dx, dy)
		if !ok || back != dir {
			t.Errorf("DirectionFromOffset(%d,%d) = %q, expected %q", dx, dy, back, dir)
		}
		if dir.Opposite().Opposite() != dir {
			t.Errorf("Opposite of opposite of %q is not itself", dir)
		}
		ox, oy := dir.Opposite().Offset()
		if ox != -dx || oy != -dy {
			t.Errorf("Opposite of %q does not point back", dir)
		}
	}

	if _, ok := DirectionFromOffset(0, 0); ok {
		t.Error("Zero offset should not map to a direction")
	}
}

func TestCellHelpers(t *testing.T) {
	if !AllWalls.HasWall(WallLeft | WallBottom) {
		t.Error("AllWalls should contain every wall")
	}
	if AllWalls.Open() != 0 {
		t.Errorf("AllWalls should have no openings, got %d", AllWalls.Open())
	}
	if Cell(0).Open() != 4 {
		t.Errorf("Empty cell should have four openings, got %d", Cell(0).Open())
	}
	if Cell(16).Valid() {
		t.Error("Mask 16 should be invalid")
	}
}

func TestGridValidate(t *testing.T) {
	if err := openGrid(4).Validate(); err != nil {
		t.Errorf("Open grid should validate, got %v", err)
	}

	ragged := NewGrid(3)
	ragged.Cells[1] = ragged.Cells[1][:2]
	if err := ragged.Validate(); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize for ragged grid, got %v", err)
	}

	badMask := NewGrid(2)
	badMask.Cells[0][0] = 31
	if err := badMask.Validate(); err == nil {
		t.Error("Expected error for mask outside four bits")
	}

	var nilGrid *Grid
	if err := nilGrid.Validate(); err == nil {
		t.Error("Expected error for nil grid")
	}
}

func TestGridClone(t *testing.T) {
	grid := serpentine()
	clone := grid.Clone()
	clone.Cells[0][0] = AllWalls

	if grid.Cells[0][0] == AllWalls {
		t.Error("Clone should not share cell storage")
	}
}

func TestGridJSON(t *testing.T) {
	data, err := json.Marshal(openGrid(2))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"size":2,"cells":[[3,6],[9,12]]}` {
		t.Errorf("Unexpected JSON %s", data)
	}

	var decoded Grid
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.String() != openGrid(2).String() {
		t.Error("Decoded grid differs from the original")
	}
}

func TestRender(t *testing.T) {
	expected := "" +
		"+---+---+\n" +
		"| S     |\n" +
		"+   +   +\n" +
		"|     E |\n" +
		"+---+---+\n"

	if got := openGrid(2).String(); got != expected {
		t.Errorf("Unexpected render:\n%s\nexpected:\n%s", got, expected)
	}
}

func TestRender_PathAndPlayer(t *testing.T) {
	grid := serpentine()
	player := Position{X: 1, Y: 1}

	out := grid.Render(RenderOptions{Path: Solve(grid), Player: &player})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	if len(lines) != 7 {
		t.Fatalf("Expected 7 lines for a 3x3 maze, got %d", len(lines))
	}
	if lines[1] != "| S   .   . |" {
		t.Errorf("Unexpected first row %q", lines[1])
	}
	if lines[3] != "| .   @   . |" {
		t.Errorf("Unexpected second row %q", lines[3])
	}
	if lines[5] != "| .   .   E |" {
		t.Errorf("Unexpected third row %q", lines[5])
	}
	if lines[2] != "+---+---+   +" {
		t.Errorf("Unexpected wall row %q", lines[2])
	}
}

func TestRender_Paint(t *testing.T) {
	painted := make(map[rune]int)
	openGrid(2).Render(RenderOptions{Paint: func(sym rune, text string) string {
		painted[sym]++
		return text
	}})

	if painted[SymbolStart] != 1 || painted[SymbolEnd] != 1 || painted[SymbolEmpty] != 2 {
		t.Errorf("Unexpected paint calls %v", painted)
	}
	if painted[SymbolWall] == 0 {
		t.Error("Expected wall segments to be painted")
	}
}

func TestAnalyze(t *testing.T) {
	stats := Analyze(serpentine())

	if stats.Cells != 9 || stats.OpenPassages != 8 {
		t.Errorf("Unexpected counts %+v", stats)
	}
	if stats.SolutionLength != 9 || stats.Detour != 4 {
		t.Errorf("Expected 9 cells with a detour of 4, got %+v", stats)
	}
	// Both ends of the serpentine are dead ends; the middle is a corridor
	if stats.DeadEnds != 2 || stats.Junctions != 0 {
		t.Errorf("Expected 2 dead ends and no junctions, got %+v", stats)
	}

	if CountCells(NewGrid(3), AllWalls) != 9 {
		t.Error("Expected every cell of a fresh grid to be fully walled")
	}
}

func TestPathDirections(t *testing.T) {
	path := Solve(serpentine())
	expected := []Direction{Right, Right, Down, Left, Left, Down, Right, Right}

	dirs := path.Directions()
	if len(dirs) != len(expected) {
		t.Fatalf("Expected %d directions, got %v", len(expected), dirs)
	}
	for i := range expected {
		if dirs[i] != expected[i] {
			t.Errorf("Step %d: expected %s, got %s", i, expected[i], dirs[i])
		}
	}

	if Path(nil).Directions() != nil {
		t.Error("Expected nil directions for an empty path")
	}
}

func TestManhattanDistance(t *testing.T) {
	if d := ManhattanDistance(Position{0, 0}, Position{3, 4}); d != 7 {
		t.Errorf("Expected 7, got %d", d)
	}
	if d := ManhattanDistance(Position{5, 1}, Position{2, 3}); d != 5 {
		t.Errorf("Expected 5, got %d", d)
	}
}
