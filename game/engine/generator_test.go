package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constSource always picks the same index, clamped to the range
type constSource struct{ pick int }

func (s constSource) Intn(n int) int {
	if s.pick >= n {
		return n - 1
	}
	return s.pick
}

// reachable counts cells reachable from the start using only CanMove
func reachable(grid *Grid) int {
	seen := map[Position]bool{grid.Start(): true}
	stack := []Position{grid.Start()}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, dir := range Directions {
			dx, dy := dir.Offset()
			n := Position{X: p.X + dx, Y: p.Y + dy}
			if grid.InBounds(n.X, n.Y) && !seen[n] && CanMove(grid.At(p), dx, dy) {
				seen[n] = true
				stack = append(stack, n)
			}
		}
	}
	return len(seen)
}

func TestGenerate_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1, -100, MaxMazeSize + 1} {
		grid, err := Generate(size, NewSeededSource(1))
		require.ErrorIs(t, err, ErrInvalidSize, "size %d", size)
		assert.Nil(t, grid)
	}
}

func TestGenerate_PerfectMazeProperties(t *testing.T) {
	for size := 1; size <= 12; size++ {
		for seed := int64(1); seed <= 5; seed++ {
			grid, err := Generate(size, NewSeededSource(seed))
			require.NoError(t, err)
			require.Equal(t, size, grid.Size)
			require.Len(t, grid.Cells, size)

			assert.Equal(t, size*size-1, grid.OpenPassages(), "size=%d seed=%d", size, seed)
			assert.NoError(t, grid.CheckWallSymmetry(), "size=%d seed=%d", size, seed)
			assert.Equal(t, size*size, reachable(grid), "size=%d seed=%d", size, seed)
			assert.NotEmpty(t, Solve(grid), "size=%d seed=%d", size, seed)
		}
	}
}

func TestGenerate_OuterWallsStayIntact(t *testing.T) {
	grid, err := Generate(8, NewSeededSource(7))
	require.NoError(t, err)

	for i := 0; i < grid.Size; i++ {
		assert.True(t, grid.Cells[0][i].HasWall(WallTop))
		assert.True(t, grid.Cells[grid.Size-1][i].HasWall(WallBottom))
		assert.True(t, grid.Cells[i][0].HasWall(WallLeft))
		assert.True(t, grid.Cells[i][grid.Size-1].HasWall(WallRight))
	}
}

func TestGenerate_SingleCell(t *testing.T) {
	grid, err := Generate(1, nil)
	require.NoError(t, err)

	assert.Equal(t, AllWalls, grid.Cells[0][0])
	assert.Equal(t, 0, grid.OpenPassages())
	assert.Equal(t, Path{{X: 0, Y: 0}}, Solve(grid))
}

func TestGenerate_SeedIsReproducible(t *testing.T) {
	a, err := Generate(15, NewSeededSource(99))
	require.NoError(t, err)
	b, err := Generate(15, NewSeededSource(99))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerate_BiasedSourceStillPerfect(t *testing.T) {
	// Any selection order changes the texture but never the invariants
	for _, src := range []RandSource{constSource{0}, constSource{1 << 30}, constSource{3}} {
		grid, err := Generate(9, src)
		require.NoError(t, err)

		assert.Equal(t, 80, grid.OpenPassages())
		assert.NoError(t, grid.CheckWallSymmetry())
		assert.Equal(t, 81, reachable(grid))
	}
}

func TestGenerate_MasksInRange(t *testing.T) {
	grid, err := Generate(20, NewSeededSource(3))
	require.NoError(t, err)

	for _, row := range grid.Cells {
		for _, c := range row {
			assert.True(t, c.Valid())
			// Every cell of a connected maze with more than one cell has an opening
			assert.GreaterOrEqual(t, c.Open(), 1)
		}
	}
}
