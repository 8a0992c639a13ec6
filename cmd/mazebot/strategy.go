package main

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
)

// Strategy picks the next move from what the player can see: its position
// and the open directions. It never reads the grid.
type Strategy interface {
	NextMove(state *engine.MazeState) engine.Direction
	Reset()
}

func newStrategy(name string) (Strategy, bool) {
	switch name {
	case "wall", "right-hand":
		return NewWallFollower(), true
	case "dfs", "explore":
		return NewExplorer(), true
	}
	return nil, false
}

func canGo(state *engine.MazeState, dir engine.Direction) bool {
	for _, d := range state.PossibleMoves {
		if d == dir {
			return true
		}
	}
	return false
}

func turnRight(d engine.Direction) engine.Direction {
	switch d {
	case engine.Up:
		return engine.Right
	case engine.Right:
		return engine.Down
	case engine.Down:
		return engine.Left
	}
	return engine.Up
}

func turnLeft(d engine.Direction) engine.Direction {
	return turnRight(d).Opposite()
}

// WallFollower keeps its right hand on the wall. In a perfect maze this
// reaches every cell, so the exit is always found.
type WallFollower struct {
	heading engine.Direction
}

func NewWallFollower() *WallFollower {
	return &WallFollower{heading: engine.Right}
}

func (w *WallFollower) NextMove(state *engine.MazeState) engine.Direction {
	for _, d := range []engine.Direction{turnRight(w.heading), w.heading, turnLeft(w.heading), w.heading.Opposite()} {
		if canGo(state, d) {
			w.heading = d
			return d
		}
	}
	return ""
}

func (w *WallFollower) Reset() {
	w.heading = engine.Right
}

// Explorer walks depth first, stepping back along its own trail at dead
// ends. Each passage is walked at most twice.
type Explorer struct {
	visited mapset.Set[engine.Position]
	trail   []engine.Position
}

func NewExplorer() *Explorer {
	e := &Explorer{}
	e.Reset()
	return e
}

func (e *Explorer) NextMove(state *engine.MazeState) engine.Direction {
	pos := state.PlayerPos
	e.visited.Put(pos)

	// Sync the trail with where the player actually is
	if n := len(e.trail); n == 0 || e.trail[n-1] != pos {
		if n >= 2 && e.trail[n-2] == pos {
			e.trail = e.trail[:n-1]
		} else {
			e.trail = append(e.trail, pos)
		}
	}

	for _, d := range engine.Directions {
		dx, dy := d.Offset()
		next := engine.Position{X: pos.X + dx, Y: pos.Y + dy}
		if canGo(state, d) && !e.visited.Has(next) {
			return d
		}
	}

	// Dead end: go back the way we came
	if n := len(e.trail); n >= 2 {
		prev := e.trail[n-2]
		if d, ok := engine.DirectionFromOffset(prev.X-pos.X, prev.Y-pos.Y); ok && canGo(state, d) {
			return d
		}
	}
	return ""
}

func (e *Explorer) Reset() {
	e.visited = mapset.New[engine.Position]()
	e.trail = nil
}
