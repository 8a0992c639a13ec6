package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for maze operations
type Engine interface {
	// State management
	GetState() *MazeState
	SetState(state *MazeState) error
	Reset() *MazeState
	IsVictory() bool
	IsLocked() bool
	GetPlayerPosition() Position

	// Maze lifecycle
	Generate(size int) error
	Solve() Path
	Hint() Path

	// Movement operations
	Move(direction string) bool
	Backtrack() bool
	CanMove(direction string) bool
	GetPossibleMoves() []Direction

	// Configuration
	GetConfig() *MazeConfig
	SetConfig(config *MazeConfig) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// Option customizes a MazeEngine
type Option func(*MazeEngine)

// WithRandSource makes every Generate call draw from rng instead of a fresh seed
func WithRandSource(rng RandSource) Option {
	return func(e *MazeEngine) {
		e.rng = rng
	}
}

// MazeEngine implements the Engine interface
type MazeEngine struct {
	state  *MazeState
	config *MazeConfig
	rng    RandSource
}

// NewEngine creates an engine and generates its first maze from the configuration
func NewEngine(config *MazeConfig, opts ...Option) (*MazeEngine, error) {
	if err := ValidateMazeConfig(config); err != nil {
		return nil, err
	}

	e := &MazeEngine{config: config}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.Generate(config.Size); err != nil {
		return nil, err
	}
	e.state.Message = config.Messages.Welcome

	return e, nil
}

// NewEngineWithDefaults creates an engine with the built-in configuration
func NewEngineWithDefaults() *MazeEngine {
	e, err := NewEngine(DefaultMazeConfig())
	if err != nil {
		// The default configuration is always valid
		panic(err)
	}
	return e
}

// GetState returns the current maze state
func (e *MazeEngine) GetState() *MazeState {
	return e.state
}

// SetState replaces the maze state after checking the grid is well formed and
// every position in it lies on the grid
func (e *MazeEngine) SetState(state *MazeState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if err := state.Grid.Validate(); err != nil {
		return fmt.Errorf("invalid grid: %w", err)
	}
	if state.Size != state.Grid.Size {
		return fmt.Errorf("%w: state size %d, grid size %d", ErrInvalidSize, state.Size, state.Grid.Size)
	}
	if state.Start != state.Grid.Start() || state.End != state.Grid.End() {
		return fmt.Errorf("start %v and end %v must be the grid corners", state.Start, state.End)
	}
	for _, p := range []Position{state.PlayerPos, state.PreviousPos} {
		if !state.Grid.InBounds(p.X, p.Y) {
			return fmt.Errorf("position (%d,%d) outside the %dx%d grid", p.X, p.Y, state.Grid.Size, state.Grid.Size)
		}
	}
	e.state = state
	return nil
}

// Generate replaces the grid with a fresh maze and puts the player back at the start
func (e *MazeEngine) Generate(size int) error {
	rng := e.rng
	seed := int64(0)
	if rng == nil {
		seed = e.config.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = NewSeededSource(seed)
	}

	grid, err := Generate(size, rng)
	if err != nil {
		return err
	}

	next := NewMazeState(e.config, grid, seed)
	if e.state != nil {
		// Cumulative history survives regeneration; only the current segment restarts
		next.MoveHistory = e.state.MoveHistory
		next.TotalMoves = e.state.TotalMoves
	}
	next.Message = e.config.Messages.Generated
	e.state = next
	return nil
}

// Solve computes the shortest path for the current grid and locks movement
// until the next Generate or Reset
func (e *MazeEngine) Solve() Path {
	path := Solve(e.state.Grid)
	e.state.Solution = path
	e.state.Revealed = true
	e.state.PlayerCanMove = false
	e.state.RefreshPossibleMoves()

	if len(path) == 0 {
		e.state.Message = "No solution: the exit cannot be reached."
	} else {
		e.state.Message = fmt.Sprintf(e.config.Messages.Solved, len(path))
	}
	return path
}

// Hint returns the shortest path from the player to the exit without locking movement
func (e *MazeEngine) Hint() Path {
	return SolveFrom(e.state.Grid, e.state.PlayerPos, e.state.End)
}

// Reset moves the player back to the start of the same maze
func (e *MazeEngine) Reset() *MazeState {
	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalMoves

	e.state = NewMazeState(e.config, e.state.Grid, e.state.Seed)

	e.state.MoveHistory = prevHistory
	e.state.TotalMoves = prevTotal
	e.state.CurrentMoves = []MoveHistoryEntry{}
	e.state.CurrentMovesCount = 0

	return e.state
}

// IsVictory returns whether the player reached the exit
func (e *MazeEngine) IsVictory() bool {
	return e.state.Victory
}

// IsLocked returns whether movement is currently refused
func (e *MazeEngine) IsLocked() bool {
	return !e.state.PlayerCanMove
}

// GetPlayerPosition returns the current player position
func (e *MazeEngine) GetPlayerPosition() Position {
	return e.state.PlayerPos
}

// Move attempts to move the player in the specified direction
func (e *MazeEngine) Move(direction string) bool {
	prevPos := e.state.PlayerPos

	dir, err := ParseDirection(direction)
	if err != nil {
		e.state.Message = err.Error()
		e.state.AddMoveToHistory(direction, prevPos, prevPos, false)
		return false
	}

	success := e.state.MovePlayer(dir, e.config)
	e.state.AddMoveToHistory(string(dir), prevPos, e.state.PlayerPos, success)
	e.state.RefreshPossibleMoves()

	return success
}

// Backtrack steps back to the previous cell. Only one level of undo is kept.
func (e *MazeEngine) Backtrack() bool {
	prev := e.state.PreviousPos
	cur := e.state.PlayerPos
	dir, ok := DirectionFromOffset(prev.X-cur.X, prev.Y-cur.Y)
	if !ok {
		e.state.Message = "Nothing to backtrack."
		return false
	}

	success := e.state.MovePlayer(dir, e.config)
	e.state.AddMoveToHistory("backtrack", cur, e.state.PlayerPos, success)
	if success {
		// The step we just undid is gone; stepping back again would redo it
		e.state.PreviousPos = e.state.PlayerPos
	}
	e.state.RefreshPossibleMoves()

	return success
}

// CanMove checks if the player can move in the specified direction
func (e *MazeEngine) CanMove(direction string) bool {
	if !e.state.PlayerCanMove {
		return false
	}
	dir, err := ParseDirection(direction)
	if err != nil {
		return false
	}
	_, ok := e.state.Target(dir)
	return ok
}

// GetPossibleMoves returns all valid directions the player can move
func (e *MazeEngine) GetPossibleMoves() []Direction {
	e.state.RefreshPossibleMoves()
	return append([]Direction(nil), e.state.PossibleMoves...)
}

// GetConfig returns the current maze configuration
func (e *MazeEngine) GetConfig() *MazeConfig {
	return e.config
}

// SetConfig sets a new configuration and generates a maze for it
func (e *MazeEngine) SetConfig(config *MazeConfig) error {
	if err := ValidateMazeConfig(config); err != nil {
		return err
	}

	e.config = config
	return e.Generate(config.Size)
}

// GetMoveHistory returns the complete move history
func (e *MazeEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.MoveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *MazeEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	return &e.state.MoveHistory[len(e.state.MoveHistory)-1]
}

// BulkMove executes multiple moves in sequence, stopping at the first failure
func (e *MazeEngine) BulkMove(moves []string) []bool {
	results := make([]bool, 0, len(moves))

	for _, direction := range moves {
		if e.IsLocked() {
			break
		}

		success := e.Move(direction)
		results = append(results, success)
		if !success {
			break
		}
	}

	return results
}
