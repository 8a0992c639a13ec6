package engine

import (
	"fmt"
	"time"
)

// Target returns the cell reached by stepping in direction from the player's
// position, and whether the step is inside the grid and not blocked by a wall
func (ms *MazeState) Target(direction Direction) (Position, bool) {
	dx, dy := direction.Offset()
	next := Position{X: ms.PlayerPos.X + dx, Y: ms.PlayerPos.Y + dy}
	if ms.Grid == nil || (dx == 0 && dy == 0) {
		return next, false
	}
	if !ms.Grid.InBounds(next.X, next.Y) {
		return next, false
	}
	return next, CanMove(ms.Grid.At(ms.PlayerPos), dx, dy)
}

// MovePlayer attempts to move the player in the specified direction
func (ms *MazeState) MovePlayer(direction Direction, config *MazeConfig) bool {
	if !ms.PlayerCanMove {
		ms.Message = config.Messages.Locked
		return false
	}

	next, ok := ms.Target(direction)
	if !ok {
		reason := "wall"
		if ms.Grid == nil || !ms.Grid.InBounds(next.X, next.Y) {
			reason = "boundary"
		}
		ms.Message = config.Messages.Blocked + fmt.Sprintf(" [%s %s of (%d,%d)]",
			reason, direction, ms.PlayerPos.X, ms.PlayerPos.Y)
		return false
	}

	ms.PreviousPos = ms.PlayerPos
	ms.PlayerPos = next
	ms.Message = config.Messages.Moved + fmt.Sprintf(" (%d,%d)", next.X, next.Y)

	if next == ms.End {
		ms.Victory = true
		ms.PlayerCanMove = false
		ms.Message = fmt.Sprintf(config.Messages.Victory, ms.CurrentMovesCount+1)
	}

	return true
}

// RefreshPossibleMoves recomputes the directions currently open to the player
func (ms *MazeState) RefreshPossibleMoves() {
	ms.PossibleMoves = ms.PossibleMoves[:0]
	if !ms.PlayerCanMove {
		return
	}
	for _, dir := range []Direction{Up, Down, Left, Right} {
		if _, ok := ms.Target(dir); ok {
			ms.PossibleMoves = append(ms.PossibleMoves, dir)
		}
	}
}

// AddMoveToHistory adds a move to the session's move history
func (ms *MazeState) AddMoveToHistory(action string, fromPos, toPos Position, success bool) {
	entry := MoveHistoryEntry{
		Action:       action,
		FromPosition: fromPos,
		ToPosition:   toPos,
		Timestamp:    time.Now().Unix(),
		Success:      success,
		MoveNumber:   ms.TotalMoves + 1,
	}
	// Cumulative history survives resets; the current segment does not
	ms.MoveHistory = append(ms.MoveHistory, entry)
	ms.TotalMoves++

	ms.CurrentMoves = append(ms.CurrentMoves, entry)
	ms.CurrentMovesCount++
}

// Snapshot returns a deep copy of the state that stays fixed while the
// engine keeps moving the player.
func (ms *MazeState) Snapshot() *MazeState {
	if ms == nil {
		return nil
	}
	cp := *ms
	cp.Grid = ms.Grid.Clone()
	if ms.Solution != nil {
		cp.Solution = append(Path{}, ms.Solution...)
	}
	if ms.MoveHistory != nil {
		cp.MoveHistory = append([]MoveHistoryEntry{}, ms.MoveHistory...)
	}
	if ms.CurrentMoves != nil {
		cp.CurrentMoves = append([]MoveHistoryEntry{}, ms.CurrentMoves...)
	}
	if ms.PossibleMoves != nil {
		cp.PossibleMoves = append([]Direction{}, ms.PossibleMoves...)
	}
	return &cp
}
