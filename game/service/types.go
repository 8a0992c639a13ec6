package service

import (
	"time"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
)

// SessionInfo provides information about a maze session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	MazeState      *engine.MazeState  `json:"maze_state"`
	MazeConfig     *engine.MazeConfig `json:"maze_config"`
}

// MoveResult contains the result of a single move or backtrack
type MoveResult struct {
	Success     bool              `json:"success"`
	MazeState   *engine.MazeState `json:"maze_state"`
	Message     string            `json:"message"`
	Events      []MazeEvent       `json:"events,omitempty"`
	Step        *StepInfo         `json:"step,omitempty"`
	AttemptedTo *AttemptInfo      `json:"attempted_to,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	MazeState      *engine.MazeState `json:"maze_state"`
	Events         []MazeEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // blocked_wall|blocked_boundary|invalid_direction|locked|victory
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	StartPos engine.Position `json:"start_pos"`
	EndPos   engine.Position `json:"end_pos"`

	Steps       []StepInfo   `json:"steps,omitempty"`
	AttemptedTo *AttemptInfo `json:"attempted_to,omitempty"`

	Victory       bool     `json:"victory"`
	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record for each executed move
type StepInfo struct {
	Idx     int             `json:"idx"`
	Dir     string          `json:"dir"`
	From    engine.Position `json:"from"`
	To      engine.Position `json:"to"`
	Mask    engine.Cell     `json:"mask"`
	Success bool            `json:"success"`
	Victory bool            `json:"victory,omitempty"`
}

// AttemptInfo details the first refused target cell
type AttemptInfo struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	InBounds bool   `json:"in_bounds"`
	Reason   string `json:"reason"` // wall|boundary|locked|invalid_direction
}

// SolveResult carries a computed path and the state it was computed on
type SolveResult struct {
	Path      engine.Path        `json:"path"`
	Length    int                `json:"length"`
	Found     bool               `json:"found"`
	Moves     []engine.Direction `json:"moves,omitempty"`
	MazeState *engine.MazeState  `json:"maze_state"`
}

// MazeEvent represents an event that occurred during play
type MazeEvent struct {
	Type      string          `json:"type"` // "move", "blocked", "backtrack", "victory", "reset", "generated", "solved"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a maze preset
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Size        int    `json:"size"`
	Seed        int64  `json:"seed,omitempty"`
}
