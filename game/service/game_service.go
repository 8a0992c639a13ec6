package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidSize      = engine.ErrInvalidSize
	ErrInvalidDirection = engine.ErrInvalidDirection
	ErrTooManyMoves     = errors.New("too many moves")
)

// MazeService defines all maze-related operations
type MazeService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string, size int) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Maze lifecycle
	Generate(ctx context.Context, sessionID string, size int) (*engine.MazeState, error)
	Solve(ctx context.Context, sessionID string) (*SolveResult, error)
	Hint(ctx context.Context, sessionID string) (*SolveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.MazeState, error)

	// Movement
	Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error)
	Backtrack(ctx context.Context, sessionID string) (*MoveResult, error)

	// Maze State
	GetMazeState(ctx context.Context, sessionID string) (*engine.MazeState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.MazeConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.MazeConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.MazeConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.MazeConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles maze configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.MazeConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.MazeConfig
	SaveConfig(name string, config *engine.MazeConfig) error
}

// Session represents an active maze session
type Session struct {
	ID             string
	Engine         *engine.MazeEngine
	Config         *engine.MazeConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
