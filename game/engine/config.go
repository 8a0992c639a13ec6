package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ValidateMazeConfig validates a maze configuration
func ValidateMazeConfig(config *MazeConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.Size < MinMazeSize || config.Size > MaxMazeSize {
		return fmt.Errorf("config validation: size must be between %d and %d, got %d", MinMazeSize, MaxMazeSize, config.Size)
	}

	if config.RevealIntervalMs < MinRevealMillis || config.RevealIntervalMs > MaxRevealMillis {
		return fmt.Errorf("config validation: reveal_interval_ms must be between %d and %d, got %d",
			MinRevealMillis, MaxRevealMillis, config.RevealIntervalMs)
	}

	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Blocked == "" {
		return fmt.Errorf("config validation: messages.blocked is required")
	}
	if config.Messages.Locked == "" {
		return fmt.Errorf("config validation: messages.locked is required")
	}
	if !strings.Contains(config.Messages.Victory, "%d") {
		return fmt.Errorf("config validation: messages.victory must contain %%d for the move count")
	}
	if config.Messages.Solved != "" && !strings.Contains(config.Messages.Solved, "%d") {
		return fmt.Errorf("config validation: messages.solved must contain %%d for the path length")
	}

	return nil
}

// LoadMazeConfig loads a maze configuration from a JSON file
func LoadMazeConfig(filename string) (*MazeConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config MazeConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	applyConfigDefaults(&config)

	if err := ValidateMazeConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultMazeConfig returns the built-in 10×10 preset
func DefaultMazeConfig() *MazeConfig {
	config := &MazeConfig{
		Name:             "default",
		Description:      "Default 10x10 maze",
		Size:             DefaultMazeSize,
		RevealIntervalMs: DefaultRevealMillis,
	}
	applyConfigDefaults(config)
	return config
}

// applyConfigDefaults fills optional fields left empty in a JSON preset
func applyConfigDefaults(config *MazeConfig) {
	if config.RevealIntervalMs == 0 {
		config.RevealIntervalMs = DefaultRevealMillis
	}
	m := &config.Messages
	if m.Welcome == "" {
		m.Welcome = "Find your way from the top-left corner to the bottom-right corner."
	}
	if m.Moved == "" {
		m.Moved = "Moved to"
	}
	if m.Blocked == "" {
		m.Blocked = "A wall blocks the way."
	}
	if m.Locked == "" {
		m.Locked = "Movement is locked. Generate a new maze or reset to play again."
	}
	if m.Victory == "" {
		m.Victory = "You escaped the maze in %d moves!"
	}
	if m.Solved == "" {
		m.Solved = "Solution found: %d cells."
	}
	if m.Generated == "" {
		m.Generated = "New maze generated."
	}
}

// RevealInterval returns the solution animation tick
func (c *MazeConfig) RevealInterval() time.Duration {
	if c == nil || c.RevealIntervalMs <= 0 {
		return DefaultRevealMillis * time.Millisecond
	}
	return time.Duration(c.RevealIntervalMs) * time.Millisecond
}

// NewMazeState wraps a freshly generated grid in a state positioned at the start
func NewMazeState(config *MazeConfig, grid *Grid, seed int64) *MazeState {
	state := &MazeState{
		Grid:              grid,
		Size:              grid.Size,
		Start:             grid.Start(),
		End:               grid.End(),
		PlayerPos:         grid.Start(),
		PreviousPos:       grid.Start(),
		Seed:              seed,
		ConfigName:        config.Name,
		Message:           config.Messages.Welcome,
		PlayerCanMove:     true,
		MoveHistory:       []MoveHistoryEntry{},
		CurrentMoves:      []MoveHistoryEntry{},
		CurrentMovesCount: 0,
	}
	// A 1×1 maze starts on its exit
	if state.PlayerPos == state.End {
		state.Victory = true
		state.PlayerCanMove = false
	}
	state.RefreshPossibleMoves()
	return state
}
