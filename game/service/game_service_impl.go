package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
)

// mazeServiceImpl implements the MazeService interface
type mazeServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewMazeService creates a new maze service instance
func NewMazeService(sessions SessionManager, configs ConfigManager) MazeService {
	return &mazeServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a preset display name, used for consistent API responses
func (s *mazeServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// session looks up a session and marks it accessed. Caller holds s.mu for writing.
func (s *mazeServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("session %q: %w", sessionID, ErrSessionNotFound)
		}
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *mazeServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		MazeState:      sess.Engine.GetState().Snapshot(),
		MazeConfig:     sess.Config,
	}
}

// CreateSession creates a new maze session. size > 0 overrides the preset size.
func (s *mazeServiceImpl) CreateSession(ctx context.Context, configName string, size int) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.MazeConfig
	if configName != "" {
		loaded, err := s.configs.LoadConfig(configName)
		if err != nil {
			availableConfigs, listErr := s.configs.ListConfigs()
			if listErr == nil && len(availableConfigs) > 0 {
				var configIDs []string
				for _, cfg := range availableConfigs {
					configIDs = append(configIDs, cfg.ConfigID)
				}
				return nil, fmt.Errorf("config '%s': %w. Available configs: %v", configName, err, configIDs)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
		config = loaded
	} else {
		config = s.configs.GetDefault()
	}

	if size != 0 {
		if size < engine.MinMazeSize || size > engine.MaxMazeSize {
			return nil, fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidSize, size, engine.MinMazeSize, engine.MaxMazeSize)
		}
		// Presets are shared through the config cache
		override := *config
		override.Size = size
		config = &override
	}

	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Printf("[MAZE] session %s created: %dx%d (%s)", sess.ID, config.Size, config.Size, config.Name)

	return s.sessionInfo(sess, configName), nil
}

// GetSession retrieves session information
func (s *mazeServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess, ""), nil
}

// ListSessions returns all active sessions
func (s *mazeServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, ""))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *mazeServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return fmt.Errorf("session %q: %w", sessionID, ErrSessionNotFound)
		}
		return err
	}
	return nil
}

// Generate replaces the session's maze. size 0 keeps the current size.
func (s *mazeServiceImpl) Generate(ctx context.Context, sessionID string, size int) (*engine.MazeState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	if size == 0 {
		size = sess.Engine.GetState().Size
	}

	start := time.Now()
	if err := sess.Engine.Generate(size); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	state := sess.Engine.GetState()
	log.Printf("[MAZE] session %s: generated %dx%d (seed %d) in %v", sess.ID, size, size, state.Seed, time.Since(start))

	return state.Snapshot(), nil
}

// Solve computes the full solution and locks movement
func (s *mazeServiceImpl) Solve(ctx context.Context, sessionID string) (*SolveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	path := sess.Engine.Solve()
	log.Printf("[SOLVE] session %s: %d cells in %v", sess.ID, len(path), time.Since(start))

	return newSolveResult(path, sess.Engine.GetState()), nil
}

// Hint computes the path from the player to the exit without locking movement
func (s *mazeServiceImpl) Hint(ctx context.Context, sessionID string) (*SolveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	path := sess.Engine.Hint()
	return newSolveResult(path, sess.Engine.GetState()), nil
}

func newSolveResult(path engine.Path, state *engine.MazeState) *SolveResult {
	return &SolveResult{
		Path:      append(engine.Path{}, path...),
		Length:    len(path),
		Found:     len(path) > 0,
		Moves:     path.Directions(),
		MazeState: state.Snapshot(),
	}
}

// Move executes a single move for a session
func (s *mazeServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	events := []MazeEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, MazeEvent{
			Type:      "reset",
			Message:   "Player returned to the start",
			Timestamp: time.Now(),
		})
	}

	prevPos := sess.Engine.GetPlayerPosition()
	attempt := describeAttempt(sess.Engine.GetState(), direction)
	success := sess.Engine.Move(direction)
	state := sess.Engine.GetState()

	result := &MoveResult{
		Success:   success,
		MazeState: state.Snapshot(),
		Message:   state.Message,
	}

	if success {
		result.Step = &StepInfo{
			Idx:     1,
			Dir:     direction,
			From:    prevPos,
			To:      state.PlayerPos,
			Mask:    state.Grid.At(state.PlayerPos),
			Success: true,
			Victory: state.Victory,
		}
		events = append(events, moveEvents(state, "move")...)
	} else {
		result.AttemptedTo = attempt
		events = append(events, MazeEvent{
			Type:      "blocked",
			Message:   state.Message,
			Timestamp: time.Now(),
			Position:  prevPos,
		})
	}
	result.Events = events

	log.Printf("[MOVE] session %s: %s %v -> %v success=%v", sess.ID, direction, prevPos, state.PlayerPos, success)

	return result, nil
}

// Backtrack steps back to the previous cell
func (s *mazeServiceImpl) Backtrack(ctx context.Context, sessionID string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	prevPos := sess.Engine.GetPlayerPosition()
	success := sess.Engine.Backtrack()
	state := sess.Engine.GetState()

	result := &MoveResult{
		Success:   success,
		MazeState: state.Snapshot(),
		Message:   state.Message,
	}
	if success {
		dir, _ := engine.DirectionFromOffset(state.PlayerPos.X-prevPos.X, state.PlayerPos.Y-prevPos.Y)
		result.Step = &StepInfo{
			Idx:     1,
			Dir:     string(dir),
			From:    prevPos,
			To:      state.PlayerPos,
			Mask:    state.Grid.At(state.PlayerPos),
			Success: true,
		}
		result.Events = moveEvents(state, "backtrack")
	}

	log.Printf("[MOVE] session %s: backtrack %v -> %v success=%v", sess.ID, prevPos, state.PlayerPos, success)

	return result, nil
}

// BulkMove executes multiple moves in sequence, stopping at the first refused move
func (s *mazeServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]MazeEvent, 0),
		Success:        true,
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, MazeEvent{
			Type:      "reset",
			Message:   "Player returned to the start",
			Timestamp: time.Now(),
		})
	}
	result.StartPos = sess.Engine.GetPlayerPosition()

	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, move := range moves {
		state := sess.Engine.GetState()
		if !state.PlayerCanMove {
			result.Success = false
			result.StoppedOnMove = i + 1
			if state.Victory {
				result.StopReasonCode = "victory"
				result.StoppedReason = "already at the exit"
			} else {
				result.StopReasonCode = "locked"
				result.StoppedReason = "movement is locked"
			}
			break
		}

		prevPos := state.PlayerPos
		attempt := describeAttempt(state, move)
		if !sess.Engine.Move(move) {
			result.Success = false
			result.StoppedOnMove = i + 1
			result.StoppedReason = fmt.Sprintf("move %d blocked: %s", i+1, move)
			result.AttemptedTo = attempt
			result.StopReasonCode = "blocked_" + attempt.Reason
			if attempt.Reason == "invalid_direction" {
				result.StopReasonCode = attempt.Reason
			}
			break
		}

		result.MovesExecuted++
		state = sess.Engine.GetState()
		result.Steps = append(result.Steps, StepInfo{
			Idx:     i + 1,
			Dir:     move,
			From:    prevPos,
			To:      state.PlayerPos,
			Mask:    state.Grid.At(state.PlayerPos),
			Success: true,
			Victory: state.Victory,
		})
		result.Events = append(result.Events, moveEvents(state, "move")...)
	}

	endState := sess.Engine.GetState()
	result.MazeState = endState.Snapshot()
	result.EndPos = endState.PlayerPos
	result.Victory = endState.Victory
	result.Message = endState.Message
	for _, dir := range sess.Engine.GetPossibleMoves() {
		result.PossibleMoves = append(result.PossibleMoves, string(dir))
	}

	log.Printf("[MOVE] session %s: bulk %d/%d executed, %v -> %v", sess.ID, result.MovesExecuted, len(moves), result.StartPos, result.EndPos)

	return result, nil
}

// describeAttempt reports where a move would land and why it would be refused
func describeAttempt(state *engine.MazeState, direction string) *AttemptInfo {
	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return &AttemptInfo{X: state.PlayerPos.X, Y: state.PlayerPos.Y, Reason: "invalid_direction"}
	}

	target, ok := state.Target(dir)
	info := &AttemptInfo{
		X:        target.X,
		Y:        target.Y,
		InBounds: state.Grid.InBounds(target.X, target.Y),
	}
	switch {
	case !state.PlayerCanMove:
		info.Reason = "locked"
	case !info.InBounds:
		info.Reason = "boundary"
	case !ok:
		info.Reason = "wall"
	}
	return info
}

func moveEvents(state *engine.MazeState, kind string) []MazeEvent {
	now := time.Now()
	events := []MazeEvent{{
		Type:      kind,
		Message:   fmt.Sprintf("At (%d,%d)", state.PlayerPos.X, state.PlayerPos.Y),
		Timestamp: now,
		Position:  state.PlayerPos,
	}}
	if state.Victory {
		events = append(events, MazeEvent{
			Type:      "victory",
			Message:   state.Message,
			Timestamp: now,
			Position:  state.PlayerPos,
		})
	}
	return events
}

// Reset returns the player to the start of the current maze
func (s *mazeServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.MazeState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	return sess.Engine.Reset().Snapshot(), nil
}

// GetMazeState retrieves the current maze state
func (s *mazeServiceImpl) GetMazeState(ctx context.Context, sessionID string) (*engine.MazeState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	return sess.Engine.GetState().Snapshot(), nil
}

// GetMoveHistory returns paginated move history
func (s *mazeServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveHistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available maze presets
func (s *mazeServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific maze preset
func (s *mazeServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.MazeConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a maze preset to disk
func (s *mazeServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.MazeConfig) error {
	return s.configs.SaveConfig(configName, config)
}
