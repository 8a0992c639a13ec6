package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
	"github.com/wricardo/mcp-training/mazerunner/game/service"
	"github.com/wricardo/mcp-training/mazerunner/game/session"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.MazeConfig) (*service.Session, error) {
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, service.ErrSessionNotFound
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id string, config *engine.MazeConfig) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, config)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return service.ErrSessionNotFound
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.MazeConfig
}

func NewMockConfigManager() *MockConfigManager {
	defaultConfig := engine.DefaultMazeConfig()
	defaultConfig.Name = "test"
	defaultConfig.Description = "Test configuration"
	defaultConfig.Size = 6
	defaultConfig.Seed = 3

	return &MockConfigManager{
		configs: map[string]*engine.MazeConfig{
			"test": defaultConfig,
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.MazeConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, errors.New("configuration not found")
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	var infos []*service.ConfigInfo
	for name, config := range m.configs {
		infos = append(infos, &service.ConfigInfo{
			Filename:    name + ".json",
			ConfigID:    name,
			Name:        config.Name,
			Description: config.Description,
			Size:        config.Size,
		})
	}
	return infos, nil
}

func (m *MockConfigManager) GetDefault() *engine.MazeConfig {
	return m.configs["test"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.MazeConfig) error {
	if err := engine.ValidateMazeConfig(config); err != nil {
		return err
	}
	m.configs[name] = config
	return nil
}

func newTestService(t *testing.T) (service.MazeService, *service.SessionInfo) {
	t.Helper()
	svc := service.NewMazeService(NewMockSessionManager(), NewMockConfigManager())
	info, err := svc.CreateSession(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return svc, info
}

// solutionMoves returns the direction strings that walk the session's maze from the start
func solutionMoves(state *engine.MazeState) []string {
	var moves []string
	for _, dir := range engine.Solve(state.Grid).Directions() {
		moves = append(moves, string(dir))
	}
	return moves
}

func TestMazeService_CreateSession(t *testing.T) {
	svc := service.NewMazeService(NewMockSessionManager(), NewMockConfigManager())
	ctx := context.Background()

	t.Run("default config", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "", 0)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if info.ID == "" {
			t.Error("Expected session ID")
		}
		if info.ConfigName != "test" {
			t.Errorf("Expected config id 'test', got %q", info.ConfigName)
		}
		if info.MazeState == nil || info.MazeState.Size != 6 {
			t.Errorf("Expected a 6x6 maze, got %+v", info.MazeState)
		}
	})

	t.Run("size override", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "test", 9)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if info.MazeState.Size != 9 {
			t.Errorf("Expected 9x9 maze, got %d", info.MazeState.Size)
		}

		// The shared preset is untouched
		cfg, _ := svc.LoadConfig(ctx, "test")
		if cfg.Size != 6 {
			t.Errorf("Preset size changed to %d", cfg.Size)
		}
	})

	t.Run("invalid size", func(t *testing.T) {
		for _, size := range []int{-1, engine.MaxMazeSize + 1} {
			if _, err := svc.CreateSession(ctx, "", size); !errors.Is(err, service.ErrInvalidSize) {
				t.Errorf("Size %d: expected ErrInvalidSize, got %v", size, err)
			}
		}
	})

	t.Run("unknown config", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, "nonexistent", 0)
		if err == nil {
			t.Fatal("Expected error for unknown config")
		}
		if !strings.Contains(err.Error(), "nonexistent") || !strings.Contains(err.Error(), "Available configs") {
			t.Errorf("Expected helpful error, got %v", err)
		}
	})
}

func TestMazeService_SessionNotFound(t *testing.T) {
	svc := service.NewMazeService(NewMockSessionManager(), NewMockConfigManager())
	ctx := context.Background()

	calls := map[string]func() error{
		"get":      func() error { _, err := svc.GetSession(ctx, "missing"); return err },
		"delete":   func() error { return svc.DeleteSession(ctx, "missing") },
		"generate": func() error { _, err := svc.Generate(ctx, "missing", 5); return err },
		"move":     func() error { _, err := svc.Move(ctx, "missing", "up", false); return err },
		"bulk":     func() error { _, err := svc.BulkMove(ctx, "missing", []string{"up"}, false); return err },
		"back":     func() error { _, err := svc.Backtrack(ctx, "missing"); return err },
		"solve":    func() error { _, err := svc.Solve(ctx, "missing"); return err },
		"hint":     func() error { _, err := svc.Hint(ctx, "missing"); return err },
		"reset":    func() error { _, err := svc.Reset(ctx, "missing"); return err },
		"state":    func() error { _, err := svc.GetMazeState(ctx, "missing"); return err },
		"history": func() error {
			_, err := svc.GetMoveHistory(ctx, "missing", service.HistoryOptions{})
			return err
		},
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			if err := call(); !errors.Is(err, service.ErrSessionNotFound) {
				t.Errorf("Expected ErrSessionNotFound, got %v", err)
			}
		})
	}
}

func TestMazeService_Move(t *testing.T) {
	svc, info := newTestService(t)
	ctx := context.Background()
	moves := solutionMoves(info.MazeState)

	t.Run("open passage", func(t *testing.T) {
		result, err := svc.Move(ctx, info.ID, moves[0], false)
		if err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		if !result.Success || result.Step == nil {
			t.Fatalf("Expected successful step, got %+v", result)
		}
		if result.Step.From != (engine.Position{X: 0, Y: 0}) {
			t.Errorf("Expected step from start, got %+v", result.Step.From)
		}
		if len(result.Events) == 0 || result.Events[0].Type != "move" {
			t.Errorf("Expected move event, got %+v", result.Events)
		}
	})

	t.Run("boundary", func(t *testing.T) {
		result, err := svc.Move(ctx, info.ID, "up", true)
		if err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		if result.Success {
			t.Fatal("Expected move off the top edge to fail")
		}
		if result.AttemptedTo == nil || result.AttemptedTo.Reason != "boundary" || result.AttemptedTo.InBounds {
			t.Errorf("Expected boundary attempt, got %+v", result.AttemptedTo)
		}
		if result.Events[0].Type != "reset" {
			t.Errorf("Expected reset event first, got %+v", result.Events)
		}
	})

	t.Run("invalid direction", func(t *testing.T) {
		result, err := svc.Move(ctx, info.ID, "sideways", false)
		if err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		if result.Success || result.AttemptedTo.Reason != "invalid_direction" {
			t.Errorf("Expected invalid direction, got %+v", result.AttemptedTo)
		}
	})
}

func TestMazeService_BulkMove(t *testing.T) {
	ctx := context.Background()

	t.Run("walk to the exit", func(t *testing.T) {
		svc, info := newTestService(t)
		moves := solutionMoves(info.MazeState)

		result, err := svc.BulkMove(ctx, info.ID, moves, false)
		if err != nil {
			t.Fatalf("BulkMove failed: %v", err)
		}
		if !result.Success || result.MovesExecuted != len(moves) {
			t.Errorf("Expected all %d moves executed, got %d (%s)", len(moves), result.MovesExecuted, result.StoppedReason)
		}
		if !result.Victory || result.EndPos != info.MazeState.End {
			t.Errorf("Expected victory at %+v, got %+v", info.MazeState.End, result.EndPos)
		}
		if !result.Steps[len(result.Steps)-1].Victory {
			t.Error("Expected last step to be flagged as victory")
		}
		if len(result.PossibleMoves) != 0 {
			t.Errorf("Expected no possible moves after victory, got %v", result.PossibleMoves)
		}
	})

	t.Run("stops at first refusal", func(t *testing.T) {
		svc, info := newTestService(t)
		moves := solutionMoves(info.MazeState)
		svc.Move(ctx, info.ID, moves[0], false)

		// One step from the corner the player is still on an edge, so something is blocked
		state, _ := svc.GetMazeState(ctx, info.ID)
		var blocked engine.Direction
		for _, dir := range engine.Directions {
			if _, ok := state.Target(dir); !ok {
				blocked = dir
				break
			}
		}

		result, err := svc.BulkMove(ctx, info.ID, []string{string(blocked), moves[1]}, false)
		if err != nil {
			t.Fatalf("BulkMove failed: %v", err)
		}
		if result.Success || result.StoppedOnMove != 1 || result.MovesExecuted != 0 {
			t.Errorf("Expected stop on move 1, got %+v", result)
		}
		if result.StopReasonCode != "blocked_wall" && result.StopReasonCode != "blocked_boundary" {
			t.Errorf("Unexpected stop code %q", result.StopReasonCode)
		}
		if result.AttemptedTo == nil {
			t.Error("Expected attempt diagnostics")
		}
	})

	t.Run("locked after solve", func(t *testing.T) {
		svc, info := newTestService(t)
		if _, err := svc.Solve(ctx, info.ID); err != nil {
			t.Fatal(err)
		}

		result, err := svc.BulkMove(ctx, info.ID, []string{"right"}, false)
		if err != nil {
			t.Fatalf("BulkMove failed: %v", err)
		}
		if result.StopReasonCode != "locked" || result.MovesExecuted != 0 {
			t.Errorf("Expected locked stop, got %+v", result)
		}

		// reset=true unlocks before moving
		moves := solutionMoves(info.MazeState)
		result, err = svc.BulkMove(ctx, info.ID, moves[:1], true)
		if err != nil {
			t.Fatal(err)
		}
		if result.MovesExecuted != 1 {
			t.Errorf("Expected move after reset, got %+v", result)
		}
	})

	t.Run("truncates long batches", func(t *testing.T) {
		svc, info := newTestService(t)
		moves := make([]string, engine.MaxBulkMoves+20)
		for i := range moves {
			moves[i] = "left"
		}

		result, err := svc.BulkMove(ctx, info.ID, moves, false)
		if err != nil {
			t.Fatal(err)
		}
		if !result.Truncated || result.Limit != engine.MaxBulkMoves || result.RequestedMoves != len(moves) {
			t.Errorf("Expected truncation, got %+v", result)
		}
	})
}

func TestMazeService_SolveAndHint(t *testing.T) {
	svc, info := newTestService(t)
	ctx := context.Background()

	hint, err := svc.Hint(ctx, info.ID)
	if err != nil {
		t.Fatalf("Hint failed: %v", err)
	}
	if !hint.MazeState.PlayerCanMove {
		t.Error("Hint must not lock movement")
	}

	solved, err := svc.Solve(ctx, info.ID)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if !solved.Found || solved.Length != len(solved.Path) || len(solved.Moves) != solved.Length-1 {
		t.Errorf("Inconsistent solve result %+v", solved)
	}
	if solved.Length != hint.Length {
		t.Errorf("Solve from start should match hint from start: %d vs %d", solved.Length, hint.Length)
	}
	if solved.MazeState.PlayerCanMove {
		t.Error("Solve should lock movement")
	}

	again, _ := svc.Solve(ctx, info.ID)
	if again.Length != solved.Length {
		t.Error("Repeated solves should agree on length")
	}
}

func TestMazeService_Generate(t *testing.T) {
	svc, info := newTestService(t)
	ctx := context.Background()

	state, err := svc.Generate(ctx, info.ID, 0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if state.Size != 6 {
		t.Errorf("Size 0 should keep the current size, got %d", state.Size)
	}

	state, err = svc.Generate(ctx, info.ID, 11)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if state.Size != 11 || state.Grid.OpenPassages() != 120 {
		t.Errorf("Expected perfect 11x11 maze, got size %d passages %d", state.Size, state.Grid.OpenPassages())
	}

	if _, err := svc.Generate(ctx, info.ID, -4); !errors.Is(err, service.ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}
}

func TestMazeService_Backtrack(t *testing.T) {
	svc, info := newTestService(t)
	ctx := context.Background()
	moves := solutionMoves(info.MazeState)

	svc.Move(ctx, info.ID, moves[0], false)

	result, err := svc.Backtrack(ctx, info.ID)
	if err != nil {
		t.Fatalf("Backtrack failed: %v", err)
	}
	if !result.Success || result.MazeState.PlayerPos != (engine.Position{X: 0, Y: 0}) {
		t.Errorf("Expected to be back at start, got %+v", result.MazeState.PlayerPos)
	}
	if result.Events[0].Type != "backtrack" {
		t.Errorf("Expected backtrack event, got %+v", result.Events)
	}

	result, _ = svc.Backtrack(ctx, info.ID)
	if result.Success {
		t.Error("Second backtrack should fail")
	}
}

func TestMazeService_GetMoveHistory(t *testing.T) {
	svc, info := newTestService(t)
	ctx := context.Background()

	// 25 refused moves give a predictable history
	for i := 0; i < 25; i++ {
		svc.Move(ctx, info.ID, "up", false)
	}

	tests := []struct {
		name      string
		opts      service.HistoryOptions
		wantLen   int
		wantFirst int
		hasNext   bool
	}{
		{"defaults are newest first", service.HistoryOptions{}, 20, 25, true},
		{"second page", service.HistoryOptions{Page: 2}, 5, 5, false},
		{"ascending", service.HistoryOptions{Order: "asc", Limit: 10}, 10, 1, true},
		{"ascending last page", service.HistoryOptions{Order: "asc", Limit: 10, Page: 3}, 5, 21, false},
		{"past the end", service.HistoryOptions{Page: 9}, 0, 0, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			history, err := svc.GetMoveHistory(ctx, info.ID, test.opts)
			if err != nil {
				t.Fatalf("GetMoveHistory failed: %v", err)
			}
			if history.TotalMoves != 25 {
				t.Errorf("Expected 25 total moves, got %d", history.TotalMoves)
			}
			if len(history.Moves) != test.wantLen {
				t.Fatalf("Expected %d moves, got %d", test.wantLen, len(history.Moves))
			}
			if test.wantLen > 0 && history.Moves[0].MoveNumber != test.wantFirst {
				t.Errorf("Expected first move %d, got %d", test.wantFirst, history.Moves[0].MoveNumber)
			}
			if history.HasNext != test.hasNext {
				t.Errorf("Expected HasNext=%v", test.hasNext)
			}
		})
	}
}

func TestMazeService_ListAndDeleteSessions(t *testing.T) {
	svc, info := newTestService(t)
	ctx := context.Background()
	svc.CreateSession(ctx, "", 0)

	sessions, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("Expected 2 sessions, got %d", len(sessions))
	}

	if err := svc.DeleteSession(ctx, info.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, info.ID); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected deleted session to be gone, got %v", err)
	}
}

func TestMazeService_Reset(t *testing.T) {
	svc, info := newTestService(t)
	ctx := context.Background()
	moves := solutionMoves(info.MazeState)

	svc.Move(ctx, info.ID, moves[0], false)
	svc.Solve(ctx, info.ID)

	state, err := svc.Reset(ctx, info.ID)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if state.PlayerPos != (engine.Position{X: 0, Y: 0}) || !state.PlayerCanMove || state.Revealed {
		t.Errorf("Expected fresh start on the same maze, got %+v", state)
	}
	if state.TotalMoves != 1 {
		t.Errorf("Expected cumulative history kept, got %d", state.TotalMoves)
	}
}

func TestMazeService_Configs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	config := engine.DefaultMazeConfig()
	config.Name = "custom"
	if err := svc.SaveConfig(ctx, "custom", config); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	configs, err := svc.ListConfigs(ctx)
	if err != nil {
		t.Fatalf("ListConfigs failed: %v", err)
	}
	if len(configs) != 2 {
		t.Errorf("Expected 2 configs, got %d", len(configs))
	}

	info, err := svc.CreateSession(ctx, "custom", 0)
	if err != nil {
		t.Fatalf("CreateSession with saved config failed: %v", err)
	}
	if info.MazeState.Size != engine.DefaultMazeSize {
		t.Errorf("Expected default size, got %d", info.MazeState.Size)
	}
}

func TestMazeService_StateIsSnapshot(t *testing.T) {
	svc, info := newTestService(t)
	ctx := context.Background()
	moves := solutionMoves(info.MazeState)

	before, err := svc.GetMazeState(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetMazeState failed: %v", err)
	}
	cell := before.Grid.Cells[0][0]

	result, err := svc.Move(ctx, info.ID, moves[0], false)
	if err != nil || !result.Success {
		t.Fatalf("Move failed: %v %+v", err, result)
	}

	if before.PlayerPos != (engine.Position{X: 0, Y: 0}) || before.CurrentMovesCount != 0 {
		t.Errorf("Earlier state changed after a move: pos %+v, moves %d", before.PlayerPos, before.CurrentMovesCount)
	}
	if result.MazeState.PlayerPos == before.PlayerPos {
		t.Error("Move result should carry the new position")
	}

	// Mutating a returned state does not reach the session
	before.Grid.Cells[0][0] = engine.AllWalls
	before.MoveHistory = append(before.MoveHistory, engine.MoveHistoryEntry{Action: "fake"})
	after, _ := svc.GetMazeState(ctx, info.ID)
	if after.Grid.Cells[0][0] != cell {
		t.Errorf("Session grid changed through a returned state: %d", after.Grid.Cells[0][0])
	}
	if len(after.MoveHistory) != 1 {
		t.Errorf("Expected 1 history entry, got %d", len(after.MoveHistory))
	}
}

func TestMazeService_ConcurrentAccess(t *testing.T) {
	svc := service.NewMazeService(session.NewManager(), NewMockConfigManager())
	ctx := context.Background()
	info, err := svc.CreateSession(ctx, "", 0)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	moves := solutionMoves(info.MazeState)

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				var state *engine.MazeState
				switch (g + i) % 6 {
				case 0:
					got, err := svc.GetSession(ctx, info.ID)
					if err != nil {
						errs <- err
						return
					}
					state = got.MazeState
					_ = got.LastAccessedAt
				case 1:
					result, err := svc.Move(ctx, info.ID, moves[0], true)
					if err != nil {
						errs <- err
						return
					}
					state = result.MazeState
				case 2:
					result, err := svc.BulkMove(ctx, info.ID, moves, true)
					if err != nil {
						errs <- err
						return
					}
					state = result.MazeState
				case 3:
					got, err := svc.GetMazeState(ctx, info.ID)
					if err != nil {
						errs <- err
						return
					}
					state = got
				case 4:
					if _, err := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{Limit: 5}); err != nil {
						errs <- err
						return
					}
				case 5:
					list, err := svc.ListSessions(ctx)
					if err != nil {
						errs <- err
						return
					}
					for _, s := range list {
						_ = s.LastAccessedAt
					}
				}
				// Responses are encoded after the service lock is released
				if state != nil {
					if _, err := json.Marshal(state); err != nil {
						errs <- err
						return
					}
				}
			}
		}(g)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent call failed: %v", err)
	}
}
