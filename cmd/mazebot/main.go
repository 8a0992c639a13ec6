// Command mazebot plays a maze session over the REST API without looking at
// the grid. It only uses the position and open directions the server reports,
// following a wall or exploring depth first until it reaches the exit.
package main

import (
	"bytes"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
)

const sessionFile = ".session"

var errNoMove = errors.New("strategy has no move")

// runner drives one strategy against one session
type runner struct {
	client   *Client
	strategy Strategy
	maxMoves int
	delay    time.Duration
	verbose  bool
}

// attempt plays from state until victory, maxMoves or a dead strategy.
// It returns the final state and how many moves landed.
func (r *runner) attempt(state *engine.MazeState) (*engine.MazeState, int, error) {
	r.strategy.Reset()

	moveCount := 0
	for !state.Victory && moveCount < r.maxMoves {
		if r.verbose && moveCount%50 == 0 {
			log.Printf("Position: (%d,%d), Exit: (%d,%d), Moves: %d",
				state.PlayerPos.X, state.PlayerPos.Y, state.End.X, state.End.Y, moveCount)
		}

		direction := r.strategy.NextMove(state)
		if direction == "" {
			return state, moveCount, errNoMove
		}

		newState, err := r.client.Move(direction)
		if err != nil {
			if r.verbose {
				log.Printf("Move failed: %v", err)
			}
			if newState == nil {
				return state, moveCount, err
			}
			state = newState
			continue
		}
		state = newState
		moveCount++

		if r.delay > 0 {
			time.Sleep(r.delay)
		}
	}
	return state, moveCount, nil
}

// resume reuses a saved or given session, falling back to a new one
func resume(client *Client, savedID, configID string, size int) (*engine.MazeState, error) {
	if savedID != "" {
		client.sessionID = savedID
		log.Printf("🔄 Resuming session: %s", client.sessionID)
		state, err := client.GetState()
		if err == nil {
			return state, nil
		}
		log.Printf("⚠️  Failed to resume session (may be expired): %v", err)
		log.Printf("Creating new session...")
	}

	state, err := client.CreateSession(configID, size)
	if err != nil {
		return nil, err
	}
	log.Printf("✨ Session created: %s", client.sessionID)

	if err := os.WriteFile(sessionFile, []byte(client.sessionID), 0644); err != nil {
		log.Printf("Warning: Failed to save session ID: %v", err)
	}
	return state, nil
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Maze server URL")
	configID := flag.String("config", "", "Preset ID (classic, tiny, large, seeded)")
	size := flag.Int("size", 0, "Maze size override (0 = preset size)")
	strategyName := flag.String("strategy", "wall", "Strategy: wall (right-hand rule) or dfs")
	continueSession := flag.String("continue", "", "Resume playing an existing session by ID")
	maxMoves := flag.Int("max-moves", 5000, "Maximum moves per attempt")
	maxAttempts := flag.Int("max-attempts", 3, "Maximum attempts before giving up")
	verbose := flag.Bool("v", false, "Verbose output")
	delayMs := flag.Int("delay", 0, "Delay between moves in milliseconds (0 = no delay)")
	flag.Parse()

	strategy, ok := newStrategy(*strategyName)
	if !ok {
		log.Fatalf("Unknown strategy %q (want wall or dfs)", *strategyName)
	}

	log.Printf("Connecting to maze server at %s", *serverURL)
	client := NewClient(*serverURL)

	savedID := *continueSession
	if savedID == "" {
		if data, err := os.ReadFile(sessionFile); err == nil {
			savedID = string(bytes.TrimSpace(data))
		}
	}

	state, err := resume(client, savedID, *configID, *size)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	log.Printf("Maze %dx%d, Start: (%d,%d), Exit: (%d,%d)",
		state.Size, state.Size, state.Start.X, state.Start.Y, state.End.X, state.End.Y)

	r := &runner{
		client:   client,
		strategy: strategy,
		maxMoves: *maxMoves,
		delay:    time.Duration(*delayMs) * time.Millisecond,
		verbose:  *verbose,
	}

	for attemptNum := 1; attemptNum <= *maxAttempts; attemptNum++ {
		// Every attempt starts from the entrance with movement unlocked
		state, err = client.Reset()
		if err != nil {
			log.Fatalf("Failed to reset maze: %v", err)
		}

		log.Printf("\n=== 🎮 Attempt %d/%d (%s) ===", attemptNum, *maxAttempts, *strategyName)

		var moveCount int
		state, moveCount, err = r.attempt(state)
		if err != nil {
			log.Printf("Attempt %d stopped: %v", attemptNum, err)
		}
		log.Printf("Attempt %d: Moves=%d, Position=(%d,%d)", attemptNum, moveCount, state.PlayerPos.X, state.PlayerPos.Y)

		if state.Victory {
			log.Printf("\n🎉 ESCAPED! Exit reached in attempt %d with %d moves!", attemptNum, moveCount)
			log.Printf("Session: %s", client.sessionID)
			os.Exit(0)
		}
	}

	log.Printf("\n❌ Failed to escape after %d attempts", *maxAttempts)
	log.Printf("Session: %s", client.sessionID)
	os.Exit(1)
}
