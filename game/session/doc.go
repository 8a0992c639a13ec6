// Package session provides in-memory session management for Maze Runner.
//
// Each session owns its own engine.MazeEngine, so mazes, player positions
// and move histories never leak between sessions.
//
// Session Identifiers:
//
// Generated IDs are the first eight hex characters of a random UUID.
// Callers may also pick their own IDs; lookups are case-insensitive.
//
// Concurrency:
//
// The manager map is guarded by a sync.RWMutex. It does not serialize calls
// into a session's engine; the service layer does that.
//
// Usage:
//
//	manager := session.NewManager()
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//	sess.Engine.Move("right")
//
//	// Drop sessions idle for more than a day
//	removed := manager.CleanupExpiredSessions(24 * time.Hour)
//
// Sessions are not persisted; a restart starts from an empty manager.
package session
