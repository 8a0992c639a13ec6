// Package api provides the HTTP REST API for Maze Runner.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session {config_id, size}
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/unified - Several sessions at once (?sessionIds=a,b or ?configName=)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Maze Operations:
//   - GET /api/sessions/{id}/state - Current maze state
//   - POST /api/sessions/{id}/generate - New maze {size}; size 0 keeps the current one
//   - POST /api/sessions/{id}/move - One move {direction, reset}
//   - POST /api/sessions/{id}/bulk-move - Up to 100 moves {moves, reset}
//   - POST /api/sessions/{id}/backtrack - Step back to the previous cell
//   - POST /api/sessions/{id}/solve - Shortest path from the start; locks movement
//     and replays the path over the session's websocket
//   - GET /api/sessions/{id}/hint - Shortest path from the player
//   - POST /api/sessions/{id}/reset - Player back to the start
//   - GET /api/sessions/{id}/history - Paginated moves (?page&limit&order)
//
// Stateless:
//   - POST /api/maze/generate - {size, seed} returns a grid
//   - POST /api/maze/solve - {grid} returns the shortest path
//
// Configuration:
//   - GET /api/configs - List presets
//   - GET /api/configs/{name} - Get a preset
//   - POST /api/configs - Save a preset; omitted fields take defaults
//
// Other:
//   - GET /health
//   - GET /ws?session={id} - WebSocket upgrade
//
// Error Handling:
//
// Errors are JSON {"error": "..."}. Unknown sessions and presets give 404,
// bad sizes, directions, presets and grids give 400, anything else 500.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	server := api.NewServer(mazeService, hub)
//	http.ListenAndServe(":8080", server)
package api
