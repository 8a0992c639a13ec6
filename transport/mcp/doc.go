// Package mcp exposes Maze Runner to AI agents over the Model Context Protocol.
//
// The Client holds no maze state. Every tool call is translated into a
// request against the REST API and the JSON reply is rendered as text,
// including an ASCII drawing of the maze.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - maze_state: current maze with the player marked @
//   - generate_maze: new maze for a session, optionally resized
//   - move, bulk_move: walk the maze; bulk_move stops at the first refusal
//   - backtrack: one level of undo
//   - solve_maze: shortest path from the start, locks movement
//   - hint: shortest path from the player, movement stays free
//   - reset_maze: player back to the start
//   - move_history: paginated moves plus the current segment
//   - describe_cell: walls and open sides of one cell
//   - list_configs: available presets
//   - maze_instructions: rules and tips
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer()) for local agents
//   - HTTP: GetMCPServer().HandleMessage behind a POST /mcp route
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
