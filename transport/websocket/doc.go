// Package websocket pushes Maze Runner session updates to browsers.
//
// A central Hub owns every connection. Clients join a session with the
// session query parameter and only receive that session's messages.
// All outbound traffic goes through the hub's broadcast channel, so the
// session map is touched by the Run goroutine alone.
//
// Message Protocol:
//
// Outgoing messages are JSON objects {session_id, event, maze_state, data}:
//   - state_update carries the full MazeState after a change
//   - solution_step carries one RevealStep while a solution is replayed
//   - solution_complete carries the whole path once the replay ends
//   - solution_cancelled is sent when a replay is interrupted
//
// Several queued messages may share one frame, separated by '\n'.
// Incoming messages are ignored.
//
// Solution Reveal:
//
// RevealPath replays an already computed path at a fixed interval on its
// own goroutine. Starting a new reveal or calling CancelReveal stops the
// previous one for that session; the API cancels reveals on generate and
// reset so a stale path never streams over a new maze.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
