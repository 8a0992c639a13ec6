package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
	"github.com/wricardo/mcp-training/mazerunner/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Maze Runner",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Maze Runner - MCP Interface

This is a thin client that proxies all requests to the REST API server.

OBJECTIVE:
Walk from S (top-left) to E (bottom-right) of a perfect maze. Walls block moves.

AVAILABLE TOOLS:
- create_session / list_sessions / get_session: manage mazes
- maze_state: draw the maze with your position (@)
- generate_maze: replace the maze, optionally with a new size
- move / bulk_move: walk (up/down/left/right) - explain your intent
- backtrack: step back to the previous cell
- describe_cell: walls and open sides of one cell
- hint: shortest path from where you stand (does not lock movement)
- solve_maze: full solution from the start (locks movement until reset/generate)
- reset_maze: back to the start of the same maze
- move_history: past moves
- list_configs: available presets
- maze_instructions: rules and tips`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func sessionOnlySchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]interface{}{"session_id": sessionProperty()},
		Required:   []string{"session_id"},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new maze session with optional preset and size",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset to use (optional, see list_configs)",
				},
				"size": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("Maze side length, 1-%d (optional, overrides the preset)", engine.MaxMazeSize),
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active maze sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: sessionOnlySchema(),
	}, c.handleGetSession)

	// Maze operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "maze_state",
		Description: "Get the current maze drawn as ASCII with the player position",
		InputSchema: sessionOnlySchema(),
	}, c.handleMazeState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "generate_maze",
		Description: "Generate a fresh maze for the session. Cancels any solution replay.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"size": map[string]interface{}{
					"type":        "integer",
					"description": "New side length (optional, keeps the current size)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGenerate)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the player one cell in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to move",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Return to the start before moving",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: fmt.Sprintf("Execute up to %d moves in sequence, stopping at the first wall", engine.MaxBulkMoves),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"up", "down", "left", "right"},
					},
					"description": "Array of moves",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Return to the start before moving",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "backtrack",
		Description: "Step back to the previously visited cell (one level of undo)",
		InputSchema: sessionOnlySchema(),
	}, c.handleBacktrack)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve_maze",
		Description: "Compute the shortest path from start to exit. Locks movement until reset_maze or generate_maze.",
		InputSchema: sessionOnlySchema(),
	}, c.handleSolve)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "hint",
		Description: "Shortest path from the player's current cell to the exit, without locking movement",
		InputSchema: sessionOnlySchema(),
	}, c.handleHint)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_maze",
		Description: "Return the player to the start of the same maze",
		InputSchema: sessionOnlySchema(),
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "List the walls and open sides of a single cell. Useful to double-check the drawing.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Column (0-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Row (0-based)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available maze presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "maze_instructions",
		Description: "Get the rules of the maze and tips for walking it",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

// intArg accepts JSON numbers, which arrive as float64
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	body := map[string]interface{}{}
	if configID := stringArg(args, "config_id"); configID != "" {
		body["config_id"] = configID
	}
	if size, ok := intArg(args, "size"); ok {
		body["size"] = size
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		size, status := 0, "playing"
		if s.MazeState != nil {
			size = s.MazeState.Size
			status = stateStatus(s.MazeState)
		}
		fmt.Fprintf(&b, "- %s (Config: %s, %dx%d, %s, Created: %s)\n",
			s.ID, s.ConfigName, size, size, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request.GetArguments(), "session_id")

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleMazeState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request.GetArguments(), "session_id")

	var state engine.MazeState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMazeState(&state, nil)), nil
}

func (c *Client) handleGenerate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := stringArg(args, "session_id")

	body := map[string]interface{}{}
	if size, ok := intArg(args, "size"); ok {
		body["size"] = size
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.MazeState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/generate"), body, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMazeState(response.State, nil)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := stringArg(args, "session_id")
	reset, _ := args["reset"].(bool)

	// intent is accepted for the caller's benefit only

	body := map[string]interface{}{
		"direction": stringArg(args, "direction"),
		"reset":     reset,
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := stringArg(args, "session_id")
	movesRaw, _ := args["moves"].([]interface{})
	reset, _ := args["reset"].(bool)

	moves := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if move, ok := m.(string); ok {
			moves = append(moves, move)
		}
	}

	body := map[string]interface{}{
		"moves": moves,
		"reset": reset,
	}

	var result service.BulkMoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
}

func (c *Client) handleBacktrack(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request.GetArguments(), "session_id")

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/backtrack"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleSolve(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request.GetArguments(), "session_id")

	var result service.SolveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/solve"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSolveResult("Solution", &result)), nil
}

func (c *Client) handleHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request.GetArguments(), "session_id")

	var result service.SolveResult
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/hint"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSolveResult("Hint", &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request.GetArguments(), "session_id")

	var response struct {
		Message string            `json:"message"`
		State   *engine.MazeState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatMazeState(response.State, nil))), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := stringArg(args, "session_id")

	query := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		query.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		query.Set("limit", fmt.Sprint(limit))
	}
	path := sessionPath(sessionID, "/history")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatHistory(&history)

	// Also show the moves since the last reset or generate
	var state engine.MazeState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err == nil {
		result += "\n" + formatCurrentSegment(&state)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := stringArg(args, "session_id")
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required integers"), nil
	}

	var state engine.MazeState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(describeCell(&state, x, y)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, cfg := range configs {
		seed := "random"
		if cfg.Seed != 0 {
			seed = fmt.Sprint(cfg.Seed)
		}
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n  Maze: %dx%d, Seed: %s\n\n",
			cfg.ConfigID, cfg.Name, cfg.Description, cfg.Size, cfg.Size, seed)
	}

	return mcp.NewToolResultText(b.String()), nil
}

const instructions = `Maze Runner - Instructions

OBJECTIVE:
Walk from the start S at (0,0), the top-left cell, to the exit E at (N-1,N-1),
the bottom-right cell.

THE MAZE:
• Every maze is perfect: exactly one route joins any two cells, no loops.
• x grows to the right, y grows downwards. "up" is y-1, "down" is y+1.
• Walls are drawn as +---+ and |. A gap means the two cells are connected.
• @ marks you, S the start, E the exit, . a path from solve_maze or hint.

MOVEMENT:
• up, down, left, right move one cell. A wall or the border refuses the move.
• bulk_move runs up to 100 moves and stops at the first refusal, telling you
  which move failed and why (wall, boundary, locked).
• backtrack undoes the last step only.
• reset=true on move/bulk_move returns to the start first.

SOLVING:
• hint shows the shortest path from where you stand and leaves you free to move.
• solve_maze shows the shortest path from the start and locks movement until
  reset_maze or generate_maze. Browser clients watching the session see the
  path replayed cell by cell.

TIPS:
• Read describe_cell when the drawing is ambiguous; it lists open sides exactly.
• In a perfect maze, following one wall always reaches the exit.
• Dead ends are cells with a single open side: turn back at once.

Good luck finding the way out!`

func (c *Client) handleInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func stateStatus(state *engine.MazeState) string {
	switch {
	case state.Victory:
		return "escaped"
	case !state.PlayerCanMove:
		return "solved"
	default:
		return "playing"
	}
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatMazeState(session.MazeState, nil))
}

// formatMazeState draws the maze with the player and, when given, a path
func formatMazeState(state *engine.MazeState, path engine.Path) string {
	if state == nil || state.Grid == nil {
		return "No maze state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Position: (%d,%d) | Exit: (%d,%d) | Size: %dx%d | Moves: %d\n",
		state.PlayerPos.X, state.PlayerPos.Y, state.End.X, state.End.Y,
		state.Size, state.Size, state.TotalMoves)

	if len(state.PossibleMoves) > 0 {
		moves := make([]string, len(state.PossibleMoves))
		for i, d := range state.PossibleMoves {
			moves[i] = string(d)
		}
		fmt.Fprintf(&b, "Possible moves: %s\n", strings.Join(moves, ","))
	}
	b.WriteString("\n")

	player := state.PlayerPos
	b.WriteString(state.Grid.Render(engine.RenderOptions{Path: path, Player: &player}))

	switch {
	case state.Victory:
		b.WriteString("\n🎉 ESCAPED!")
	case !state.PlayerCanMove:
		b.WriteString("\n🔒 Movement locked (solution shown). Reset or generate to play.")
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ Move successful\n")
	} else {
		b.WriteString("✗ Move failed\n")
	}

	if s := result.Step; s != nil {
		fmt.Fprintf(&b, "Step: %s (%d,%d)→(%d,%d) open=%s\n",
			s.Dir, s.From.X, s.From.Y, s.To.X, s.To.Y, openSides(s.Mask))
	}

	if a := result.AttemptedTo; a != nil {
		fmt.Fprintf(&b, "Blocked: attempted (%d,%d) reason=%s\n", a.X, a.Y, a.Reason)
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n" + formatMazeState(result.MazeState, nil))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	size, configName := 0, ""
	if result.MazeState != nil {
		size = result.MazeState.Size
		configName = result.MazeState.ConfigName
	}
	fmt.Fprintf(&b, "Session: %s • Config: %s • Maze: %dx%d\n", sessionID, configName, size, size)

	fmt.Fprintf(&b, "Executed %d/%d moves\n", result.MovesExecuted, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, "Truncated to the first %d moves\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on move %d: %s (%s)\n", result.StoppedOnMove, result.StoppedReason, result.StopReasonCode)
	}
	if a := result.AttemptedTo; a != nil {
		fmt.Fprintf(&b, "Attempted (%d,%d) reason=%s\n", a.X, a.Y, a.Reason)
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, s := range result.Steps {
			fmt.Fprintf(&b, "%d. %s (%d,%d)→(%d,%d) open=%s\n",
				s.Idx, s.Dir, s.From.X, s.From.Y, s.To.X, s.To.Y, openSides(s.Mask))
		}
	}

	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "\nPossible moves: %s\n", strings.Join(result.PossibleMoves, ","))
	}

	b.WriteString("\n")
	b.WriteString(formatMazeState(result.MazeState, nil))
	return b.String()
}

func formatSolveResult(title string, result *service.SolveResult) string {
	if !result.Found {
		return fmt.Sprintf("%s: no path to the exit\n\n%s", title, formatMazeState(result.MazeState, nil))
	}

	moves := make([]string, len(result.Moves))
	for i, d := range result.Moves {
		moves[i] = string(d)
	}

	return fmt.Sprintf("%s: %d cells, %d moves\nMoves: %s\n\n%s",
		title, result.Length, len(result.Moves), strings.Join(moves, ","),
		formatMazeState(result.MazeState, result.Path))
}

// openSides lists the directions a cell mask leaves open, in up/down/left/right order
func openSides(mask engine.Cell) string {
	var open []string
	for _, d := range []engine.Direction{engine.Up, engine.Down, engine.Left, engine.Right} {
		dx, dy := d.Offset()
		if engine.CanMove(mask, dx, dy) {
			open = append(open, string(d))
		}
	}
	if len(open) == 0 {
		return "none"
	}
	return strings.Join(open, ",")
}

func describeCell(state *engine.MazeState, x, y int) string {
	if state.Grid == nil || !state.Grid.InBounds(x, y) {
		return fmt.Sprintf("Coordinates (%d, %d) are out of bounds. Maze is %dx%d (0-%d for both x and y)",
			x, y, state.Size, state.Size, state.Size-1)
	}

	pos := engine.Position{X: x, Y: y}
	mask := state.Grid.At(pos)

	var walls []string
	for _, w := range []struct {
		bit  engine.Cell
		name string
	}{{engine.WallTop, "up"}, {engine.WallBottom, "down"}, {engine.WallLeft, "left"}, {engine.WallRight, "right"}} {
		if mask.HasWall(w.bit) {
			walls = append(walls, w.name)
		}
	}
	wallList := "none"
	if len(walls) > 0 {
		wallList = strings.Join(walls, ",")
	}

	var notes []string
	if pos == state.PlayerPos {
		notes = append(notes, "you are here")
	}
	if pos == state.Start {
		notes = append(notes, "start")
	}
	if pos == state.End {
		notes = append(notes, "exit")
	}
	if mask.Open() == 1 && pos != state.Start && pos != state.End {
		notes = append(notes, "dead end")
	}

	result := fmt.Sprintf("Cell (%d, %d)\nMask: %d\nWalls: %s\nOpen: %s",
		x, y, mask, wallList, openSides(mask))
	if len(notes) > 0 {
		result += "\nNotes: " + strings.Join(notes, ", ")
	}
	return result
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d), Total (cumulative): %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for i, move := range history.Moves {
		num := (history.Page-1)*history.PageSize + i + 1
		status := "✓"
		if !move.Success {
			status = "✗"
		}
		fmt.Fprintf(&b, "%d. %s %s (%d,%d)→(%d,%d)\n", num, move.Action, status,
			move.FromPosition.X, move.FromPosition.Y, move.ToPosition.X, move.ToPosition.Y)
	}

	return b.String()
}

func formatCurrentSegment(state *engine.MazeState) string {
	if state == nil {
		return "Current Segment: unavailable"
	}
	header := fmt.Sprintf("Current Move Segment, Moves: %d\n\n", state.CurrentMovesCount)
	if len(state.CurrentMoves) == 0 {
		return header + "(no moves in current segment)"
	}
	var b strings.Builder
	b.WriteString(header)
	for i, move := range state.CurrentMoves {
		status := "✓"
		if !move.Success {
			status = "✗"
		}
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, move.Action, status)
	}
	return b.String()
}
